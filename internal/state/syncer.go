package state

import (
	"context"
	"fmt"
)

// Syncer tells a store how to follow an external value. OnChange takes
// priority when both are set.
type Syncer[T comparable] struct {
	// Get returns the current value. It is called once per poll tick.
	Get func(ctx context.Context) (T, error)
	// OnChange registers update for push notifications and returns a function
	// that removes it. The returned function may be nil.
	OnChange func(update func(T)) (unsubscribe func())
}

// Validate checks the syncer can be attached to slice.
func (s *Syncer[T]) Validate(slice string) error {
	if s == nil {
		return &ConfigError{Slice: slice, Field: "syncer", Reason: "must not be nil"}
	}
	return nil
}

// Mode reports which strategy the syncer would be attached with.
func (s *Syncer[T]) Mode() string {
	switch {
	case s == nil:
		return "none"
	case s.OnChange != nil:
		return string(SourcePush)
	case s.Get != nil:
		return string(SourcePoll)
	default:
		return "none"
	}
}

// ConfigError is a fatal configuration problem found while attaching a syncer
// or connecting an interface.
type ConfigError struct {
	Slice  string
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Slice == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Slice, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Canceler stops whatever a syncer attachment started.
type Canceler interface {
	Cancel()
	Active() bool
}
