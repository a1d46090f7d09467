package state

import "time"

// Source is the strategy that produced a sync event.
type Source string

const (
	SourcePoll Source = "poll"
	SourcePush Source = "push"
)

// Outcome is what happened to a value delivered by a syncer.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeDiscarded  Outcome = "discarded"
	OutcomeFailed     Outcome = "failed"
)

// SyncEvent describes one delivery from a syncer.
type SyncEvent struct {
	Slice    string
	Source   Source
	Outcome  Outcome
	Duration time.Duration
	Err      error
}

// Observer receives every SyncEvent a store produces.
type Observer interface {
	ObserveSync(SyncEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(SyncEvent)

// ObserveSync implements Observer.
func (f ObserverFunc) ObserveSync(e SyncEvent) {
	if f != nil {
		f(e)
	}
}

type noopObserver struct{}

func (noopObserver) ObserveSync(SyncEvent) {}
