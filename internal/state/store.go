package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hubble-exchange/web3-onboard/internal/interval"
	"github.com/hubble-exchange/web3-onboard/internal/ledger"
	"github.com/hubble-exchange/web3-onboard/internal/observable"
)

// Phase says where a slice value came from.
type Phase uint8

const (
	// PhaseInitial is the value the store was built with; nothing has
	// connected yet.
	PhaseInitial Phase = iota
	// PhaseUnsynced follows a Reset and holds until a syncer writes.
	PhaseUnsynced
	// PhaseSynced means a syncer wrote the value.
	PhaseSynced
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseUnsynced:
		return "unsynced"
	case PhaseSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// Value is the content of a slice.
type Value[T comparable] struct {
	V     T
	Phase Phase
}

// IsSynced reports whether V was written by a syncer.
func (v Value[T]) IsSynced() bool { return v.Phase == PhaseSynced }

// Option configures a Store.
type Option func(*options)

type options struct {
	interval time.Duration
	ctx      context.Context
	log      *zap.Logger
	observer Observer
}

// WithInterval sets the poll cadence. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithContext bounds every schedule the store starts.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithLogger sets the logger used for poll failures.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithObserver receives every sync outcome.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// Store is one synchronized slice.
type Store[T comparable] struct {
	parameter string
	initial   T
	interval  time.Duration
	ctx       context.Context
	ledger    *ledger.Ledger
	log       *zap.Logger
	observer  Observer
	cell      *observable.Cell[Value[T]]
}

// NewStore builds a store for parameter holding initial. parameter must be one
// of the ledger's slices.
func NewStore[T comparable](parameter string, initial T, l *ledger.Ledger, opts ...Option) (*Store[T], error) {
	if l == nil {
		return nil, &ConfigError{Slice: parameter, Field: "ledger", Reason: "is required"}
	}
	if !l.Has(parameter) {
		return nil, &ConfigError{Slice: parameter, Field: "parameter", Reason: "is not a ledger slice", Err: ledger.ErrUnknownSlice}
	}

	o := options{
		interval: interval.DefaultEvery,
		ctx:      context.Background(),
		log:      zap.NewNop(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[T]{
		parameter: parameter,
		initial:   initial,
		interval:  o.interval,
		ctx:       o.ctx,
		ledger:    l,
		log:       o.log.With(zap.String("slice", parameter)),
		observer:  o.observer,
		cell:      observable.NewCell(Value[T]{V: initial, Phase: PhaseInitial}),
	}, nil
}

// Name is the slice name; it keys the ledger.
func (s *Store[T]) Name() string { return s.parameter }

// Initial is the value the store was built with.
func (s *Store[T]) Initial() T { return s.initial }

// Interval is the poll cadence used for Get-based syncers.
func (s *Store[T]) Interval() time.Duration { return s.interval }

// Get returns the current value.
func (s *Store[T]) Get() Value[T] { return s.cell.Get() }

// Subscribe registers fn for the current and every future value.
func (s *Store[T]) Subscribe(fn func(Value[T])) func() { return s.cell.Subscribe(fn) }

// Notify implements observable.Notifier.
func (s *Store[T]) Notify(fn func()) func() { return s.cell.Notify(fn) }

// IsUnsynced reports whether the store holds the reset sentinel.
func (s *Store[T]) IsUnsynced() bool { return s.cell.Get().Phase == PhaseUnsynced }

// Reset puts the store in the unsynced state. Resetting an unsynced store does
// nothing.
func (s *Store[T]) Reset() {
	if s.IsUnsynced() {
		return
	}
	s.cell.Set(Value[T]{Phase: PhaseUnsynced})
}

// apply writes v unless it is a zero value arriving while the store still
// holds its initial value.
func (s *Store[T]) apply(v T) Outcome {
	var zero T
	if v == zero && s.cell.Get() == (Value[T]{V: s.initial, Phase: PhaseInitial}) {
		return OutcomeSuppressed
	}
	s.cell.Set(Value[T]{V: v, Phase: PhaseSynced})
	return OutcomeApplied
}

func (s *Store[T]) observe(src Source, outcome Outcome, started time.Time, err error) {
	s.observer.ObserveSync(SyncEvent{
		Slice:    s.parameter,
		Source:   src,
		Outcome:  outcome,
		Duration: time.Since(started),
		Err:      err,
	})
}
