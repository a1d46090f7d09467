package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hubble-exchange/web3-onboard/internal/interval"
	"github.com/hubble-exchange/web3-onboard/internal/ledger"
)

// SetStateSyncer attaches syncer to the store. It returns the Canceler for
// what it started, or nil when the syncer has neither OnChange nor Get.
// Callers keep the Canceler and cancel it when the source goes away.
func (s *Store[T]) SetStateSyncer(syncer *Syncer[T]) (Canceler, error) {
	if err := syncer.Validate(s.parameter); err != nil {
		return nil, err
	}
	switch {
	case syncer.OnChange != nil:
		return s.attachPush(syncer.OnChange), nil
	case syncer.Get != nil:
		return s.attachPoll(syncer.Get), nil
	default:
		return nil, nil
	}
}

func (s *Store[T]) attachPush(onChange func(func(T)) func()) Canceler {
	first := ledger.NewPending(s.parameter)
	s.markPending(first)

	sub := &pushSubscription{
		active: true,
		onCancel: func() {
			first.Resolve(context.Canceled)
			s.ledger.Clear(s.parameter, first)
		},
	}
	var firstSeen sync.Once
	unsubscribe := onChange(func(v T) {
		started := time.Now()
		firstSeen.Do(func() {
			first.Resolve(nil)
			// republish so readers see the entry settle; a later attachment
			// may own the entry by now
			s.ledger.Swap(s.parameter, first, first)
		})
		outcome := OutcomeDiscarded
		sub.guard(func() { outcome = s.apply(v) })
		s.observe(SourcePush, outcome, started, nil)
	})
	sub.setUnsubscribe(unsubscribe)
	return sub
}

func (s *Store[T]) attachPoll(get func(context.Context) (T, error)) Canceler {
	h := interval.Start(s.ctx, s.interval, func(ctx context.Context, h *interval.Handle) {
		s.poll(ctx, h, get)
	})
	s.log.Debug("poll schedule started", zap.Stringer("handle", h.ID()), zap.Duration("every", h.Every()))
	return h
}

func (s *Store[T]) poll(ctx context.Context, h *interval.Handle, get func(context.Context) (T, error)) {
	started := time.Now()
	p := ledger.NewPending(s.parameter)
	if !h.Guard(func() { s.markPending(p) }) {
		return
	}

	v, err := get(ctx)
	if err != nil {
		p.Resolve(err)
		s.ledger.Clear(s.parameter, p)
		if !h.Active() {
			s.observe(SourcePoll, OutcomeDiscarded, started, nil)
			return
		}
		s.log.Warn("slice sync failed", zap.Stringer("op", p.ID()), zap.Error(err))
		s.observe(SourcePoll, OutcomeFailed, started, err)
		return
	}

	outcome := OutcomeDiscarded
	h.Guard(func() { outcome = s.apply(v) })
	p.Resolve(nil)
	s.ledger.Clear(s.parameter, p)
	s.observe(SourcePoll, outcome, started, nil)
}

// markPending records p as the slice's in-flight operation. NewStore checked
// the parameter against the ledger, so Set cannot fail.
func (s *Store[T]) markPending(p *ledger.Pending) {
	_ = s.ledger.Set(s.parameter, p)
}

// pushSubscription is the Canceler for an OnChange registration.
type pushSubscription struct {
	mu          sync.RWMutex
	active      bool
	unsubscribe func()
	onCancel    func()
}

func (p *pushSubscription) Active() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// Cancel drops every later callback, unregisters from the provider and
// idles the ledger entry if the first callback never came.
func (p *pushSubscription) Cancel() {
	p.mu.Lock()
	p.active = false
	unsubscribe, onCancel := p.unsubscribe, p.onCancel
	p.unsubscribe, p.onCancel = nil, nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if onCancel != nil {
		onCancel()
	}
}

func (p *pushSubscription) guard(write func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.active {
		return false
	}
	write()
	return true
}

func (p *pushSubscription) setUnsubscribe(fn func()) {
	p.mu.Lock()
	if p.active {
		p.unsubscribe = fn
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}
