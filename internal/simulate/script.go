package simulate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hubble-exchange/web3-onboard/internal/state"
)

// Scripted slice modes.
const (
	ModePoll = "poll"
	ModePush = "push"
)

// ErrScripted is returned by a polled script on its scheduled failures.
var ErrScripted = errors.New("scripted failure")

// Script describes how a fake wallet reports one slice. Values advance every
// Every (holding the last one); a zero Every holds the first value forever.
type Script[T comparable] struct {
	Mode      string
	Values    []T
	Every     time.Duration
	Latency   time.Duration
	FailEvery int // every Nth poll fails; zero never fails

	now func() time.Time
}

// Syncer returns a fresh syncer. Each call starts its own timeline.
func (s *Script[T]) Syncer() *state.Syncer[T] {
	if s == nil {
		return nil
	}
	run := &scriptRun[T]{script: s, start: s.clock()(), now: s.clock()}
	if s.Mode == ModePush {
		return &state.Syncer[T]{OnChange: run.onChange}
	}
	return &state.Syncer[T]{Get: run.get}
}

func (s *Script[T]) clock() func() time.Time {
	if s.now != nil {
		return s.now
	}
	return time.Now
}

func (s *Script[T]) valueAt(elapsed time.Duration) T {
	if len(s.Values) == 0 {
		var zero T
		return zero
	}
	idx := 0
	if s.Every > 0 {
		idx = int(elapsed / s.Every)
	}
	if idx >= len(s.Values) {
		idx = len(s.Values) - 1
	}
	return s.Values[idx]
}

type scriptRun[T comparable] struct {
	script *Script[T]
	start  time.Time
	now    func() time.Time

	mu    sync.Mutex
	calls int
}

func (r *scriptRun[T]) get(ctx context.Context) (T, error) {
	var zero T
	if r.script.Latency > 0 {
		timer := time.NewTimer(r.script.Latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	r.mu.Lock()
	r.calls++
	calls := r.calls
	r.mu.Unlock()

	if n := r.script.FailEvery; n > 0 && calls%n == 0 {
		return zero, ErrScripted
	}
	return r.script.valueAt(r.now().Sub(r.start)), nil
}

func (r *scriptRun[T]) onChange(update func(T)) func() {
	stop := make(chan struct{})
	var once sync.Once
	go r.emit(update, stop)
	return func() { once.Do(func() { close(stop) }) }
}

// emit pushes the first value after Latency, then each later value one Every
// apart, and returns once the last value went out or stop closes.
func (r *scriptRun[T]) emit(update func(T), stop <-chan struct{}) {
	values := r.script.Values
	if len(values) == 0 {
		return
	}
	wait := r.script.Latency
	for i := range values {
		timer := time.NewTimer(wait)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}
		update(values[i])
		if r.script.Every <= 0 {
			return
		}
		wait = r.script.Every
	}
}
