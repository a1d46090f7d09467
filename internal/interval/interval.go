// Package interval runs a function on a fixed cadence until cancelled.
package interval

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultEvery is the cadence used when a non-positive interval is given.
const DefaultEvery = 200 * time.Millisecond

// Func is one tick. ctx is cancelled when the handle is; h lets the tick
// guard its writes against a cancellation that lands mid-flight.
type Func func(ctx context.Context, h *Handle)

// Handle controls one running schedule.
type Handle struct {
	id     uuid.UUID
	every  time.Duration
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex // held for writing by Cancel, for reading by Guard
	active bool
}

// Start launches a background loop that calls fn every interval, the first
// call one interval from now. Each tick runs on its own goroutine, so a slow
// tick does not delay the next one. It returns immediately.
func Start(ctx context.Context, every time.Duration, fn Func) *Handle {
	if every <= 0 {
		every = DefaultEvery
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:     uuid.New(),
		every:  every,
		cancel: cancel,
		done:   make(chan struct{}),
		active: true,
	}
	go h.run(ctx, fn)
	return h
}

func (h *Handle) run(ctx context.Context, fn Func) {
	defer close(h.done)
	defer h.Cancel()

	ticker := time.NewTicker(h.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.Active() {
				return
			}
			go fn(ctx, h)
		}
	}
}

// ID identifies the schedule in logs.
func (h *Handle) ID() uuid.UUID { return h.id }

// Every is the cadence the schedule runs at.
func (h *Handle) Every() time.Duration { return h.every }

// Active reports whether the schedule is still running.
func (h *Handle) Active() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.active
}

// Cancel stops future ticks and marks the handle inactive. It waits for any
// Guard call already running, so no guarded write happens after it returns.
// Cancel is idempotent.
func (h *Handle) Cancel() {
	h.mu.Lock()
	h.active = false
	h.mu.Unlock()
	h.cancel()
}

// Guard runs write only while the handle is active and reports whether it ran.
// write must not cancel this handle.
func (h *Handle) Guard(write func()) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.active {
		return false
	}
	write()
	return true
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }
