package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pending is one in-flight sync operation for a slice. It completes exactly
// once; later Resolve calls are ignored.
type Pending struct {
	id      uuid.UUID
	slice   string
	started time.Time

	once sync.Once
	done chan struct{}
	err  error
}

// NewPending starts tracking an operation for slice.
func NewPending(slice string) *Pending {
	return &Pending{
		id:      uuid.New(),
		slice:   slice,
		started: time.Now(),
		done:    make(chan struct{}),
	}
}

// ID identifies the operation in logs.
func (p *Pending) ID() uuid.UUID { return p.id }

// Slice names the slice the operation belongs to.
func (p *Pending) Slice() string { return p.slice }

// Started is when the operation was created.
func (p *Pending) Started() time.Time { return p.started }

// Done is closed once the operation resolves.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Resolved reports whether Resolve has been called.
func (p *Pending) Resolved() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Err returns the failure the operation resolved with. It is nil while the
// operation is still running.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Resolve completes the operation. Only the first call has any effect.
func (p *Pending) Resolve(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Wait blocks until the operation resolves or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
