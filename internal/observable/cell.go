package observable

import "sync"

// Notifier is implemented by anything that can report "my value changed".
type Notifier interface {
	Notify(fn func()) (unsubscribe func())
}

// Cell holds a value and notifies subscribers on every Set.
//
// Deliveries for one cell are serialized and arrive in Set order. A callback
// must not call Set, Update or Subscribe on the cell that is delivering to it.
type Cell[T any] struct {
	deliver sync.Mutex // serializes Set/Update/Subscribe deliveries

	mu     sync.RWMutex
	value  T
	subs   []subscriber[T]
	nextID uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// NewCell returns a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies every subscriber.
func (c *Cell[T]) Set(v T) {
	c.deliver.Lock()
	defer c.deliver.Unlock()
	c.setLocked(v)
}

// Update replaces the value with fn(current) and notifies every subscriber.
// fn runs while deliveries are held, so concurrent updates never interleave.
func (c *Cell[T]) Update(fn func(T) T) {
	c.deliver.Lock()
	defer c.deliver.Unlock()
	c.setLocked(fn(c.Get()))
}

func (c *Cell[T]) setLocked(v T) {
	c.mu.Lock()
	c.value = v
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn and calls it with the current value right away.
// The returned function removes the subscription; calling it twice is safe.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	c.deliver.Lock()
	defer c.deliver.Unlock()

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	current := c.value
	c.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { c.remove(id) })
	}
}

// Notify implements Notifier.
func (c *Cell[T]) Notify(fn func()) func() {
	return c.Subscribe(func(T) { fn() })
}

func (c *Cell[T]) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subs {
		if sub.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}
