package observable

import "sync"

// Derived is a read-only value recomputed whenever one of its sources changes.
type Derived[T any] struct {
	cell    *Cell[T]
	compute func() T

	mu    sync.Mutex
	stops []func()
}

// Derive builds a Derived from compute and subscribes it to every source.
// compute reads the sources itself; it is re-run on each change notification.
func Derive[T any](compute func() T, sources ...Notifier) *Derived[T] {
	d := &Derived[T]{
		cell:    NewCell(compute()),
		compute: compute,
	}
	stops := make([]func(), 0, len(sources))
	for _, src := range sources {
		stops = append(stops, src.Notify(d.recompute))
	}
	d.mu.Lock()
	d.stops = stops
	d.mu.Unlock()
	return d
}

func (d *Derived[T]) recompute() {
	d.cell.Update(func(T) T { return d.compute() })
}

// Get returns the latest computed value.
func (d *Derived[T]) Get() T {
	return d.cell.Get()
}

// Subscribe registers fn for the current and every future value.
func (d *Derived[T]) Subscribe(fn func(T)) func() {
	return d.cell.Subscribe(fn)
}

// Notify implements Notifier so derived values can feed other derived values.
func (d *Derived[T]) Notify(fn func()) func() {
	return d.cell.Notify(fn)
}

// Close detaches from every source. The last value stays readable.
func (d *Derived[T]) Close() {
	d.mu.Lock()
	stops := d.stops
	d.stops = nil
	d.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}
