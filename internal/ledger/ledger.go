// Package ledger tracks, per slice, the sync operation currently in flight.
//
// The key set is fixed when the ledger is built. Every known slice always has
// exactly one entry: nil while idle, or the *Pending of the running operation.
// Entries are overwritten, never removed.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hubble-exchange/web3-onboard/internal/events"
	"github.com/hubble-exchange/web3-onboard/internal/observable"
)

// ErrUnknownSlice is returned when a name outside the ledger's key set is used.
var ErrUnknownSlice = errors.New("unknown slice")

// Entries maps slice name to its in-flight operation (nil when idle).
type Entries map[string]*Pending

// Ledger is the process-wide sync status map.
type Ledger struct {
	mu    sync.Mutex // serializes writers
	names []string
	cell  *observable.Cell[Entries]
	bus   *events.Bus
}

// New builds a ledger for names. bus may be nil.
func New(bus *events.Bus, names ...string) *Ledger {
	entries := make(Entries, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := entries[name]; ok {
			continue
		}
		entries[name] = nil
		unique = append(unique, name)
	}
	sort.Strings(unique)
	return &Ledger{
		names: unique,
		cell:  observable.NewCell(entries),
		bus:   bus,
	}
}

// Names returns the fixed key set in sorted order.
func (l *Ledger) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Has reports whether name is a known slice.
func (l *Ledger) Has(name string) bool {
	_, ok := l.cell.Get()[name]
	return ok
}

// Get returns the entry for name; ok is false for unknown names.
func (l *Ledger) Get(name string) (p *Pending, ok bool) {
	p, ok = l.cell.Get()[name]
	return p, ok
}

// Set overwrites the entry for name. p may be nil to mark the slice idle.
func (l *Ledger) Set(name string, p *Pending) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.cell.Get()
	if _, ok := current[name]; !ok {
		return fmt.Errorf("ledger set %q: %w", name, ErrUnknownSlice)
	}
	l.store(current, name, p)
	return nil
}

// Clear marks name idle, but only if p is still its entry. It reports whether
// the entry was cleared. Overlapping ticks use this so a finished operation
// does not idle a newer one.
func (l *Ledger) Clear(name string, p *Pending) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.cell.Get()
	entry, ok := current[name]
	if !ok || entry != p || p == nil {
		return false
	}
	l.store(current, name, nil)
	return true
}

// Swap replaces the entry for name with p, but only if old is still its
// entry. Swapping an entry for itself republishes it.
func (l *Ledger) Swap(name string, old, p *Pending) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.cell.Get()
	entry, ok := current[name]
	if !ok || entry != old || old == nil {
		return false
	}
	l.store(current, name, p)
	return true
}

func (l *Ledger) store(current Entries, name string, p *Pending) {
	next := make(Entries, len(current))
	for k, v := range current {
		next[k] = v
	}
	next[name] = p
	l.cell.Set(next)
	l.bus.Publish(events.TopicSyncStatus, name, p != nil && !p.Resolved())
}

// Snapshot returns a copy of every entry.
func (l *Ledger) Snapshot() Entries {
	current := l.cell.Get()
	out := make(Entries, len(current))
	for k, v := range current {
		out[k] = v
	}
	return out
}

// Syncing lists, in sorted order, the slices whose entry has not resolved.
func (l *Ledger) Syncing() []string {
	current := l.cell.Get()
	var out []string
	for _, name := range l.names {
		if p := current[name]; p != nil && !p.Resolved() {
			out = append(out, name)
		}
	}
	return out
}

// Subscribe registers fn for the current and every future set of entries.
// fn must not write to the ledger.
func (l *Ledger) Subscribe(fn func(Entries)) func() {
	return l.cell.Subscribe(fn)
}

// Notify implements observable.Notifier.
func (l *Ledger) Notify(fn func()) func() {
	return l.cell.Notify(fn)
}
