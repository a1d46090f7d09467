// Package state provides the per-field slice stores that mirror a connected
// wallet's address, network and balance.
//
// # Overview
//
// A Store wraps one observable cell for one synchronized field. An external
// source (the active wallet interface) drives the store through a Syncer,
// either by pushing changes or by exposing a getter that the store polls.
// The store tracks each in-flight operation in the shared ledger and can be
// reset and re-wired whenever the source changes.
//
// # Architecture
//
//	Wallet interface             Store                        Readers
//	┌────────────────┐          ┌──────────────────┐          ┌──────────┐
//	│ Syncer.OnChange│──push───→│ apply() filter   │          │          │
//	│      or        │          │      ↓           │──cell───→│ Subscribe│
//	│ Syncer.Get     │←─poll────│ interval ticks   │          │ Get      │
//	└────────────────┘          │      ↓           │          └──────────┘
//	                            │ ledger.Set/Clear │
//	                            └──────────────────┘
//
// # Slice Values
//
// A store holds a Value: the field plus a Phase.
//
//   - PhaseInitial: the value the store was built with; nothing synced yet
//   - PhaseUnsynced: set by Reset when the driving interface goes away
//   - PhaseSynced: the last value written by a syncer
//
// Get always reads the cell; there is no second cache.
//
// # Attaching a Syncer
//
// SetStateSyncer validates the syncer and then picks one strategy:
//
//	OnChange present → register callback (Get is ignored)
//	Get present      → start an interval schedule (default 200ms)
//	neither          → nothing to do, (nil, nil)
//
// Both paths return a Canceler. Cancelling a poll schedule stops future ticks
// and discards any tick still waiting on Get. Cancelling a push subscription
// calls the provider's unsubscribe and drops any callback that still arrives.
//
// # Write Filter
//
// A zero value ("", 0, nil) is not written while the store still holds its
// initial value. Anything else is written, and once the store has moved off
// its initial value zero values are written too:
//
//	store at initial,  update ""    → suppressed
//	store at initial,  update "0x1" → written
//	store synced,      update ""    → written
//	store unsynced,    update ""    → written
//
// # Ledger Entries
//
// Poll path: every tick puts a fresh *ledger.Pending in the ledger, resolves it
// when Get returns and clears the entry back to idle. Push path: one Pending is
// installed at attach time and resolved by the first callback, whether or not
// that value passed the write filter.
//
// # Error Handling
//
//   - Configuration errors (nil syncer, store built for a slice the ledger does
//     not know) are returned as *ConfigError and abort the attach.
//   - A failing Get is logged at warn level with the slice name, the ledger
//     entry goes idle, the value is untouched, and polling continues.
//   - A tick that finishes after its schedule was cancelled is dropped without
//     logging.
//
// # Concurrency
//
// Ticks of one schedule may overlap; the last one to finish wins. A store's
// subscribers run on whichever goroutine wrote the value, and must not cancel
// the schedule that is delivering to them.
package state
