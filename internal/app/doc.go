// Package app is the composition root for walletsync.
//
// # Overview
//
// Run wires configuration, logging, the event bus, the sync status ledger,
// the three slice stores, the coordinator, the combined view, metrics and the
// scenario player, then hands control to the terminal UI or to the headless
// reporter.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read walletsync config
//	       ├─────> logging.New()        zap console and/or rotated file
//	       ├─────> simulate.Load()      Optional scenario
//	       ├─────> newEngine()          bus, ledger, slices, coordinator, view
//	       ├─────> serveMetrics()       Optional Prometheus endpoint
//	       └─────> ui.Run()             TUI (blocks)
//	          or   runHeadless()        Player timeline + StartReporter()
//
//	Engine:
//	┌─────────────────────────────────────────────┐
//	│ Player ──Connect/Disconnect──> Coordinator  │
//	│   Coordinator ──attach──> Store[T] syncers  │
//	│   Store[T] ──pending──> Ledger ──> Bus      │
//	│   Store/Ledger/Interface ──> View (Derived) │
//	│   View ──> UI model or reporter             │
//	└─────────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file unreadable or invalid
//   - Log level invalid or log file not creatable
//   - Scenario unreadable or invalid
//   - Metrics address cannot be bound
//
// Recoverable errors (logged, engine continues):
//   - Poll failures, which the slice stores log and count
//   - Scenario steps whose wallet fails validation
//
// # Headless Mode
//
// runHeadless plays the scenario timeline, logs the combined state at most
// once per report interval when it changed, and returns one interval after
// the last step so the final state gets reported. Without a scenario it runs
// until the context is cancelled.
package app
