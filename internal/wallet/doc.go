// Package wallet owns the active wallet interface and keeps the address,
// network and balance slices wired to it.
//
// # Lifecycle
//
//	Disconnected ──Connect(A)──→ Connected(A) ──Connect(B)──→ Connected(B)
//	     ↑                            │                            │
//	     └────────Disconnect()────────┴────────────────────────────┘
//
// Every transition, in order:
//
//  1. cancel every handle returned by the previous attachments
//  2. reset every slice that is not already unsynced
//  3. when connecting, call SetStateSyncer for each slice the interface
//     drives and keep the returned handles
//  4. when connecting, reset the registered checks
//
// Connect validates the interface first. An invalid interface returns an
// error and the active interface stays what it was.
//
// The balance slice is only driven when Options.SyncBalance is set.
//
// # Combined View
//
// NewView derives a State from the active interface, the three slices, the
// ledger and the application fields in AppState. Addresses are shown in their
// EIP-55 form and balances in ether.
package wallet
