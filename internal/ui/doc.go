// Package ui provides the Bubble Tea terminal view of the wallet state.
//
// # Architecture Overview
//
// Run subscribes to the combined wallet view and forwards each new
// wallet.State into the program through a single-slot channel, so a slow
// terminal only ever renders the newest state. The model itself never
// touches the sync engine: key presses go through a Controller (normally a
// simulate.Player) inside tea.Cmds, and the resulting state changes come
// back through the view subscription.
//
// # Package Structure
//
//   - app.go: Model, messages, commands and Run
//   - render.go: header, slice panel and footer rendering
//   - keys.go: key bindings (bubbles/key) and help
//   - theme.go: palettes and Lipgloss styles
//
// # Screen
//
// The header shows the app name, the connected wallet (or "disconnected")
// and a wrong-network badge when the wallet's network differs from the one
// the app expects. The panel lists address, network and balance with each
// slice's phase; a spinner replaces the phase while the ledger shows a
// pending sync for that slice.
//
// # Keys
//
//   - n: connect the next scripted wallet
//   - d: disconnect
//   - T: cycle theme
//   - ?: toggle full help
//   - q, ctrl+c: quit
package ui
