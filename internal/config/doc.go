// Package config loads walletsync's TOML configuration.
//
// # Configuration Discovery
//
// Load resolves the config path in this order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/walletsync/config.toml
//  3. If the file doesn't exist, fall back to Defaults()
//  4. If the file exists but fields are missing or blank, use defaults
//
// # TOML Format
//
//	[app]
//	name = "exchange"
//	network_id = 1
//
//	[sync]
//	interval_ms = 200          # shared poll cadence
//	network_interval_ms = 1000 # per-slice overrides
//	balance = false            # drive the balance slice
//
//	[log]
//	level = "info"
//	file = "~/.local/share/walletsync/walletsync.log"
//
//	[metrics]
//	addr = "127.0.0.1:9464"
//
//	[ui]
//	theme = "Nightfox"  # Nightfox, Kanagawa or Slate
//
// Every field is optional. Tilde expansion is applied to the config path and
// to log.file. A network_id of zero means the app does not require a
// particular network, so the wrong-network badge never shows.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors (prefixed "parse config"). A missing
// file is not an error.
package config
