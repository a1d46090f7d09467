// Package simulate drives the sync engine with scripted wallets.
//
// A scenario file declares fake wallets and, per slice, whether the wallet
// is polled or pushes, which values it reports, how fast they change, how
// slow each read is and how often a read fails:
//
//	[[wallet]]
//	name = "alpha"
//	  [wallet.address]
//	  mode = "push"
//	  values = ["0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"]
//	  latency_ms = 150
//	  [wallet.network]
//	  values = [1, 5]
//	  every_ms = 4000
//	  fail_every = 7
//	  [wallet.balance]
//	  values = ["1500000000000000000"]
//
//	[[step]]
//	at_ms = 0
//	connect = "alpha"
//
//	[[step]]
//	at_ms = 10000
//	disconnect = true
//
// Mode defaults to poll. Balances are decimal wei strings. An empty address
// or balance string scripts the zero value, which the engine suppresses
// until the slice has synced once.
//
// Player replays the steps against anything with Connect and Disconnect,
// normally a *wallet.Coordinator. Every connect builds fresh syncers, so
// reconnecting a wallet restarts its scripts.
package simulate
