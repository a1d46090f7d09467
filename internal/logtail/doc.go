// Package logtail reads the tail of walletsync's JSON log file for display in
// the terminal UI.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines while scanning the file once, so
// memory stays O(maxLines) however large the file grows. Lines come back in
// chronological order. A missing file is not an error: the log file is only
// created once the first entry is written.
//
// # Entries
//
// Tail decodes each line as a zap JSON entry. ts, level, msg, caller,
// logger and stacktrace become Entry fields or are dropped; every other key
// (slice, wallet, error and so on) lands in Fields. Summary renders an entry
// on one line with fields sorted by key:
//
//	09:30:01 WARN slice sync failed error=scripted failure slice=network
package logtail
