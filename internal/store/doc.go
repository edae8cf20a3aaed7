// Package store provides SQLite-backed durable storage for state snapshots.
//
// Store implements kv.Store. Each key holds the latest serialized snapshot of
// one slider's state together with a revision counter that increases on
// every write, so that `rangeslider state list` can show how often a
// snapshot has been persisted.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Keys are NFC-normalized through kv.NormalizeKey and compared with BINARY
// collation, so listings are ordered deterministically.
package store
