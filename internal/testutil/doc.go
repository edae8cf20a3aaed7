// Package testutil holds deterministic helpers shared by package tests:
// fixed store IDs, listener recorders and a failing kv.Store.
package testutil
