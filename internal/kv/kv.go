// Package kv defines the persistent key-value capability used by the
// hydrate and persist plugins, plus an in-memory implementation.
//
// The capability is always injected. Nothing in this module reaches for a
// process-wide store; tests substitute Memory, the CLI opens a SQLite or
// bbolt backend.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a persistent key-value store holding serialized state snapshots.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
}

// NormalizeKey returns the NFC form of key with surrounding whitespace
// removed. Backends call it on every key so that visually identical keys
// typed on different systems address the same entry.
func NormalizeKey(key string) (string, error) {
	k := norm.NFC.String(strings.TrimSpace(key))
	if k == "" {
		return "", fmt.Errorf("kv: empty key")
	}
	return k, nil
}
