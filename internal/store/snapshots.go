package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/rangeslider/internal/kv"
)

var _ kv.Store = (*Store)(nil)

// Entry describes one persisted snapshot without its value.
type Entry struct {
	Key      string `json:"key"`
	Revision int64  `json:"revision"`
	Size     int    `json:"size"`
}

// Get returns the snapshot stored under key, or kv.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := kv.NormalizeKey(key)
	if err != nil {
		return nil, err
	}

	var value []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshots WHERE key = ?`, k,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", k, err)
	}
	return value, nil
}

// Put stores value under key and bumps its revision.
// The snapshot and its audit row are written in one transaction.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	k, err := kv.NormalizeKey(key)
	if err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var revision int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO snapshots (key, value, revision) VALUES (?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = snapshots.revision + 1
		RETURNING revision
	`, k, value).Scan(&revision)
	if err != nil {
		return fmt.Errorf("write snapshot %q: %w", k, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_writes (key, revision, size) VALUES (?, ?, ?)`,
		k, revision, len(value),
	); err != nil {
		return fmt.Errorf("write audit %q: %w", k, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot %q: %w", k, err)
	}
	return nil
}

// Delete removes key and its write history. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	k, err := kv.NormalizeKey(key)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, k); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", k, err)
	}
	return nil
}

// Keys returns every snapshot key in BINARY order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM snapshots ORDER BY key COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// Entries lists every snapshot with its revision and size, ordered by key.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, revision, length(value)
		FROM snapshots
		ORDER BY key COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Revision, &e.Size); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Writes returns the sizes of every write to key, oldest first.
func (s *Store) Writes(ctx context.Context, key string) ([]int, error) {
	k, err := kv.NormalizeKey(key)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT size FROM snapshot_writes WHERE key = ? ORDER BY revision ASC, id ASC`, k)
	if err != nil {
		return nil, fmt.Errorf("query writes: %w", err)
	}
	defer rows.Close()

	var sizes []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan write: %w", err)
		}
		sizes = append(sizes, n)
	}
	return sizes, rows.Err()
}
