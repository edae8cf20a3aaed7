// Package boltstore provides a bbolt-backed kv.Store, an alternative to the
// SQLite store for environments without cgo.
package boltstore

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/roach88/rangeslider/internal/kv"
)

const bucketSnapshots = "snapshots"

// Store is a kv.Store backed by one bbolt file.
type Store struct {
	db *bolt.DB
}

var _ kv.Store = (*Store)(nil)

// Open creates or opens the database at path and ensures the snapshot
// bucket exists. Open fails after one second if another process holds the
// file lock.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize snapshot bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements kv.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, err := kv.NormalizeKey(key)
	if err != nil {
		return nil, err
	}

	var value []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSnapshots)).Get([]byte(k))
		if v == nil {
			return kv.ErrNotFound
		}
		// v is only valid for the life of the transaction.
		value = bytes.Clone(v)
		return nil
	})
	return value, err
}

// Put implements kv.Store.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k, err := kv.NormalizeKey(key)
	if err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).Put([]byte(k), value)
	})
}

// Delete implements kv.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k, err := kv.NormalizeKey(key)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).Delete([]byte(k))
	})
}

// Keys implements kv.Store. bbolt iterates in byte order already.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return slices.Clip(keys), nil
}
