package testutil

import (
	"context"
	"errors"

	"github.com/roach88/rangeslider/internal/kv"
)

// ErrBrokenStore is returned by every BrokenStore method.
var ErrBrokenStore = errors.New("testutil: broken store")

// BrokenStore is a kv.Store whose reads and writes always fail.
type BrokenStore struct {
	// Value, when non-nil, is returned by Get instead of an error.
	Value []byte
}

var _ kv.Store = BrokenStore{}

func (b BrokenStore) Get(context.Context, string) ([]byte, error) {
	if b.Value != nil {
		return b.Value, nil
	}
	return nil, ErrBrokenStore
}

func (BrokenStore) Put(context.Context, string, []byte) error {
	return ErrBrokenStore
}

func (BrokenStore) Delete(context.Context, string) error {
	return ErrBrokenStore
}

func (BrokenStore) Keys(context.Context) ([]string, error) {
	return nil, ErrBrokenStore
}
