package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rangeslider/internal/kv"
)

// Codec serializes state snapshots for a kv.Store.
type Codec[S any] interface {
	Encode(state S) ([]byte, error)
	Decode(data []byte) (S, error)
}

// JSONCodec stores state as JSON.
type JSONCodec[S any] struct{}

// Encode implements Codec.
func (JSONCodec[S]) Encode(state S) ([]byte, error) {
	return json.Marshal(state)
}

// Decode implements Codec.
func (JSONCodec[S]) Decode(data []byte) (S, error) {
	var s S
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// YAMLCodec stores state as YAML, for snapshots meant to be edited by hand.
type YAMLCodec[S any] struct{}

// Encode implements Codec.
func (YAMLCodec[S]) Encode(state S) ([]byte, error) {
	return yaml.Marshal(state)
}

// Decode implements Codec.
func (YAMLCodec[S]) Decode(data []byte) (S, error) {
	var s S
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// Hydrate returns a pre-plugin that replaces the initial state with the
// snapshot stored under key.
//
// Hydrate never fails. An absent key returns the input state silently; a read
// or decode failure returns the input state and logs a warning to logger, or
// to slog.Default() when logger is nil.
func Hydrate[S any](ctx context.Context, store kv.Store, key string, codec Codec[S], logger *slog.Logger) Plugin[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(state S) (S, error) {
		data, err := store.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			return state, nil
		}
		if err != nil {
			logger.Warn("hydrate: read failed, using initial state", "key", key, "error", err)
			return state, nil
		}
		restored, err := codec.Decode(data)
		if err != nil {
			logger.Warn("hydrate: decode failed, using initial state", "key", key, "error", err)
			return state, nil
		}
		return restored, nil
	}
}

// Persist returns a post-plugin that writes every committed candidate under
// key and passes the state through unchanged.
//
// Encode and write errors are returned, which aborts the dispatch before
// commit.
func Persist[S any](ctx context.Context, store kv.Store, key string, codec Codec[S]) Plugin[S] {
	return func(state S) (S, error) {
		data, err := codec.Encode(state)
		if err != nil {
			return state, fmt.Errorf("persist %q: encode: %w", key, err)
		}
		if err := store.Put(ctx, key, data); err != nil {
			return state, fmt.Errorf("persist %q: write: %w", key, err)
		}
		return state, nil
	}
}
