package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rangeslider/internal/kv"
	"github.com/roach88/rangeslider/internal/store"
	"github.com/roach88/rangeslider/internal/store/boltstore"
)

// Backends names the supported state backends.
var Backends = []string{"sqlite", "bolt"}

// BackendOptions selects where slider state is persisted.
type BackendOptions struct {
	Database string
	Backend  string
}

func (b *BackendOptions) addFlags(cmd *cobra.Command, required bool) {
	usage := "path to the state database"
	if !required {
		usage += " (enables persistence)"
	}
	cmd.Flags().StringVar(&b.Database, "db", "", usage)
	cmd.Flags().StringVar(&b.Backend, "backend", "sqlite", "state backend (sqlite|bolt)")
	if required {
		_ = cmd.MarkFlagRequired("db")
	}
}

// backend is an open state store.
type backend interface {
	kv.Store
	Close() error
}

// entryLister is implemented by backends that keep per-key metadata.
type entryLister interface {
	Entries(ctx context.Context) ([]store.Entry, error)
}

func (b *BackendOptions) open() (backend, error) {
	switch b.Backend {
	case "sqlite":
		st, err := store.Open(b.Database)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "bolt":
		st, err := boltstore.Open(b.Database)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be one of %v", b.Backend, Backends)
	}
}
