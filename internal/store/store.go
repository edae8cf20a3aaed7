package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// pragmas are applied to every connection before the schema.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// migrations[i] upgrades a database from user_version i to i+1.
var migrations = []func(*sql.DB) error{
	addWriteLog,
}

// Store keeps slider state snapshots in a SQLite database in WAL mode.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, then applies pragmas, the
// base schema and any pending migrations. Opening an up-to-date database
// changes nothing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := prepare(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open snapshot db %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func prepare(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	// One writer at a time; a single connection also keeps pragmas in force.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("exec %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return migrate(db)
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if err := migrations[v](db); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("write user_version: %w", err)
		}
	}
	return nil
}

// addWriteLog adds the write audit table. Each Put appends one row, so the
// sizes of earlier snapshots survive overwrites of the snapshot itself.
func addWriteLog(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshot_writes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL COLLATE BINARY
				REFERENCES snapshots(key) ON DELETE CASCADE,
			revision INTEGER NOT NULL,
			size INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshot_writes_key
		ON snapshot_writes(key, revision)
	`)
	return err
}

// Close releases the database. Closing a zero Store is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// pragma reads the current value of a pragma.
func (s *Store) pragma(ctx context.Context, name string) (string, error) {
	var value string
	if err := s.db.QueryRowContext(ctx, "PRAGMA "+name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
