package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/rangeslider/internal/kv"
)

// createTestStore opens a fresh database under t.TempDir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	if err := s1.Put(ctx, "slider", []byte("v1")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	s1.Close()

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "slider")
	if err != nil {
		t.Fatalf("Get() after reopen failed: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("Get() = %q, want %q", got, "v1")
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name, want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
		{"user_version", "1"},
	}
	for _, tt := range tests {
		got, err := s.pragma(ctx, tt.name)
		if err != nil {
			t.Error(err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get() error = %v, want kv.ErrNotFound", err)
	}
}

func TestPut_RevisionIncrements(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, v := range []string{"a", "bb", "ccc"} {
		if err := s.Put(ctx, "slider", []byte(v)); err != nil {
			t.Fatalf("Put(%q) failed: %v", v, err)
		}
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Entries() len = %d, want 1", len(entries))
	}
	want := Entry{Key: "slider", Revision: 3, Size: 3}
	if entries[0] != want {
		t.Errorf("Entries()[0] = %+v, want %+v", entries[0], want)
	}

	sizes, err := s.Writes(ctx, "slider")
	if err != nil {
		t.Fatalf("Writes() failed: %v", err)
	}
	if len(sizes) != 3 || sizes[0] != 1 || sizes[1] != 2 || sizes[2] != 3 {
		t.Errorf("Writes() = %v, want [1 2 3]", sizes)
	}
}

func TestDelete_CascadesWrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "slider", []byte("x")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.Delete(ctx, "slider"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := s.Delete(ctx, "slider"); err != nil {
		t.Fatalf("second Delete() failed: %v", err)
	}

	if _, err := s.Get(ctx, "slider"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want kv.ErrNotFound", err)
	}
	sizes, err := s.Writes(ctx, "slider")
	if err != nil {
		t.Fatalf("Writes() failed: %v", err)
	}
	if len(sizes) != 0 {
		t.Errorf("Writes() after Delete = %v, want empty", sizes)
	}
}

func TestKeys_Ordered(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"b", "A", "a", "c"} {
		if err := s.Put(ctx, k, []byte(k)); err != nil {
			t.Fatalf("Put(%q) failed: %v", k, err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	want := []string{"A", "a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestPut_EmptyKey(t *testing.T) {
	s := createTestStore(t)
	if err := s.Put(context.Background(), " ", []byte("x")); err == nil {
		t.Error("Put() with blank key should fail")
	}
}

func TestPut_NormalizesKey(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// "e" + combining acute vs precomposed U+00E9.
	if err := s.Put(ctx, "cafe\u0301", []byte("1")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	got, err := s.Get(ctx, "caf\u00e9")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "1" {
		t.Errorf("Get() = %q, want %q", got, "1")
	}
}
