package boltstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rangeslider/internal/kv"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.bolt")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	defer s.Close()

	_, err := s.Get(ctx, "slider")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Put(ctx, "slider", []byte(`{"min":0}`)))
	got, err := s.Get(ctx, "slider")
	require.NoError(t, err)
	assert.Equal(t, `{"min":0}`, string(got))

	require.NoError(t, s.Delete(ctx, "slider"))
	require.NoError(t, s.Delete(ctx, "slider"))
	_, err = s.Get(ctx, "slider")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	defer s.Close()

	for _, k := range []string{"b", "a", "c"} {
		require.NoError(t, s.Put(ctx, k, nil))
	}
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	require.NoError(t, s.Put(ctx, "slider", []byte("v")))
	require.NoError(t, s.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "slider")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestStore_RejectsBlankKey(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()
	assert.Error(t, s.Put(context.Background(), "", []byte("v")))
}
