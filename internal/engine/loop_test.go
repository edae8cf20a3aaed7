package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunInPostOrder(t *testing.T) {
	l := NewLoop(nil)
	var got []int
	for i := 1; i <= 3; i++ {
		require.True(t, l.Post(func() error { got = append(got, i); return nil }))
	}
	assert.Equal(t, 3, l.Len())
	l.Close()

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 0, l.Len())
}

func TestLoop_RunsTriggersPostedByTriggers(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []string
	l.Post(func() error {
		got = append(got, "outer")
		l.Post(func() error {
			got = append(got, "inner")
			l.Close()
			return nil
		})
		return nil
	})

	require.NoError(t, l.Run(ctx))
	assert.Equal(t, []string{"outer", "inner"}, got)
}

func TestLoop_PostAfterClose(t *testing.T) {
	l := NewLoop(nil)
	l.Close()
	l.Close()
	assert.False(t, l.Post(func() error { return nil }))
	assert.False(t, l.Post(nil))
}

func TestLoop_RunSerialisesProducers(t *testing.T) {
	s, _ := newCounter(t)
	l := NewLoop(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	const producers = 10
	const perProducer = 50
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				l.Post(func() error { return s.Dispatch(inc{}) })
			}
		}()
	}
	wg.Wait()
	l.Close()

	require.NoError(t, <-done)
	assert.Equal(t, producers*perProducer, s.GetState())
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoop_RunContinuesAfterTriggerError(t *testing.T) {
	var logs bytes.Buffer
	l := NewLoop(slog.New(slog.NewTextHandler(&logs, nil)))
	ran := false
	l.Post(func() error { return errors.New("bad input") })
	l.Post(func() error { ran = true; return nil })
	l.Close()

	require.NoError(t, l.Run(context.Background()))
	assert.True(t, ran)
	assert.Contains(t, logs.String(), `msg="trigger failed" error="bad input"`)
}
