package engine

import (
	"context"
	"log/slog"
)

// Trigger is one externally caused unit of work, typically a dispatch made in
// response to input, a resize or a timer.
type Trigger func() error

// Loop serialises asynchronous triggers onto a single goroutine so that the
// stores they touch are only ever used from one thread.
//
// Post may be called from any goroutine. Run is the only place triggers
// execute.
type Loop struct {
	queue  *queue[Trigger]
	logger *slog.Logger
}

// NewLoop creates a Loop. A nil logger means slog.Default().
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{queue: newQueue[Trigger](), logger: logger}
}

// Post enqueues t. Returns false if the loop is closed.
func (l *Loop) Post(t Trigger) bool {
	if t == nil {
		return false
	}
	return l.queue.Enqueue(t)
}

// Len returns the number of pending triggers.
func (l *Loop) Len() int {
	return l.queue.Len()
}

// Close stops accepting triggers. Run returns once the pending ones have
// executed.
func (l *Loop) Close() {
	l.queue.Close()
}

// Run executes triggers one at a time until ctx is cancelled or the loop is
// closed and empty. Trigger errors are logged and do not stop the loop.
//
// Returns ctx.Err() on cancellation, nil after Close.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, ok := l.queue.TryDequeue()
			if !ok {
				break
			}
			if err := t(); err != nil {
				l.logger.Error("trigger failed", "error", err)
			}
		}

		if l.queue.Closed() && l.queue.Len() == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.queue.Wait():
		}
	}
}
