package engine

import (
	"log/slog"
	"slices"

	"github.com/roach88/rangeslider/internal/ir"
)

// Store is the reactive container owning one state value.
//
// INVARIANTS:
//   - state is replaced wholesale; listeners never see a partial update
//   - the reducer, validators and plugins are fixed at construction
//   - listeners are notified in insertion order
//   - ColdStart succeeds at most once
type Store[S any] struct {
	id          string
	state       S
	reducer     Reducer[S]
	post        []Plugin[S]
	validators  []Validator
	listeners   []*subscriber[S]
	nextSubID   uint64
	clock       *Clock
	coldStarted bool
	logger      *slog.Logger
	trace       func(TraceEvent)
}

// New creates a Store.
//
// Pre-plugins fold left to right over initial exactly once, before the
// store is returned; their result becomes the current state. A pre-plugin
// error aborts construction.
//
// The returned store has not been cold-started. Call ColdStart once the
// initial subscribers are attached.
func New[S any](initial S, reducer Reducer[S], opts ...Option[S]) (*Store[S], error) {
	if reducer == nil {
		return nil, &RuntimeError{Code: ErrCodeInvalidStore, Message: "reducer is required"}
	}

	cfg := &config[S]{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	id := cfg.id
	if id == "" {
		gen := cfg.idGen
		if gen == nil {
			gen = UUIDv7Generator{}
		}
		id = gen.Generate()
	}

	state, err := applyPlugins(initial, cfg.pre)
	if err != nil {
		return nil, &RuntimeError{
			Code:    ErrCodePluginFailed,
			Message: "pre-plugin failed",
			StoreID: id,
			Err:     err,
		}
	}

	return &Store[S]{
		id:         id,
		state:      state,
		reducer:    reducer,
		post:       slices.Clone(cfg.post),
		validators: slices.Clone(cfg.validators),
		clock:      NewClock(),
		logger:     cfg.logger.With("store", id),
		trace:      cfg.trace,
	}, nil
}

// ID returns the store identifier.
func (s *Store[S]) ID() string {
	return s.id
}

// Seq returns the number of committed dispatches.
func (s *Store[S]) Seq() int64 {
	return s.clock.Current()
}

// GetState returns the current state. It has no side effects.
func (s *Store[S]) GetState() S {
	return s.state
}

// Dispatch runs action through validators, the reducer and post-plugins,
// commits the result and notifies listeners.
//
// If a post-plugin fails, the error is returned as a RuntimeError with code
// ErrCodePluginFailed, the current state is unchanged and no listener is
// called. A reducer panic propagates to the caller with the same guarantee.
func (s *Store[S]) Dispatch(action ir.Action) error {
	if action == nil {
		return &RuntimeError{Code: ErrCodeInvalidAction, Message: "nil action", StoreID: s.id}
	}

	applied := applyValidators(action, s.validators)
	if applied == nil {
		return &RuntimeError{
			Code:    ErrCodeInvalidAction,
			Message: "validator returned nil action",
			StoreID: s.id,
			Kind:    string(action.Kind()),
		}
	}

	next, err := applyPlugins(s.reducer(applied, s.state), s.post)
	if err != nil {
		s.logger.Warn("dispatch aborted", "kind", applied.Kind(), "error", err)
		return &RuntimeError{
			Code:    ErrCodePluginFailed,
			Message: "post-plugin failed, state not committed",
			StoreID: s.id,
			Kind:    string(applied.Kind()),
			Err:     err,
		}
	}

	// Commit point. Everything above may fail; nothing below does.
	s.state = next
	seq := s.clock.Next()

	if applied.Kind() != action.Kind() {
		s.logger.Debug("action replaced by validator",
			"seq", seq, "received", action.Kind(), "applied", applied.Kind())
	} else {
		s.logger.Debug("dispatch committed", "seq", seq, "kind", applied.Kind())
	}
	if s.trace != nil {
		s.trace(TraceEvent{StoreID: s.id, Seq: seq, Received: action, Applied: applied})
	}

	s.notify()
	return nil
}

// notify calls a snapshot of the listeners. Listeners subscribed or cancelled
// during the pass (including by nested dispatches) do not affect which
// listeners this pass visits.
func (s *Store[S]) notify() {
	snapshot := slices.Clone(s.listeners)
	for _, sub := range snapshot {
		sub.fn(s.state)
	}
}

// Subscribe registers listener, calls it once synchronously with the current
// state and returns a handle that removes it.
func (s *Store[S]) Subscribe(listener Listener[S]) *Subscription {
	s.nextSubID++
	id := s.nextSubID

	listener(s.state)
	s.listeners = append(s.listeners, &subscriber[S]{id: id, fn: listener})

	return newSubscription(func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(sub *subscriber[S]) bool {
			return sub.id == id
		})
	})
}

// ColdStart dispatches the synthetic ir.ColdStart action. It must be called
// exactly once; later calls return ErrCodeColdStartRepeated without
// dispatching.
func (s *Store[S]) ColdStart() error {
	if s.coldStarted {
		return &RuntimeError{
			Code:    ErrCodeColdStartRepeated,
			Message: "store already cold-started",
			StoreID: s.id,
		}
	}
	s.coldStarted = true
	if err := s.Dispatch(ir.ColdStart{}); err != nil {
		// Nothing was committed, so the cold start may be retried.
		s.coldStarted = false
		return err
	}
	return nil
}

// ColdStarted reports whether ColdStart has been called.
func (s *Store[S]) ColdStarted() bool {
	return s.coldStarted
}
