package component

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/rangeslider/internal/engine"
	"github.com/roach88/rangeslider/internal/initdata"
	"github.com/roach88/rangeslider/internal/ir"
)

// DispatchFunc sends an action to a model.
type DispatchFunc func(action ir.Action) error

// Model is a component's wrapper around one store.
//
// The component tree is heterogeneous, so Model erases the state type:
// listeners and controllers receive the state as any and assert the concrete
// type they were written for.
type Model interface {
	// Name is the key of this model's entry in the init-data mapping.
	Name() string

	// Init builds the model's store from its init-data entry.
	Init(data any) error

	Dispatch(action ir.Action) error
	Subscribe(listener func(state any)) *engine.Subscription
	State() any

	// ColdStart cold-starts every linked model in link order, then this
	// model's store.
	ColdStart() error

	// Link records child as a linked model. Linking never transfers
	// ownership.
	Link(child Model)
	Linked() []Model

	// Unlink cancels every propagation subscription and forgets the links.
	Unlink()
}

// ModelOption configures a StoreModel.
type ModelOption[S any] func(*StoreModel[S])

// WithStoreOptions passes options to engine.New when the store is built.
func WithStoreOptions[S any](opts ...engine.Option[S]) ModelOption[S] {
	return func(m *StoreModel[S]) {
		m.storeOpts = append(m.storeOpts, opts...)
	}
}

// WithPropagation makes Link subscribe this model's store and forward the
// action produced by fn into the linked child on every notification after
// the cold start. When fn returns false nothing is forwarded.
func WithPropagation[S any](fn func(state S) (ir.Action, bool)) ModelOption[S] {
	return func(m *StoreModel[S]) {
		m.propagate = fn
	}
}

// WithModelLogger sets the logger for propagation failures.
// Default: slog.Default().
func WithModelLogger[S any](logger *slog.Logger) ModelOption[S] {
	return func(m *StoreModel[S]) {
		m.logger = logger
	}
}

// StoreModel is the Model implementation backed by an engine.Store[S].
type StoreModel[S any] struct {
	name      string
	reducer   engine.Reducer[S]
	storeOpts []engine.Option[S]
	propagate func(S) (ir.Action, bool)
	logger    *slog.Logger

	store  *engine.Store[S]
	linked []Model
	links  []*engine.Subscription
}

var _ Model = (*StoreModel[int])(nil)

// NewModel creates an uninitialised model. The store is built by Init.
func NewModel[S any](name string, reducer engine.Reducer[S], opts ...ModelOption[S]) *StoreModel[S] {
	m := &StoreModel[S]{
		name:    initdata.NormalizeName(name),
		reducer: reducer,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.logger = m.logger.With("model", m.name)
	return m
}

// Name implements Model.
func (m *StoreModel[S]) Name() string { return m.name }

// Init implements Model. data is decoded into S with initdata.Decode.
func (m *StoreModel[S]) Init(data any) error {
	if m.store != nil {
		return &InitError{Code: ErrCodeAlreadyInitialized, Model: m.name}
	}
	initial, err := initdata.Decode[S](data)
	if err != nil {
		return &InitError{Code: ErrCodeInvalidInitData, Model: m.name, Err: err}
	}
	store, err := engine.New(initial, m.reducer, m.storeOpts...)
	if err != nil {
		return &InitError{Code: ErrCodeInvalidInitData, Model: m.name, Err: err}
	}
	m.store = store
	return nil
}

// Store returns the typed store, or nil before Init.
func (m *StoreModel[S]) Store() *engine.Store[S] { return m.store }

// Dispatch implements Model.
func (m *StoreModel[S]) Dispatch(action ir.Action) error {
	if m.store == nil {
		return fmt.Errorf("dispatch %s: %w", m.name, ErrNotInitialized)
	}
	return m.store.Dispatch(action)
}

// Subscribe implements Model. Before Init it returns nil, which is safe to
// cancel.
func (m *StoreModel[S]) Subscribe(listener func(state any)) *engine.Subscription {
	if m.store == nil {
		return nil
	}
	return m.store.Subscribe(func(s S) { listener(s) })
}

// State implements Model. Before Init it returns the zero S.
func (m *StoreModel[S]) State() any {
	if m.store == nil {
		var zero S
		return zero
	}
	return m.store.GetState()
}

// TypedState returns the current state without the interface conversion.
func (m *StoreModel[S]) TypedState() S {
	if m.store == nil {
		var zero S
		return zero
	}
	return m.store.GetState()
}

// ColdStart implements Model. Linked models are cold-started first, so
// every store applies @COLD_START before the first propagated action.
func (m *StoreModel[S]) ColdStart() error {
	if m.store == nil {
		return fmt.Errorf("cold start %s: %w", m.name, ErrNotInitialized)
	}
	var errs []error
	for _, child := range m.linked {
		if err := child.ColdStart(); err != nil {
			errs = append(errs, fmt.Errorf("cold start %s: %w", child.Name(), err))
		}
	}
	if err := m.store.ColdStart(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Link implements Model. With a propagation function, every commit of m is
// forwarded to child once m has been cold-started; the replay on linking is
// not.
func (m *StoreModel[S]) Link(child Model) {
	m.linked = append(m.linked, child)
	if m.propagate == nil || m.store == nil {
		return
	}
	sub := m.store.Subscribe(func(s S) {
		if !m.store.ColdStarted() {
			return
		}
		action, ok := m.propagate(s)
		if !ok {
			return
		}
		if err := child.Dispatch(action); err != nil {
			m.logger.Error("propagation failed", "child", child.Name(), "kind", action.Kind(), "error", err)
		}
	})
	m.links = append(m.links, sub)
}

// Linked implements Model.
func (m *StoreModel[S]) Linked() []Model {
	out := make([]Model, len(m.linked))
	copy(out, m.linked)
	return out
}

// Unlink implements Model.
func (m *StoreModel[S]) Unlink() {
	for _, sub := range m.links {
		sub.Cancel()
	}
	m.links = nil
	m.linked = nil
}
