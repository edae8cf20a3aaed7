package engine

import (
	"log/slog"

	"github.com/roach88/rangeslider/internal/ir"
)

// Option configures a Store at construction time.
//
// Options whose arguments do not mention the state type need an explicit
// instantiation, e.g. WithValidators[int](RejectNaN).
type Option[S any] func(*config[S])

type config[S any] struct {
	pre        []Plugin[S]
	post       []Plugin[S]
	validators []Validator
	logger     *slog.Logger
	idGen      IDGenerator
	id         string
	trace      func(TraceEvent)
}

// TraceEvent describes one committed dispatch. Received and Applied differ
// when a validator replaced the action.
type TraceEvent struct {
	StoreID  string
	Seq      int64
	Received ir.Action
	Applied  ir.Action
}

// WithPlugins appends both pipelines of p.
func WithPlugins[S any](p Plugins[S]) Option[S] {
	return func(c *config[S]) {
		c.pre = append(c.pre, p.Pre...)
		c.post = append(c.post, p.Post...)
	}
}

// WithPre appends pre-plugins, run once over the initial state.
func WithPre[S any](plugins ...Plugin[S]) Option[S] {
	return func(c *config[S]) {
		c.pre = append(c.pre, plugins...)
	}
}

// WithPost appends post-plugins, run after the reducer on every dispatch.
func WithPost[S any](plugins ...Plugin[S]) Option[S] {
	return func(c *config[S]) {
		c.post = append(c.post, plugins...)
	}
}

// WithValidators appends validators, run in order before the reducer.
func WithValidators[S any](validators ...Validator) Option[S] {
	return func(c *config[S]) {
		c.validators = append(c.validators, validators...)
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
// Default: slog.Default().
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(c *config[S]) {
		c.logger = logger
	}
}

// WithIDGenerator sets the generator for the store ID.
// Default: UUIDv7Generator.
func WithIDGenerator[S any](gen IDGenerator) Option[S] {
	return func(c *config[S]) {
		c.idGen = gen
	}
}

// WithID sets a fixed store ID, taking precedence over any generator.
func WithID[S any](id string) Option[S] {
	return func(c *config[S]) {
		c.id = id
	}
}

// WithTrace registers a hook called after every commit, before listeners
// are notified.
func WithTrace[S any](fn func(TraceEvent)) Option[S] {
	return func(c *config[S]) {
		c.trace = fn
	}
}
