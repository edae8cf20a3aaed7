package engine

import (
	"fmt"

	"github.com/roach88/rangeslider/internal/ir"
)

// Reducer computes the next state from an action and the previous state.
// Reducers must be pure and total over the actions they understand; any
// other action must return state unchanged.
type Reducer[S any] func(action ir.Action, state S) S

// Plugin transforms state at a fixed point of the store lifecycle.
// Pre-plugins run once during construction; post-plugins run once per
// dispatch, after the reducer and before notification.
type Plugin[S any] func(state S) (S, error)

// Plugins groups the two pipelines a store is built with.
type Plugins[S any] struct {
	Pre  []Plugin[S]
	Post []Plugin[S]
}

// Validator inspects an action before it reaches the reducer and may replace
// it. Validators never fail: rejection is expressed as a different action,
// typically ir.ValidationRejected.
type Validator func(action ir.Action) ir.Action

// Listener receives the store state after every committed dispatch.
type Listener[S any] func(state S)

// applyPlugins folds state through plugins left to right.
// The index of the failing plugin is included in the error.
func applyPlugins[S any](state S, plugins []Plugin[S]) (S, error) {
	for i, p := range plugins {
		next, err := p(state)
		if err != nil {
			var zero S
			return zero, fmt.Errorf("plugin[%d]: %w", i, err)
		}
		state = next
	}
	return state, nil
}

// applyValidators folds action through validators left to right.
// Returns nil if any validator returns nil.
func applyValidators(action ir.Action, validators []Validator) ir.Action {
	for _, v := range validators {
		action = v(action)
		if action == nil {
			return nil
		}
	}
	return action
}
