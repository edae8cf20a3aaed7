package engine

import (
	"math"

	"github.com/roach88/rangeslider/internal/ir"
)

// RejectNaN replaces actions whose numeric payload is NaN with
// ir.ValidationRejected{From: original kind}. Actions without a numeric
// payload pass through untouched.
//
// This catches semantically invalid input (e.g. a text field parsed as a
// number) before it reaches business logic.
func RejectNaN(action ir.Action) ir.Action {
	n, ok := ir.NumberOf(action)
	if ok && math.IsNaN(n) {
		return ir.ValidationRejected{From: action.Kind()}
	}
	return action
}

// RejectKinds returns a validator that rejects the listed kinds outright.
// Useful for read-only models that must ignore a subset of shared actions.
func RejectKinds(kinds ...ir.Kind) Validator {
	deny := make(map[ir.Kind]bool, len(kinds))
	for _, k := range kinds {
		deny[k] = true
	}
	return func(action ir.Action) ir.Action {
		if deny[action.Kind()] {
			return ir.ValidationRejected{From: action.Kind()}
		}
		return action
	}
}
