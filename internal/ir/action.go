package ir

import (
	"fmt"
	"math"
)

// Kind names an action variant. Kinds starting with '@' are reserved for the
// engine.
type Kind string

const (
	// KindColdStart is dispatched exactly once per store to seed listeners.
	KindColdStart Kind = "@COLD_START"

	// KindValidationRejected replaces an action a validator refused.
	KindValidationRejected Kind = "@VALIDATION_REJECTED"
)

// IsReserved reports whether k belongs to the engine's reserved namespace.
func (k Kind) IsReserved() bool {
	return len(k) > 0 && k[0] == '@'
}

// Action is an immutable message describing an intent to change state.
//
// Applications declare one struct per action kind they understand and give it
// a Kind method. Reducers branch on the concrete type.
type Action interface {
	Kind() Kind
}

// Numeric is implemented by actions whose payload is a single number.
// Validators use it to inspect payloads without knowing the concrete type.
type Numeric interface {
	Action
	Number() float64
}

// ColdStart is the synthetic action a store dispatches on cold start.
// It carries no payload.
type ColdStart struct{}

// Kind implements Action.
func (ColdStart) Kind() Kind { return KindColdStart }

// ValidationRejected replaces an action whose payload failed validation.
// From records the kind of the action that was rejected.
type ValidationRejected struct {
	From Kind `json:"from"`
}

// Kind implements Action.
func (ValidationRejected) Kind() Kind { return KindValidationRejected }

// Generic carries an action of a kind the receiving registry has no decoder
// for. Reducers should treat it as a no-op unless they choose to inspect it.
type Generic struct {
	Type  Kind
	Value Value
}

// Kind implements Action.
func (g Generic) Kind() Kind { return g.Type }

// Number returns the payload as a float64 when it is a Number, and NaN
// otherwise. Callers that need to distinguish should use IsNumeric.
func (g Generic) Number() float64 {
	if n, ok := g.Value.(Number); ok {
		return float64(n)
	}
	return math.NaN()
}

// IsNumeric reports whether the payload is a Number.
func (g Generic) IsNumeric() bool {
	_, ok := g.Value.(Number)
	return ok
}

// String formats the action for logs and traces.
func (g Generic) String() string {
	b, err := MarshalValue(g.Value)
	if err != nil {
		return fmt.Sprintf("%s(<%v>)", g.Type, err)
	}
	return fmt.Sprintf("%s(%s)", g.Type, b)
}

// NumberOf extracts the numeric payload of a, if it has one.
// Generic actions only count when their payload is a Number.
func NumberOf(a Action) (float64, bool) {
	switch v := a.(type) {
	case Generic:
		if !v.IsNumeric() {
			return 0, false
		}
		return v.Number(), true
	case Numeric:
		return v.Number(), true
	default:
		return 0, false
	}
}
