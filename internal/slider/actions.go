package slider

import (
	"fmt"

	"github.com/roach88/rangeslider/internal/ir"
)

// Action kinds understood by Reduce.
const (
	KindSetMin           ir.Kind = "SET_MIN"
	KindSetMax           ir.Kind = "SET_MAX"
	KindSetStep          ir.Kind = "SET_STEP"
	KindChangeLeftValue  ir.Kind = "CHANGE_LEFT_VALUE"
	KindChangeRightValue ir.Kind = "CHANGE_RIGHT_VALUE"
	KindSetIntervalMode  ir.Kind = "SET_INTERVAL_MODE"
	KindSetVertical      ir.Kind = "SET_VERTICAL"
	KindSetMarker        ir.Kind = "SET_MARKER_VISIBILITY"
	KindSetScale         ir.Kind = "SET_SCALE_VISIBILITY"
	KindSetPrimaryColor  ir.Kind = "SET_PRIMARY_COLOR"
	KindSetFixedValues   ir.Kind = "SET_FIXED_VALUES"
	KindSetPrefix        ir.Kind = "SET_PREFIX"
	KindSetPostfix       ir.Kind = "SET_POSTFIX"

	// KindSync is sent from the slider model to its children.
	KindSync ir.Kind = "SYNC"
)

// editKinds are the user edits. Only the slider model applies them; the
// track and progress stores follow it through SYNC and reject them.
var editKinds = []ir.Kind{
	KindSetMin, KindSetMax, KindSetStep,
	KindChangeLeftValue, KindChangeRightValue,
	KindSetIntervalMode, KindSetVertical,
	KindSetMarker, KindSetScale, KindSetPrimaryColor,
	KindSetFixedValues, KindSetPrefix, KindSetPostfix,
}

// SetMin changes the lower bound. Ignored unless below Max.
type SetMin struct{ Value float64 }

// SetMax changes the upper bound. Ignored unless above Min.
type SetMax struct{ Value float64 }

// SetStep changes the step. Ignored unless positive.
type SetStep struct{ Value float64 }

// ChangeLeftValue moves the left thumb.
type ChangeLeftValue struct{ Value float64 }

// ChangeRightValue moves the right thumb.
type ChangeRightValue struct{ Value float64 }

// SetIntervalMode toggles between one and two thumbs.
type SetIntervalMode struct{ On bool }

// SetVertical toggles the vertical layout.
type SetVertical struct{ On bool }

// SetMarkerVisible toggles the value markers above the thumbs.
type SetMarkerVisible struct{ On bool }

// SetScaleVisible toggles the scale labels.
type SetScaleVisible struct{ On bool }

// SetPrimaryColor sets the accent color.
type SetPrimaryColor struct{ Color string }

// SetFixedValues switches to a fixed list of labels. An empty list returns
// to numeric mode with the current bounds.
type SetFixedValues struct{ Values []string }

// SetPrefix sets the text shown before numeric labels.
type SetPrefix struct{ Text string }

// SetPostfix sets the text shown after numeric labels.
type SetPostfix struct{ Text string }

// Sync carries the committed slider state to the child models.
type Sync struct{ State State }

func (SetMin) Kind() ir.Kind           { return KindSetMin }
func (SetMax) Kind() ir.Kind           { return KindSetMax }
func (SetStep) Kind() ir.Kind          { return KindSetStep }
func (ChangeLeftValue) Kind() ir.Kind  { return KindChangeLeftValue }
func (ChangeRightValue) Kind() ir.Kind { return KindChangeRightValue }
func (SetIntervalMode) Kind() ir.Kind  { return KindSetIntervalMode }
func (SetVertical) Kind() ir.Kind      { return KindSetVertical }
func (SetMarkerVisible) Kind() ir.Kind { return KindSetMarker }
func (SetScaleVisible) Kind() ir.Kind  { return KindSetScale }
func (SetPrimaryColor) Kind() ir.Kind  { return KindSetPrimaryColor }
func (SetFixedValues) Kind() ir.Kind   { return KindSetFixedValues }
func (SetPrefix) Kind() ir.Kind        { return KindSetPrefix }
func (SetPostfix) Kind() ir.Kind       { return KindSetPostfix }
func (Sync) Kind() ir.Kind             { return KindSync }

// Numeric payloads, inspected by engine.RejectNaN.
func (a SetMin) Number() float64           { return a.Value }
func (a SetMax) Number() float64           { return a.Value }
func (a SetStep) Number() float64          { return a.Value }
func (a ChangeLeftValue) Number() float64  { return a.Value }
func (a ChangeRightValue) Number() float64 { return a.Value }

var (
	_ ir.Numeric = ChangeLeftValue{}
	_ ir.Numeric = ChangeRightValue{}
)

// Registry returns a registry that decodes every slider action from its
// boundary payload. Sync is internal and not registered.
func Registry() *ir.Registry {
	r := ir.NewRegistry()
	number := func(build func(float64) ir.Action) ir.DecodeFunc {
		return func(v ir.Value) (ir.Action, error) {
			n, err := ir.NumberPayload(v)
			if err != nil {
				return nil, err
			}
			return build(n), nil
		}
	}
	flag := func(build func(bool) ir.Action) ir.DecodeFunc {
		return func(v ir.Value) (ir.Action, error) {
			b, err := ir.BoolPayload(v)
			if err != nil {
				return nil, err
			}
			return build(b), nil
		}
	}
	text := func(build func(string) ir.Action) ir.DecodeFunc {
		return func(v ir.Value) (ir.Action, error) {
			s, err := ir.StringPayload(v)
			if err != nil {
				return nil, err
			}
			return build(s), nil
		}
	}

	r.MustRegister(KindSetMin, number(func(n float64) ir.Action { return SetMin{n} }))
	r.MustRegister(KindSetMax, number(func(n float64) ir.Action { return SetMax{n} }))
	r.MustRegister(KindSetStep, number(func(n float64) ir.Action { return SetStep{n} }))
	r.MustRegister(KindChangeLeftValue, number(func(n float64) ir.Action { return ChangeLeftValue{n} }))
	r.MustRegister(KindChangeRightValue, number(func(n float64) ir.Action { return ChangeRightValue{n} }))
	r.MustRegister(KindSetIntervalMode, flag(func(b bool) ir.Action { return SetIntervalMode{b} }))
	r.MustRegister(KindSetVertical, flag(func(b bool) ir.Action { return SetVertical{b} }))
	r.MustRegister(KindSetMarker, flag(func(b bool) ir.Action { return SetMarkerVisible{b} }))
	r.MustRegister(KindSetScale, flag(func(b bool) ir.Action { return SetScaleVisible{b} }))
	r.MustRegister(KindSetPrimaryColor, text(func(s string) ir.Action { return SetPrimaryColor{s} }))
	r.MustRegister(KindSetPrefix, text(func(s string) ir.Action { return SetPrefix{s} }))
	r.MustRegister(KindSetPostfix, text(func(s string) ir.Action { return SetPostfix{s} }))
	r.MustRegister(KindSetFixedValues, decodeFixedValues)
	return r
}

func decodeFixedValues(v ir.Value) (ir.Action, error) {
	arr, ok := v.(ir.Array)
	if !ok {
		return nil, fmt.Errorf("payload must be an array of strings, got %T", v)
	}
	values := make([]string, len(arr))
	for i, e := range arr {
		s, ok := e.(ir.String)
		if !ok {
			return nil, fmt.Errorf("fixedValues[%d] must be a string, got %T", i, e)
		}
		values[i] = string(s)
	}
	return SetFixedValues{Values: values}, nil
}
