package slider

import (
	"math"
	"slices"

	"github.com/roach88/rangeslider/internal/ir"
)

// Reduce is the slider model's reducer.
//
// Cold start normalizes whatever the initial (or hydrated) state was. A
// ValidationRejected action only records the rejected kind. Every accepted
// change clears Rejected and returns a normalized state. Unknown actions are
// a no-op.
func Reduce(action ir.Action, s State) State {
	switch a := action.(type) {
	case ir.ColdStart:
		return s.normalized()

	case ir.ValidationRejected:
		s.Rejected = a.From
		return s

	case SetMin:
		if len(s.FixedValues) > 0 || !(a.Value < s.Max) || math.IsInf(a.Value, 0) {
			return s
		}
		s.Min = a.Value

	case SetMax:
		if len(s.FixedValues) > 0 || !(a.Value > s.Min) || math.IsInf(a.Value, 0) {
			return s
		}
		s.Max = a.Value

	case SetStep:
		if len(s.FixedValues) > 0 || !(a.Value > 0) || math.IsInf(a.Value, 0) {
			return s
		}
		s.Step = a.Value

	case ChangeLeftValue:
		v := s.snap(a.Value)
		if s.IntervalMode {
			v = math.Min(v, s.Value[1])
		}
		s.Value[0] = v

	case ChangeRightValue:
		v := s.snap(a.Value)
		if s.IntervalMode {
			v = math.Max(v, s.Value[0])
		}
		s.Value[1] = v

	case SetIntervalMode:
		s.IntervalMode = a.On

	case SetVertical:
		s.Vertical = a.On

	case SetMarkerVisible:
		s.MarkerVisible = a.On

	case SetScaleVisible:
		s.ScaleVisible = a.On

	case SetPrimaryColor:
		s.PrimaryColor = a.Color

	case SetFixedValues:
		s.FixedValues = slices.Clone(a.Values)
		if len(a.Values) == 0 {
			s.FixedValues = nil
		}

	case SetPrefix:
		s.Prefix = a.Text

	case SetPostfix:
		s.Postfix = a.Text

	default:
		return s
	}

	s.Rejected = ""
	return s.normalized()
}
