package slider

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/rangeslider/internal/ir"
)

// State is the slider model's state.
type State struct {
	Min   float64    `json:"min" yaml:"min"`
	Max   float64    `json:"max" yaml:"max"`
	Step  float64    `json:"step" yaml:"step"`
	Value [2]float64 `json:"value" yaml:"value"`

	IntervalMode  bool `json:"intervalMode" yaml:"intervalMode"`
	Vertical      bool `json:"vertical" yaml:"vertical"`
	MarkerVisible bool `json:"markerVisible" yaml:"markerVisible"`
	ScaleVisible  bool `json:"scaleVisible" yaml:"scaleVisible"`

	PrimaryColor string   `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
	FixedValues  []string `json:"fixedValues,omitempty" yaml:"fixedValues,omitempty"`
	Prefix       string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Postfix      string   `json:"postfix,omitempty" yaml:"postfix,omitempty"`

	// Rejected is the kind of the last action a validator rejected. It is
	// cleared by the next accepted change.
	Rejected ir.Kind `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

// Default returns a 0..100 interval slider with step 1.
func Default() State {
	return State{
		Min:           0,
		Max:           100,
		Step:          1,
		Value:         [2]float64{25, 75},
		IntervalMode:  true,
		MarkerVisible: true,
		ScaleVisible:  true,
		PrimaryColor:  "#6c00ff",
	}
}

// normalized returns s with every invariant restored:
//   - Step > 0
//   - Min and Max finite, Min < Max
//   - fixed values force Min=0, Max=len-1, Step=1
//   - both values snapped to the step grid inside [Min, Max]
//   - in interval mode, Value[0] <= Value[1]
func (s State) normalized() State {
	if n := len(s.FixedValues); n > 0 {
		s.Min, s.Max, s.Step = 0, float64(max(n-1, 1)), 1
	}
	if !(s.Step > 0) || math.IsInf(s.Step, 0) {
		s.Step = 1
	}
	if math.IsNaN(s.Min) || math.IsInf(s.Min, 0) {
		s.Min = 0
	}
	if !(s.Max > s.Min) || math.IsInf(s.Max, 0) {
		s.Max = s.Min + s.Step
	}
	s.Value[0] = s.snap(s.Value[0])
	s.Value[1] = s.snap(s.Value[1])
	if s.IntervalMode && s.Value[0] > s.Value[1] {
		s.Value[0] = s.Value[1]
	}
	return s
}

// snap clamps v into [Min, Max] and rounds it to the nearest step.
func (s State) snap(v float64) float64 {
	if math.IsNaN(v) || v <= s.Min {
		return s.Min
	}
	if v >= s.Max {
		return s.Max
	}
	steps := math.Round((v - s.Min) / s.Step)
	snapped := toFixed(s.Min+steps*s.Step, max(decimals(s.Step), decimals(s.Min)))
	return math.Min(snapped, s.Max)
}

// Display formats v the way labels and markers show it.
func (s State) Display(v float64) string {
	if len(s.FixedValues) > 0 {
		i := int(math.Round(v))
		if i >= 0 && i < len(s.FixedValues) {
			return s.FixedValues[i]
		}
		return ""
	}
	return s.Prefix + formatNumber(v) + s.Postfix
}

// Percent returns the position of v on the track, 0 to 100.
func (s State) Percent(v float64) float64 {
	return percent(v, s.Min, s.Max)
}

func percent(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo) * 100
}

// decimals returns how many fractional digits v has in its shortest form.
func decimals(v float64) int {
	str := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(str, '.'); i >= 0 {
		return len(str) - i - 1
	}
	return 0
}

// toFixed rounds v to digits fractional digits.
func toFixed(v float64, digits int) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if err != nil {
		return v
	}
	return f
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatPercent renders a CSS percentage with at most four decimals.
func formatPercent(p float64) string {
	return formatNumber(toFixed(p, 4)) + "%"
}
