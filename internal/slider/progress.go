package slider

import (
	"github.com/roach88/rangeslider/internal/component"
	"github.com/roach88/rangeslider/internal/ir"
)

// ProgressState is the progress model's projection of State.
type ProgressState struct {
	Min          float64    `json:"min" yaml:"min"`
	Max          float64    `json:"max" yaml:"max"`
	Value        [2]float64 `json:"value" yaml:"value"`
	IntervalMode bool       `json:"intervalMode" yaml:"intervalMode"`
	PrimaryColor string     `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
}

// ProgressStateOf projects s.
func ProgressStateOf(s State) ProgressState {
	return ProgressState{
		Min:          s.Min,
		Max:          s.Max,
		Value:        s.Value,
		IntervalMode: s.IntervalMode,
		PrimaryColor: s.PrimaryColor,
	}
}

// ReduceProgress is the progress model's reducer. It only follows Sync.
func ReduceProgress(action ir.Action, p ProgressState) ProgressState {
	if a, ok := action.(Sync); ok {
		return ProgressStateOf(a.State)
	}
	return p
}

// Offsets returns the CSS left and right insets of the highlighted range,
// in percent. With a single thumb the range starts at Min.
func Offsets(p ProgressState) (left, right float64) {
	lo := p.Value[0]
	if !p.IntervalMode {
		lo = p.Min
	}
	return percent(lo, p.Min, p.Max), 100 - percent(p.Value[1], p.Min, p.Max)
}

func progressController() component.Controller {
	return component.ControllerFuncs[ProgressState]{
		State: func(p ProgressState) component.Props {
			left, right := Offsets(p)
			return component.Props{"left": left, "right": right, "color": p.PrimaryColor}
		},
	}
}

// ProgressView draws the highlighted range.
type ProgressView struct {
	component.ElementView
}

// NewProgressView creates an uninitialised progress view.
func NewProgressView() *ProgressView {
	return &ProgressView{ElementView: component.ElementView{
		Tag:     "div",
		Classes: []string{"range-slider__progress"},
	}}
}

// Render implements component.View.
func (v *ProgressView) Render(p component.Props) {
	left, _ := component.Prop[float64](p, "left")
	right, _ := component.Prop[float64](p, "right")
	color, _ := component.Prop[string](p, "color")

	n := v.Native()
	n.SetStyle("left", formatPercent(left))
	n.SetStyle("right", formatPercent(right))
	n.SetStyle("background-color", color)
}
