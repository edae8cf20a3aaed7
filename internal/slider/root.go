package slider

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/rangeslider/internal/component"
	"github.com/roach88/rangeslider/internal/surface"
)

const (
	classRoot        = "range-slider"
	classVertical    = "range-slider--vertical"
	classHasMarker   = "range-slider--has-marker"
	classInvalid     = "range-slider--invalid"
	classInput       = "range-slider__input"
	classInputHidden = "range-slider__input--hidden"
	classControl     = "range-slider__control"
	classThumb       = "range-slider__thumb"
	classMarker      = "range-slider__marker"
)

// ParseInput converts text typed into a thumb's input. Text that is not a
// number yields NaN, which the slider store's validator rejects.
func ParseInput(text string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func rootController() component.Controller {
	return component.ControllerFuncs[State]{
		State: func(s State) component.Props {
			return component.Props{
				"vertical":     s.Vertical,
				"hasMarker":    s.MarkerVisible,
				"intervalMode": s.IntervalMode,
				"min":          s.Min,
				"max":          s.Max,
				"step":         s.Step,
				"left":         s.Value[0],
				"right":        s.Value[1],
				"leftPercent":  s.Percent(s.Value[0]),
				"rightPercent": s.Percent(s.Value[1]),
				"leftText":     s.Display(s.Value[0]),
				"rightText":    s.Display(s.Value[1]),
				"rejected":     string(s.Rejected),
			}
		},
		Dispatch: func(dispatch component.DispatchFunc) component.Props {
			return component.Props{
				"onChangeLeft": func(text string) error {
					return dispatch(ChangeLeftValue{Value: ParseInput(text)})
				},
				"onChangeRight": func(text string) error {
					return dispatch(ChangeRightValue{Value: ParseInput(text)})
				},
			}
		},
	}
}

// thumb is one input, its thumb and its marker.
type thumb struct {
	wrap    surface.Node
	control surface.Node
	knob    surface.Node
	marker  surface.Node
}

func newThumb(side string) *thumb {
	t := &thumb{
		wrap:    surface.NewElement("div", classInput, classInput+"--"+side),
		control: surface.NewElement("input", classControl),
		knob:    surface.NewElement("span", classThumb),
		marker:  surface.NewElement("span", classMarker),
	}
	t.control.SetAttr("type", "range")
	t.knob.AppendChild(t.marker)
	t.wrap.AppendChild(t.control)
	t.wrap.AppendChild(t.knob)
	return t
}

func (t *thumb) render(p component.Props, value, pct, text string, vertical bool) {
	for _, attr := range []string{"min", "max", "step"} {
		if v, ok := component.Prop[float64](p, attr); ok {
			t.control.SetAttr(attr, formatNumber(v))
		}
	}
	t.control.SetAttr("value", value)

	// The position correction on resize re-runs this with fresh state.
	if vertical {
		t.knob.SetStyle("left", "")
		t.knob.SetStyle("bottom", pct)
	} else {
		t.knob.SetStyle("bottom", "")
		t.knob.SetStyle("left", pct)
	}
	t.marker.SetText(text)
}

// RootView is the slider's outer element holding both thumbs. The track
// and progress views mount after the thumbs.
type RootView struct {
	component.ElementView

	left, right *thumb
	onLeft      func(string) error
	onRight     func(string) error
	lastErr     error
}

// NewRootView creates an uninitialised root view.
func NewRootView() *RootView {
	return &RootView{ElementView: component.ElementView{Tag: "div", Classes: []string{classRoot}}}
}

// Init implements component.View.
func (v *RootView) Init(parent surface.Node) error {
	if err := v.ElementView.Init(parent); err != nil {
		return err
	}
	v.left = newThumb("left")
	v.right = newThumb("right")
	v.Native().AppendChild(v.left.wrap)
	v.Native().AppendChild(v.right.wrap)

	v.left.control.AddListener("input", func(e surface.Event) {
		if v.onLeft != nil {
			v.lastErr = v.onLeft(e.Value)
		}
	})
	v.right.control.AddListener("input", func(e surface.Event) {
		if v.onRight != nil {
			v.lastErr = v.onRight(e.Value)
		}
	})
	return nil
}

// LastInputError returns the error of the most recent input event, if any.
func (v *RootView) LastInputError() error {
	return v.lastErr
}

// Render implements component.View.
func (v *RootView) Render(p component.Props) {
	n := v.Native()
	vertical, _ := component.Prop[bool](p, "vertical")
	hasMarker, _ := component.Prop[bool](p, "hasMarker")
	interval, _ := component.Prop[bool](p, "intervalMode")
	rejected, _ := component.Prop[string](p, "rejected")

	n.ToggleClass(classVertical, vertical)
	n.ToggleClass(classHasMarker, hasMarker)
	n.ToggleClass(classInvalid, rejected != "")
	if rejected != "" {
		n.SetAttr("data-rejected", rejected)
	} else {
		n.RemoveAttr("data-rejected")
	}

	left, _ := component.Prop[float64](p, "left")
	right, _ := component.Prop[float64](p, "right")
	leftPct, _ := component.Prop[float64](p, "leftPercent")
	rightPct, _ := component.Prop[float64](p, "rightPercent")
	leftText, _ := component.Prop[string](p, "leftText")
	rightText, _ := component.Prop[string](p, "rightText")

	v.left.wrap.ToggleClass(classInputHidden, !interval)
	v.left.render(p, formatNumber(left), formatPercent(leftPct), leftText, vertical)
	v.right.render(p, formatNumber(right), formatPercent(rightPct), rightText, vertical)

	v.onLeft, _ = component.Prop[func(string) error](p, "onChangeLeft")
	v.onRight, _ = component.Prop[func(string) error](p, "onChangeRight")
}

// Control returns the input element for side "left" or "right", or nil.
func (v *RootView) Control(side string) surface.Node {
	switch side {
	case "left":
		return v.left.control
	case "right":
		return v.right.control
	}
	return nil
}
