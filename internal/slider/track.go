package slider

import (
	"log/slog"
	"math"

	"github.com/roach88/rangeslider/internal/component"
	"github.com/roach88/rangeslider/internal/ir"
	"github.com/roach88/rangeslider/internal/surface"
)

// TrackState is the track model's projection of State.
type TrackState struct {
	Min          float64  `json:"min" yaml:"min"`
	Max          float64  `json:"max" yaml:"max"`
	Step         float64  `json:"step" yaml:"step"`
	FixedValues  []string `json:"fixedValues,omitempty" yaml:"fixedValues,omitempty"`
	Prefix       string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Postfix      string   `json:"postfix,omitempty" yaml:"postfix,omitempty"`
	ScaleVisible bool     `json:"scaleVisible" yaml:"scaleVisible"`
	PrimaryColor string   `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
}

// TrackStateOf projects s.
func TrackStateOf(s State) TrackState {
	return TrackState{
		Min:          s.Min,
		Max:          s.Max,
		Step:         s.Step,
		FixedValues:  s.FixedValues,
		Prefix:       s.Prefix,
		Postfix:      s.Postfix,
		ScaleVisible: s.ScaleVisible,
		PrimaryColor: s.PrimaryColor,
	}
}

// ReduceTrack is the track model's reducer. It only follows Sync.
func ReduceTrack(action ir.Action, t TrackState) TrackState {
	if a, ok := action.(Sync); ok {
		return TrackStateOf(a.State)
	}
	return t
}

func trackController() component.Controller {
	return component.ControllerFuncs[TrackState]{
		State: func(t TrackState) component.Props {
			return component.Props{
				"values":       ScaleValues(t),
				"scaleVisible": t.ScaleVisible,
				"color":        t.PrimaryColor,
			}
		},
	}
}

const (
	classTrack           = "range-slider__track"
	classTrackScale      = "range-slider__track-scale"
	classTrackScaleHide  = "range-slider__track-scale--hidden"
	classTrackScaleItem  = "range-slider__track-scale__item"
	classTrackScaleLabel = "range-slider__track-scale__button"
)

// TrackView draws the track and its scale labels.
type TrackView struct {
	component.ElementView

	scale   surface.Node
	values  []ScaleValue
	onClick func(surface.Event) error
	logger  *slog.Logger
	renders int
}

// NewTrackView creates an uninitialised track view.
func NewTrackView(logger *slog.Logger) *TrackView {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackView{
		ElementView: component.ElementView{Tag: "div", Classes: []string{classTrack}},
		logger:      logger,
	}
}

// Init implements component.View.
func (v *TrackView) Init(parent surface.Node) error {
	if err := v.ElementView.Init(parent); err != nil {
		return err
	}
	v.scale = surface.NewElement("ul", classTrackScale)
	v.Native().AppendChild(v.scale)
	v.scale.AddListener("click", func(e surface.Event) {
		if v.onClick == nil {
			return
		}
		if err := v.onClick(e); err != nil {
			v.logger.Error("track click failed", "label", e.Value, "error", err)
		}
	})
	return nil
}

// OnClick sets the handler for clicks on scale labels.
func (v *TrackView) OnClick(fn func(surface.Event) error) {
	v.onClick = fn
}

// Values returns the labels of the last render.
func (v *TrackView) Values() []ScaleValue {
	return v.values
}

// Renders returns how many times the view has rendered.
func (v *TrackView) Renders() int {
	return v.renders
}

// Render implements component.View.
func (v *TrackView) Render(p component.Props) {
	v.renders++
	values, _ := component.Prop[[]ScaleValue](p, "values")
	visible, _ := component.Prop[bool](p, "scaleVisible")
	color, _ := component.Prop[string](p, "color")

	v.values = values
	last := 0
	if len(values) > 0 {
		last = values[len(values)-1].Index
	}

	items := make([]surface.Node, len(values))
	for i, sv := range values {
		label := surface.NewElement("button", classTrackScaleLabel)
		label.SetText(sv.Display)
		item := surface.NewElement("li", classTrackScaleItem)
		item.SetStyle("left", formatPercent(percent(float64(sv.Index), 0, float64(last))))
		item.AppendChild(label)
		items[i] = item
	}
	v.scale.ReplaceChildren(items...)
	v.scale.ToggleClass(classTrackScaleHide, !visible)
	v.scale.SetStyle("--primary-color", color)
}

// TrackClickHandler turns a click on a scale label into a value change on
// the slider model. It reads the slider state and the rendered labels at the
// time of the click.
type TrackClickHandler struct {
	Model  component.Model
	Labels func() []ScaleValue
}

// Handle dispatches the change for the label whose text is e.Value. Clicks
// outside a label (empty text) are ignored. An unknown label selects the
// first value.
//
// In interval mode the nearer thumb moves, the right one on a tie; otherwise
// the right thumb always moves.
func (h TrackClickHandler) Handle(e surface.Event) error {
	if e.Value == "" {
		return nil
	}
	labels := h.Labels()
	if len(labels) == 0 {
		return nil
	}
	next := labels[0].Raw
	for _, l := range labels {
		if l.Display == e.Value {
			next = l.Raw
			break
		}
	}

	s, ok := h.Model.State().(State)
	if !ok {
		return nil
	}
	if s.IntervalMode && math.Abs(s.Value[0]-next) < math.Abs(s.Value[1]-next) {
		return h.Model.Dispatch(ChangeLeftValue{Value: next})
	}
	return h.Model.Dispatch(ChangeRightValue{Value: next})
}
