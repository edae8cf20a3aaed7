package slider

import (
	"context"
	_ "embed"
	"log/slog"

	"github.com/roach88/rangeslider/internal/component"
	"github.com/roach88/rangeslider/internal/engine"
	"github.com/roach88/rangeslider/internal/initdata"
	"github.com/roach88/rangeslider/internal/ir"
	"github.com/roach88/rangeslider/internal/kv"
	"github.com/roach88/rangeslider/internal/surface"
)

// Schema is the CUE schema for slider init data. It defines #InitData.
//
//go:embed schema.cue
var Schema []byte

// Config configures a Slider. The zero value is a slider without
// persistence, logging to slog.Default().
type Config struct {
	// KV and PersistKey enable persistence: the slider state is hydrated
	// from KV on creation and written back after every dispatch.
	KV         kv.Store
	PersistKey string

	// Codec serializes persisted state. Default: engine.JSONCodec.
	Codec engine.Codec[State]

	Logger *slog.Logger

	// IDs generates store IDs, in model order slider, track, progress.
	IDs engine.IDGenerator

	// Trace is called after every commit of any of the three stores.
	Trace func(engine.TraceEvent)
}

// Slider is an assembled range-slider tree.
type Slider struct {
	Root     *component.Component
	Track    *component.Component
	Progress *component.Component

	Model     *component.StoreModel[State]
	RootView  *RootView
	TrackView *TrackView

	resize *ResizeHandler
	logger *slog.Logger
}

// New assembles the tree. Nothing is built until Attach.
func New(ctx context.Context, cfg Config) *Slider {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	codec := cfg.Codec
	if codec == nil {
		codec = engine.JSONCodec[State]{}
	}

	rootOpts := []engine.Option[State]{
		engine.WithValidators[State](engine.RejectNaN),
		engine.WithLogger[State](logger),
	}
	if cfg.KV != nil && cfg.PersistKey != "" {
		rootOpts = append(rootOpts, engine.WithPlugins(engine.Plugins[State]{
			Pre:  []engine.Plugin[State]{engine.Hydrate(ctx, cfg.KV, cfg.PersistKey, codec, logger)},
			Post: []engine.Plugin[State]{engine.Persist(ctx, cfg.KV, cfg.PersistKey, codec)},
		}))
	}
	trackOpts := []engine.Option[TrackState]{
		engine.WithValidators[TrackState](engine.RejectKinds(editKinds...)),
		engine.WithLogger[TrackState](logger),
	}
	progressOpts := []engine.Option[ProgressState]{
		engine.WithValidators[ProgressState](engine.RejectKinds(editKinds...)),
		engine.WithLogger[ProgressState](logger),
	}
	if cfg.IDs != nil {
		rootOpts = append(rootOpts, engine.WithIDGenerator[State](cfg.IDs))
		trackOpts = append(trackOpts, engine.WithIDGenerator[TrackState](cfg.IDs))
		progressOpts = append(progressOpts, engine.WithIDGenerator[ProgressState](cfg.IDs))
	}
	if cfg.Trace != nil {
		rootOpts = append(rootOpts, engine.WithTrace[State](cfg.Trace))
		trackOpts = append(trackOpts, engine.WithTrace[TrackState](cfg.Trace))
		progressOpts = append(progressOpts, engine.WithTrace[ProgressState](cfg.Trace))
	}

	model := component.NewModel(ModelName, Reduce,
		component.WithStoreOptions(rootOpts...),
		component.WithPropagation(func(s State) (ir.Action, bool) {
			return Sync{State: s}, true
		}),
		component.WithModelLogger[State](logger),
	)
	trackModel := component.NewModel(TrackModelName, ReduceTrack,
		component.WithStoreOptions(trackOpts...))
	progressModel := component.NewModel(ProgressModelName, ReduceProgress,
		component.WithStoreOptions(progressOpts...))

	rootView := NewRootView()
	trackView := NewTrackView(logger)
	trackView.OnClick(TrackClickHandler{Model: model, Labels: trackView.Values}.Handle)

	track := component.New(trackModel, trackView, trackController())
	progress := component.New(progressModel, NewProgressView(), progressController())
	root := component.New(model, rootView, rootController(), track, progress)

	return &Slider{
		Root:      root,
		Track:     track,
		Progress:  progress,
		Model:     model,
		RootView:  rootView,
		TrackView: trackView,
		resize:    &ResizeHandler{Components: []*component.Component{track, root}, Logger: logger},
		logger:    logger,
	}
}

// Attach mounts the slider under mount and registers the resize handler on
// it. mount plays the role of the window for "resize" events.
func (s *Slider) Attach(mount surface.Node, data initdata.Data) error {
	if err := s.Root.Attach(mount, data); err != nil {
		return err
	}
	s.resize.active = true
	if mount != nil {
		mount.AddListener("resize", s.resize.Handle)
	}
	s.logger.Debug("slider attached", "store", s.Model.Store().ID())
	return nil
}

// Detach unmounts the slider and stops reacting to resizes.
func (s *Slider) Detach() {
	s.resize.active = false
	s.Root.Detach()
}

// Dispatch sends an action to the slider model.
func (s *Slider) Dispatch(action ir.Action) error {
	return s.Model.Dispatch(action)
}

// State returns the slider model's current state.
func (s *Slider) State() State {
	return s.Model.TypedState()
}

// InitData returns a complete init-data mapping for state. The child
// entries are projections; they are overwritten by the first Sync anyway.
func InitData(state State) initdata.Data {
	return initdata.Data{
		ModelName:         state,
		TrackModelName:    TrackStateOf(state),
		ProgressModelName: ProgressStateOf(state),
	}
}
