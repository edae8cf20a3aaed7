package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/rangeslider/internal/engine"
	"github.com/roach88/rangeslider/internal/initdata"
	"github.com/roach88/rangeslider/internal/ir"
	"github.com/roach88/rangeslider/internal/kv"
	"github.com/roach88/rangeslider/internal/slider"
	"github.com/roach88/rangeslider/internal/surface"
)

// Option configures a run.
type Option func(*options)

type options struct {
	logger *slog.Logger
	kv     kv.Store
	key    string
	codec  engine.Codec[slider.State]
}

// WithLogger sets the logger handed to the slider. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPersistence hydrates the slider from store under key and writes every
// commit back.
func WithPersistence(store kv.Store, key string) Option {
	return func(o *options) {
		o.kv = store
		o.key = key
	}
}

// WithCodec sets the snapshot codec used with WithPersistence.
// Default: engine.JSONCodec.
func WithCodec(codec engine.Codec[slider.State]) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// Harness holds one scenario run.
type Harness struct {
	slider   *slider.Slider
	mount    *surface.Element
	registry *ir.Registry
	logger   *slog.Logger
	result   *Result
}

// Run executes scenario and returns its result.
//
// Execution:
//  1. Build init data and attach a fresh slider to a detached mount
//  2. Post every step to an engine.Loop and run it until every step ran
//     or ctx is cancelled
//  3. Capture the final state and evaluate assertions
//
// An error is returned when the scenario could not run. Failed assertions
// are reported in the result instead.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	data, err := buildInitData(scenario.Init)
	if err != nil {
		return nil, fmt.Errorf("failed to build init data: %w", err)
	}

	result := NewResult()
	h := &Harness{
		mount:    surface.NewElement("body"),
		registry: slider.Registry(),
		logger:   o.logger,
		result:   result,
	}
	h.slider = slider.New(ctx, slider.Config{
		KV:         o.kv,
		PersistKey: o.key,
		Codec:      o.codec,
		Logger:     o.logger,
		IDs:        engine.NewFixedGenerator(slider.ModelName, slider.TrackModelName, slider.ProgressModelName),
		Trace:      h.record,
	})

	if err := h.slider.Attach(h.mount, data); err != nil {
		return nil, fmt.Errorf("failed to attach slider: %w", err)
	}
	defer h.slider.Detach()
	h.frame()

	// Steps run on the loop in order; a failed step does not stop the rest.
	loop := engine.NewLoop(o.logger)
	var stepErrs []error
	for i, step := range scenario.Steps {
		loop.Post(func() error {
			if err := h.apply(step); err != nil {
				err = fmt.Errorf("step %d: %w", i, err)
				stepErrs = append(stepErrs, err)
				return err
			}
			h.frame()
			h.logger.Info("step completed", "step", i, "commits", len(result.Trace))
			return nil
		})
	}
	loop.Close()
	if err := loop.Run(ctx); err != nil {
		return nil, fmt.Errorf("scenario interrupted: %w", err)
	}
	if err := errors.Join(stepErrs...); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	result.State = h.slider.State()
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, h.mount) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) record(e engine.TraceEvent) {
	ev := TraceEvent{Store: e.StoreID, Seq: e.Seq, Applied: string(e.Applied.Kind())}
	if e.Received.Kind() != e.Applied.Kind() {
		ev.Received = string(e.Received.Kind())
	}
	h.result.Trace = append(h.result.Trace, ev)
}

func (h *Harness) frame() {
	h.result.Frames = append(h.result.Frames, surface.Dump(h.mount))
}

func (h *Harness) apply(step Step) error {
	switch {
	case step.Dispatch != "":
		payload, err := ir.FromAny(step.Payload)
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", step.Dispatch, err)
		}
		action, err := h.registry.Decode(ir.Kind(step.Dispatch), payload)
		if err != nil {
			return err
		}
		return h.slider.Dispatch(action)

	case step.Fire != "":
		nodes := surface.FindAllByClass(h.mount, step.Target)
		if step.Index >= len(nodes) {
			return fmt.Errorf("fire %s: no node with class %q at index %d", step.Fire, step.Target, step.Index)
		}
		if nodes[step.Index].Fire(step.Fire, surface.Event{Value: step.Value}) == 0 {
			return fmt.Errorf("fire %s: no listener on %q", step.Fire, step.Target)
		}
		if step.Fire == "input" {
			return h.slider.RootView.LastInputError()
		}
		return nil

	case step.Resize:
		h.mount.Fire("resize", surface.Event{})
		return nil
	}
	return fmt.Errorf("empty step")
}

// buildInitData returns init data for every slider model. The slider entry
// defaults to slider.Default(); the child entries default to its
// projections.
func buildInitData(init map[string]any) (initdata.Data, error) {
	state := slider.Default()
	if entry, ok := init[slider.ModelName]; ok {
		decoded, err := initdata.Decode[slider.State](entry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", slider.ModelName, err)
		}
		state = decoded
	}

	data := slider.InitData(state)
	for name, entry := range init {
		name = initdata.NormalizeName(name)
		if name == slider.ModelName {
			continue
		}
		data[name] = entry
	}
	return data, nil
}
