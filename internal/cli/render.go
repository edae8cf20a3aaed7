package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rangeslider/internal/harness"
	"github.com/roach88/rangeslider/internal/ir"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	BackendOptions
	Key   string
	Codec string
	Last  bool
}

// RenderOutput is the JSON payload of the render command.
type RenderOutput struct {
	Name   string               `json:"name"`
	Pass   bool                 `json:"pass"`
	Frames []string             `json:"frames"`
	Trace  []harness.TraceEvent `json:"trace"`
	State  any                  `json:"state"`
	Errors []string             `json:"errors,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <scenario.yaml>",
		Short: "Run a scenario and print every rendered frame",
		Long: `Run a scenario and print the rendered tree after attach and after
every step, followed by the final slider state.

With --db the slider state is hydrated from and written back to a state
database, so consecutive renders continue where the last one stopped.

Exit codes:
  0 - Scenario ran and every assertion held
  1 - An assertion failed
  2 - Command error (missing file, bad database, etc.)

Examples:
  rangeslider render scenarios/track_click.yaml
  rangeslider render scenarios/track_click.yaml --last
  rangeslider render scenarios/track_click.yaml --db state.db --key demo`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	opts.addFlags(cmd, false)
	cmd.Flags().StringVar(&opts.Key, "key", "", "state key (default: scenario name)")
	cmd.Flags().StringVar(&opts.Codec, "codec", "json", "snapshot encoding (json|yaml)")
	cmd.Flags().BoolVar(&opts.Last, "last", false, "print only the final frame")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	runOpts := []harness.Option{harness.WithLogger(opts.logger(cmd.ErrOrStderr()))}
	if opts.Database != "" {
		codec, err := stateCodec(opts.Codec)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid codec", err)
		}
		db, err := opts.open()
		if err != nil {
			_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer db.Close()

		key := opts.Key
		if key == "" {
			key = scenario.Name
		}
		formatter.VerboseLog("Persisting state under %q in %s (%s)", key, opts.Database, opts.Backend)
		runOpts = append(runOpts, harness.WithPersistence(db, key), harness.WithCodec(codec))
	}

	result, err := harness.Run(cmd.Context(), scenario, runOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeRun, err.Error(), nil)
		return WrapExitError(ExitFailure, "scenario failed to run", err)
	}

	frames := result.Frames
	if opts.Last && len(frames) > 0 {
		frames = frames[len(frames)-1:]
	}
	state, err := ir.MarshalCanonical(result.State)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode state", err)
	}

	if opts.Format == "json" {
		var stateAny any
		if v, err := ir.UnmarshalValue(state); err == nil {
			stateAny = ir.ToAny(v)
		}
		if err := formatter.Success(RenderOutput{
			Name:   scenario.Name,
			Pass:   result.Pass,
			Frames: frames,
			Trace:  result.Trace,
			State:  stateAny,
			Errors: result.Errors,
		}); err != nil {
			return err
		}
	} else {
		writeFrames(cmd, scenario.Name, frames, len(result.Frames)-len(frames))
		fmt.Fprintf(cmd.OutOrStdout(), "state: %s\n", state)
		for _, e := range result.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", strings.TrimRight(e, "\n"))
		}
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("%d assertion(s) failed", len(result.Errors)))
	}
	return nil
}

func writeFrames(cmd *cobra.Command, name string, frames []string, first int) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "scenario: %s\n", name)
	for i, f := range frames {
		n := first + i
		label := fmt.Sprintf("step %d", n)
		if n == 0 {
			label = "attach"
		}
		fmt.Fprintf(w, "--- frame %d (%s) ---\n%s", n, label, f)
	}
}
