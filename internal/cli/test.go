package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/roach88/rangeslider/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // golden snapshot directory; empty disables comparison
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-path>",
		Short: "Run scenario files and report failures",
		Long: `Run every scenario under a file or directory and check its assertions.

With --golden the snapshot of each scenario (commits of every store and
the final state) is compared against <golden>/<name>.golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  rangeslider test ./scenarios
  rangeslider test ./scenarios --filter "track-*"
  rangeslider test ./scenarios --golden ./golden --update
  rangeslider test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern on the file name")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory of golden snapshots")

	return cmd
}

func runTests(opts *TestOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	files, err := harness.Discover(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenarios not found", err)
	}
	files, err = filterScenarios(files, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	if opts.Update && opts.GoldenDir == "" {
		return NewExitError(ExitCommandError, "--update requires --golden")
	}
	formatter.VerboseLog("Found %d scenario file(s) in %s", len(files), path)

	suite := harness.Suite{
		Options: []harness.Option{harness.WithLogger(opts.logger(cmd.ErrOrStderr()))},
	}
	if opts.GoldenDir != "" {
		suite.Check = golden{dir: opts.GoldenDir, update: opts.Update}.check
	}
	result := suite.Run(cmd.Context(), files)

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeSuite(cmd, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return nil
}

func filterScenarios(files []string, filter string) ([]string, error) {
	if filter == "" {
		return files, nil
	}
	var out []string
	for _, f := range files {
		base := filepath.Base(f)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		matched, err := filepath.Match(filter, name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			out = append(out, f)
		}
	}
	return out, nil
}

func writeSuite(cmd *cobra.Command, result *harness.SuiteResult) {
	w := cmd.OutOrStdout()
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, o := range result.Scenarios {
		if o.Pass {
			fmt.Fprintf(w, "✓ %s\n", o.Scenario)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", o.Scenario)
		for _, e := range o.Errors {
			for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}

// golden compares scenario snapshots against files in dir.
type golden struct {
	dir    string
	update bool
}

func (g golden) check(s *harness.Scenario, r *harness.Result) error {
	data, err := harness.Snapshot(s.Name, r)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	path := filepath.Join(g.dir, s.Name+".golden")

	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write golden file: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("[%s] read golden file: %w", ErrCodeGoldenDiff, err)
	}
	if !bytes.Equal(want, data) {
		return fmt.Errorf("[%s] snapshot differs from %s (-want +got):\n%s",
			ErrCodeGoldenDiff, path, cmp.Diff(string(want), string(data)))
	}
	return nil
}
