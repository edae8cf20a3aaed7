package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/rangeslider/internal/initdata"
	"github.com/roach88/rangeslider/internal/slider"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Schema string
}

// ValidationResult is the payload of the validate command.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Models   []string `json:"models"`
	Problems []string `json:"problems,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <init-data.yaml>",
		Short: "Check an init-data file against the slider schema",
		Long: `Check an init-data file against a CUE schema.

The built-in schema requires an entry for every slider model (slider,
track and progress) and checks their field types and ranges. A custom
schema must define #InitData.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema file (default: built-in slider schema)")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	schema := slider.Schema
	if opts.Schema != "" {
		b, err := os.ReadFile(opts.Schema)
		if err != nil {
			_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read schema", err)
		}
		schema = b
	}

	data, err := initdata.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load init data", err)
	}
	models := data.Names()
	sort.Strings(models)
	formatter.VerboseLog("Loaded %d model(s) from %s", len(models), path)

	err = initdata.Validate(data, schema)
	var verr *initdata.ValidationError
	switch {
	case err == nil:
		if opts.Format == "json" {
			return formatter.Success(ValidationResult{Valid: true, Models: models})
		}
		return formatter.Success(fmt.Sprintf("✓ init data valid (%d models)", len(models)))

	case errors.As(err, &verr):
		if opts.Format == "json" {
			_ = formatter.Error(ErrCodeInvalid, "init data invalid",
				ValidationResult{Valid: false, Models: models, Problems: verr.Problems})
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %d problem(s) in %s\n", len(verr.Problems), path)
			for _, p := range verr.Problems {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		}
		return WrapExitError(ExitFailure, "init data invalid", err)

	default:
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to validate", err)
	}
}
