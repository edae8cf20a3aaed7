package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rangeslider/internal/ir"
	"github.com/roach88/rangeslider/internal/kv"
)

// StateOptions holds flags for the state subcommands.
type StateOptions struct {
	*RootOptions
	BackendOptions
	Codec string
}

// StateEntry is one stored snapshot in list output. Revision and Size are
// zero for backends that do not track them.
type StateEntry struct {
	Key      string `json:"key"`
	Revision int64  `json:"revision,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// NewStateCommand creates the state command and its subcommands.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect persisted slider state",
		Long: `Inspect the slider snapshots written by render --db.

Examples:
  rangeslider state list --db state.db
  rangeslider state get demo --db state.db
  rangeslider state delete demo --db state.bolt --backend bolt`,
	}

	cmd.AddCommand(newStateListCommand(&StateOptions{RootOptions: rootOpts}))
	cmd.AddCommand(newStateGetCommand(&StateOptions{RootOptions: rootOpts}))
	cmd.AddCommand(newStateDeleteCommand(&StateOptions{RootOptions: rootOpts}))
	return cmd
}

func newStateListCommand(opts *StateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored keys",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(opts, cmd, func(db backend) error {
				entries, err := listEntries(cmd, db)
				if err != nil {
					return storageError(opts, cmd, err)
				}
				if opts.Format == "json" {
					return opts.formatter(cmd).Success(entries)
				}
				for _, e := range entries {
					if e.Revision > 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\trev=%d\tsize=%d\n", e.Key, e.Revision, e.Size)
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), e.Key)
					}
				}
				return nil
			})
		},
	}
	opts.addFlags(cmd, true)
	return cmd
}

func listEntries(cmd *cobra.Command, db backend) ([]StateEntry, error) {
	if lister, ok := db.(entryLister); ok {
		rows, err := lister.Entries(cmd.Context())
		if err != nil {
			return nil, err
		}
		out := make([]StateEntry, len(rows))
		for i, r := range rows {
			out[i] = StateEntry{Key: r.Key, Revision: r.Revision, Size: r.Size}
		}
		return out, nil
	}

	keys, err := db.Keys(cmd.Context())
	if err != nil {
		return nil, err
	}
	out := make([]StateEntry, len(keys))
	for i, k := range keys {
		out[i] = StateEntry{Key: k}
	}
	return out, nil
}

func newStateGetCommand(opts *StateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "get <key>",
		Short:         "Print the slider state stored under key",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := stateCodec(opts.Codec)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid codec", err)
			}
			return withBackend(opts, cmd, func(db backend) error {
				raw, err := db.Get(cmd.Context(), args[0])
				if errors.Is(err, kv.ErrNotFound) {
					_ = opts.formatter(cmd).Error(ErrCodeNotFound, fmt.Sprintf("no state under %q", args[0]), nil)
					return WrapExitError(ExitFailure, "state not found", err)
				}
				if err != nil {
					return storageError(opts, cmd, err)
				}
				state, err := codec.Decode(raw)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to decode state", err)
				}
				canonical, err := ir.MarshalCanonical(state)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to encode state", err)
				}
				if opts.Format == "json" {
					v, err := ir.UnmarshalValue(canonical)
					if err != nil {
						return WrapExitError(ExitFailure, "failed to encode state", err)
					}
					return opts.formatter(cmd).Success(ir.ToAny(v))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", canonical)
				return nil
			})
		},
	}
	opts.addFlags(cmd, true)
	cmd.Flags().StringVar(&opts.Codec, "codec", "json", "snapshot encoding (json|yaml)")
	return cmd
}

func newStateDeleteCommand(opts *StateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "delete <key>",
		Short:         "Delete the state stored under key",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(opts, cmd, func(db backend) error {
				if err := db.Delete(cmd.Context(), args[0]); err != nil {
					return storageError(opts, cmd, err)
				}
				opts.formatter(cmd).VerboseLog("Deleted %q from %s", args[0], opts.Database)
				if opts.Format == "json" {
					return opts.formatter(cmd).Success(map[string]string{"deleted": args[0]})
				}
				return opts.formatter(cmd).Success(fmt.Sprintf("deleted %s", args[0]))
			})
		},
	}
	opts.addFlags(cmd, true)
	return cmd
}

func withBackend(opts *StateOptions, cmd *cobra.Command, fn func(backend) error) error {
	db, err := opts.open()
	if err != nil {
		return storageError(opts, cmd, err)
	}
	defer db.Close()
	return fn(db)
}

func storageError(opts *StateOptions, cmd *cobra.Command, err error) error {
	_ = opts.formatter(cmd).Error(ErrCodeStorage, err.Error(), nil)
	return WrapExitError(ExitCommandError, "state backend error", err)
}
