package cli

import (
	"context"

	"github.com/brandonbloom/cargo-rr/internal/version"
	"github.com/spf13/cobra"
)

// Main runs cargo-rr with the arguments following the program name and
// returns the process exit status.
func Main(args []string) int {
	return newApp().main(context.Background(), args)
}

func (a *app) main(ctx context.Context, args []string) int {
	// cargo runs external subcommands as `cargo-rr rr <args>`.
	if len(args) > 0 && args[0] == "rr" {
		args = args[1:]
	}
	if args == nil {
		args = []string{}
	}

	ctx, task := startTask(ctx, args)
	defer task.End()

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return a.report(root.ExecuteContext(ctx))
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cargo-rr",
		Short: "Record cargo tests and binaries with rr, then replay them",
		Long: `cargo rr builds a test or binary with cargo, records it with rr and
replays the most recent recording of this workspace.

Arguments before -- go to cargo; arguments after -- are passed to rr.
Traces are kept in <target-dir>/rr.`,
		Version: version.String(),
		Annotations: map[string]string{
			cobra.CommandDisplayNameAnnotation: "cargo rr",
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	cmd.AddCommand(
		newTestCommand(a),
		newRunCommand(a),
		newReplayCommand(a),
		newLsCommand(a),
		newDoctorCommand(a),
		newVersionCommand(),
	)

	return cmd
}
