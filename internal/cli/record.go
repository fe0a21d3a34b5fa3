package cli

import (
	"github.com/brandonbloom/cargo-rr/internal/argsplit"
	"github.com/brandonbloom/cargo-rr/internal/cargo"
	"github.com/brandonbloom/cargo-rr/internal/procexec"
	"github.com/brandonbloom/cargo-rr/internal/rr"
	"github.com/spf13/cobra"
)

func newTestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test [cargo test options] [TESTNAME] [-- <rr record options>]",
		Short: "Build tests with cargo and record a test binary with rr",
		Long: `Build the workspace's tests with cargo test --no-run and record the
resulting test binary with rr. TESTNAME is passed to the test binary as its
filter. Anything after -- is given to rr record.

When several test binaries are built, test.multiple in cargo-rr.toml decides
whether to prompt for one (the default), record each in turn, or fail.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.record(cmd, cargo.KindTest, args)
		},
	}
}

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [cargo build options] [args] [-- <rr record options>]",
		Short: "Build a binary with cargo and record it with rr",
		Long: `Build a binary or example with cargo build and record it with rr.
Positional arguments are passed to the program. Anything after -- is given to
rr record.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.record(cmd, cargo.KindRun, args)
		},
	}
}

func (a *app) record(cmd *cobra.Command, kind cargo.Kind, raw []string) error {
	split := argsplit.Args(raw)
	a.log.Debug("split arguments", "primary", split.Primary, "secondary", split.Secondary, "delimited", split.Delimited)

	args, err := cargo.PartitionArgs(split.Primary)
	if err != nil {
		return usageError{err: err}
	}
	// Program arguments may carry their own -h.
	if wantsHelp(args.Cargo) {
		return cmd.Help()
	}

	ctx := cmd.Context()
	proj, wd, err := a.loadProject(ctx, args.ManifestPath)
	if err != nil {
		return err
	}

	builder := &cargo.Builder{Process: a.cargo, Dir: wd, Meta: proj.Metadata, Log: a.log}
	targets, err := withTraceRegion(ctx, "cargo build", func() ([]cargo.Target, error) {
		return builder.Build(ctx, kind, args)
	})
	if err != nil {
		return err
	}
	if kind == cargo.KindTest {
		targets, err = a.chooseTargets(proj.Config.Test.Policy(), proj.Root, targets)
		if err != nil {
			return err
		}
	}

	var (
		last   procexec.Result
		failed bool
	)
	for _, target := range targets {
		inv := rr.Record(proj.Config.Record, proj.Traces, target, split.Secondary)
		inv.Dir = wd
		if kind == cargo.KindTest {
			// cargo test starts test binaries from their package directory.
			inv.Dir = proj.PackageDir(target.PackageID)
		}

		a.status("Recording", "%s", target.Label(proj.Root))
		a.log.Debug("launching recorder", "command", inv.String(), "dir", inv.Dir)
		last, err = withTraceRegion(ctx, "record", func() (procexec.Result, error) {
			return a.runner.Run(ctx, inv)
		})
		if err != nil {
			return err
		}
		a.noteExit(proj.Config.Record.Command, last)
		failed = failed || !last.Success()
	}

	if !failed {
		a.status("Recorded", "trace saved in %s; replay it with `cargo rr replay`", proj.Traces.Root)
	}
	return exitWith(last.Status)
}
