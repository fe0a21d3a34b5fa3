package cli

import (
	"strings"

	"github.com/brandonbloom/cargo-rr/internal/argsplit"
	"github.com/brandonbloom/cargo-rr/internal/procexec"
	"github.com/brandonbloom/cargo-rr/internal/rr"
	"github.com/brandonbloom/cargo-rr/internal/traces"
	"github.com/spf13/cobra"
)

func newReplayCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [TRACE] [-- <rr replay options>]",
		Short: "Replay the latest recording of this workspace",
		Long: `Replay a trace recorded by cargo rr test or cargo rr run. Without TRACE
the most recent recording of this workspace is replayed; see cargo rr ls for
the available names. Anything after -- is given to rr replay.

To debug with rust-gdb and a quiet banner, set this in cargo-rr.toml:

  [replay]
  debugger = "rust-gdb"
  quiet = true`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.replay(cmd, args)
		},
	}
}

func (a *app) replay(cmd *cobra.Command, raw []string) error {
	split := argsplit.Args(raw)
	if wantsHelp(split.Primary) {
		return cmd.Help()
	}
	for _, arg := range split.Primary {
		if strings.HasPrefix(arg, "-") {
			return usageErrorf("unexpected option %q; rr replay options go after --", arg)
		}
	}
	if len(split.Primary) > 1 {
		return usageErrorf("replay takes at most one trace name, got %d", len(split.Primary))
	}

	ctx := cmd.Context()
	proj, wd, err := a.loadProject(ctx, "")
	if err != nil {
		return err
	}

	var trace traces.Trace
	if len(split.Primary) == 1 {
		trace, err = proj.Traces.Named(split.Primary[0])
	} else {
		trace, err = proj.Traces.Latest()
	}
	if err != nil {
		return err
	}

	inv := rr.Replay(proj.Config.Replay, proj.Traces, trace, split.Secondary)
	inv.Dir = wd
	a.status("Replaying", "%s", trace.Dir)
	a.log.Debug("launching replayer", "command", inv.String(), "pinned", trace.Pinned)
	res, err := withTraceRegion(ctx, "replay", func() (procexec.Result, error) {
		return a.runner.Run(ctx, inv)
	})
	if err != nil {
		return err
	}
	a.noteExit(proj.Config.Replay.Command, res)
	return exitWith(res.Status)
}
