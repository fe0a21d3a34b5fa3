package cli

import (
	"fmt"
	"time"

	"github.com/brandonbloom/cargo-rr/internal/timefmt"
	"github.com/brandonbloom/cargo-rr/internal/traces"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newLsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List the recordings of this workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, _, err := a.loadProject(cmd.Context(), "")
			if err != nil {
				return err
			}
			list, err := proj.Traces.List()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No recordings in %s yet; create one with `cargo rr test` or `cargo rr run`.\n", proj.Traces.Root)
				return nil
			}
			printTraces(cmd, list, currentTimeOverride())
			return nil
		},
	}
}

func printTraces(cmd *cobra.Command, list []traces.Trace, now time.Time) {
	width := runewidth.StringWidth("NAME")
	for _, t := range list {
		width = max(width, runewidth.StringWidth(t.Name))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %s  %s\n", runewidth.FillRight("NAME", width), "RECORDED")
	for _, t := range list {
		prefix := "  "
		if t.Latest {
			prefix = "* "
		}
		fmt.Fprintf(out, "%s%s  %s\n", prefix, runewidth.FillRight(t.Name, width), timefmt.Age(t.Modified, now))
	}
}
