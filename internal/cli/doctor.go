package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/brandonbloom/cargo-rr/internal/cargo"
	"github.com/brandonbloom/cargo-rr/internal/config"
	"github.com/brandonbloom/cargo-rr/internal/project"
	"github.com/brandonbloom/cargo-rr/internal/rr"
	"github.com/spf13/cobra"
)

func newDoctorCommand(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose cargo-rr prerequisites and environment issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDoctor(cmd, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show passing checks too")
	return cmd
}

type doctorContext struct {
	Project *project.Project
}

type doctorCheck struct {
	Name string
	Fn   func(*doctorContext) error
}

func (a *app) runDoctor(cmd *cobra.Command, verbose bool) error {
	ctx := &doctorContext{}
	checks := []doctorCheck{
		{Name: "cargo installed", Fn: requireOnPath(cargo.DefaultProgram())},
		{Name: "cargo workspace", Fn: func(c *doctorContext) error {
			proj, _, err := a.loadProject(cmd.Context(), "")
			if err != nil {
				return err
			}
			c.Project = proj
			return nil
		}},
		{Name: "rr installed", Fn: func(c *doctorContext) error {
			return requireOnPath(recordProgram(c))(c)
		}},
		{Name: "perf events available", Fn: func(*doctorContext) error {
			return rr.CheckPerfEvents(rr.PerfParanoidPath)
		}},
		{Name: "trace directory", Fn: checkTraceDir},
	}

	var failures []string
	for _, check := range checks {
		err := check.Fn(ctx)
		if err != nil {
			failures = append(failures, fmt.Sprintf("✗ %s: %v", check.Name, err))
			continue
		}
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", check.Name)
		}
	}

	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintln(cmd.ErrOrStderr(), failure)
		}
		return fmt.Errorf("%d doctor checks failed", len(failures))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "healthy!")
	return nil
}

func requireOnPath(binary string) func(*doctorContext) error {
	return func(*doctorContext) error {
		if _, err := exec.LookPath(binary); err != nil {
			return fmt.Errorf("%s not found on PATH", binary)
		}
		return nil
	}
}

func recordProgram(ctx *doctorContext) string {
	if ctx.Project != nil {
		return ctx.Project.Config.Record.Command[0]
	}
	return config.Default().Record.Command[0]
}

// checkTraceDir accepts a missing directory, which rr creates on first use.
func checkTraceDir(ctx *doctorContext) error {
	if ctx.Project == nil {
		return errors.New("project not found")
	}
	dir := ctx.Project.Traces.Root
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
