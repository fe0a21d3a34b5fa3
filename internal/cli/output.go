package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/brandonbloom/cargo-rr/internal/procexec"
	"github.com/fatih/color"
)

var (
	statusColor = color.New(color.FgGreen, color.Bold)
	errorColor  = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow, color.Bold)
	promptColor = color.New(color.FgCyan, color.Bold)
)

// status prints a cargo-style progress line with a right-aligned verb.
func (a *app) status(verb, format string, args ...any) {
	fmt.Fprintf(a.stderr, "%s %s\n", statusColor.Sprintf("%12s", verb), fmt.Sprintf(format, args...))
}

func (a *app) warnf(format string, args ...any) {
	fmt.Fprintf(a.stderr, "cargo-rr: %s %s\n", warnColor.Sprint("warning:"), fmt.Sprintf(format, args...))
}

func (a *app) errorf(format string, args ...any) {
	fmt.Fprintf(a.stderr, "cargo-rr: %s %s\n", errorColor.Sprint("error:"), fmt.Sprintf(format, args...))
}

// noteExit reports a non-zero status from a tool whose output has already
// reached the terminal.
func (a *app) noteExit(command []string, res procexec.Result) {
	if res.Success() {
		return
	}
	label := commandLabel(command)
	if res.Signal != "" {
		a.warnf("`%s` was terminated by %s (status %d)", label, res.Signal, res.Status)
		return
	}
	a.warnf("`%s` exited with status %d", label, res.Status)
}

// commandLabel shortens a configured command to its program and subcommand.
func commandLabel(command []string) string {
	if len(command) == 0 {
		return ""
	}
	parts := []string{filepath.Base(command[0])}
	if len(command) > 1 {
		parts = append(parts, command[1])
	}
	return strings.Join(parts, " ")
}
