// The `rr` role: echo the invocation and lay out traces like rr.
//
// CARGO_RR_STUB_EXIT sets the exit status, standing in for the status of the
// recorded program or the debugger.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const latestLink = "latest-trace"

func runRR(args []string) int {
	traceDir := os.Getenv("_RR_TRACE_DIR")
	fmt.Fprintf(os.Stdout, "rr %s\n", strings.Join(args, " "))
	fmt.Fprintf(os.Stdout, "_RR_TRACE_DIR=%s\n", traceDir)
	fmt.Fprintf(os.Stdout, "cwd=%s\n", mustGetwd())

	if len(args) > 0 && args[0] == "record" && traceDir != "" {
		if err := saveTrace(traceDir, args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, "rr stub:", err)
			return 1
		}
	}
	return getenvInt("CARGO_RR_STUB_EXIT")
}

// saveTrace creates <dir>/<exe>-<N> and points latest-trace at it.
func saveTrace(dir string, args []string) error {
	exe := ""
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			exe = filepath.Base(arg)
			break
		}
	}
	if exe == "" {
		return fmt.Errorf("no program to record")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var name string
	for n := 0; ; n++ {
		name = fmt.Sprintf("%s-%d", exe, n)
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			break
		}
	}
	if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
		return err
	}

	link := filepath.Join(dir, latestLink)
	_ = os.Remove(link)
	return os.Symlink(name, link)
}
