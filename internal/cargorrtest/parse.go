// Argument parsing for the `cargorrtest` harness.
//
// Supported flags:
//   - `--multiple-tests` (cargo also builds an integration test binary)
//   - `--fail-build` (cargo fails with status 101)
//   - `--policy <prompt|all|error>` (write test.multiple to cargo-rr.toml)
//   - `--trace <name>` (seed a trace; repeatable, the last is latest)
//   - `--no-latest-link` (seed traces without rr's latest-trace link)
//   - `--rr-exit <n>` (status rr exits with)
//   - `--keep` (preserve the workspace for debugging)
//   - `-h/--help`
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

type options struct {
	multipleTests bool
	failBuild     bool
	policy        string
	traces        []string
	noLatestLink  bool
	rrExit        int
	keepWorkspace bool
	help          bool
}

func parseArgs(args []string) (options, []string, error) {
	var opts options

	fs := flag.NewFlagSet("cargorrtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&opts.multipleTests, "multiple-tests", false, "")
	fs.BoolVar(&opts.failBuild, "fail-build", false, "")
	fs.StringVar(&opts.policy, "policy", "", "")
	fs.Func("trace", "", func(name string) error {
		if name == "" || strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
			return fmt.Errorf("invalid trace name %q", name)
		}
		opts.traces = append(opts.traces, name)
		return nil
	})
	fs.BoolVar(&opts.noLatestLink, "no-latest-link", false, "")
	fs.IntVar(&opts.rrExit, "rr-exit", 0, "")
	fs.BoolVar(&opts.keepWorkspace, "keep", false, "")

	fs.BoolVar(&opts.help, "help", false, "")
	fs.BoolVar(&opts.help, "h", false, "")

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	if opts.help {
		return opts, nil, nil
	}

	switch opts.policy {
	case "", "prompt", "all", "error":
	default:
		return options{}, nil, fmt.Errorf("unknown policy %q", opts.policy)
	}

	cmd := fs.Args()
	if len(cmd) == 0 {
		return options{}, nil, errors.New("missing command")
	}

	return opts, cmd, nil
}
