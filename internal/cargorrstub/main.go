// cargorrstub is a hermetic stand-in for `cargo` and `rr` used by transcript
// tests. It is installed twice, as bin/cargo and bin/rr, and picks its role
// from the name it was invoked under.
//
// As cargo it supports:
//   - `cargo metadata` (one package rooted at the nearest Cargo.toml)
//   - `cargo test` / `cargo build` (artifact messages from CARGO_RR_STUB_ARTIFACTS)
//
// As rr it echoes its argv, `_RR_TRACE_DIR` and working directory, and
// `rr record` creates a trace directory the way rr does.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	name := filepath.Base(os.Args[0])
	args := os.Args[1:]

	switch name {
	case "cargo":
		os.Exit(runCargo(args))
	case "rr":
		os.Exit(runRR(args))
	}

	fmt.Fprintf(os.Stderr, "cargorrstub: unknown role %q (%s)\n", name, strings.Join(args, " "))
	os.Exit(1)
}
