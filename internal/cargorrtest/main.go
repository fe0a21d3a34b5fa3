// cargorrtest is a small internal harness for transcript tests.
//
// It provisions a disposable cargo workspace under
// `/tmp/cargo-rr-transcripts/ws-<id>`, installs hermetic `cargo` and `rr`
// stubs, then runs an arbitrary command inside the workspace and returns the
// command's exit code.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	tool, err := newToolFromExecutable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(tool.runCLI(context.Background(), os.Args[1:]))
}
