package cli

import (
	"errors"
	"fmt"

	"github.com/brandonbloom/cargo-rr/internal/cargo"
	"github.com/brandonbloom/cargo-rr/internal/procexec"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks a malformed command line.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// exitStatus carries a subprocess status out of a command without printing
// anything further.
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitWith(code int) error {
	if code == 0 {
		return nil
	}
	return &exitStatus{code: code}
}

// report prints err once and maps it to the process exit status.
func (a *app) report(err error) int {
	if err == nil {
		return 0
	}

	var status *exitStatus
	if errors.As(err, &status) {
		return status.code
	}

	a.errorf("%v", err)

	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintln(a.stderr, "Run `cargo rr help` for usage.")
		return exitUsage
	}
	var build *cargo.BuildError
	if errors.As(err, &build) && build.Status != 0 {
		return build.Status
	}
	var launch *procexec.LaunchError
	if errors.As(err, &launch) {
		return procexec.ExitLaunchFailure
	}
	return exitFailure
}
