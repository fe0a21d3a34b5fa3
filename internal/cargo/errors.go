package cargo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoTestTargets indicates cargo built no test executables for the workspace.
	ErrNoTestTargets = errors.New("no test targets were built; check the --test/--lib/-p selection")
	// ErrNoBinTargets indicates cargo built no runnable binaries for the workspace.
	ErrNoBinTargets = errors.New("no binary targets were built; pass --bin or --example")
	// ErrReservedOption indicates the user passed an option cargo-rr sets itself.
	ErrReservedOption = errors.New("option is set by cargo-rr and cannot be passed through")
	// ErrMissingValue indicates a cargo option that needs a value ended the argument list.
	ErrMissingValue = errors.New("option requires a value")
)

// BuildError reports a cargo invocation that exited unsuccessfully. Status
// is cargo's exit status and becomes cargo-rr's.
type BuildError struct {
	Command string
	Status  int
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("`cargo %s` failed with status %d", e.Command, e.Status)
}

// AmbiguousError reports that more than one executable matched where one was
// required.
type AmbiguousError struct {
	Kind    Kind
	Targets []Target
}

func (e *AmbiguousError) Error() string {
	names := make([]string, 0, len(e.Targets))
	for _, t := range e.Targets {
		names = append(names, t.Name)
	}
	hint := "narrow the selection with --test, --lib or -p"
	if e.Kind == KindRun {
		hint = "pass --bin or --example"
	}
	return fmt.Sprintf("%d executables were built (%s); %s", len(e.Targets), strings.Join(names, ", "), hint)
}
