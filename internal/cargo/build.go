package cargo

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Kind selects which cargo command produces the executables.
type Kind string

const (
	KindTest Kind = "test"
	KindRun  Kind = "run"
)

const (
	messageFormat = "--message-format=json-render-diagnostics"
	// failureStatus is what cargo exits with when a build fails.
	failureStatus = 101
)

// Target is an executable cargo built, along with the arguments it should
// be started with.
type Target struct {
	Executable string
	Args       []string
	Name       string
	Kind       []string
	PackageID  string
	SrcPath    string
	Fresh      bool
}

// Label names the target by its source file relative to root, falling back
// to the target name.
func (t Target) Label(root string) string {
	if t.SrcPath == "" {
		return t.Name
	}
	rel, err := filepath.Rel(root, t.SrcPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return t.SrcPath
	}
	return rel
}

// Builder asks cargo to build executables and reports them from cargo's
// message stream rather than guessing paths under target/.
type Builder struct {
	Process Process
	Dir     string
	Meta    *Metadata
	Log     *slog.Logger
}

// Command returns the cargo arguments used to build for kind.
func Command(kind Kind, args Args) []string {
	var cmd []string
	switch kind {
	case KindTest:
		cmd = []string{"test", "--no-run", messageFormat}
	default:
		cmd = []string{"build", messageFormat}
	}
	return append(cmd, args.Cargo...)
}

// Build runs cargo and returns every matching executable. For KindRun it
// insists on exactly one. KindTest may return several; choosing among them
// is the caller's policy.
func (b *Builder) Build(ctx context.Context, kind Kind, args Args) ([]Target, error) {
	log := b.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	cmd := Command(kind, args)
	log.Debug("building", "kind", kind, "args", cmd)

	var (
		targets  []Target
		finished *bool
		seen     = map[string]bool{}
	)
	status, err := b.Process.Stream(ctx, b.Dir, cmd, func(r io.Reader) error {
		return ParseStream(r, func(msg Message) error {
			switch msg.Reason {
			case reasonBuildFinished:
				finished = msg.Success
			case reasonCompilerArtifact:
				if !b.wanted(kind, msg) || seen[*msg.Executable] {
					return nil
				}
				seen[*msg.Executable] = true
				targets = append(targets, newTarget(msg, args.Runtime))
				log.Debug("artifact", "name", msg.Target.Name, "executable", *msg.Executable, "fresh", msg.Fresh)
			}
			return nil
		})
	})
	if status != 0 {
		return nil, &BuildError{Command: cmd[0], Status: status}
	}
	if err != nil {
		return nil, err
	}
	if finished != nil && !*finished {
		return nil, &BuildError{Command: cmd[0], Status: failureStatus}
	}

	switch {
	case len(targets) == 0 && kind == KindTest:
		return nil, ErrNoTestTargets
	case len(targets) == 0:
		return nil, ErrNoBinTargets
	case len(targets) > 1 && kind == KindRun:
		return nil, &AmbiguousError{Kind: kind, Targets: targets}
	}
	return targets, nil
}

func (b *Builder) wanted(kind Kind, msg Message) bool {
	if msg.Executable == nil || *msg.Executable == "" || msg.Target == nil {
		return false
	}
	if b.Meta != nil && !b.Meta.IsMember(msg.PackageID) {
		return false
	}
	isTest := msg.Profile != nil && msg.Profile.Test
	if kind == KindTest {
		return isTest
	}
	return !isTest && (msg.Target.HasKind("bin") || msg.Target.HasKind("example"))
}

func newTarget(msg Message, runtime []string) Target {
	args := make([]string, len(runtime))
	copy(args, runtime)
	return Target{
		Executable: *msg.Executable,
		Args:       args,
		Name:       msg.Target.Name,
		Kind:       msg.Target.Kind,
		PackageID:  msg.PackageID,
		SrcPath:    msg.Target.SrcPath,
		Fresh:      msg.Fresh,
	}
}
