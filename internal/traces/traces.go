// Package traces locates rr recordings for a cargo workspace.
//
// Traces live in a project-scoped directory, by default <target-dir>/rr.
// rr itself creates that directory, names each recording <exe>-<N> and
// maintains a latest-trace symlink in it; this package only reads.
package traces

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// EnvDir is rr's own trace directory selector.
	EnvDir = "_RR_TRACE_DIR"
	// DirName is the trace directory created under cargo's target directory.
	DirName = "rr"

	latestLink = "latest-trace"
)

var (
	// ErrNoTrace indicates the project has no recordings yet.
	ErrNoTrace = errors.New("no recording found for this project")
)

// TraceNotFoundError reports a trace requested by name that does not exist.
type TraceNotFoundError struct {
	Name string
	Dir  string
}

func (e *TraceNotFoundError) Error() string {
	return fmt.Sprintf("trace `%s` does not exist in `%s`", e.Name, e.Dir)
}

// Trace is one recording on disk.
type Trace struct {
	Name     string
	Dir      string
	Modified time.Time
	// Latest is set when rr's latest-trace symlink points at this trace.
	Latest bool
	// Pinned means replay must name this trace explicitly instead of
	// letting rr pick its latest one.
	Pinned bool
}

// Store reads traces under Root.
type Store struct {
	Root string
}

// ProjectDir derives the trace directory from cargo's target directory.
func ProjectDir(targetDir string) string {
	return filepath.Join(targetDir, DirName)
}

// Env returns the environment entry that points rr at the store.
func (s Store) Env() string {
	return EnvDir + "=" + s.Root
}

// List returns every trace, oldest first. A missing directory is empty.
func (s Store) List() ([]Trace, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	latest := s.latestName()
	var traces []Trace
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == latestLink || strings.HasPrefix(name, ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		traces = append(traces, Trace{
			Name:     name,
			Dir:      filepath.Join(s.Root, name),
			Modified: info.ModTime(),
			Latest:   name == latest,
		})
	}
	sort.SliceStable(traces, func(i, j int) bool {
		if traces[i].Modified.Equal(traces[j].Modified) {
			return traces[i].Name < traces[j].Name
		}
		return traces[i].Modified.Before(traces[j].Modified)
	})
	return traces, nil
}

// Latest resolves the most recent trace. When rr's latest-trace symlink
// points at a trace in the store, rr can find it unaided; otherwise the
// newest trace directory is pinned.
func (s Store) Latest() (Trace, error) {
	traces, err := s.List()
	if err != nil {
		return Trace{}, err
	}
	if len(traces) == 0 {
		return Trace{}, fmt.Errorf("%w in %s", ErrNoTrace, s.Root)
	}
	for _, t := range traces {
		if t.Latest {
			return t, nil
		}
	}
	newest := traces[len(traces)-1]
	newest.Pinned = true
	return newest, nil
}

// Named returns the trace called name, pinned for replay.
func (s Store) Named(name string) (Trace, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
		return Trace{}, &TraceNotFoundError{Name: name, Dir: s.Root}
	}
	dir := filepath.Join(s.Root, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() || name == latestLink {
		return Trace{}, &TraceNotFoundError{Name: name, Dir: s.Root}
	}
	return Trace{
		Name:     name,
		Dir:      dir,
		Modified: info.ModTime(),
		Latest:   name == s.latestName(),
		Pinned:   true,
	}, nil
}

// latestName returns the trace latest-trace points at, or "" when the link
// is missing or leads outside the store.
func (s Store) latestName() string {
	target, err := os.Readlink(filepath.Join(s.Root, latestLink))
	if err != nil {
		return ""
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.Root, target)
	}
	target = filepath.Clean(target)
	if !sameDir(filepath.Dir(target), s.Root) {
		return ""
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		return ""
	}
	return filepath.Base(target)
}

func sameDir(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
