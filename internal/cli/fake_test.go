package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brandonbloom/cargo-rr/internal/procexec"
	"github.com/fatih/color"
)

const testPackageID = "path+file:///ws#demo@0.1.0"

type fakeCargo struct {
	metadata string
	output   string
	status   int
	calls    [][]string
}

func (f *fakeCargo) Stream(ctx context.Context, dir string, args []string, consume func(io.Reader) error) (int, error) {
	f.calls = append(f.calls, append([]string(nil), args...))
	if len(args) > 0 && args[0] == "metadata" {
		return 0, consume(strings.NewReader(f.metadata))
	}
	err := consume(strings.NewReader(f.output))
	return f.status, err
}

// builds returns the cargo invocations other than metadata queries.
func (f *fakeCargo) builds() [][]string {
	var out [][]string
	for _, call := range f.calls {
		if call[0] != "metadata" {
			out = append(out, call)
		}
	}
	return out
}

type fakeRunner struct {
	results     []procexec.Result
	err         error
	invocations []procexec.Invocation
}

func (f *fakeRunner) Run(ctx context.Context, inv procexec.Invocation) (procexec.Result, error) {
	f.invocations = append(f.invocations, inv)
	if f.err != nil {
		return procexec.Result{Status: procexec.ExitLaunchFailure}, f.err
	}
	if len(f.results) == 0 {
		return procexec.Result{}, nil
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res, nil
}

type harness struct {
	t      *testing.T
	root   string
	cargo  *fakeCargo
	runner *fakeRunner
	stdin  string
	tty    bool
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	color.NoColor = true

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[package]\nname = \"demo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	meta, err := json.Marshal(map[string]any{
		"workspace_root":    root,
		"target_directory":  filepath.Join(root, "target"),
		"workspace_members": []string{testPackageID},
		"packages": []map[string]any{{
			"id":            testPackageID,
			"name":          "demo",
			"version":       "0.1.0",
			"manifest_path": filepath.Join(root, "Cargo.toml"),
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &harness{
		t:      t,
		root:   root,
		cargo:  &fakeCargo{metadata: string(meta)},
		runner: &fakeRunner{},
	}
}

func (h *harness) run(args ...string) int {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	a := &app{
		cargo:      h.cargo,
		runner:     h.runner,
		stdin:      strings.NewReader(h.stdin),
		stdout:     &h.stdout,
		stderr:     &h.stderr,
		log:        newLogger(io.Discard, ""),
		getwd:      func() (string, error) { return h.root, nil },
		isTerminal: func() bool { return h.tty },
	}
	return a.main(context.Background(), args)
}

func (h *harness) exe(name string) string {
	return filepath.Join(h.root, "target", "debug", "deps", name)
}

func (h *harness) traceDir() string {
	return filepath.Join(h.root, "target", "rr")
}

func (h *harness) writeConfig(data string) {
	h.t.Helper()
	if err := os.WriteFile(filepath.Join(h.root, "cargo-rr.toml"), []byte(data), 0o644); err != nil {
		h.t.Fatal(err)
	}
}

func (h *harness) mkTrace(name string) string {
	h.t.Helper()
	dir := filepath.Join(h.traceDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.t.Fatal(err)
	}
	return dir
}

type artifact struct {
	name       string
	kind       string
	test       bool
	executable string
}

// buildOutput renders a cargo JSON message stream for arts.
func (h *harness) buildOutput(success bool, arts ...artifact) string {
	h.t.Helper()
	var b strings.Builder
	for _, a := range arts {
		msg := map[string]any{
			"reason":     "compiler-artifact",
			"package_id": testPackageID,
			"target": map[string]any{
				"name":     a.name,
				"kind":     []string{a.kind},
				"src_path": filepath.Join(h.root, "src", a.name+".rs"),
			},
			"profile":    map[string]any{"test": a.test},
			"executable": nil,
			"fresh":      true,
		}
		if a.executable != "" {
			msg["executable"] = a.executable
		}
		line, err := json.Marshal(msg)
		if err != nil {
			h.t.Fatal(err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	finished, _ := json.Marshal(map[string]any{"reason": "build-finished", "success": success})
	b.Write(finished)
	b.WriteByte('\n')
	return b.String()
}
