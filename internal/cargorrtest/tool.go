// Implementation of the `cargorrtest` harness.
//
// Key behaviors:
//   - Creates `/tmp/cargo-rr-transcripts/ws-<id>` holding a one-package cargo workspace.
//   - Installs the `cargorrstub` binary found next to this one as `bin/cargo` and `bin/rr`.
//   - Puts the stubs and the directory of this binary (where `cargo-rr` lives) on PATH.
//   - Pins the clock cargo-rr uses for ages and disables color for stable transcripts.
//   - Honors `CARGO_RR_CMDTEST_TIMEOUT` (default 10s) to cap setup + command runtime.
//   - Honors `CARGO_RR_CMDTEST_ID` to isolate workspaces for parallel tests.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type tool struct {
	binDir          string
	transcriptsRoot string
	stubBinary      string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

const defaultTimeout = 10 * time.Second

// fixedNow is the clock cargo-rr sees; seeded traces are dated just before it.
var fixedNow = time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)

func newToolFromExecutable() (*tool, error) {
	if dir := os.Getenv("CARGO_RR_BIN_DIR"); dir != "" {
		return newTool(dir), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, err
	}
	return newTool(filepath.Dir(exe)), nil
}

func newTool(binDir string) *tool {
	binDir = filepath.Clean(binDir)
	return &tool{
		binDir:          binDir,
		transcriptsRoot: "/tmp/cargo-rr-transcripts",
		stubBinary:      filepath.Join(binDir, "cargorrstub"),
		stdin:           os.Stdin,
		stdout:          os.Stdout,
		stderr:          os.Stderr,
	}
}

func (t *tool) runCLI(ctx context.Context, args []string) int {
	ctx, cancel, timeout := withTimeoutFromEnv(ctx, "CARGO_RR_CMDTEST_TIMEOUT", defaultTimeout)
	if cancel != nil {
		defer cancel()
	}

	opts, cmdArgs, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(t.stderr, err)
		t.printUsage()
		return 2
	}
	if opts.help {
		t.printUsage()
		return 0
	}

	exitCode, err := t.run(ctx, opts, cmdArgs, timeout)
	if err != nil {
		fmt.Fprintln(t.stderr, err)
		return 1
	}
	return exitCode
}

func (t *tool) printUsage() {
	fmt.Fprint(t.stderr, `Usage: cargorrtest [options] -- <command> [args...]

Sets up a disposable cargo workspace with stub cargo and rr binaries, runs
the given command inside it, and cleans up afterward. Intended for transcript
integration tests.

Options:
  --multiple-tests     cargo also builds an integration test binary.
  --fail-build         cargo fails to compile with status 101.
  --policy POLICY      Write test.multiple = POLICY to cargo-rr.toml.
  --trace NAME         Seed a trace under target/rr (repeatable; last is latest).
  --no-latest-link     Seed traces without rr's latest-trace link.
  --rr-exit N          Status the rr stub exits with.
  --keep               Preserve the workspace for debugging (prints its path).
`)
}

func (t *tool) run(ctx context.Context, opts options, cmdArgs []string, timeout time.Duration) (int, error) {
	if _, err := os.Stat(t.stubBinary); err != nil {
		return 1, fmt.Errorf("unable to locate cargo/rr stub: %w", err)
	}
	if err := os.MkdirAll(t.transcriptsRoot, 0o755); err != nil {
		return 1, err
	}

	ws := filepath.Join(t.transcriptsRoot, workspaceDirName())
	if err := removeAllUnder(t.transcriptsRoot, ws); err != nil {
		return 1, err
	}
	if err := os.MkdirAll(ws, 0o755); err != nil {
		return 1, err
	}

	if err := seedWorkspace(ws, opts); err != nil {
		return 1, err
	}
	if err := seedTraces(filepath.Join(ws, "target", "rr"), opts.traces, !opts.noLatestLink); err != nil {
		return 1, err
	}
	if err := t.installStubs(ws); err != nil {
		return 1, err
	}

	childEnv := deterministicEnv(os.Environ())
	childEnv = withEnv(childEnv, "CARGO", filepath.Join(ws, "bin", "cargo"))
	childEnv = withEnv(childEnv, "CARGO_RR_STUB_ARTIFACTS", filepath.Join(ws, ".cargo-artifacts"))
	childEnv = withEnv(childEnv, "CARGO_RR_STUB_EXIT", strconv.Itoa(opts.rrExit))
	if opts.failBuild {
		childEnv = withEnv(childEnv, "CARGO_RR_STUB_FAIL", "1")
	}
	path := strings.Join([]string{filepath.Join(ws, "bin"), t.binDir, getEnv(childEnv, "PATH")}, string(os.PathListSeparator))
	childEnv = withEnv(childEnv, "PATH", path)

	cmd := exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
	cmd.Dir = ws
	cmd.Env = withEnv(childEnv, "PWD", ws)
	cmd.Stdin = t.stdin
	cmd.Stdout = t.stdout
	cmd.Stderr = t.stderr

	runErr := cmd.Run()
	if runErr != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 124, fmt.Errorf("cargorrtest: timed out after %s", timeout)
	}
	exitCode := exitStatus(runErr)

	if opts.keepWorkspace {
		fmt.Fprintf(t.stderr, "workspace kept at %s\n", ws)
	} else if cleanupErr := removeAllUnder(t.transcriptsRoot, ws); cleanupErr != nil {
		return 1, cleanupErr
	}

	return exitCode, nil
}

// seedWorkspace writes the manifest, sources, the artifact list the cargo
// stub reports and, when asked, cargo-rr.toml.
func seedWorkspace(ws string, opts options) error {
	files := map[string]string{
		"Cargo.toml":           "[package]\nname = \"demo\"\nversion = \"0.1.0\"\nedition = \"2021\"\n",
		"src/lib.rs":           "",
		"src/main.rs":          "fn main() {}\n",
		"tests/integration.rs": "",
	}
	artifacts := []string{
		"lib|demo|false||src/lib.rs",
		"lib|demo|true|debug/deps/demo-0123456789abcdef|src/lib.rs",
		"bin|demo|false|debug/demo|src/main.rs",
	}
	if opts.multipleTests {
		artifacts = append(artifacts, "test|integration|true|debug/deps/integration-fedcba9876543210|tests/integration.rs")
	}
	files[".cargo-artifacts"] = strings.Join(artifacts, "\n") + "\n"
	if opts.policy != "" {
		files["cargo-rr.toml"] = fmt.Sprintf("[test]\nmultiple = %q\n", opts.policy)
	}

	for name, content := range files {
		path := filepath.Join(ws, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// seedTraces creates trace directories an hour apart, ending two hours before
// fixedNow, and optionally points latest-trace at the last one.
func seedTraces(dir string, names []string, link bool) error {
	if len(names) == 0 {
		return nil
	}
	start := fixedNow.Add(-time.Duration(len(names)+1) * time.Hour)
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return err
		}
		at := start.Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(path, at, at); err != nil {
			return err
		}
	}
	if !link {
		return nil
	}
	return os.Symlink(names[len(names)-1], filepath.Join(dir, "latest-trace"))
}

func (t *tool) installStubs(ws string) error {
	stub, err := os.ReadFile(t.stubBinary)
	if err != nil {
		return err
	}

	binDir := filepath.Join(ws, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	for _, name := range []string{"cargo", "rr"} {
		if err := os.WriteFile(filepath.Join(binDir, name), stub, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func deterministicEnv(base []string) []string {
	env := envMap(base)
	delete(env, "CARGO_RR_LOG")
	delete(env, "_RR_TRACE_DIR")
	env["CARGO_RR_NOW"] = fixedNow.Format(time.RFC3339)
	env["NO_COLOR"] = "1"
	env["CLICOLOR"] = "0"
	env["CLICOLOR_FORCE"] = "0"
	return envSlice(env)
}

func removeAllUnder(root, target string) error {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return err
	}
	if rel == "." {
		return fmt.Errorf("refusing to remove root: %s", root)
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return fmt.Errorf("refusing to remove outside root: %s", target)
	}
	return os.RemoveAll(target)
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 127
}

func withTimeoutFromEnv(ctx context.Context, key string, def time.Duration) (context.Context, context.CancelFunc, time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = def.String()
	}
	if raw == "0" || raw == "0s" {
		return ctx, nil, 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		d = def
	}
	next, cancel := context.WithTimeout(ctx, d)
	return next, cancel, d
}

func envMap(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, entry := range env {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

func envSlice(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out
}

func withEnv(env []string, key, value string) []string {
	m := envMap(env)
	m[key] = value
	return envSlice(m)
}

func getEnv(env []string, key string) string {
	return envMap(env)[key]
}

func workspaceDirName() string {
	raw := strings.TrimSpace(os.Getenv("CARGO_RR_CMDTEST_ID"))
	if raw != "" {
		safe := make([]rune, 0, len(raw))
		for _, r := range raw {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
				safe = append(safe, r)
				continue
			}
			safe = append(safe, '_')
		}
		id := strings.Trim(strings.TrimSpace(string(safe)), "._-")
		if id != "" {
			return "ws-" + id
		}
	}

	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("ws-%d", os.Getpid())
	}
	return "ws-" + hex.EncodeToString(b[:])
}
