package procexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const helperEnv = "PROCEXEC_TEST_HELPER"

// TestHelperProcess is re-executed by the tests below as a stand-in for rr.
func TestHelperProcess(t *testing.T) {
	switch os.Getenv(helperEnv) {
	case "":
		return
	case "echo":
		wd, _ := os.Getwd()
		fmt.Fprintf(os.Stdout, "trace-dir=%s\n", os.Getenv("_RR_TRACE_DIR"))
		fmt.Fprintf(os.Stdout, "wd=%s\n", wd)
		fmt.Fprintln(os.Stderr, "to stderr")
		os.Exit(0)
	case "exit3":
		os.Exit(3)
	}
}

func helper(t *testing.T, mode string, env ...string) Invocation {
	t.Helper()
	return Invocation{
		Path: os.Args[0],
		Args: []string{"-test.run=TestHelperProcess"},
		Env:  append([]string{helperEnv + "=" + mode}, env...),
	}
}

func TestRunPassesEnvDirAndStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	dir := t.TempDir()
	inv := helper(t, "echo", "_RR_TRACE_DIR=/ws/target/rr")
	inv.Dir = dir

	res, err := Exec{Stdin: strings.NewReader(""), Stdout: &stdout, Stderr: &stderr}.Run(context.Background(), inv)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !res.Success() {
		t.Fatalf("status = %d, want 0", res.Status)
	}
	if !strings.Contains(stdout.String(), "trace-dir=/ws/target/rr") {
		t.Fatalf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "wd=") {
		t.Fatalf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "to stderr") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunPropagatesNonZeroExit(t *testing.T) {
	res, err := Exec{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}.Run(context.Background(), helper(t, "exit3"))
	if err != nil {
		t.Fatalf("non-zero exit must not be an error: %v", err)
	}
	if res.Status != 3 || res.Success() {
		t.Fatalf("status = %d, want 3", res.Status)
	}
}

func TestRunRelativeProgramWithOtherDir(t *testing.T) {
	self, err := filepath.Abs(os.Args[0])
	if err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()
	for _, dir := range []string{"bin", "pkg"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Symlink(self, filepath.Join(root, "bin", "fake-rr")); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)

	inv := helper(t, "exit3")
	inv.Path = "./bin/fake-rr"
	inv.Dir = filepath.Join(root, "pkg")

	res, err := Exec{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}.Run(context.Background(), inv)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Status != 3 {
		t.Fatalf("status = %d, want 3", res.Status)
	}
}

func TestRunLaunchFailure(t *testing.T) {
	res, err := Exec{}.Run(context.Background(), Invocation{Path: "/nonexistent/rr", Args: []string{"record"}})
	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("got %v, want LaunchError", err)
	}
	if launchErr.Program != "/nonexistent/rr" {
		t.Fatalf("program = %q", launchErr.Program)
	}
	if res.Status != ExitLaunchFailure {
		t.Fatalf("status = %d, want %d", res.Status, ExitLaunchFailure)
	}
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Path: "rr", Args: []string{"record", "/ws/target/debug/demo", "two words", ""}}
	want := `rr record /ws/target/debug/demo "two words" ""`
	if got := inv.String(); got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}
