package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSeedTraces_DatesAndLinksLatest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rr")
	if err := seedTraces(dir, []string{"demo-0", "demo-1"}, true); err != nil {
		t.Fatalf("seedTraces: %v", err)
	}

	for i, name := range []string{"demo-0", "demo-1"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		want := fixedNow.Add(-time.Duration(3-i) * time.Hour)
		if !info.ModTime().Equal(want) {
			t.Fatalf("%s modified %v, want %v", name, info.ModTime(), want)
		}
	}
	target, err := os.Readlink(filepath.Join(dir, "latest-trace"))
	if err != nil {
		t.Fatal(err)
	}
	if target != "demo-1" {
		t.Fatalf("latest-trace -> %q, want demo-1", target)
	}
}

func TestSeedTraces_WithoutLink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rr")
	if err := seedTraces(dir, []string{"demo-0"}, false); err != nil {
		t.Fatalf("seedTraces: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(dir, "latest-trace")); !os.IsNotExist(err) {
		t.Fatalf("expected no latest-trace link, got %v", err)
	}
}

func TestSeedWorkspace_WritesPolicy(t *testing.T) {
	ws := t.TempDir()
	if err := seedWorkspace(ws, options{multipleTests: true, policy: "all"}); err != nil {
		t.Fatalf("seedWorkspace: %v", err)
	}
	cfg, err := os.ReadFile(filepath.Join(ws, "cargo-rr.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(cfg) != "[test]\nmultiple = \"all\"\n" {
		t.Fatalf("cargo-rr.toml = %q", cfg)
	}
	if _, err := os.Stat(filepath.Join(ws, "Cargo.toml")); err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
}

func TestRemoveAllUnder_RefusesEscapes(t *testing.T) {
	root := t.TempDir()
	if err := removeAllUnder(root, root); err == nil {
		t.Fatalf("expected error removing root")
	}
	if err := removeAllUnder(root, filepath.Dir(root)); err == nil {
		t.Fatalf("expected error removing parent")
	}
}

func TestWorkspaceDirName_SanitizesID(t *testing.T) {
	t.Setenv("CARGO_RR_CMDTEST_ID", "replay/named trace")
	if got := workspaceDirName(); got != "ws-replay_named_trace" {
		t.Fatalf("workspaceDirName = %q", got)
	}
}
