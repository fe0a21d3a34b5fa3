// The `cargo` role: metadata and JSON artifact messages.
//
// Artifacts are read from CARGO_RR_STUB_ARTIFACTS (default `.cargo-artifacts`
// in the workspace root), one per line:
//
//	kind|name|test|executable|src
//
// where executable and src are relative to target/ and the workspace root.
// An empty executable means the artifact is not runnable. Setting
// CARGO_RR_STUB_FAIL=1 makes builds fail the way rustc errors do.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const packageID = "path+file:///demo#0.1.0"

func runCargo(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "cargo stub: missing subcommand")
		return 1
	}
	root, err := workspaceRoot(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 101
	}

	switch args[0] {
	case "metadata":
		return cargoMetadata(root)
	case "test", "build":
		fmt.Fprintf(os.Stderr, "cargo %s\n", strings.Join(args, " "))
		return cargoBuild(root, args[0])
	}

	fmt.Fprintf(os.Stderr, "cargo stub cannot handle: %s\n", strings.Join(args, " "))
	return 1
}

func workspaceRoot(args []string) (string, error) {
	for i, arg := range args {
		if arg == "--manifest-path" && i+1 < len(args) {
			return filepath.Dir(args[i+1]), nil
		}
		if value, ok := strings.CutPrefix(arg, "--manifest-path="); ok {
			return filepath.Dir(value), nil
		}
	}
	dir := mustGetwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("could not find `Cargo.toml`")
		}
		dir = parent
	}
}

func cargoMetadata(root string) int {
	meta := map[string]any{
		"workspace_root":    root,
		"target_directory":  filepath.Join(root, "target"),
		"workspace_members": []string{packageID},
		"packages": []map[string]any{{
			"id":            packageID,
			"name":          "demo",
			"version":       "0.1.0",
			"manifest_path": filepath.Join(root, "Cargo.toml"),
		}},
	}
	if err := json.NewEncoder(os.Stdout).Encode(meta); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func cargoBuild(root, sub string) int {
	if os.Getenv("CARGO_RR_STUB_FAIL") == "1" {
		fmt.Fprintln(os.Stderr, "error: could not compile `demo` due to 1 previous error")
		emit(map[string]any{"reason": "build-finished", "success": false})
		return 101
	}

	lines, err := readLines(getenvDefault("CARGO_RR_STUB_ARTIFACTS", filepath.Join(root, ".cargo-artifacts")))
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargo stub:", err)
		return 1
	}
	for _, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) != 5 {
			fmt.Fprintf(os.Stderr, "cargo stub: malformed artifact %q\n", line)
			return 1
		}
		kind, name, test, exe, src := parts[0], parts[1], parts[2] == "true", parts[3], parts[4]
		if test && sub == "build" {
			continue
		}
		var executable any
		if exe != "" {
			executable = filepath.Join(root, "target", exe)
		}
		emit(map[string]any{
			"reason":     "compiler-artifact",
			"package_id": packageID,
			"target": map[string]any{
				"name":     name,
				"kind":     []string{kind},
				"src_path": filepath.Join(root, src),
			},
			"profile":    map[string]any{"test": test},
			"executable": executable,
			"fresh":      true,
		})
	}
	emit(map[string]any{"reason": "build-finished", "success": true})
	return 0
}

func emit(msg map[string]any) {
	_ = json.NewEncoder(os.Stdout).Encode(msg)
}
