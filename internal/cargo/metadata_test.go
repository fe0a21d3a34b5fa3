package cargo

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

const metadataJSON = `{
  "packages": [{"id": "demo 0.1.0 (path+file:///ws)", "name": "demo", "version": "0.1.0", "manifest_path": "/ws/Cargo.toml"}],
  "workspace_members": ["demo 0.1.0 (path+file:///ws)"],
  "target_directory": "/ws/target",
  "workspace_root": "/ws",
  "version": 1
}`

func TestReadMetadata(t *testing.T) {
	proc := &fakeProcess{output: metadataJSON}
	meta, err := ReadMetadata(context.Background(), proc, "/ws/src", "sub/Cargo.toml")
	if err != nil {
		t.Fatalf("ReadMetadata returned error: %v", err)
	}
	want := []string{"metadata", "--no-deps", "--format-version", "1", "--manifest-path", "sub/Cargo.toml"}
	if !reflect.DeepEqual(proc.calls[0], want) {
		t.Fatalf("args = %q, want %q", proc.calls[0], want)
	}
	if meta.WorkspaceRoot != "/ws" || meta.TargetDirectory != "/ws/target" {
		t.Fatalf("meta = %+v", meta)
	}
	if !meta.IsMember("demo 0.1.0 (path+file:///ws)") || meta.IsMember("other") {
		t.Fatal("IsMember mismatch")
	}
	if got := meta.PackageName("demo 0.1.0 (path+file:///ws)"); got != "demo" {
		t.Fatalf("PackageName = %q", got)
	}
}

func TestReadMetadataFailure(t *testing.T) {
	proc := &fakeProcess{output: "", status: 101}
	_, err := ReadMetadata(context.Background(), proc, "/nowhere", "")
	var buildErr *BuildError
	if !errors.As(err, &buildErr) || buildErr.Status != 101 {
		t.Fatalf("got %v, want BuildError status 101", err)
	}
}

func TestReadMetadataIncomplete(t *testing.T) {
	proc := &fakeProcess{output: `{"workspace_root": "/ws"}`}
	if _, err := ReadMetadata(context.Background(), proc, "/ws", ""); err == nil {
		t.Fatal("expected error for missing target_directory")
	}
}
