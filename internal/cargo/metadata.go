package cargo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Metadata is the subset of `cargo metadata` output cargo-rr relies on.
type Metadata struct {
	WorkspaceRoot    string    `json:"workspace_root"`
	TargetDirectory  string    `json:"target_directory"`
	WorkspaceMembers []string  `json:"workspace_members"`
	Packages         []Package `json:"packages"`
}

// Package describes one workspace package.
type Package struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Version      string `json:"version"`
	ManifestPath string `json:"manifest_path"`
}

// IsMember reports whether id names a workspace member.
func (m *Metadata) IsMember(id string) bool {
	for _, member := range m.WorkspaceMembers {
		if member == id {
			return true
		}
	}
	return false
}

// PackageName returns the name of the package with the given id, if known.
func (m *Metadata) PackageName(id string) string {
	for _, pkg := range m.Packages {
		if pkg.ID == id {
			return pkg.Name
		}
	}
	return ""
}

// ReadMetadata runs `cargo metadata` in dir. manifestPath may be empty.
func ReadMetadata(ctx context.Context, proc Process, dir, manifestPath string) (*Metadata, error) {
	args := []string{"metadata", "--no-deps", "--format-version", "1"}
	if manifestPath != "" {
		args = append(args, "--manifest-path", manifestPath)
	}

	var meta Metadata
	status, err := proc.Stream(ctx, dir, args, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&meta)
	})
	if status != 0 {
		return nil, &BuildError{Command: "metadata", Status: status}
	}
	if err != nil {
		return nil, fmt.Errorf("decode cargo metadata: %w", err)
	}
	if meta.WorkspaceRoot == "" || meta.TargetDirectory == "" {
		return nil, fmt.Errorf("cargo metadata omitted workspace_root or target_directory")
	}
	return &meta, nil
}
