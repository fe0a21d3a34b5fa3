package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/brandonbloom/cargo-rr/internal/cargo"
	"github.com/brandonbloom/cargo-rr/internal/config"
	"github.com/brandonbloom/cargo-rr/internal/traces"
)

var (
	// ErrNotFound indicates no Cargo.toml exists at or above the start directory.
	ErrNotFound = errors.New("could not find `Cargo.toml` in this directory or any parent")
)

// Project is a cargo workspace together with cargo-rr's view of it.
type Project struct {
	Root       string
	TargetDir  string
	ConfigPath string
	Config     config.Config
	Metadata   *cargo.Metadata
	Traces     traces.Store
}

// Discover asks cargo for the workspace containing start. manifestPath
// mirrors cargo's --manifest-path and may be empty.
func Discover(ctx context.Context, proc cargo.Process, start, manifestPath string) (*Project, error) {
	if manifestPath == "" {
		if _, err := locateManifest(start); err != nil {
			return nil, err
		}
	}
	meta, err := cargo.ReadMetadata(ctx, proc, start, manifestPath)
	if err != nil {
		return nil, err
	}
	return Load(meta)
}

// Load constructs a Project from already-read metadata.
func Load(meta *cargo.Metadata) (*Project, error) {
	root := filepath.Clean(meta.WorkspaceRoot)
	cfgPath := filepath.Join(root, config.FileName)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	traceDir := cfg.TraceDir(root)
	if traceDir == "" {
		traceDir = traces.ProjectDir(meta.TargetDirectory)
	}

	return &Project{
		Root:       root,
		TargetDir:  meta.TargetDirectory,
		ConfigPath: cfgPath,
		Config:     cfg,
		Metadata:   meta,
		Traces:     traces.Store{Root: traceDir},
	}, nil
}

// PackageDir returns the directory holding the manifest of package id, which
// is where cargo test starts test binaries. Unknown ids map to the root.
func (p *Project) PackageDir(id string) string {
	for _, pkg := range p.Metadata.Packages {
		if pkg.ID == id && pkg.ManifestPath != "" {
			return filepath.Dir(pkg.ManifestPath)
		}
	}
	return p.Root
}

func locateManifest(start string) (string, error) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if isFile(filepath.Join(cur, "Cargo.toml")) {
			return cur, nil
		}
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return "", ErrNotFound
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}
