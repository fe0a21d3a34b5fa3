package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// FileName is the per-workspace configuration file, looked up in the
// workspace root.
const FileName = "cargo-rr.toml"

// Config captures the user editable settings stored in cargo-rr.toml.
type Config struct {
	Record RecordBlock `toml:"record"`
	Replay ReplayBlock `toml:"replay"`
	Test   TestBlock   `toml:"test"`
	Traces TracesBlock `toml:"traces"`
}

// RecordBlock describes how the recorder is invoked.
type RecordBlock struct {
	Command []string `toml:"command"`
}

// ReplayBlock describes how the replayer is invoked.
type ReplayBlock struct {
	Command  []string `toml:"command"`
	Debugger string   `toml:"debugger"`
	Quiet    bool     `toml:"quiet"`
}

// TestBlock governs cargo rr test behavior.
type TestBlock struct {
	Multiple string `toml:"multiple"`
}

// TracesBlock overrides where traces are kept.
type TracesBlock struct {
	Dir string `toml:"dir"`
}

// MultiplePolicy selects what happens when cargo builds several test binaries.
type MultiplePolicy string

const (
	MultiplePrompt MultiplePolicy = "prompt"
	MultipleAll    MultiplePolicy = "all"
	MultipleError  MultiplePolicy = "error"
)

var (
	// ErrInvalidMultiplePolicy indicates test.multiple is not recognized.
	ErrInvalidMultiplePolicy = errors.New("config.test.multiple must be prompt, all, or error")
	// ErrEmptyCommand indicates a record or replay command has no program.
	ErrEmptyCommand = errors.New("config command must name a program")
)

func (t *TestBlock) applyDefaults() {
	if t.Multiple == "" {
		t.Multiple = string(MultiplePrompt)
	} else {
		t.Multiple = strings.ToLower(strings.TrimSpace(t.Multiple))
	}
}

// Policy returns the validated multi-target policy.
func (t TestBlock) Policy() MultiplePolicy {
	return MultiplePolicy(t.Multiple)
}

func (t TestBlock) Validate() error {
	switch t.Policy() {
	case MultiplePrompt, MultipleAll, MultipleError:
		return nil
	default:
		return ErrInvalidMultiplePolicy
	}
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Record.Command) == 0 {
		c.Record.Command = []string{"rr", "record"}
	}
	if len(c.Replay.Command) == 0 {
		c.Replay.Command = []string{"rr", "replay"}
	}
	c.Replay.Debugger = strings.TrimSpace(c.Replay.Debugger)
	c.Traces.Dir = strings.TrimSpace(c.Traces.Dir)
	c.Test.applyDefaults()
}

// Validate ensures the configuration can drive recording and replay.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Record.Command[0]) == "" {
		return fmt.Errorf("record: %w", ErrEmptyCommand)
	}
	if strings.TrimSpace(c.Replay.Command[0]) == "" {
		return fmt.Errorf("replay: %w", ErrEmptyCommand)
	}
	return c.Test.Validate()
}

// TraceDir resolves the configured trace directory against root. It returns
// "" when no override is configured.
func (c Config) TraceDir(root string) string {
	if c.Traces.Dir == "" {
		return ""
	}
	if filepath.IsAbs(c.Traces.Dir) {
		return filepath.Clean(c.Traces.Dir)
	}
	return filepath.Join(root, c.Traces.Dir)
}

// Load reads configuration from disk. Missing files return a default config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
