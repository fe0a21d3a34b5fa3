package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Record.Command, []string{"rr", "record"}) {
		t.Fatalf("record command = %q", cfg.Record.Command)
	}
	if !reflect.DeepEqual(cfg.Replay.Command, []string{"rr", "replay"}) {
		t.Fatalf("replay command = %q", cfg.Replay.Command)
	}
	if cfg.Test.Policy() != MultiplePrompt {
		t.Fatalf("policy = %q, want prompt", cfg.Test.Policy())
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `
[record]
command = ["/opt/rr/bin/rr", "record", "--chaos"]

[replay]
debugger = " rust-gdb "
quiet = true

[test]
multiple = "ALL"

[traces]
dir = "traces"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got, want := cfg.Record.Command, []string{"/opt/rr/bin/rr", "record", "--chaos"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("record command = %q, want %q", got, want)
	}
	if cfg.Replay.Debugger != "rust-gdb" || !cfg.Replay.Quiet {
		t.Fatalf("replay block = %+v", cfg.Replay)
	}
	if cfg.Test.Policy() != MultipleAll {
		t.Fatalf("policy = %q, want all", cfg.Test.Policy())
	}
	if got, want := cfg.TraceDir("/ws"), filepath.Join("/ws", "traces"); got != want {
		t.Fatalf("TraceDir = %q, want %q", got, want)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"policy", "[test]\nmultiple = \"sometimes\"\n", ErrInvalidMultiplePolicy},
		{"record command", "[record]\ncommand = [\"\"]\n", ErrEmptyCommand},
		{"replay command", "[replay]\ncommand = [\" \", \"replay\"]\n", ErrEmptyCommand},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tc.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoadReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTraceDirAbsoluteAndUnset(t *testing.T) {
	cfg := Default()
	if got := cfg.TraceDir("/ws"); got != "" {
		t.Fatalf("TraceDir = %q, want empty", got)
	}
	cfg.Traces.Dir = "/var/traces/"
	if got := cfg.TraceDir("/ws"); got != "/var/traces" {
		t.Fatalf("TraceDir = %q, want /var/traces", got)
	}
}
