package rr

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckPerfEvents(t *testing.T) {
	if runtime.GOOS != "linux" {
		if err := CheckPerfEvents(PerfParanoidPath); err == nil {
			t.Fatal("expected error off Linux")
		}
		return
	}

	cases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"permissive", "1\n", false},
		{"fully open", "-1\n", false},
		{"restricted", "2\n", true},
		{"garbage", "nope\n", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "perf_event_paranoid")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			err := CheckPerfEvents(path)
			if (err != nil) != tc.wantErr {
				t.Fatalf("CheckPerfEvents = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	if err := CheckPerfEvents(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
