package cargo

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

type fakeProcess struct {
	output string
	status int
	calls  [][]string
	dirs   []string
}

func (f *fakeProcess) Stream(ctx context.Context, dir string, args []string, consume func(io.Reader) error) (int, error) {
	f.calls = append(f.calls, append([]string(nil), args...))
	f.dirs = append(f.dirs, dir)
	err := consume(strings.NewReader(f.output))
	return f.status, err
}

type artifact struct {
	pkg        string
	name       string
	kind       string
	test       bool
	executable string
}

func messages(t *testing.T, arts []artifact, success bool) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("warning: build script chatter\n")
	for _, a := range arts {
		msg := map[string]any{
			"reason":     "compiler-artifact",
			"package_id": a.pkg,
			"target": map[string]any{
				"name":     a.name,
				"kind":     []string{a.kind},
				"src_path": "/ws/src/" + a.name + ".rs",
			},
			"profile": map[string]any{"test": a.test},
			"fresh":   false,
		}
		if a.executable != "" {
			msg["executable"] = a.executable
		} else {
			msg["executable"] = nil
		}
		line, err := json.Marshal(msg)
		if err != nil {
			t.Fatal(err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	finished, _ := json.Marshal(map[string]any{"reason": "build-finished", "success": success})
	b.Write(finished)
	b.WriteByte('\n')
	return b.String()
}
