package cargo

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const (
	reasonCompilerArtifact = "compiler-artifact"
	reasonBuildFinished    = "build-finished"

	maxMessageSize = 64 << 20
)

// Message is one line of cargo's --message-format=json output. Only the
// fields cargo-rr inspects are decoded.
type Message struct {
	Reason     string          `json:"reason"`
	PackageID  string          `json:"package_id"`
	Target     *ArtifactTarget `json:"target"`
	Profile    *Profile        `json:"profile"`
	Executable *string         `json:"executable"`
	Fresh      bool            `json:"fresh"`
	Success    *bool           `json:"success"`
}

type ArtifactTarget struct {
	Name    string   `json:"name"`
	Kind    []string `json:"kind"`
	SrcPath string   `json:"src_path"`
}

type Profile struct {
	Test bool `json:"test"`
}

// HasKind reports whether the artifact target is of kind k.
func (t *ArtifactTarget) HasKind(k string) bool {
	if t == nil {
		return false
	}
	for _, kind := range t.Kind {
		if kind == k {
			return true
		}
	}
	return false
}

// ParseStream decodes newline-delimited messages from r. Lines that are not
// JSON objects (build script chatter) are skipped.
func ParseStream(r io.Reader, fn func(Message) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 || text[0] != '{' {
			continue
		}
		var msg Message
		if err := json.Unmarshal(text, &msg); err != nil {
			return fmt.Errorf("cargo message %d: %w", line, err)
		}
		if err := fn(msg); err != nil {
			return err
		}
	}
	return scanner.Err()
}
