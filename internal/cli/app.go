package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/brandonbloom/cargo-rr/internal/cargo"
	"github.com/brandonbloom/cargo-rr/internal/procexec"
	"golang.org/x/term"
)

// logEnv selects the debug log level (debug, info, warn, error).
const logEnv = "CARGO_RR_LOG"

// app holds the collaborators shared by every subcommand.
type app struct {
	cargo  cargo.Process
	runner procexec.Runner
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger

	getwd      func() (string, error)
	isTerminal func() bool
}

func newApp() *app {
	return &app{
		cargo:      cargo.Exec{Stderr: os.Stderr},
		runner:     procexec.Exec{},
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		log:        newLogger(os.Stderr, os.Getenv(logEnv)),
		getwd:      os.Getwd,
		isTerminal: func() bool { return readerIsTerminal(os.Stdin) },
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelWarn
	if level = strings.TrimSpace(level); level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(level)); err == nil {
			lvl = parsed
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func readerIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
