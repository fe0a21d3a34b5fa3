package cargo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Process runs cargo with args inside dir and hands its stdout to consume.
// It returns cargo's exit status; the error is reserved for failures to run
// cargo at all or to consume its output.
type Process interface {
	Stream(ctx context.Context, dir string, args []string, consume func(io.Reader) error) (int, error)
}

// Exec runs the real cargo binary. Stderr carries cargo's rendered
// diagnostics and defaults to os.Stderr.
type Exec struct {
	Program string
	Stderr  io.Writer
}

// DefaultProgram prefers the cargo that invoked us as a subcommand.
func DefaultProgram() string {
	if cargo := os.Getenv("CARGO"); cargo != "" {
		return cargo
	}
	return "cargo"
}

func (e Exec) Stream(ctx context.Context, dir string, args []string, consume func(io.Reader) error) (int, error) {
	program := e.Program
	if program == "" {
		program = DefaultProgram()
	}
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = dir
	cmd.Stderr = e.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, err
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("cargo %s: %w", strings.Join(args, " "), err)
	}

	consumeErr := consume(stdout)
	if consumeErr != nil {
		// Keep cargo from blocking on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	status := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, fmt.Errorf("cargo %s: %w", strings.Join(args, " "), err)
		}
		status = exitErr.ExitCode()
		if status < 0 {
			status = 1
		}
	}
	return status, consumeErr
}
