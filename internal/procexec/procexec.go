// Package procexec launches interactive subprocesses and reports how they
// exited.
package procexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
)

// ExitLaunchFailure is the status used when a program could not be started.
const ExitLaunchFailure = 127

// Invocation is a fully assembled command line.
type Invocation struct {
	Path string
	Args []string
	// Env entries are layered over the current environment.
	Env []string
	Dir string
}

// String renders the invocation for display.
func (inv Invocation) String() string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, quote(inv.Path))
	for _, arg := range inv.Args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"'\\$") {
		return strconv.Quote(s)
	}
	return s
}

// Result describes a finished subprocess.
type Result struct {
	Status int
	// Signal names the signal that terminated the process, if any.
	Signal string
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.Status == 0
}

// LaunchError reports a program that could not be started at all, as
// opposed to one that ran and failed.
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not launch %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Runner starts one subprocess and waits for it.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// Exec runs invocations with the caller's terminal attached. Nil streams
// default to the process's own.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (e Exec) Run(ctx context.Context, inv Invocation) (Result, error) {
	path, err := exec.LookPath(inv.Path)
	if err == nil {
		// Relative programs resolve against our directory, not inv.Dir.
		path, err = filepath.Abs(path)
	}
	if err != nil {
		return Result{Status: ExitLaunchFailure}, &LaunchError{Program: inv.Path, Err: err}
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.Stdin = orReader(e.Stdin, os.Stdin)
	cmd.Stdout = orWriter(e.Stdout, os.Stdout)
	cmd.Stderr = orWriter(e.Stderr, os.Stderr)

	// The terminal delivers Ctrl-C to the whole foreground group; the child
	// decides what it means.
	stop := swallowInterrupts()
	defer stop()

	if err := cmd.Start(); err != nil {
		return Result{Status: ExitLaunchFailure}, &LaunchError{Program: inv.Path, Err: err}
	}
	return result(cmd.Wait(), cmd.ProcessState)
}

func result(waitErr error, state *os.ProcessState) (Result, error) {
	if waitErr == nil {
		return Result{}, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return Result{Status: 1}, waitErr
	}
	if status := exitErr.ExitCode(); status >= 0 {
		return Result{Status: status}, nil
	}
	if status, name, ok := signalStatus(state); ok {
		return Result{Status: status, Signal: name}, nil
	}
	return Result{Status: 1}, nil
}

func swallowInterrupts() func() {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, os.Interrupt)
	go func() {
		for {
			select {
			case <-ch:
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

func orReader(r, fallback io.Reader) io.Reader {
	if r == nil {
		return fallback
	}
	return r
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
