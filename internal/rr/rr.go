// Package rr assembles rr record and replay command lines.
package rr

import (
	"github.com/brandonbloom/cargo-rr/internal/argsplit"
	"github.com/brandonbloom/cargo-rr/internal/cargo"
	"github.com/brandonbloom/cargo-rr/internal/config"
	"github.com/brandonbloom/cargo-rr/internal/procexec"
	"github.com/brandonbloom/cargo-rr/internal/traces"
)

// Record builds the recorder invocation for target. The trace directory and
// the executable are always chosen here; extra holds the user's pass-through
// arguments and follows rr's own delimiter.
func Record(cfg config.RecordBlock, store traces.Store, target cargo.Target, extra []string) procexec.Invocation {
	args := append([]string{}, cfg.Command[1:]...)
	args = append(args, target.Executable)
	args = append(args, target.Args...)
	args = appendDelimited(args, extra)
	return procexec.Invocation{
		Path: cfg.Command[0],
		Args: args,
		Env:  []string{store.Env()},
	}
}

// Replay builds the replayer invocation. An unpinned trace is left for rr to
// find through the store's latest-trace link.
func Replay(cfg config.ReplayBlock, store traces.Store, trace traces.Trace, extra []string) procexec.Invocation {
	args := append([]string{}, cfg.Command[1:]...)
	if cfg.Debugger != "" {
		args = append(args, "-d", cfg.Debugger)
	}
	if trace.Pinned {
		args = append(args, trace.Dir)
	}
	var after []string
	if cfg.Quiet {
		after = append(after, "--quiet")
	}
	after = append(after, extra...)
	args = appendDelimited(args, after)
	return procexec.Invocation{
		Path: cfg.Command[0],
		Args: args,
		Env:  []string{store.Env()},
	}
}

func appendDelimited(args, extra []string) []string {
	if len(extra) == 0 {
		return args
	}
	args = append(args, argsplit.Delimiter)
	return append(args, extra...)
}
