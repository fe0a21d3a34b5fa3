package cli

import (
	"context"
	"runtime/trace"
)

// startTask groups one cargo-rr invocation in execution traces, named after
// its subcommand.
func startTask(ctx context.Context, args []string) (context.Context, *trace.Task) {
	name := "cargo-rr"
	if len(args) > 0 {
		name += " " + args[0]
	}
	return trace.NewTask(ctx, name)
}

func withTraceRegion[T any](ctx context.Context, name string, fn func() (T, error)) (T, error) {
	var value T
	var err error
	trace.WithRegion(ctx, name, func() {
		value, err = fn()
	})
	return value, err
}
