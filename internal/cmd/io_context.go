package cmd

import (
	"context"
	"io"
	"os"
)

// Commands resolve their streams through the context so tests can swap in
// buffers without touching os.Stdin/Stdout/Stderr.
type (
	stdinKey  struct{}
	stdoutKey struct{}
	stderrKey struct{}
)

func withIO(ctx context.Context, in io.Reader, out, err io.Writer) context.Context {
	ctx = context.WithValue(ctx, stdinKey{}, in)
	ctx = context.WithValue(ctx, stdoutKey{}, out)
	return context.WithValue(ctx, stderrKey{}, err)
}

func stdinFromContext(ctx context.Context) io.Reader {
	if ctx != nil {
		if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
			return r
		}
	}
	return os.Stdin
}

func stdoutFromContext(ctx context.Context) io.Writer {
	if ctx != nil {
		if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok && w != nil {
			return w
		}
	}
	return os.Stdout
}

func stderrFromContext(ctx context.Context) io.Writer {
	if ctx != nil {
		if w, ok := ctx.Value(stderrKey{}).(io.Writer); ok && w != nil {
			return w
		}
	}
	return os.Stderr
}
