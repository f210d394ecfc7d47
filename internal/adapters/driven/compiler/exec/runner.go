// Package exec runs language toolchains (python, mypy, clang, rustc, node)
// against a snippet written to a temporary file.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"time"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Default limits for a single toolchain invocation.
const (
	DefaultTimeout   = 60 * time.Second
	DefaultMaxOutput = 64 * 1024
)

// Options configures toolchain invocations.
type Options struct {
	// Timeout bounds each process. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxOutput caps each captured stream in bytes. Zero means DefaultMaxOutput.
	MaxOutput int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxOutput <= 0 {
		o.MaxOutput = DefaultMaxOutput
	}
	return o
}

// runner executes one toolchain binary and captures its diagnostics.
type runner struct {
	opts Options
}

// run executes bin in dir. A non-zero exit is a result, not an error;
// a binary that cannot be started is domain.ErrCompilerUnavailable.
func (r runner) run(ctx context.Context, dir, bin string, args ...string) (*domain.CompileResult, error) {
	if bin == "" {
		return nil, fmt.Errorf("%w: no binary configured", domain.ErrCompilerUnavailable)
	}

	execCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	cmd := osexec.CommandContext(execCtx, bin, args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdout, max: r.opts.MaxOutput}
	cmd.Stderr = &limitedWriter{w: &stderr, max: r.opts.MaxOutput}

	logger.Debug("exec: %s %v", bin, args)
	err := cmd.Run()

	result := &domain.CompileResult{
		Tool:   filepath.Base(bin),
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%s timed out after %s", result.Tool, r.opts.Timeout)
	}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if errors.Is(err, osexec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCompilerUnavailable, bin, err)
	}
	return nil, fmt.Errorf("run %s: %w", bin, err)
}

// withSource writes code to a file named "snippet"+suffix in a fresh temp
// directory, calls fn with the directory and file path, then removes both.
func withSource(code, suffix string, fn func(dir, path string) (*domain.CompileResult, error)) (*domain.CompileResult, error) {
	dir, err := os.MkdirTemp("", "racg-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snippet"+suffix)
	if err := os.WriteFile(path, []byte(code), 0600); err != nil {
		return nil, fmt.Errorf("write snippet: %w", err)
	}
	return fn(dir, path)
}

// limitedWriter keeps the first max bytes and discards the rest while
// reporting full writes, so a chatty compiler never blocks.
type limitedWriter struct {
	w       io.Writer
	max     int
	written int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	remaining := l.max - l.written
	if remaining > 0 {
		chunk := p
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
		}
		n, err := l.w.Write(chunk)
		l.written += n
		if err != nil {
			return n, err
		}
	}
	return len(p), nil
}
