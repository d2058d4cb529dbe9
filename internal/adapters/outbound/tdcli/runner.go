// Package tdcli runs the external td task tracker as a child process.
package tdcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DefaultBinary is the td executable looked up on PATH.
const DefaultBinary = "td"

// CommandError reports a td invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("td %s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	}
	return e.Output
}

// Runner implements domain.TaskRunner with os/exec.
type Runner struct {
	binary string
	dir    string
	logger *zap.SugaredLogger
}

// Option configures a Runner.
type Option func(*Runner)

// WithDir sets the working directory td runs in.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithLogger sets the logger used for invocation tracing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a Runner for binary. An empty binary means DefaultBinary.
func New(binary string, opts ...Option) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	r := &Runner{binary: binary, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether `td version` exits 0.
func (r *Runner) Available(ctx context.Context) bool {
	_, err := r.Run(ctx, []string{"version"})
	if err != nil {
		r.logger.Debugw("td unavailable", "binary", r.binary, "error", err)
		return false
	}
	return true
}

// Run executes td with args and returns its trimmed stdout. A non-zero exit
// yields a *CommandError carrying stderr, or stdout when stderr is empty.
func (r *Runner) Run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debugw("running td", "binary", r.binary, "args", args, "dir", r.dir)
	err := cmd.Run()
	if err == nil {
		return strings.TrimSpace(stdout.String()), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return "", fmt.Errorf("running %s: %w", r.binary, err)
	}
	output := strings.TrimSpace(stderr.String())
	if output == "" {
		output = strings.TrimSpace(stdout.String())
	}
	return "", &CommandError{Args: args, ExitCode: exitErr.ExitCode(), Output: output}
}
