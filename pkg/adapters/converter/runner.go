// Package converter invokes the external resource converter as a blocking
// subprocess. It is the only component that talks to the tool; everything else
// sees typed results and errors.
package converter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/aretw0/sessionprune/pkg/domain"
)

// Tool describes the resolved converter executable. A non-empty Launcher means
// the artifact is a managed-runtime assembly that cannot run on its own (e.g.
// a .NET dll started through "dotnet"). The distinction is resolved once by
// the tool resolver, never re-derived per call.
type Tool struct {
	Path     string
	Launcher string
}

// Job is one conversion request: decode binary to tree, or encode tree back
// to binary. The converter infers the direction from the destination path's
// extension; Format names the game/format pair it should apply.
type Job struct {
	Source string
	Dest   string
	Format string
	Stage  domain.Step // StepDecode or StepEncode, for error reporting
}

// Result carries the subprocess outcome on success.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes conversion jobs.
type Runner struct {
	tool    Tool
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the runner.
type Option func(*Runner)

// WithTimeout bounds each subprocess invocation. Zero means no limit, which
// matches the historical behavior; the flag wiring supplies a default.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner for the resolved tool.
func NewRunner(tool Tool, opts ...Option) *Runner {
	r := &Runner{tool: tool}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Convert runs one conversion job and blocks until the subprocess exits.
// The argv is always the same logical command, built as an explicit argument
// list (never a shell line): [launcher] tool convert <format> <source> <dest>.
// A non-zero exit, a missing launcher, or a start failure yields a
// *domain.ConversionError carrying the captured diagnostic stream; the
// destination file must not be trusted after any error, even if the converter
// partially wrote it.
func (r *Runner) Convert(ctx context.Context, job Job) (Result, error) {
	name := r.tool.Path
	args := []string{"convert", job.Format, job.Source, job.Dest}

	if r.tool.Launcher != "" {
		if _, err := exec.LookPath(r.tool.Launcher); err != nil {
			return Result{}, &domain.ConversionError{
				Stage:    job.Stage,
				ExitCode: -1,
				Err:      err,
				Stderr:   "launcher " + r.tool.Launcher + " is not available on PATH",
			}
		}
		name = r.tool.Launcher
		args = append([]string{r.tool.Path}, args...)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("invoking converter", "cmd", name, "args", args)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return Result{}, &domain.ConversionError{
			Stage:    job.Stage,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	r.logger.Debug("converter finished", "duration", duration, "dest", job.Dest)

	return Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}, nil
}
