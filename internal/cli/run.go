// Package cli wires flags, environment overrides and the presentation layer
// into a pipeline run, and maps the failure taxonomy onto process exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/sessionprune/internal/logging"
	"github.com/aretw0/sessionprune/internal/presentation/tui"
	"github.com/aretw0/sessionprune/internal/resolve"
	"github.com/aretw0/sessionprune/pkg/adapters/converter"
	"github.com/aretw0/sessionprune/pkg/domain"
	"github.com/aretw0/sessionprune/pkg/pipeline"
)

// Environment overrides consumed by the run wiring.
const (
	// EnvBackupDir overrides the central backup directory.
	EnvBackupDir = "SESSIONPRUNE_BACKUP_DIR"
	// EnvKeepScratch, when set to anything non-empty, retains the scratch
	// directory instead of deleting it.
	EnvKeepScratch = "SESSIONPRUNE_KEEP_SCRATCH"
)

// Exit codes surfaced to the shell.
const (
	ExitOK         = 0 // committed successfully
	ExitNotFound   = 1 // tool/profile resolution failure, strict zero-match abort, or backup failure
	ExitConversion = 2 // either converter invocation failed
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ProfilePath    string
	ToolPath       string
	ToolConfigPath string
	ScratchDir     string
	NoInstall      bool
	Force          bool
	Timeout        time.Duration
	Verbose        bool
	Color          string
}

// ExitCode maps a run error onto the documented exit codes.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cerr *domain.ConversionError
	if errors.As(err, &cerr) {
		return ExitConversion
	}
	return ExitNotFound
}

// Execute runs the pipeline once with the given options and returns the
// process exit code. ctx carries signal cancellation from main; the pipeline
// releases its scratch directory even when ctx is cancelled mid-conversion.
func Execute(ctx context.Context, opts RunOptions) int {
	logger := logging.New(opts.Verbose)
	status := tui.NewStatus(os.Stdout, tui.ColorMode(opts.Color))

	toolCfg, err := converter.LoadConfig(toolConfigPath(opts))
	if err != nil {
		status.Fail(err.Error())
		return ExitNotFound
	}

	toolOverride := opts.ToolPath
	if toolOverride == "" {
		toolOverride = toolCfg.Path
	}

	popts := pipeline.Options{
		Format:           toolCfg.Format,
		Force:            opts.Force,
		CentralBackupDir: backupDir(),
		ScratchParent:    opts.ScratchDir,
		RetainScratch:    os.Getenv(EnvKeepScratch) != "",
		Timeout:          opts.Timeout,
	}

	orc := pipeline.New(popts,
		&resolve.ToolResolver{Override: toolOverride, AutoInstall: !opts.NoInstall},
		&resolve.ProfileResolver{Override: opts.ProfilePath},
		pipeline.WithLogger(logger),
	)

	report, err := orc.Run(ctx)
	if err != nil {
		if step := report.FailedStep(); step != "" {
			status.Fail(fmt.Sprintf("failed at %s: %v", step, err))
		} else {
			status.Fail(err.Error())
		}
		return ExitCode(err)
	}

	if report.RemovedCount == 0 {
		status.Warn("no matching session locks found; profile re-encoded unchanged")
	}
	status.Success(fmt.Sprintf("removed %d node(s), profile committed", report.RemovedCount))
	if report.ScratchDir != "" {
		status.Warn("scratch directory retained at " + report.ScratchDir)
	}
	return ExitOK
}

// toolConfigPath picks the descriptor location: an explicit flag wins,
// otherwise a tool.yaml in the working directory is picked up when present.
func toolConfigPath(opts RunOptions) string {
	if opts.ToolConfigPath != "" {
		return opts.ToolConfigPath
	}
	return "tool.yaml"
}

// backupDir returns the central backup directory: the environment override,
// or a per-user data location.
func backupDir() string {
	if dir := os.Getenv(EnvBackupDir); dir != "" {
		return dir
	}
	if cfg, err := os.UserConfigDir(); err == nil {
		return filepath.Join(cfg, "sessionprune", "backups")
	}
	return ".sessionprune-backups"
}
