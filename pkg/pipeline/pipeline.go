/*
Package pipeline sequences a single guarded edit of the target profile:
resolve the converter and the profile, create redundant backups, decode the
binary to an XML tree, prune the matching nodes, encode the tree back to
binary, and only then commit the result over the original.

The state machine is linear with a single failure sink. Every intermediate
artifact lives in a scratch directory owned exclusively by the run; the
scratch release step runs on every exit path, success or failure. The target
file is never written before the commit step.
*/
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/sessionprune/pkg/adapters/converter"
	"github.com/aretw0/sessionprune/pkg/backup"
	"github.com/aretw0/sessionprune/pkg/document"
	"github.com/aretw0/sessionprune/pkg/domain"
)

// Default identity of the nodes this tool removes: stale single-save session
// locks written by the game when it did not shut down cleanly.
const (
	DefaultNodeTag       = "node"
	DefaultIdentityKey   = "id"
	DefaultIdentityValue = "DisabledSingleSaveSessions"
	DefaultFormat        = "profile"
)

// ToolResolver locates the converter. Implemented by internal/resolve.
type ToolResolver interface {
	Resolve() (converter.Tool, error)
}

// TargetResolver locates the profile file. Implemented by internal/resolve.
type TargetResolver interface {
	Resolve() (string, error)
}

// Converter runs one conversion job. Implemented by converter.Runner.
type Converter interface {
	Convert(ctx context.Context, job converter.Job) (converter.Result, error)
}

// Options is the explicit run configuration. There is no global state: policy
// choices like the force flag live here and nowhere else.
type Options struct {
	Format        string // game/format pair passed to the converter
	NodeTag       string
	IdentityKey   string
	IdentityValue string

	// Force commits even when zero nodes matched. The strict default treats
	// zero matches as a failed run that leaves the profile untouched.
	Force bool

	CentralBackupDir string
	ScratchParent    string // "" means the OS temp dir
	RetainScratch    bool   // keep the scratch dir for inspection
	Timeout          time.Duration
}

// Orchestrator owns one run of the pipeline.
type Orchestrator struct {
	opts    Options
	logger  *slog.Logger
	backups *backup.Manager

	tools   ToolResolver
	targets TargetResolver

	// newConverter builds the runner once the tool is resolved. Tests swap
	// this to inject a fake converter.
	newConverter func(converter.Tool) Converter
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithBackupManager overrides the backup manager.
func WithBackupManager(m *backup.Manager) Option {
	return func(o *Orchestrator) {
		o.backups = m
	}
}

// WithConverterFactory overrides how the converter runner is built.
func WithConverterFactory(f func(converter.Tool) Converter) Option {
	return func(o *Orchestrator) {
		o.newConverter = f
	}
}

// New creates an orchestrator. Zero-valued identity options fall back to the
// defaults above.
func New(opts Options, tools ToolResolver, targets TargetResolver, o ...Option) *Orchestrator {
	if opts.NodeTag == "" {
		opts.NodeTag = DefaultNodeTag
	}
	if opts.IdentityKey == "" {
		opts.IdentityKey = DefaultIdentityKey
	}
	if opts.IdentityValue == "" {
		opts.IdentityValue = DefaultIdentityValue
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}

	orc := &Orchestrator{
		opts:    opts,
		tools:   tools,
		targets: targets,
	}
	for _, opt := range o {
		opt(orc)
	}
	if orc.logger == nil {
		orc.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if orc.backups == nil {
		orc.backups = backup.NewManager()
	}
	if orc.newConverter == nil {
		orc.newConverter = func(tool converter.Tool) Converter {
			return converter.NewRunner(tool,
				converter.WithTimeout(opts.Timeout),
				converter.WithLogger(orc.logger),
			)
		}
	}
	return orc
}

// Run executes the pipeline once. The returned report always describes every
// step that ran, including cleanup; err is the failure that aborted the run,
// nil on a committed run. The target file's bytes are guaranteed unchanged
// whenever err is non-nil.
func (o *Orchestrator) Run(ctx context.Context) (*domain.Report, error) {
	report := &domain.Report{Status: domain.StatusFailed}

	step := func(s domain.Step, fn func() error) error {
		start := time.Now()
		err := fn()
		report.Record(s, err, time.Since(start))
		if err != nil {
			o.logger.Error("step failed", "step", s, "err", err)
		} else {
			o.logger.Debug("step done", "step", s)
		}
		return err
	}

	var tool converter.Tool
	if err := step(domain.StepResolveTool, func() (err error) {
		tool, err = o.tools.Resolve()
		return err
	}); err != nil {
		return report, err
	}

	var target string
	if err := step(domain.StepResolveTarget, func() (err error) {
		target, err = o.targets.Resolve()
		return err
	}); err != nil {
		return report, err
	}
	o.logger.Info("editing profile", "path", target)

	scratch, err := os.MkdirTemp(o.opts.ScratchParent, "sessionprune-*")
	if err != nil {
		report.Record(domain.StepStart, err, 0)
		return report, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer o.cleanup(report, scratch)

	if err := step(domain.StepBackup, func() error {
		pair, err := o.backups.Create(target, o.opts.CentralBackupDir)
		if err != nil {
			return err
		}
		report.Backups = []string{pair.Sibling, pair.Central}
		o.logger.Info("backups created", "sibling", pair.Sibling, "central", pair.Central)
		return nil
	}); err != nil {
		return report, err
	}

	run := o.newConverter(tool)

	ext := filepath.Ext(target)
	base := strings.TrimSuffix(filepath.Base(target), ext)
	treePath := filepath.Join(scratch, base+".xml")
	encodedPath := filepath.Join(scratch, base+ext)

	if err := step(domain.StepDecode, func() error {
		_, err := run.Convert(ctx, converter.Job{
			Source: target,
			Dest:   treePath,
			Format: o.opts.Format,
			Stage:  domain.StepDecode,
		})
		return err
	}); err != nil {
		return report, err
	}

	if err := step(domain.StepMutate, func() error {
		doc, err := document.Load(treePath)
		if err != nil {
			return err
		}
		report.RemovedCount = doc.Prune(o.opts.NodeTag, o.opts.IdentityKey, o.opts.IdentityValue)
		if report.RemovedCount == 0 {
			if !o.opts.Force {
				return &domain.NoMatchError{Key: o.opts.IdentityKey, Value: o.opts.IdentityValue}
			}
			o.logger.Warn("no matching nodes found; committing anyway", "key", o.opts.IdentityKey, "value", o.opts.IdentityValue)
		}
		return doc.Save(treePath)
	}); err != nil {
		return report, err
	}
	o.logger.Info("nodes removed", "count", report.RemovedCount)

	if err := step(domain.StepEncode, func() error {
		_, err := run.Convert(ctx, converter.Job{
			Source: treePath,
			Dest:   encodedPath,
			Format: o.opts.Format,
			Stage:  domain.StepEncode,
		})
		return err
	}); err != nil {
		return report, err
	}

	if err := step(domain.StepCommit, func() error {
		return commit(encodedPath, target)
	}); err != nil {
		return report, err
	}

	report.Status = domain.StatusDone
	o.logger.Info("profile committed", "path", target)
	return report, nil
}

// cleanup releases the scratch directory. It runs on every exit path; a
// deletion failure is a warning, never a change to the run's outcome.
func (o *Orchestrator) cleanup(report *domain.Report, scratch string) {
	start := time.Now()
	if o.opts.RetainScratch {
		report.ScratchDir = scratch
		report.Record(domain.StepCleanup, nil, time.Since(start))
		o.logger.Info("scratch directory retained", "path", scratch)
		return
	}
	if err := os.RemoveAll(scratch); err != nil {
		report.Record(domain.StepCleanup, err, time.Since(start))
		o.logger.Warn("failed to remove scratch directory", "path", scratch, "err", err)
		return
	}
	report.Record(domain.StepCleanup, nil, time.Since(start))
}

// commit overwrites target with the freshly encoded binary. It first tries a
// same-directory temp file plus rename, which is atomic on POSIX filesystems;
// when the rename is refused (some platforms will not replace an existing
// file) it falls back to a plain copy-over. By this point two backups are on
// disk, which is the real crash protection.
func commit(encoded, target string) error {
	data, err := os.ReadFile(encoded)
	if err != nil {
		return fmt.Errorf("failed to read encoded profile: %w", err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".commit-*")
	if err != nil {
		// Target directory refuses temp files; fall back to direct copy.
		return os.WriteFile(target, data, mode)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to stage commit file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync commit file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close commit file: %w", err)
	}
	os.Chmod(tmpPath, mode)

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return os.WriteFile(target, data, mode)
	}
	return nil
}
