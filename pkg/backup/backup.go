// Package backup creates the redundant, timestamped copies of the target
// profile that must exist before the pipeline is allowed to mutate anything.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/sessionprune/pkg/domain"
)

// StampLayout is the backup name timestamp: sortable, second precision.
// Repeated runs in the same second against the same file are not a supported
// workflow, so seconds are enough to keep backups from colliding.
const StampLayout = "20060102-150405"

// Pair holds the two backup locations produced by a single run. Both copies
// share one stamp so they can be matched to each other later.
type Pair struct {
	Sibling string
	Central string
	Stamp   time.Time
}

// Manager copies the target file before mutation. It never deletes or
// overwrites prior backups.
type Manager struct {
	now func() time.Time
}

// Option configures the manager.
type Option func(*Manager)

// WithClock overrides the stamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a backup manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create produces two byte-identical copies of targetPath: one next to the
// target and one under centralDir (created if absent). On any failure it
// returns a *domain.BackupError and removes whichever destination was
// partially written, so a half-copied file is never left looking like a
// valid backup.
func (m *Manager) Create(targetPath, centralDir string) (Pair, error) {
	stamp := m.now()
	suffix := fmt.Sprintf("%s.%s.bak", filepath.Base(targetPath), stamp.Format(StampLayout))

	pair := Pair{
		Sibling: filepath.Join(filepath.Dir(targetPath), suffix),
		Central: filepath.Join(centralDir, suffix),
		Stamp:   stamp,
	}

	if err := os.MkdirAll(centralDir, 0755); err != nil {
		return Pair{}, &domain.BackupError{Path: centralDir, Err: err}
	}

	if err := copyFile(targetPath, pair.Sibling); err != nil {
		return Pair{}, &domain.BackupError{Path: pair.Sibling, Err: err}
	}
	if err := copyFile(targetPath, pair.Central); err != nil {
		return Pair{}, &domain.BackupError{Path: pair.Central, Err: err}
	}

	return pair, nil
}

// copyFile copies src to dst without following an existing dst. The partial
// destination is removed on error.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	// O_EXCL: a colliding backup name means something else already wrote it;
	// refuse rather than clobber.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close destination: %w", cerr)
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy content: %w", err)
	}
	if err = out.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination: %w", err)
	}
	return nil
}
