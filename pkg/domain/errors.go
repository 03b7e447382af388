package domain

import (
	"fmt"
	"strings"
)

// NotFoundError reports that the converter tool or the target profile could not
// be resolved. Nothing has been mutated when this error is returned.
type NotFoundError struct {
	What string // "converter tool" or "profile"
	Hint string // optional remedy, e.g. an install command
}

func (e *NotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s not found (%s)", e.What, e.Hint)
	}
	return fmt.Sprintf("%s not found", e.What)
}

// BackupError reports a filesystem failure while creating the redundant
// backups. The run aborts before any decode when this is returned.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup failed for %s: %v", e.Path, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }

// ConversionError reports a failed converter invocation: a non-zero exit, a
// missing launcher, or a failure to start the subprocess at all. The
// destination file of the failed job must not be trusted.
type ConversionError struct {
	Stage    Step   // StepDecode or StepEncode
	ExitCode int    // -1 when the process never ran
	Stderr   string // captured diagnostic stream
	Err      error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("conversion failed at %s (exit %d)", e.Stage, e.ExitCode)
	if diag := strings.TrimSpace(e.Stderr); diag != "" {
		msg += ": " + diag
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// NoMatchError reports that pruning removed zero nodes while the run was in
// strict mode. It is a policy failure, not a crash: the tree was valid, it just
// contained nothing to remove.
type NoMatchError struct {
	Key   string
	Value string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no nodes matched %s=%q; profile left untouched (use --force to commit anyway)", e.Key, e.Value)
}
