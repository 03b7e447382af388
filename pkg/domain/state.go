package domain

import "time"

// Step identifies a stage of the pipeline state machine.
type Step string

const (
	StepStart         Step = "start"
	StepResolveTool   Step = "resolve_tool"
	StepResolveTarget Step = "resolve_target"
	StepBackup        Step = "backup"
	StepDecode        Step = "decode_to_tree"
	StepMutate        Step = "mutate"
	StepEncode        Step = "encode_to_binary"
	StepCommit        Step = "commit"
	StepCleanup       Step = "cleanup"
)

// RunStatus is the terminal status of a pipeline run.
type RunStatus string

const (
	StatusDone   RunStatus = "done"   // committed, scratch released
	StatusFailed RunStatus = "failed" // aborted at some step, target untouched
)

// Outcome records the result of a single executed step.
type Outcome struct {
	Step     Step
	Err      error // nil on success
	Duration time.Duration
}

// Report is the trail of a single pipeline run. The orchestrator appends one
// Outcome per executed step, in order; steps never executed do not appear.
type Report struct {
	Status       RunStatus
	Outcomes     []Outcome
	RemovedCount int
	ScratchDir   string // populated when the retention override kept it
	Backups      []string
}

// Record appends a step outcome.
func (r *Report) Record(step Step, err error, d time.Duration) {
	r.Outcomes = append(r.Outcomes, Outcome{Step: step, Err: err, Duration: d})
}

// FailedStep returns the step that aborted the run, or "" for a clean run.
func (r *Report) FailedStep() Step {
	for _, o := range r.Outcomes {
		if o.Err != nil && o.Step != StepCleanup {
			return o.Step
		}
	}
	return ""
}
