package pipeline

import (
	"context"
	"fmt"
)

// Status is the lifecycle state of a provisioning run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusFailed    Status = "failed"
	StatusSucceeded Status = "succeeded"
)

// HostPaths are the ambient device paths a run operates on. Constructed once
// at process start and never mutated mid-run.
type HostPaths struct {
	AppDir   string `json:"app_dir"`
	RepoRoot string `json:"repo_root"`
	HomeDir  string `json:"home_dir"`
}

// Step is one named unit of the provisioning pipeline. Steps are constructed
// once per run, executed exactly once in ordinal order, and discarded.
type Step struct {
	Ordinal int
	Label   string
	Op      func(ctx context.Context) error
}

// Run is the persisted record of a single pipeline execution. Owned by the
// Runner; mutated only by advancing CurrentStep and transitioning Status.
type Run struct {
	ID          string    `json:"id"`
	HostPaths   HostPaths `json:"host_paths"`
	TotalSteps  int       `json:"total_steps"`
	CurrentStep int       `json:"current_step"`
	Status      Status    `json:"status"`
	FailedStep  string    `json:"failed_step,omitempty"`
	StartedAt   string    `json:"started_at"`
	FinishedAt  string    `json:"finished_at,omitempty"`
}

// StepFailure is the fatal error produced when a step's operation fails.
// It names the failing step so the operator sees exactly where the pipeline
// stopped.
type StepFailure struct {
	Label string
	Err   error
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Label, e.Err)
}

func (e *StepFailure) Unwrap() error {
	return e.Err
}

// Progress renders the progress line for a step. Pure so it is testable
// without executing real steps.
func Progress(current, total int, label string) string {
	return fmt.Sprintf("Step %d/%d: %s", current, total, label)
}
