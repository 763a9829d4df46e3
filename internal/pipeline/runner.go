package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Recorder receives step lifecycle events for the history database.
// Recording is best-effort; a recorder error never affects the run.
type Recorder interface {
	StepEvent(runID string, ordinal int, label, event, detail string) error
}

// Runner executes an ordered sequence of steps with fail-fast semantics.
// There is no retry policy at this layer: a failing operation is immediately
// fatal, and no completed step is rolled back.
type Runner struct {
	log   zerolog.Logger
	store *Store
	rec   Recorder
}

// NewRunner creates a Runner. rec may be nil if no history DB is available.
func NewRunner(log zerolog.Logger, store *Store, rec Recorder) *Runner {
	return &Runner{log: log, store: store, rec: rec}
}

// Run executes steps strictly in order, persisting the run record after
// every transition. It returns a *StepFailure naming the first failing step,
// or nil if all steps completed.
func (r *Runner) Run(ctx context.Context, run *Run, steps []Step) error {
	if err := validateSteps(steps); err != nil {
		return err
	}
	if run.TotalSteps != len(steps) {
		return fmt.Errorf("run expects %d steps, got %d", run.TotalSteps, len(steps))
	}

	run.Status = StatusRunning
	r.save(run)

	for _, step := range steps {
		run.CurrentStep = step.Ordinal
		r.save(run)

		r.log.Info().Msg(Progress(step.Ordinal, run.TotalSteps, step.Label))
		r.record(run.ID, step.Ordinal, step.Label, "started", "")

		if err := step.Op(ctx); err != nil {
			run.Status = StatusFailed
			run.FailedStep = step.Label
			run.FinishedAt = time.Now().UTC().Format(time.RFC3339)
			r.save(run)
			r.record(run.ID, step.Ordinal, step.Label, "failed", err.Error())

			r.log.Error().Err(err).Msgf("step %d/%d (%s) failed", step.Ordinal, run.TotalSteps, step.Label)
			return &StepFailure{Label: step.Label, Err: err}
		}

		r.record(run.ID, step.Ordinal, step.Label, "succeeded", "")
	}

	run.Status = StatusSucceeded
	run.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	r.save(run)
	return nil
}

func (r *Runner) save(run *Run) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(run); err != nil {
		r.log.Warn().Err(err).Msg("persist run record")
	}
}

func (r *Runner) record(runID string, ordinal int, label, event, detail string) {
	if r.rec == nil {
		return
	}
	if err := r.rec.StepEvent(runID, ordinal, label, event, detail); err != nil {
		r.log.Warn().Err(err).Msg("record step event")
	}
}

// validateSteps enforces contiguous ordinals starting at 1.
func validateSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("no steps to run")
	}
	for i, s := range steps {
		if s.Ordinal != i+1 {
			return fmt.Errorf("step %q has ordinal %d, want %d", s.Label, s.Ordinal, i+1)
		}
		if s.Op == nil {
			return fmt.Errorf("step %q has no operation", s.Label)
		}
	}
	return nil
}
