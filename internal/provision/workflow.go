// Package provision creates an organisation together with its department,
// course, default sections, teacher, subject and subject-teacher mapping in
// a single dependent chain of backend calls.
package provision

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/subhasish93/Timetable/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithConcurrentSections creates the default sections in parallel. Both
// still run after the course exists and before the teacher is created.
func WithConcurrentSections(enabled bool) Option {
	return func(w *Workflow) {
		w.concurrentSections = enabled
	}
}

// WithProgress registers a callback notified around each step.
func WithProgress(progress Progress) Option {
	return func(w *Workflow) {
		w.progress = progress
	}
}

// Workflow holds one provisioning form and runs it against the backend. A
// Workflow runs at most one submission at a time.
type Workflow struct {
	api                ResourceAPI
	concurrentSections bool
	progress           Progress

	mu    sync.Mutex
	state State
}

// New creates a Workflow in the Idle state with an empty form.
func New(api ResourceAPI, opts ...Option) *Workflow {
	w := &Workflow{
		api:   api,
		state: NewState(DefaultForm()),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Reset clears the form unless a submission is running.
func (w *Workflow) Reset() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = w.state.Apply(Reset{})
	return w.state
}

// Submit validates form and runs the creation chain. It returns the
// resulting state along with a *ValidationError when no request was made,
// or a *StepError naming the step that stopped the chain. On success the
// form is cleared; on failure it is kept for resubmission, which starts
// over from the first step.
func (w *Workflow) Submit(ctx context.Context, form Form) (State, error) {
	log := zerolog.Ctx(ctx)

	w.mu.Lock()
	if w.state.Status == StatusRunning {
		w.mu.Unlock()
		return w.State(), ErrBusy
	}

	w.state = w.state.Apply(Edited{Form: form})

	in, err := form.Normalize()
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			w.state = w.state.Apply(Invalid{Message: verr.Message})
		}
		state := w.state
		w.mu.Unlock()

		log.Debug().Err(err).Msg("provisioning form rejected")
		return state, err
	}

	w.state = w.state.Apply(Submitted{})
	w.mu.Unlock()

	log.Info().
		Str("organisation", in.Organization).
		Str("course_code", in.CourseCode).
		Int("semester", in.Semester).
		Msg("provisioning started")

	steps := buildChain(w.api, in, w.concurrentSections)
	if err := checkChain(steps); err != nil {
		// the built-in chain is ordered; this only trips on a programming error
		return w.finish(ctx, Result{Failed: &StepError{Name: "chain", Err: err}})
	}

	return w.finish(ctx, runChain(ctx, steps, w.progress))
}

func (w *Workflow) finish(ctx context.Context, result Result) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	outcome := "succeeded"
	if result.OK() {
		w.state = w.state.Apply(Completed{IDs: result.IDs})
		zerolog.Ctx(ctx).Info().Interface("ids", result.IDs).Msg("provisioning completed")
	} else {
		outcome = "failed"
		w.state = w.state.Apply(StepFailed{
			Step:    result.Failed.Step,
			Name:    result.Failed.Name,
			Message: result.Failed.Error(),
			IDs:     result.IDs,
		})
	}

	telemetry.GetMetrics().ProvisionRunsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))

	if result.Failed != nil {
		return w.state, result.Failed
	}
	return w.state, nil
}
