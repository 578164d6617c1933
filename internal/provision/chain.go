package provision

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/rs/zerolog"
	"github.com/subhasish93/Timetable/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrBusy is returned when a submission is made while one is running.
	ErrBusy = errors.New("provisioning already running")
	// ErrMissingIdentifier is returned when a create response lacks the
	// identifier later steps depend on.
	ErrMissingIdentifier = errors.New("create response is missing an identifier")
	// ErrInvalidChain is returned when a step requires an identifier that no
	// earlier step produces.
	ErrInvalidChain = errors.New("invalid provisioning chain")
)

// IDKey names an identifier produced by a step.
type IDKey string

const (
	OrganisationID   IDKey = "organisation_id"
	DepartmentID     IDKey = "department_id"
	CourseID         IDKey = "course_id"
	TeacherID        IDKey = "teacher_id"
	SubjectID        IDKey = "subject_id"
	SubjectTeacherID IDKey = "subject_teacher_id"
)

// SectionID is the key under which the id of the named default section is
// recorded.
func SectionID(name string) IDKey {
	return IDKey("section_" + name + "_id")
}

// IDs accumulates the identifiers produced while the chain runs.
type IDs map[IDKey]int64

// Step is one link of the chain. Run receives every identifier produced so
// far and returns the identifiers it created.
type Step struct {
	Name     string
	Requires []IDKey
	Produces []IDKey
	Run      func(ctx context.Context, ids IDs) (IDs, error)
}

// StepError is the failure of a single step. Its message is the underlying
// error message, unchanged, so backend details reach the user verbatim.
type StepError struct {
	Step int
	Name string
	Err  error
}

func (e *StepError) Error() string {
	return e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a chain run. Failed is nil when every step ran.
// IDs always holds what was created, including before a failure.
type Result struct {
	IDs    IDs
	Failed *StepError
}

// OK reports whether every step succeeded.
func (r Result) OK() bool {
	return r.Failed == nil
}

// Progress is notified before and after each step.
type Progress func(ev StepEvent)

// StepEvent describes a step starting (Done false) or finishing.
type StepEvent struct {
	Step  int
	Total int
	Name  string
	Done  bool
	IDs   IDs
	Err   error
}

// checkChain verifies that every required identifier is produced by an
// earlier step.
func checkChain(steps []Step) error {
	available := make(map[IDKey]bool)
	for i, step := range steps {
		for _, key := range step.Requires {
			if !available[key] {
				return fmt.Errorf("%w: step %d (%s) requires %s before it is produced", ErrInvalidChain, i+1, step.Name, key)
			}
		}
		for _, key := range step.Produces {
			available[key] = true
		}
	}
	return nil
}

// runChain executes steps in order and stops at the first failure. Steps
// after a failure never run and nothing already created is undone.
func runChain(ctx context.Context, steps []Step, progress Progress) Result {
	log := zerolog.Ctx(ctx)
	m := telemetry.GetMetrics()
	ids := IDs{}

	for i, step := range steps {
		n := i + 1
		notify(progress, StepEvent{Step: n, Total: len(steps), Name: step.Name})

		stepCtx, span := telemetry.Tracer().Start(ctx, "provision."+step.Name,
			trace.WithAttributes(attribute.Int("provision.step", n)))
		started := time.Now()

		produced, err := step.Run(stepCtx, ids)
		if err == nil {
			err = checkProduced(step, produced)
		}

		m.ProvisionStepDuration.Record(ctx, float64(time.Since(started).Milliseconds()),
			metric.WithAttributes(attribute.String("step", step.Name)))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()

			m.ProvisionStepFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("step", step.Name)))
			log.Warn().Err(err).Int("step", n).Str("name", step.Name).Msg("provisioning step failed")

			mergeCreated(ids, produced)
			stepErr := &StepError{Step: n, Name: step.Name, Err: err}
			notify(progress, StepEvent{Step: n, Total: len(steps), Name: step.Name, Done: true, Err: stepErr})

			return Result{IDs: ids, Failed: stepErr}
		}
		span.End()

		maps.Copy(ids, produced)

		log.Info().Int("step", n).Str("name", step.Name).Interface("ids", produced).Msg("provisioning step completed")
		notify(progress, StepEvent{Step: n, Total: len(steps), Name: step.Name, Done: true, IDs: produced})
	}

	return Result{IDs: ids}
}

func checkProduced(step Step, produced IDs) error {
	for _, key := range step.Produces {
		if produced[key] <= 0 {
			return fmt.Errorf("%w: %s", ErrMissingIdentifier, key)
		}
	}
	return nil
}

// mergeCreated keeps the ids a failed step did create before failing.
func mergeCreated(ids, produced IDs) {
	for key, id := range produced {
		if id > 0 {
			ids[key] = id
		}
	}
}

func notify(progress Progress, ev StepEvent) {
	if progress != nil {
		progress(ev)
	}
}
