package provision

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/subhasish93/Timetable/internal/client"
	"github.com/subhasish93/Timetable/internal/client/clienttest"
	"github.com/subhasish93/Timetable/internal/models"
)

func testForm() Form {
	return Form{
		Organization: "XYZ University",
		Department:   "CS",
		CourseName:   "B.Tech CSE",
		CourseCode:   "cse",
		Teacher:      "Dr. Rao",
		Subject:      "DSA",
		Semester:     "3",
	}
}

var fullChain = []string{
	"POST /organisation",
	"POST /department",
	"POST /course",
	"POST /section",
	"POST /section",
	"POST /teacher",
	"POST /subject",
	"POST /subject-teacher",
}

func newTestWorkflow(t *testing.T, opts ...Option) (*Workflow, *clienttest.Backend) {
	t.Helper()

	backend := clienttest.NewBackend(t)
	c, err := client.New(client.Config{ServerURL: backend.URL(), Timeout: 5 * time.Second})
	require.NoError(t, err)

	return New(c, opts...), backend
}

func TestSubmit_createsEverythingInOrder(t *testing.T) {
	wf, backend := newTestWorkflow(t)

	state, err := wf.Submit(context.Background(), testForm())
	require.NoError(t, err)

	require.Equal(t, fullChain, backend.Keys())

	reqs := backend.Requests()
	require.JSONEq(t, `{"name":"XYZ University"}`, reqs[0].Body)
	require.JSONEq(t, `{"name":"CS","organisation_id":1}`, reqs[1].Body)
	require.JSONEq(t, `{"name":"B.Tech CSE","code":"CSE","duration_years":4,"department_id":1}`, reqs[2].Body)
	require.JSONEq(t, `{"name":"A","semester":3,"course_id":1}`, reqs[3].Body)
	require.JSONEq(t, `{"name":"B","semester":3,"course_id":1}`, reqs[4].Body)
	require.JSONEq(t, `{"name":"Dr. Rao","department_id":1}`, reqs[5].Body)
	require.JSONEq(t, `{"name":"DSA","semester":3,"course_id":1}`, reqs[6].Body)
	require.JSONEq(t, `{"subject_id":1,"teacher_id":1}`, reqs[7].Body)

	require.Equal(t, StatusSucceeded, state.Status)
	require.Equal(t, SuccessMessage, state.Message)
	require.Equal(t, DefaultForm(), state.Form)
	require.Equal(t, IDs{
		OrganisationID:   1,
		DepartmentID:     1,
		CourseID:         1,
		SectionID("A"):   1,
		SectionID("B"):   2,
		TeacherID:        1,
		SubjectID:        1,
		SubjectTeacherID: 1,
	}, state.IDs)
}

func TestSubmit_threadsIdentifiersFromEarlierSteps(t *testing.T) {
	wf, backend := newTestWorkflow(t)

	// the backend already holds other records so ids differ per resource
	backend.Respond(http.MethodPost, "/organisation", http.StatusOK, `{"organisation_id":7,"name":"XYZ University"}`)
	backend.Respond(http.MethodPost, "/department", http.StatusOK, `{"department_id":12}`)
	backend.Respond(http.MethodPost, "/course", http.StatusOK, `{"course_id":30}`)
	backend.Respond(http.MethodPost, "/teacher", http.StatusOK, `{"teacher_id":41}`)
	backend.Respond(http.MethodPost, "/subject", http.StatusOK, `{"subject_id":55}`)

	_, err := wf.Submit(context.Background(), testForm())
	require.NoError(t, err)

	reqs := backend.Requests()
	require.JSONEq(t, `{"name":"CS","organisation_id":7}`, reqs[1].Body)
	require.JSONEq(t, `{"name":"B.Tech CSE","code":"CSE","duration_years":4,"department_id":12}`, reqs[2].Body)
	require.JSONEq(t, `{"name":"A","semester":3,"course_id":30}`, reqs[3].Body)
	require.JSONEq(t, `{"name":"B","semester":3,"course_id":30}`, reqs[4].Body)
	require.JSONEq(t, `{"name":"Dr. Rao","department_id":12}`, reqs[5].Body)
	require.JSONEq(t, `{"name":"DSA","semester":3,"course_id":30}`, reqs[6].Body)
	require.JSONEq(t, `{"subject_id":55,"teacher_id":41}`, reqs[7].Body)
}

func TestSubmit_departmentConflict(t *testing.T) {
	wf, backend := newTestWorkflow(t)
	backend.Respond(http.MethodPost, "/department", http.StatusConflict, `{"detail":"Department already exists"}`)

	form := testForm()
	state, err := wf.Submit(context.Background(), form)
	require.Error(t, err)
	require.Equal(t, "Department already exists", err.Error())

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, 2, stepErr.Step)
	require.Equal(t, "department", stepErr.Name)
	require.Equal(t, http.StatusConflict, client.StatusCode(err))

	require.Equal(t, []string{"POST /organisation", "POST /department"}, backend.Keys())

	require.Equal(t, StatusFailed, state.Status)
	require.Equal(t, 2, state.Step)
	require.Equal(t, "Department already exists", state.Message)
	require.Equal(t, form, state.Form)
	require.Equal(t, IDs{OrganisationID: 1}, state.IDs)
}

func TestSubmit_stopsAtFailingStep(t *testing.T) {
	isSectionB := func(r clienttest.Request) bool {
		return r.Path == "/section" && strings.Contains(r.Body, `"B"`)
	}

	tests := []struct {
		name     string
		match    func(clienttest.Request) bool
		step     int
		stepName string
		requests int
	}{
		{name: "organisation", match: pathIs("/organisation"), step: 1, stepName: "organisation", requests: 1},
		{name: "department", match: pathIs("/department"), step: 2, stepName: "department", requests: 2},
		{name: "course", match: pathIs("/course"), step: 3, stepName: "course", requests: 3},
		{name: "first section", match: pathIs("/section"), step: 4, stepName: "sections", requests: 4},
		{name: "second section", match: isSectionB, step: 4, stepName: "sections", requests: 5},
		{name: "teacher", match: pathIs("/teacher"), step: 5, stepName: "teacher", requests: 6},
		{name: "subject", match: pathIs("/subject"), step: 6, stepName: "subject", requests: 7},
		{name: "mapping", match: pathIs("/subject-teacher"), step: 7, stepName: "subject-teacher", requests: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, backend := newTestWorkflow(t)
			backend.RespondWhen(tt.match, http.StatusBadRequest, `{"detail":"rejected"}`)

			state, err := wf.Submit(context.Background(), testForm())
			require.EqualError(t, err, "rejected")

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			require.Equal(t, tt.step, stepErr.Step)
			require.Equal(t, tt.stepName, stepErr.Name)

			// earlier steps ran, later ones never did
			require.Equal(t, fullChain[:tt.requests], backend.Keys())
			require.Equal(t, StatusFailed, state.Status)
			require.Equal(t, testForm(), state.Form)
		})
	}
}

func TestSubmit_genericMessageWithoutDetail(t *testing.T) {
	wf, backend := newTestWorkflow(t)
	backend.Respond(http.MethodPost, "/course", http.StatusInternalServerError, `Internal Server Error`)

	state, err := wf.Submit(context.Background(), testForm())
	require.EqualError(t, err, "Failed (500)")
	require.Equal(t, "Failed (500)", state.Message)
	require.Equal(t, 3, state.Step)
}

func TestSubmit_networkError(t *testing.T) {
	wf, backend := newTestWorkflow(t)
	backend.Disconnect(http.MethodPost, "/teacher")

	state, err := wf.Submit(context.Background(), testForm())
	require.Error(t, err)

	var netErr *client.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, "/teacher", netErr.Path)

	require.Equal(t, StatusFailed, state.Status)
	require.Equal(t, 5, state.Step)
	require.Zero(t, backend.Count(http.MethodPost, "/subject"))
	require.Zero(t, backend.Count(http.MethodPost, "/subject-teacher"))
}

func TestSubmit_missingIdentifier(t *testing.T) {
	wf, backend := newTestWorkflow(t)
	backend.Respond(http.MethodPost, "/course", http.StatusOK, `{"name":"B.Tech CSE"}`)

	state, err := wf.Submit(context.Background(), testForm())
	require.ErrorIs(t, err, ErrMissingIdentifier)
	require.Equal(t, 3, state.Step)
	require.Zero(t, backend.Count(http.MethodPost, "/section"))
}

func TestSubmit_validationMakesNoRequests(t *testing.T) {
	wf, backend := newTestWorkflow(t)

	form := testForm()
	form.Teacher = "   "

	state, err := wf.Submit(context.Background(), form)
	require.EqualError(t, err, "Teacher name is required")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Teacher", verr.Field)

	require.Empty(t, backend.Requests())
	require.Equal(t, StatusIdle, state.Status)
	require.Equal(t, "Teacher name is required", state.Message)
	require.Equal(t, form, state.Form)
}

func TestSubmit_uppercasesCourseCode(t *testing.T) {
	wf, backend := newTestWorkflow(t)

	form := testForm()
	form.CourseCode = "  cse-btech "

	_, err := wf.Submit(context.Background(), form)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"B.Tech CSE","code":"CSE-BTECH","duration_years":4,"department_id":1}`, backend.Requests()[2].Body)
}

func TestSubmit_resubmitAfterFailureStartsOver(t *testing.T) {
	wf, backend := newTestWorkflow(t)
	backend.Respond(http.MethodPost, "/subject", http.StatusConflict, `{"detail":"Subject already exists"}`)

	state, err := wf.Submit(context.Background(), testForm())
	require.Error(t, err)

	backend.ClearOverrides()

	state, err = wf.Submit(context.Background(), state.Form)
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, state.Status)

	// nothing is deduplicated: upstream resources are created a second time
	require.Equal(t, 2, backend.Count(http.MethodPost, "/organisation"))
	require.Equal(t, 2, backend.Count(http.MethodPost, "/teacher"))
	require.Equal(t, 4, backend.Count(http.MethodPost, "/section"))
	require.Equal(t, 1, backend.Count(http.MethodPost, "/subject-teacher"))
	require.Equal(t, int64(2), state.IDs[OrganisationID])
}

func TestSubmit_concurrentSections(t *testing.T) {
	wf, backend := newTestWorkflow(t, WithConcurrentSections(true))

	_, err := wf.Submit(context.Background(), testForm())
	require.NoError(t, err)

	keys := backend.Keys()
	require.Equal(t, fullChain, keys)

	reqs := backend.Requests()
	bodies := []string{reqs[3].Body, reqs[4].Body}
	names := []string{}
	for _, body := range bodies {
		switch {
		case strings.Contains(body, `"A"`):
			names = append(names, "A")
		case strings.Contains(body, `"B"`):
			names = append(names, "B")
		}
	}
	require.ElementsMatch(t, []string{"A", "B"}, names)
}

func TestSubmit_concurrentSectionFailureStopsBeforeTeacher(t *testing.T) {
	wf, backend := newTestWorkflow(t, WithConcurrentSections(true))
	backend.RespondWhen(func(r clienttest.Request) bool {
		return r.Path == "/section" && strings.Contains(r.Body, `"A"`)
	}, http.StatusBadRequest, `{"detail":"Section A already exists"}`)

	state, err := wf.Submit(context.Background(), testForm())
	require.EqualError(t, err, "Section A already exists")
	require.Equal(t, 4, state.Step)
	require.Zero(t, backend.Count(http.MethodPost, "/teacher"))
}

func TestSubmit_sectionBFailureKeepsSectionA(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "sequential"},
		{name: "concurrent", opts: []Option{WithConcurrentSections(true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, backend := newTestWorkflow(t, tt.opts...)
			backend.RespondWhen(func(r clienttest.Request) bool {
				return r.Path == "/section" && strings.Contains(r.Body, `"B"`)
			}, http.StatusBadRequest, `{"detail":"Section B already exists"}`)

			state, err := wf.Submit(context.Background(), testForm())
			require.EqualError(t, err, "Section B already exists")
			require.Equal(t, StatusFailed, state.Status)
			require.Equal(t, 4, state.Step)
			require.Zero(t, backend.Count(http.MethodPost, "/teacher"))

			require.Equal(t, int64(1), state.IDs[SectionID("A")])
			require.NotContains(t, state.IDs, SectionID("B"))
			require.Equal(t, int64(1), state.IDs[CourseID])
		})
	}
}

func TestSubmit_progress(t *testing.T) {
	var events []StepEvent
	wf, _ := newTestWorkflow(t, WithProgress(func(ev StepEvent) {
		events = append(events, ev)
	}))

	_, err := wf.Submit(context.Background(), testForm())
	require.NoError(t, err)

	require.Len(t, events, 14)
	require.Equal(t, StepEvent{Step: 1, Total: 7, Name: "organisation"}, events[0])
	require.True(t, events[1].Done)
	require.Equal(t, IDs{OrganisationID: 1}, events[1].IDs)
	require.Equal(t, "subject-teacher", events[13].Name)
}

func TestSubmit_busy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &blockingAPI{started: started, release: release}
	wf := New(api)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background(), testForm())
		done <- err
	}()

	<-started
	require.Equal(t, StatusRunning, wf.State().Status)

	_, err := wf.Submit(context.Background(), testForm())
	require.ErrorIs(t, err, ErrBusy)

	require.Equal(t, StatusRunning, wf.Reset().Status)

	close(release)
	require.Error(t, <-done)
	require.Equal(t, StatusFailed, wf.State().Status)
}

func pathIs(path string) func(clienttest.Request) bool {
	return func(r clienttest.Request) bool {
		return r.Path == path
	}
}

// blockingAPI blocks the first step until released and then fails it.
type blockingAPI struct {
	ResourceAPI
	started chan struct{}
	release chan struct{}
}

func (b *blockingAPI) CreateOrganisation(ctx context.Context, _ models.NewOrganisation) (*models.Organisation, error) {
	close(b.started)
	<-b.release
	return nil, errors.New("released")
}
