// Package clienttest provides an in-process fake of the timetable backend
// that records every request it receives.
package clienttest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/subhasish93/Timetable/internal/models"
)

// Request is a request observed by the Backend.
type Request struct {
	Method    string
	Path      string
	Body      string
	RequestID string
}

// Key returns "METHOD /path".
func (r Request) Key() string {
	return r.Method + " " + r.Path
}

type override struct {
	match      func(Request) bool
	status     int
	body       string
	disconnect bool
}

// idFields maps each create endpoint to the identifier it returns.
var idFields = map[string]string{
	"/organisation":    "organisation_id",
	"/department":      "department_id",
	"/course":          "course_id",
	"/section":         "section_id",
	"/teacher":         "teacher_id",
	"/subject":         "subject_id",
	"/subject-teacher": "subject_teacher_id",
}

// Backend is a fake timetable backend. Create endpoints echo the request
// body with a sequential identifier per resource starting at 1.
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	requests  []Request
	nextID    map[string]int64
	overrides []override

	Sections        []models.SectionSummary
	TimeSlots       []models.TimeSlot
	SubjectTeachers []models.SubjectTeacherSummary
	Timetable       map[int64]models.TimetableEntry
}

// NewBackend starts a fake backend that is closed when the test finishes.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		nextID:    make(map[string]int64),
		Timetable: make(map[int64]models.TimetableEntry),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.Server.Close)

	return b
}

// URL returns the base URL of the backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Respond makes every matching request return status and body instead of
// the default behaviour.
func (b *Backend) Respond(method, path string, status int, body string) {
	b.RespondWhen(matchKey(method, path), status, body)
}

// RespondWhen is Respond with an arbitrary matcher.
func (b *Backend) RespondWhen(match func(Request) bool, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides = append(b.overrides, override{match: match, status: status, body: body})
}

// Disconnect makes matching requests fail without a response.
func (b *Backend) Disconnect(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides = append(b.overrides, override{match: matchKey(method, path), disconnect: true})
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Keys returns the "METHOD /path" of every request received so far.
func (b *Backend) Keys() []string {
	reqs := b.Requests()
	keys := make([]string, 0, len(reqs))
	for _, r := range reqs {
		keys = append(keys, r.Key())
	}
	return keys
}

// Count returns how many requests matched method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func matchKey(method, path string) func(Request) bool {
	return func(r Request) bool {
		return r.Method == method && r.Path == path
	}
}

func (b *Backend) handle(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	req := Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		Body:      string(data),
		RequestID: r.Header.Get("X-Request-ID"),
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	var ov *override
	for i := range b.overrides {
		if b.overrides[i].match(req) {
			ov = &b.overrides[i]
			break
		}
	}
	b.mu.Unlock()

	if ov != nil {
		if ov.disconnect {
			hj, ok := w.(http.Hijacker)
			if !ok {
				http.Error(w, "hijack unsupported", http.StatusInternalServerError)
				return
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		writeRaw(w, ov.status, ov.body)
		return
	}

	switch {
	case r.Method == http.MethodPost && idFields[req.Path] != "":
		b.create(w, req)
	case r.Method == http.MethodGet && req.Path == "/sections":
		b.mu.Lock()
		writeJSON(w, http.StatusOK, nonNil(b.Sections))
		b.mu.Unlock()
	case r.Method == http.MethodGet && req.Path == "/time-slots":
		b.mu.Lock()
		writeJSON(w, http.StatusOK, nonNil(b.TimeSlots))
		b.mu.Unlock()
	case r.Method == http.MethodGet && req.Path == "/subject-teachers-full":
		b.mu.Lock()
		writeJSON(w, http.StatusOK, nonNil(b.SubjectTeachers))
		b.mu.Unlock()
	case strings.HasPrefix(req.Path, "/timetable"):
		b.timetable(w, req)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (b *Backend) create(w http.ResponseWriter, req Request) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "invalid JSON body"}},
		})
		return
	}

	b.mu.Lock()
	b.nextID[req.Path]++
	payload[idFields[req.Path]] = b.nextID[req.Path]
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, payload)
}

func (b *Backend) timetable(w http.ResponseWriter, req Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case req.Method == http.MethodPost && req.Path == "/timetable":
		var entry models.TimetableEntry
		if err := json.Unmarshal([]byte(req.Body), &entry); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
			return
		}
		b.nextID[req.Path]++
		b.Timetable[b.nextID[req.Path]] = entry
		writeJSON(w, http.StatusOK, map[string]string{"message": "Timetable created successfully"})

	case req.Method == http.MethodGet && req.Path == "/timetable/full":
		writeJSON(w, http.StatusOK, b.rows(func(models.TimetableEntry) bool { return true }))

	case req.Method == http.MethodGet && strings.HasPrefix(req.Path, "/timetable/section/"):
		sectionID, err := strconv.ParseInt(strings.TrimPrefix(req.Path, "/timetable/section/"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Section not found"})
			return
		}
		writeJSON(w, http.StatusOK, b.rows(func(e models.TimetableEntry) bool { return e.SectionID == sectionID }))

	case req.Method == http.MethodPut || req.Method == http.MethodDelete:
		id, err := strconv.ParseInt(strings.TrimPrefix(req.Path, "/timetable/"), 10, 64)
		if _, ok := b.Timetable[id]; err != nil || !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Timetable entry not found"})
			return
		}
		if req.Method == http.MethodDelete {
			delete(b.Timetable, id)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		var entry models.TimetableEntry
		if err := json.Unmarshal([]byte(req.Body), &entry); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
			return
		}
		b.Timetable[id] = entry
		writeJSON(w, http.StatusOK, map[string]string{"message": "Timetable updated successfully"})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	}
}

// rows renders stored entries the way the backend's section view does.
// Callers hold b.mu.
func (b *Backend) rows(keep func(models.TimetableEntry) bool) []models.TimetableRow {
	rows := []models.TimetableRow{}
	for id := int64(1); id <= b.nextID["/timetable"]; id++ {
		entry, ok := b.Timetable[id]
		if !ok || !keep(entry) {
			continue
		}
		row := models.TimetableRow{
			TimetableID:      id,
			Section:          fmt.Sprintf("section-%d", entry.SectionID),
			RoomNo:           entry.RoomNo,
			SlotID:           entry.SlotID,
			SubjectTeacherID: entry.SubjectTeacherID,
		}
		for _, slot := range b.TimeSlots {
			if slot.SlotID == entry.SlotID {
				row.Day, row.StartTime, row.EndTime = slot.Day, slot.Start, slot.End
			}
		}
		for _, st := range b.SubjectTeachers {
			if st.SubjectTeacherID == entry.SubjectTeacherID {
				row.Subject, row.Teacher = st.SubjectName, st.TeacherName
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// ClearOverrides restores the default behaviour for every endpoint.
func (b *Backend) ClearOverrides() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides = nil
}
