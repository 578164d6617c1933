package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/subhasish93/Timetable/internal/models"
)

// CreateOrganisation creates an organisation.
func (c *Client) CreateOrganisation(ctx context.Context, in models.NewOrganisation) (*models.Organisation, error) {
	var out models.Organisation
	if err := c.Do(ctx, http.MethodPost, "/organisation", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDepartment creates a department under an organisation.
func (c *Client) CreateDepartment(ctx context.Context, in models.NewDepartment) (*models.Department, error) {
	var out models.Department
	if err := c.Do(ctx, http.MethodPost, "/department", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCourse creates a course under a department.
func (c *Client) CreateCourse(ctx context.Context, in models.NewCourse) (*models.Course, error) {
	var out models.Course
	if err := c.Do(ctx, http.MethodPost, "/course", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSection creates a section of a course.
func (c *Client) CreateSection(ctx context.Context, in models.NewSection) (*models.Section, error) {
	var out models.Section
	if err := c.Do(ctx, http.MethodPost, "/section", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTeacher creates a teacher in a department.
func (c *Client) CreateTeacher(ctx context.Context, in models.NewTeacher) (*models.Teacher, error) {
	var out models.Teacher
	if err := c.Do(ctx, http.MethodPost, "/teacher", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSubject creates a subject of a course.
func (c *Client) CreateSubject(ctx context.Context, in models.NewSubject) (*models.Subject, error) {
	var out models.Subject
	if err := c.Do(ctx, http.MethodPost, "/subject", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSubjectTeacher assigns a teacher to a subject.
func (c *Client) CreateSubjectTeacher(ctx context.Context, in models.NewSubjectTeacher) (*models.SubjectTeacher, error) {
	var out models.SubjectTeacher
	if err := c.Do(ctx, http.MethodPost, "/subject-teacher", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSections returns every section with its course name.
func (c *Client) ListSections(ctx context.Context) ([]models.SectionSummary, error) {
	var out []models.SectionSummary
	if err := c.Do(ctx, http.MethodGet, "/sections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTimeSlots returns the configured weekly time slots.
func (c *Client) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	if err := c.Do(ctx, http.MethodGet, "/time-slots", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSubjectTeachers returns subject teacher assignments with names resolved.
func (c *Client) ListSubjectTeachers(ctx context.Context) ([]models.SubjectTeacherSummary, error) {
	var out []models.SubjectTeacherSummary
	if err := c.Do(ctx, http.MethodGet, "/subject-teachers-full", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSectionTimetable returns the timetable rows of one section.
func (c *Client) GetSectionTimetable(ctx context.Context, sectionID int64) ([]models.TimetableRow, error) {
	var out []models.TimetableRow
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/timetable/section/%d", sectionID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFullTimetable returns every timetable row across sections.
func (c *Client) GetFullTimetable(ctx context.Context) ([]models.TimetableRow, error) {
	var out []models.TimetableRow
	if err := c.Do(ctx, http.MethodGet, "/timetable/full", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTimetableEntry schedules a subject teacher for a section in a slot.
func (c *Client) CreateTimetableEntry(ctx context.Context, in models.TimetableEntry) error {
	return c.Do(ctx, http.MethodPost, "/timetable", in, nil)
}

// UpdateTimetableEntry replaces the timetable entry with the given id.
func (c *Client) UpdateTimetableEntry(ctx context.Context, id int64, in models.TimetableEntry) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/timetable/%d", id), in, nil)
}

// DeleteTimetableEntry removes the timetable entry with the given id.
func (c *Client) DeleteTimetableEntry(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/timetable/%d", id), nil, nil)
}
