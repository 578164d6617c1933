package provision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultSemester is the semester a cleared form starts with.
	DefaultSemester = "1"
	// DefaultDurationYears is used when the form leaves the duration unset.
	DefaultDurationYears = 4

	maxSemester = 8
)

// Form is the draft of a provisioning request exactly as the user typed it.
type Form struct {
	Organization  string `yaml:"organization" json:"organization" validate:"required"`
	Department    string `yaml:"department" json:"department" validate:"required"`
	CourseName    string `yaml:"courseName" json:"courseName" validate:"required"`
	CourseCode    string `yaml:"courseCode" json:"courseCode" validate:"required"`
	Teacher       string `yaml:"teacher" json:"teacher" validate:"required"`
	Subject       string `yaml:"subject" json:"subject" validate:"required"`
	Semester      string `yaml:"semester" json:"semester" validate:"required,number"`
	DurationYears int    `yaml:"durationYears" json:"durationYears" validate:"min=0,max=10"`
}

// UnmarshalJSON accepts the semester as either a string or a number.
func (f *Form) UnmarshalJSON(data []byte) error {
	type plain Form
	aux := struct {
		*plain
		Semester json.RawMessage `json:"semester"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Semester)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		return json.Unmarshal(raw, &f.Semester)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("semester must be a string or a number: %w", err)
	}
	f.Semester = n.String()
	return nil
}

// DefaultForm returns an empty form.
func DefaultForm() Form {
	return Form{Semester: DefaultSemester}
}

// Input is a validated and normalised Form.
type Input struct {
	Organization  string
	Department    string
	CourseName    string
	CourseCode    string
	Teacher       string
	Subject       string
	Semester      int
	DurationYears int
}

// ValidationError reports the first invalid form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New()

var fieldLabels = map[string]string{
	"Organization": "Organization name",
	"Department":   "Department name",
	"CourseName":   "Course name",
	"CourseCode":   "Course code",
	"Teacher":      "Teacher name",
	"Subject":      "Subject name",
	"Semester":     "Semester",
}

// Normalize trims every field, upper-cases the course code and converts the
// numeric fields. Fields are checked in form order and the first failure is
// returned as a *ValidationError.
func (f Form) Normalize() (Input, error) {
	trimmed := Form{
		Organization:  strings.TrimSpace(f.Organization),
		Department:    strings.TrimSpace(f.Department),
		CourseName:    strings.TrimSpace(f.CourseName),
		CourseCode:    strings.ToUpper(strings.TrimSpace(f.CourseCode)),
		Teacher:       strings.TrimSpace(f.Teacher),
		Subject:       strings.TrimSpace(f.Subject),
		Semester:      strings.TrimSpace(f.Semester),
		DurationYears: f.DurationYears,
	}

	if err := validate.Struct(trimmed); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Input{}, fieldError(verrs[0])
		}
		return Input{}, fmt.Errorf("failed to validate form: %w", err)
	}

	semester, err := strconv.Atoi(trimmed.Semester)
	if err != nil || semester < 1 || semester > maxSemester {
		return Input{}, &ValidationError{
			Field:   "Semester",
			Message: fmt.Sprintf("Semester must be between 1 and %d", maxSemester),
		}
	}

	duration := trimmed.DurationYears
	if duration == 0 {
		duration = DefaultDurationYears
	}

	return Input{
		Organization:  trimmed.Organization,
		Department:    trimmed.Department,
		CourseName:    trimmed.CourseName,
		CourseCode:    trimmed.CourseCode,
		Teacher:       trimmed.Teacher,
		Subject:       trimmed.Subject,
		Semester:      semester,
		DurationYears: duration,
	}, nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch {
	case fe.Tag() == "required":
		return &ValidationError{Field: fe.Field(), Message: label + " is required"}
	case fe.Field() == "Semester":
		return &ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("Semester must be between 1 and %d", maxSemester),
		}
	case fe.Field() == "DurationYears":
		return &ValidationError{Field: fe.Field(), Message: "Course duration must be between 1 and 10 years"}
	default:
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("%s is invalid", label)}
	}
}
