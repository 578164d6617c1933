package provision

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	in, err := Form{
		Organization: "  XYZ University ",
		Department:   "CS",
		CourseName:   "B.Tech CSE",
		CourseCode:   " cse-btech",
		Teacher:      "Dr. Rao",
		Subject:      "DSA\t",
		Semester:     " 3 ",
	}.Normalize()
	require.NoError(t, err)

	require.Equal(t, Input{
		Organization:  "XYZ University",
		Department:    "CS",
		CourseName:    "B.Tech CSE",
		CourseCode:    "CSE-BTECH",
		Teacher:       "Dr. Rao",
		Subject:       "DSA",
		Semester:      3,
		DurationYears: DefaultDurationYears,
	}, in)
}

func TestNormalize_durationYears(t *testing.T) {
	form := testForm()
	form.DurationYears = 3

	in, err := form.Normalize()
	require.NoError(t, err)
	require.Equal(t, 3, in.DurationYears)
}

func TestNormalize_errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(f *Form)
		field   string
		message string
	}{
		{
			name:    "blank organisation",
			modify:  func(f *Form) { f.Organization = "" },
			field:   "Organization",
			message: "Organization name is required",
		},
		{
			name:    "whitespace department",
			modify:  func(f *Form) { f.Department = " \t " },
			field:   "Department",
			message: "Department name is required",
		},
		{
			name:    "blank course name",
			modify:  func(f *Form) { f.CourseName = "" },
			field:   "CourseName",
			message: "Course name is required",
		},
		{
			name:    "blank course code",
			modify:  func(f *Form) { f.CourseCode = "  " },
			field:   "CourseCode",
			message: "Course code is required",
		},
		{
			name:    "blank subject",
			modify:  func(f *Form) { f.Subject = "" },
			field:   "Subject",
			message: "Subject name is required",
		},
		{
			name:    "blank semester",
			modify:  func(f *Form) { f.Semester = " " },
			field:   "Semester",
			message: "Semester is required",
		},
		{
			name:    "non numeric semester",
			modify:  func(f *Form) { f.Semester = "three" },
			field:   "Semester",
			message: "Semester must be between 1 and 8",
		},
		{
			name:    "semester out of range",
			modify:  func(f *Form) { f.Semester = "9" },
			field:   "Semester",
			message: "Semester must be between 1 and 8",
		},
		{
			name:    "semester zero",
			modify:  func(f *Form) { f.Semester = "0" },
			field:   "Semester",
			message: "Semester must be between 1 and 8",
		},
		{
			name:    "negative duration",
			modify:  func(f *Form) { f.DurationYears = -1 },
			field:   "DurationYears",
			message: "Course duration must be between 1 and 10 years",
		},
		{
			name: "first blank field wins",
			modify: func(f *Form) {
				f.Subject = ""
				f.Department = ""
			},
			field:   "Department",
			message: "Department name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := testForm()
			tt.modify(&form)

			_, err := form.Normalize()

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.field, verr.Field)
			require.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestForm_UnmarshalJSONSemester(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{name: "string", data: `{"semester":"3"}`, want: "3"},
		{name: "number", data: `{"semester":3}`, want: "3"},
		{name: "absent keeps default", data: `{"organization":"X"}`, want: DefaultSemester},
		{name: "bool", data: `{"semester":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := DefaultForm()
			err := json.Unmarshal([]byte(tt.data), &form)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, form.Semester)
		})
	}
}
