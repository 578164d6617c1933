package models

// Course is a program of study within a department.
type Course struct {
	CourseID      int64  `json:"course_id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	DurationYears int    `json:"duration_years"`
	DepartmentID  int64  `json:"department_id"`
}

// NewCourse is the payload for POST /course.
type NewCourse struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	DurationYears int    `json:"duration_years"`
	DepartmentID  int64  `json:"department_id"`
}

// Section is a cohort of students within a course and semester.
type Section struct {
	SectionID int64  `json:"section_id"`
	Name      string `json:"name"`
	Semester  int    `json:"semester"`
	CourseID  int64  `json:"course_id"`
}

// NewSection is the payload for POST /section.
type NewSection struct {
	Name     string `json:"name"`
	Semester int    `json:"semester"`
	CourseID int64  `json:"course_id"`
}

// SectionSummary is a row of GET /sections.
type SectionSummary struct {
	SectionID int64  `json:"section_id"`
	Name      string `json:"name"`
	Course    string `json:"course"`
	Semester  int    `json:"semester"`
}

// Subject is taught in a given semester of a course.
type Subject struct {
	SubjectID int64  `json:"subject_id"`
	Name      string `json:"name"`
	Semester  int    `json:"semester"`
	CourseID  int64  `json:"course_id"`
}

// NewSubject is the payload for POST /subject.
type NewSubject struct {
	Name     string `json:"name"`
	Semester int    `json:"semester"`
	CourseID int64  `json:"course_id"`
}
