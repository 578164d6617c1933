package models

// Teacher belongs to a department.
type Teacher struct {
	TeacherID    int64  `json:"teacher_id"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"department_id"`
}

// NewTeacher is the payload for POST /teacher.
type NewTeacher struct {
	Name         string `json:"name"`
	DepartmentID int64  `json:"department_id"`
}

// SubjectTeacher assigns a teacher to a subject.
type SubjectTeacher struct {
	SubjectTeacherID int64 `json:"subject_teacher_id"`
	SubjectID        int64 `json:"subject_id"`
	TeacherID        int64 `json:"teacher_id"`
}

// NewSubjectTeacher is the payload for POST /subject-teacher.
type NewSubjectTeacher struct {
	SubjectID int64 `json:"subject_id"`
	TeacherID int64 `json:"teacher_id"`
}

// SubjectTeacherSummary is a row of GET /subject-teachers-full.
type SubjectTeacherSummary struct {
	SubjectTeacherID int64  `json:"subject_teacher_id"`
	SubjectName      string `json:"subject_name"`
	TeacherName      string `json:"teacher_name"`
}
