package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/subhasish93/Timetable/internal/models"
)

// CreateCmd groups the single-resource create commands, for adding to an
// existing hierarchy without running the whole provisioning chain.
type CreateCmd struct {
	Organisation   CreateOrganisationCmd   `cmd:"" help:"Create an organisation"`
	Department     CreateDepartmentCmd     `cmd:"" help:"Create a department"`
	Course         CreateCourseCmd         `cmd:"" help:"Create a course"`
	Section        CreateSectionCmd        `cmd:"" help:"Create a section"`
	Teacher        CreateTeacherCmd        `cmd:"" help:"Create a teacher"`
	Subject        CreateSubjectCmd        `cmd:"" help:"Create a subject"`
	SubjectTeacher CreateSubjectTeacherCmd `cmd:"" help:"Assign a teacher to a subject"`
}

type CreateOrganisationCmd struct {
	Name string `arg:"" help:"Organisation name"`
}

func (c *CreateOrganisationCmd) Run(ctx context.Context, globals *Globals) error {
	name, err := requireText("name", c.Name)
	if err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	org, err := api.CreateOrganisation(ctx, models.NewOrganisation{Name: name})
	if err != nil {
		return fmt.Errorf("failed to create organisation: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "organisation_id=%d\n", org.OrganisationID)
	return nil
}

type CreateDepartmentCmd struct {
	Name           string `arg:"" help:"Department name"`
	OrganisationID int64  `help:"Owning organisation id" required:""`
}

func (c *CreateDepartmentCmd) Run(ctx context.Context, globals *Globals) error {
	name, err := requireText("name", c.Name)
	if err != nil {
		return err
	}
	if err := requireID("organisation-id", c.OrganisationID); err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	dept, err := api.CreateDepartment(ctx, models.NewDepartment{Name: name, OrganisationID: c.OrganisationID})
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "department_id=%d\n", dept.DepartmentID)
	return nil
}

type CreateCourseCmd struct {
	Name          string `arg:"" help:"Course name"`
	Code          string `help:"Course code" required:""`
	DurationYears int    `help:"Course duration in years" default:"4"`
	DepartmentID  int64  `help:"Owning department id" required:""`
}

func (c *CreateCourseCmd) Run(ctx context.Context, globals *Globals) error {
	name, err := requireText("name", c.Name)
	if err != nil {
		return err
	}
	code, err := requireText("code", c.Code)
	if err != nil {
		return err
	}
	if err := requireID("department-id", c.DepartmentID); err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	course, err := api.CreateCourse(ctx, models.NewCourse{
		Name:          name,
		Code:          strings.ToUpper(code),
		DurationYears: c.DurationYears,
		DepartmentID:  c.DepartmentID,
	})
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "course_id=%d\n", course.CourseID)
	return nil
}

type CreateSectionCmd struct {
	Name     string `arg:"" help:"Section name, e.g. A"`
	Semester int    `help:"Semester (1-8)" default:"1"`
	CourseID int64  `help:"Owning course id" required:""`
}

func (c *CreateSectionCmd) Run(ctx context.Context, globals *Globals) error {
	name, err := requireText("name", c.Name)
	if err != nil {
		return err
	}
	if err := requireSemester(c.Semester); err != nil {
		return err
	}
	if err := requireID("course-id", c.CourseID); err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	sec, err := api.CreateSection(ctx, models.NewSection{Name: name, Semester: c.Semester, CourseID: c.CourseID})
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "section_id=%d\n", sec.SectionID)
	return nil
}

type CreateTeacherCmd struct {
	Name         string `arg:"" help:"Teacher name"`
	DepartmentID int64  `help:"Owning department id" required:""`
}

func (c *CreateTeacherCmd) Run(ctx context.Context, globals *Globals) error {
	name, err := requireText("name", c.Name)
	if err != nil {
		return err
	}
	if err := requireID("department-id", c.DepartmentID); err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	teacher, err := api.CreateTeacher(ctx, models.NewTeacher{Name: name, DepartmentID: c.DepartmentID})
	if err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "teacher_id=%d\n", teacher.TeacherID)
	return nil
}

type CreateSubjectCmd struct {
	Name     string `arg:"" help:"Subject name"`
	Semester int    `help:"Semester (1-8)" default:"1"`
	CourseID int64  `help:"Owning course id" required:""`
}

func (c *CreateSubjectCmd) Run(ctx context.Context, globals *Globals) error {
	name, err := requireText("name", c.Name)
	if err != nil {
		return err
	}
	if err := requireSemester(c.Semester); err != nil {
		return err
	}
	if err := requireID("course-id", c.CourseID); err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	subject, err := api.CreateSubject(ctx, models.NewSubject{Name: name, Semester: c.Semester, CourseID: c.CourseID})
	if err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "subject_id=%d\n", subject.SubjectID)
	return nil
}

type CreateSubjectTeacherCmd struct {
	SubjectID int64 `help:"Subject id" required:""`
	TeacherID int64 `help:"Teacher id" required:""`
}

func (c *CreateSubjectTeacherCmd) Run(ctx context.Context, globals *Globals) error {
	if err := requireID("subject-id", c.SubjectID); err != nil {
		return err
	}
	if err := requireID("teacher-id", c.TeacherID); err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	st, err := api.CreateSubjectTeacher(ctx, models.NewSubjectTeacher{SubjectID: c.SubjectID, TeacherID: c.TeacherID})
	if err != nil {
		return fmt.Errorf("failed to assign teacher: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "subject_teacher_id=%d\n", st.SubjectTeacherID)
	return nil
}

func requireSemester(n int) error {
	if n < 1 || n > 8 {
		return fmt.Errorf("semester must be between 1 and 8")
	}
	return nil
}
