package provision

import (
	"context"

	"github.com/subhasish93/Timetable/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultSections are created for every new course.
var DefaultSections = []string{"A", "B"}

// ResourceAPI is the subset of the backend client the chain needs.
type ResourceAPI interface {
	CreateOrganisation(ctx context.Context, in models.NewOrganisation) (*models.Organisation, error)
	CreateDepartment(ctx context.Context, in models.NewDepartment) (*models.Department, error)
	CreateCourse(ctx context.Context, in models.NewCourse) (*models.Course, error)
	CreateSection(ctx context.Context, in models.NewSection) (*models.Section, error)
	CreateTeacher(ctx context.Context, in models.NewTeacher) (*models.Teacher, error)
	CreateSubject(ctx context.Context, in models.NewSubject) (*models.Subject, error)
	CreateSubjectTeacher(ctx context.Context, in models.NewSubjectTeacher) (*models.SubjectTeacher, error)
}

// buildChain returns the seven creation steps in dependency order.
func buildChain(api ResourceAPI, in Input, concurrentSections bool) []Step {
	return []Step{
		{
			Name:     "organisation",
			Produces: []IDKey{OrganisationID},
			Run: func(ctx context.Context, _ IDs) (IDs, error) {
				org, err := api.CreateOrganisation(ctx, models.NewOrganisation{Name: in.Organization})
				if err != nil {
					return nil, err
				}
				return IDs{OrganisationID: org.OrganisationID}, nil
			},
		},
		{
			Name:     "department",
			Requires: []IDKey{OrganisationID},
			Produces: []IDKey{DepartmentID},
			Run: func(ctx context.Context, ids IDs) (IDs, error) {
				dept, err := api.CreateDepartment(ctx, models.NewDepartment{
					Name:           in.Department,
					OrganisationID: ids[OrganisationID],
				})
				if err != nil {
					return nil, err
				}
				return IDs{DepartmentID: dept.DepartmentID}, nil
			},
		},
		{
			Name:     "course",
			Requires: []IDKey{DepartmentID},
			Produces: []IDKey{CourseID},
			Run: func(ctx context.Context, ids IDs) (IDs, error) {
				course, err := api.CreateCourse(ctx, models.NewCourse{
					Name:          in.CourseName,
					Code:          in.CourseCode,
					DurationYears: in.DurationYears,
					DepartmentID:  ids[DepartmentID],
				})
				if err != nil {
					return nil, err
				}
				return IDs{CourseID: course.CourseID}, nil
			},
		},
		{
			Name:     "sections",
			Requires: []IDKey{CourseID},
			Run: func(ctx context.Context, ids IDs) (IDs, error) {
				return createSections(ctx, api, in.Semester, ids[CourseID], concurrentSections)
			},
		},
		{
			Name:     "teacher",
			Requires: []IDKey{DepartmentID},
			Produces: []IDKey{TeacherID},
			Run: func(ctx context.Context, ids IDs) (IDs, error) {
				teacher, err := api.CreateTeacher(ctx, models.NewTeacher{
					Name:         in.Teacher,
					DepartmentID: ids[DepartmentID],
				})
				if err != nil {
					return nil, err
				}
				return IDs{TeacherID: teacher.TeacherID}, nil
			},
		},
		{
			Name:     "subject",
			Requires: []IDKey{CourseID},
			Produces: []IDKey{SubjectID},
			Run: func(ctx context.Context, ids IDs) (IDs, error) {
				subject, err := api.CreateSubject(ctx, models.NewSubject{
					Name:     in.Subject,
					Semester: in.Semester,
					CourseID: ids[CourseID],
				})
				if err != nil {
					return nil, err
				}
				return IDs{SubjectID: subject.SubjectID}, nil
			},
		},
		{
			Name:     "subject-teacher",
			Requires: []IDKey{SubjectID, TeacherID},
			Produces: []IDKey{SubjectTeacherID},
			Run: func(ctx context.Context, ids IDs) (IDs, error) {
				mapping, err := api.CreateSubjectTeacher(ctx, models.NewSubjectTeacher{
					SubjectID: ids[SubjectID],
					TeacherID: ids[TeacherID],
				})
				if err != nil {
					return nil, err
				}
				return IDs{SubjectTeacherID: mapping.SubjectTeacherID}, nil
			},
		},
	}
}

// createSections creates the default sections of a course. Section ids are
// recorded when the backend returns them but nothing later depends on them.
// On failure the ids of the sections already created are returned with the
// error.
func createSections(ctx context.Context, api ResourceAPI, semester int, courseID int64, concurrent bool) (IDs, error) {
	created := make([]int64, len(DefaultSections))

	create := func(ctx context.Context, i int) error {
		section, err := api.CreateSection(ctx, models.NewSection{
			Name:     DefaultSections[i],
			Semester: semester,
			CourseID: courseID,
		})
		if err != nil {
			return err
		}
		created[i] = section.SectionID
		return nil
	}

	var err error
	if concurrent {
		// Siblings are not cancelled so every created section is known.
		var g errgroup.Group
		for i := range DefaultSections {
			g.Go(func() error {
				return create(ctx, i)
			})
		}
		err = g.Wait()
	} else {
		for i := range DefaultSections {
			if err = create(ctx, i); err != nil {
				break
			}
		}
	}

	// Sections created before a failure are still reported.
	ids := IDs{}
	for i, name := range DefaultSections {
		if created[i] > 0 {
			ids[SectionID(name)] = created[i]
		}
	}
	return ids, err
}
