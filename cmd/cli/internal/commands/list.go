package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
)

type SectionsCmd struct{}

func (s *SectionsCmd) Run(ctx context.Context, globals *Globals) error {
	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	sections, err := api.ListSections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sections: %w", err)
	}

	out := globals.stdout()
	if len(sections) == 0 {
		fmt.Fprintln(out, "No sections found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSECTION\tCOURSE\tSEMESTER")
	for _, s := range sections {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", s.SectionID, s.Name, s.Course, s.Semester)
	}
	return w.Flush()
}

type SlotsCmd struct{}

func (s *SlotsCmd) Run(ctx context.Context, globals *Globals) error {
	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	slots, err := api.ListTimeSlots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list time slots: %w", err)
	}

	out := globals.stdout()
	if len(slots) == 0 {
		fmt.Fprintln(out, "No time slots found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDAY\tSTART\tEND")
	for _, s := range slots {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.SlotID, s.Day, s.Start, s.End)
	}
	return w.Flush()
}

type AssignmentsCmd struct{}

func (a *AssignmentsCmd) Run(ctx context.Context, globals *Globals) error {
	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	assignments, err := api.ListSubjectTeachers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subject teachers: %w", err)
	}

	out := globals.stdout()
	if len(assignments) == 0 {
		fmt.Fprintln(out, "No subject teachers found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUBJECT\tTEACHER")
	for _, st := range assignments {
		fmt.Fprintf(w, "%d\t%s\t%s\n", st.SubjectTeacherID, st.SubjectName, st.TeacherName)
	}
	return w.Flush()
}
