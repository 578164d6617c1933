package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/subhasish93/Timetable/internal/provision"
	"gopkg.in/yaml.v3"
)

type ProvisionCmd struct {
	Organization       string `help:"Organization name, e.g. \"XYZ University\""`
	Department         string `help:"Department name"`
	CourseName         string `help:"Course name"`
	CourseCode         string `help:"Course code, upper-cased before submission"`
	Teacher            string `help:"Teacher name"`
	Subject            string `help:"Subject name"`
	Semester           string `help:"Semester (1-8)" default:"1"`
	DurationYears      int    `help:"Course duration in years" default:"4"`
	From               string `help:"YAML/JSON file holding the form; its values take precedence over flags" type:"existingfile"`
	ConcurrentSections bool   `help:"Create sections A and B in parallel"`
}

func (p *ProvisionCmd) Run(ctx context.Context, globals *Globals) error {
	form := provision.Form{
		Organization:  p.Organization,
		Department:    p.Department,
		CourseName:    p.CourseName,
		CourseCode:    p.CourseCode,
		Teacher:       p.Teacher,
		Subject:       p.Subject,
		Semester:      p.Semester,
		DurationYears: p.DurationYears,
	}

	if p.From != "" {
		if err := loadFormFile(p.From, &form); err != nil {
			return fmt.Errorf("failed to load form file: %w", err)
		}
	}

	c, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	out := globals.stdout()
	wf := provision.New(c,
		provision.WithConcurrentSections(p.ConcurrentSections),
		provision.WithProgress(progressPrinter(out)),
	)

	fmt.Fprintf(out, "Provisioning against %s\n", c.BaseURL())

	state, err := wf.Submit(ctx, form)
	if err != nil {
		var stepErr *provision.StepError
		if errors.As(err, &stepErr) {
			if len(state.IDs) > 0 {
				fmt.Fprintln(out, "\nAlready created (not rolled back, a retry creates them again):")
				printIDs(out, state.IDs)
			}
			return fmt.Errorf("step %d (%s) failed: %w", stepErr.Step, stepErr.Name, err)
		}
		return err
	}

	fmt.Fprintf(out, "\n%s\n\n", state.Message)
	printIDs(out, state.IDs)

	return nil
}

// loadFormFile reads a YAML or JSON form. Non-empty file values override
// what was given on the command line.
func loadFormFile(path string, form *provision.Form) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read form file: %w", err)
	}

	var file provision.Form

	// Determine file format by extension
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse JSON form: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse YAML form: %w", err)
		}
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&form.Organization, file.Organization)
	override(&form.Department, file.Department)
	override(&form.CourseName, file.CourseName)
	override(&form.CourseCode, file.CourseCode)
	override(&form.Teacher, file.Teacher)
	override(&form.Subject, file.Subject)
	override(&form.Semester, file.Semester)
	if file.DurationYears != 0 {
		form.DurationYears = file.DurationYears
	}

	return nil
}

func progressPrinter(out io.Writer) provision.Progress {
	return func(ev provision.StepEvent) {
		if !ev.Done {
			return
		}
		if ev.Err != nil {
			fmt.Fprintf(out, "  ✗ [%d/%d] %-16s %v\n", ev.Step, ev.Total, ev.Name, ev.Err)
			return
		}
		fmt.Fprintf(out, "  ✓ [%d/%d] %s\n", ev.Step, ev.Total, ev.Name)
	}
}

var idOrder = []struct {
	label string
	key   provision.IDKey
}{
	{"Organisation", provision.OrganisationID},
	{"Department", provision.DepartmentID},
	{"Course", provision.CourseID},
	{"Section A", provision.SectionID("A")},
	{"Section B", provision.SectionID("B")},
	{"Teacher", provision.TeacherID},
	{"Subject", provision.SubjectID},
	{"Subject-teacher", provision.SubjectTeacherID},
}

func printIDs(out io.Writer, ids provision.IDs) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tID")
	for _, row := range idOrder {
		if id, ok := ids[row.key]; ok {
			fmt.Fprintf(w, "%s\t%d\n", row.label, id)
		}
	}
	w.Flush()
}
