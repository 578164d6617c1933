package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/subhasish93/Timetable/internal/client"
	"github.com/subhasish93/Timetable/internal/models"
)

var errIncompleteEntry = errors.New("please fill all fields")

type TimetableCmd struct {
	Show   TimetableShowCmd   `cmd:"" help:"Show the timetable of one section"`
	Full   TimetableFullCmd   `cmd:"" help:"Show the timetable of every section"`
	Add    TimetableAddCmd    `cmd:"" help:"Add a timetable entry"`
	Update TimetableUpdateCmd `cmd:"" help:"Update a timetable entry"`
	Delete TimetableDeleteCmd `cmd:"" help:"Delete a timetable entry"`
}

type TimetableShowCmd struct {
	Section int64         `help:"Section id" required:""`
	Watch   bool          `help:"Refresh periodically until interrupted" default:"false"`
	Every   time.Duration `help:"Refresh interval used with --watch" default:"5s"`
}

func (t *TimetableShowCmd) Run(ctx context.Context, globals *Globals) error {
	if err := requireID("section", t.Section); err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	out := globals.stdout()
	show := func() error {
		rows, err := api.GetSectionTimetable(ctx, t.Section)
		if err != nil {
			return fmt.Errorf("failed to load timetable: %w", err)
		}
		return printTimetable(out, rows, false)
	}

	if t.Watch {
		return watch(ctx, out, t.Every, show)
	}

	return show()
}

type TimetableFullCmd struct{}

func (t *TimetableFullCmd) Run(ctx context.Context, globals *Globals) error {
	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	rows, err := api.GetFullTimetable(ctx)
	if err != nil {
		return fmt.Errorf("failed to load timetable: %w", err)
	}

	return printTimetable(globals.stdout(), rows, true)
}

// EntryFlags is the timetable entry form shared by add and update.
type EntryFlags struct {
	Section        int64  `help:"Section id"`
	SubjectTeacher int64  `help:"Subject teacher id"`
	Slot           int64  `help:"Time slot id"`
	Room           string `help:"Room number"`
}

func (e EntryFlags) entry() (models.TimetableEntry, error) {
	room := strings.TrimSpace(e.Room)
	if e.Section <= 0 || e.SubjectTeacher <= 0 || e.Slot <= 0 || room == "" {
		return models.TimetableEntry{}, errIncompleteEntry
	}
	return models.TimetableEntry{
		SectionID:        e.Section,
		SubjectTeacherID: e.SubjectTeacher,
		SlotID:           e.Slot,
		RoomNo:           room,
	}, nil
}

type TimetableAddCmd struct {
	Entry EntryFlags `embed:""`
}

func (t *TimetableAddCmd) Run(ctx context.Context, globals *Globals) error {
	entry, err := t.Entry.entry()
	if err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	if err := api.CreateTimetableEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to add timetable entry: %w", err)
	}

	fmt.Fprintln(globals.stdout(), "Timetable entry added")
	return nil
}

type TimetableUpdateCmd struct {
	ID    int64      `arg:"" help:"Timetable entry id"`
	Entry EntryFlags `embed:""`
}

func (t *TimetableUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	if err := requireID("id", t.ID); err != nil {
		return err
	}
	entry, err := t.Entry.entry()
	if err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	if err := api.UpdateTimetableEntry(ctx, t.ID, entry); err != nil {
		return fmt.Errorf("failed to update timetable entry %d: %w", t.ID, err)
	}

	fmt.Fprintf(globals.stdout(), "Timetable entry %d updated\n", t.ID)
	return nil
}

type TimetableDeleteCmd struct {
	ID int64 `arg:"" help:"Timetable entry id"`
}

func (t *TimetableDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	if err := requireID("id", t.ID); err != nil {
		return err
	}

	api, err := globals.NewClient(ctx)
	if err != nil {
		return err
	}

	if err := api.DeleteTimetableEntry(ctx, t.ID); err != nil {
		if client.StatusCode(err) == http.StatusNotFound {
			return fmt.Errorf("timetable entry %d does not exist: %w", t.ID, err)
		}
		return fmt.Errorf("failed to delete timetable entry %d: %w", t.ID, err)
	}

	fmt.Fprintf(globals.stdout(), "Timetable entry %d deleted\n", t.ID)
	return nil
}

func printTimetable(out io.Writer, rows []models.TimetableRow, withSection bool) error {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No timetable entries found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if withSection {
		fmt.Fprintln(w, "ID\tSECTION\tDAY\tTIME\tSUBJECT\tTEACHER\tROOM")
	} else {
		fmt.Fprintln(w, "ID\tDAY\tTIME\tSUBJECT\tTEACHER\tROOM")
	}

	for _, r := range rows {
		span := models.ShortTime(r.StartTime) + "-" + models.ShortTime(r.EndTime)
		if withSection {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", r.TimetableID, r.Section, r.Day, span, r.Subject, r.Teacher, r.RoomNo)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", r.TimetableID, r.Day, span, r.Subject, r.Teacher, r.RoomNo)
	}

	return w.Flush()
}

func watch(ctx context.Context, out io.Writer, every time.Duration, show func() error) error {
	fmt.Fprintln(out, "Watching timetable (press Ctrl+C to stop)...")
	fmt.Fprintln(out)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	if err := show(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprint(out, "\033[2J\033[H") // Clear screen and move cursor to top
			fmt.Fprintf(out, "Timetable (updated at %s)\n\n", time.Now().Format("15:04:05"))

			if err := show(); err != nil {
				fmt.Fprintf(out, "Error updating timetable: %v\n", err)
			}
		}
	}
}
