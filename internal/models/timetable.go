package models

import "encoding/json"

// TimeSlot is a row of GET /time-slots.
type TimeSlot struct {
	SlotID int64  `json:"slot_id"`
	Day    string `json:"day"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// TimetableEntry is the payload for POST /timetable and PUT /timetable/{id}.
type TimetableEntry struct {
	SectionID        int64  `json:"section_id"`
	SubjectTeacherID int64  `json:"subject_teacher_id"`
	SlotID           int64  `json:"slot_id"`
	RoomNo           string `json:"room_no"`
}

// TimetableRow is a scheduled occurrence as returned by the section and full
// timetable views.
type TimetableRow struct {
	TimetableID      int64  `json:"timetable_id"`
	Day              string `json:"day"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Section          string `json:"section"`
	Subject          string `json:"subject"`
	Teacher          string `json:"teacher"`
	RoomNo           string `json:"room_no"`
	SlotID           int64  `json:"slot_id"`
	SubjectTeacherID int64  `json:"subject_teacher_id"`
}

// UnmarshalJSON accepts both "day" (section view) and "day_of_week" (full view).
func (r *TimetableRow) UnmarshalJSON(data []byte) error {
	type plain TimetableRow
	aux := struct {
		*plain
		DayOfWeek string `json:"day_of_week"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.Day == "" {
		r.Day = aux.DayOfWeek
	}
	return nil
}

// ShortTime trims a backend time such as "09:00:00" to "09:00".
func ShortTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
