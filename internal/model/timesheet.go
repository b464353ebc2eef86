package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the date-only wire layout.
const DateLayout = "2006-01-02"

// Day is a calendar date as it travels on the wire. The backend sends either
// a bare date ("2024-06-03") or a full ISO timestamp
// ("2024-06-03T00:00:00.000Z"); the calendar day is the one written in the
// string, in its own offset.
type Day struct {
	time.Time
	layout string
}

// NewDay returns the Day for t's calendar date.
func NewDay(t time.Time) Day {
	return Day{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), layout: DateLayout}
}

// ParseDay parses a wire date string.
func ParseDay(s string) (Day, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Day{Time: t, layout: DateLayout}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return Day{Time: t, layout: layout}, nil
		}
	}
	return Day{}, fmt.Errorf("invalid date %q", s)
}

// UnmarshalJSON accepts a quoted date-only or RFC 3339 string.
func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the date back in the layout it was read with.
func (d Day) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	layout := d.layout
	if layout == "" {
		layout = DateLayout
	}
	return json.Marshal(d.Format(layout))
}

// String returns the calendar date as YYYY-MM-DD.
func (d Day) String() string {
	return d.Format(DateLayout)
}

// ProjectHours is the hours logged against one project on one day.
type ProjectHours struct {
	ProjectCode string  `json:"projectCode"`
	Hours       float64 `json:"hours"`
}

// TimeEntry is one calendar day of a timesheet.
type TimeEntry struct {
	Date     Day            `json:"date"`
	Projects []ProjectHours `json:"projects"`
}

// ProjectRef is a project code seen somewhere in a loaded timesheet.
type ProjectRef struct {
	ProjectCode string `json:"projectCode"`
}

// Document is the persisted timesheet of one subject.
type Document struct {
	Time    []TimeEntry `json:"time"`
	Comment string      `json:"comment"`
}

// Clone returns a deep copy of doc.
func (doc Document) Clone() Document {
	return Document{Time: CloneEntries(doc.Time), Comment: doc.Comment}
}

// CloneEntries deep-copies entries so callers can mutate the result freely.
func CloneEntries(entries []TimeEntry) []TimeEntry {
	if entries == nil {
		return nil
	}
	out := make([]TimeEntry, len(entries))
	for i, e := range entries {
		out[i] = TimeEntry{Date: e.Date, Projects: append([]ProjectHours(nil), e.Projects...)}
	}
	return out
}

// FetchResponse is the body of GET /api/fetch-times/{subjectId}.
type FetchResponse struct {
	TimeData Document `json:"timeData"`
}

// UpdateRequest is the body of PUT /api/times/{subjectId}.
type UpdateRequest struct {
	TimeData []TimeEntry `json:"timeData"`
	Comment  string      `json:"comment"`
}

// MessageResponse is the {message} body the backend uses for both
// confirmations and errors.
type MessageResponse struct {
	Message string `json:"message"`
}
