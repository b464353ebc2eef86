package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DaysPerWeek is the length of the displayed week window.
const DaysPerWeek = 7

// StartOfWeek returns 00:00 of the first day of the week containing t, where
// weeks begin on first.
func StartOfWeek(t time.Time, first time.Weekday) time.Time {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	back := (int(t.Weekday()) - int(first) + DaysPerWeek) % DaysPerWeek
	return StartOfDay(t.AddDate(0, 0, -back))
}

// WeekDates returns the DaysPerWeek consecutive dates of the week containing t.
func WeekDates(t time.Time, first time.Weekday) []time.Time {
	start := StartOfWeek(t, first)
	dates := make([]time.Time, DaysPerWeek)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// WeekRange returns the first day 00:00 and last day 23:59:59 of the week
// containing t.
func WeekRange(t time.Time, first time.Weekday) (time.Time, time.Time) {
	start := StartOfWeek(t, first)
	return start, EndOfDay(start.AddDate(0, 0, DaysPerWeek-1))
}

// ParseWeekday parses an English weekday name ("sunday", "Mon", …).
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || (len(name) >= 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// WeekLabel returns a label like "Week of 02 Jun 2024".
func WeekLabel(t time.Time, first time.Weekday) string {
	return "Week of " + StartOfWeek(t, first).Format("02 Jan 2006")
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatHours formats an hour value without trailing zeros: 8, 7.5, 0.25.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// ParseDate parses a YYYY-MM-DD flag value in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
