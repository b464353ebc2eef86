package grid

import (
	"time"

	"github.com/Tiliavir/timesheet-grid/internal/model"
	"github.com/Tiliavir/timesheet-grid/internal/timecalc"
)

// VisibleDates returns the seven dates of the displayed week.
func (e *Engine) VisibleDates() []time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return timecalc.WeekDates(e.pivot, e.weekStart)
}

// HoursFor returns the hours logged on projectCode on date's calendar day,
// or 0 when there is no such entry or project. When several entries share a
// day the first one wins.
func (e *Engine) HoursFor(projectCode string, date time.Time) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hoursFor(projectCode, date)
}

func (e *Engine) hoursFor(projectCode string, date time.Time) float64 {
	i := e.entryIndex(date)
	if i < 0 {
		return 0
	}
	for _, p := range e.entries[i].Projects {
		if p.ProjectCode == projectCode {
			return p.Hours
		}
	}
	return 0
}

// TotalForDate sums HoursFor over every known project.
func (e *Engine) TotalForDate(date time.Time) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalForDate(date)
}

func (e *Engine) totalForDate(date time.Time) float64 {
	var total float64
	for _, p := range e.projects {
		total += e.hoursFor(p.ProjectCode, date)
	}
	return total
}

// Overtime returns the hours of total exceeding the work schedule.
func (e *Engine) Overtime(total float64) float64 {
	return overtime(total, e.workSchedule)
}

func overtime(total, schedule float64) float64 {
	if total > schedule {
		return total - schedule
	}
	return 0
}

// ProjectWeekTotal sums a project's hours across the displayed week.
func (e *Engine) ProjectWeekTotal(projectCode string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total float64
	for _, d := range timecalc.WeekDates(e.pivot, e.weekStart) {
		total += e.hoursFor(projectCode, d)
	}
	return total
}

// WeekTotal sums every day's total across the displayed week.
func (e *Engine) WeekTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total float64
	for _, d := range timecalc.WeekDates(e.pivot, e.weekStart) {
		total += e.totalForDate(d)
	}
	return total
}

// WorkScheduleTotal is the scheduled hours of a full week.
func (e *Engine) WorkScheduleTotal() float64 {
	return e.workSchedule * timecalc.DaysPerWeek
}

// WeekOvertime sums the daily overtime across the displayed week.
func (e *Engine) WeekOvertime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total float64
	for _, d := range timecalc.WeekDates(e.pivot, e.weekStart) {
		total += overtime(e.totalForDate(d), e.workSchedule)
	}
	return total
}

// IsToday reports whether date is the current calendar day.
func (e *Engine) IsToday(date time.Time) bool {
	return timecalc.SameDay(date, e.now().In(e.loc))
}

// Row is one project line of a Snapshot.
type Row struct {
	ProjectCode string
	Hours       []float64
	Total       float64
}

// Snapshot is an immutable view of the displayed week.
type Snapshot struct {
	Subject      string
	Mode         Mode
	WeekStart    time.Time
	Dates        []time.Time
	Today        []bool
	Rows         []Row
	DayTotals    []float64
	WorkSchedule float64
	DayOvertime  []float64
	WeekTotal    float64
	ScheduleSum  float64
	OvertimeSum  float64
	Comment      string
	Entries      []model.TimeEntry
	Err          error
}

// Snapshot computes every derived value of the displayed week at once,
// under a single lock, so renderers see a consistent grid.
func (e *Engine) Snapshot() Snapshot {
	now := e.now().In(e.loc)

	e.mu.Lock()
	defer e.mu.Unlock()

	dates := timecalc.WeekDates(e.pivot, e.weekStart)
	s := Snapshot{
		Subject:      e.subject,
		Mode:         e.mode,
		WeekStart:    dates[0],
		Dates:        dates,
		Today:        make([]bool, len(dates)),
		DayTotals:    make([]float64, len(dates)),
		DayOvertime:  make([]float64, len(dates)),
		WorkSchedule: e.workSchedule,
		ScheduleSum:  e.workSchedule * float64(len(dates)),
		Comment:      e.comment,
		Entries:      model.CloneEntries(e.entries),
		Err:          e.lastErr,
	}
	for _, p := range e.projects {
		row := Row{ProjectCode: p.ProjectCode, Hours: make([]float64, len(dates))}
		for i, d := range dates {
			row.Hours[i] = e.hoursFor(p.ProjectCode, d)
			row.Total += row.Hours[i]
		}
		s.Rows = append(s.Rows, row)
	}
	for i, d := range dates {
		s.Today[i] = timecalc.SameDay(d, now)
		s.DayTotals[i] = e.totalForDate(d)
		s.DayOvertime[i] = overtime(s.DayTotals[i], e.workSchedule)
		s.WeekTotal += s.DayTotals[i]
		s.OvertimeSum += s.DayOvertime[i]
	}
	return s
}
