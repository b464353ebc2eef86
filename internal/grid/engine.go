// Package grid holds the weekly timesheet grid: it anchors a seven-day
// window, pivots a subject's per-day entries into a project × day matrix,
// derives totals and overtime, and drives the view/edit/save cycle against
// the timesheet API.
package grid

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/timesheet-grid/internal/model"
	"github.com/Tiliavir/timesheet-grid/internal/timecalc"
)

// DefaultWorkSchedule is the daily hours after which overtime accrues.
const DefaultWorkSchedule = 8.0

// Mode is the grid's interaction state.
type Mode int

const (
	// View shows the stored timesheet read-only.
	View Mode = iota
	// Edit accepts cell and comment edits until Save succeeds.
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "view"
}

// Direction selects the target of ShiftWeek.
type Direction int

const (
	Previous Direction = iota
	Next
	Today
)

// Fetcher loads a subject's full timesheet.
type Fetcher interface {
	FetchTimesheet(ctx context.Context, subjectID string) (model.Document, error)
}

// Updater replaces a subject's timesheet and returns the backend's
// confirmation message.
type Updater interface {
	UpdateTimesheet(ctx context.Context, subjectID string, doc model.Document) (string, error)
}

// Backend is the timesheet API as seen by the grid.
type Backend interface {
	Fetcher
	Updater
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	WorkSchedule float64
	WeekStart    time.Weekday
	Location     *time.Location
	Now          func() time.Time
	Notifier     Notifier
	Logger       *zap.Logger
}

// Engine is the timesheet grid for one subject at a time. It is safe for
// concurrent use; the lock is never held across a network call.
type Engine struct {
	backend      Backend
	workSchedule float64
	weekStart    time.Weekday
	loc          *time.Location
	now          func() time.Time
	notifier     Notifier
	log          *zap.Logger

	mu       sync.Mutex
	subject  string
	pivot    time.Time
	entries  []model.TimeEntry
	comment  string
	fetched  model.Document
	projects []model.ProjectRef
	mode     Mode
	lastErr  error
	fetchSeq uint64
	saving   bool
}

// New creates an Engine whose week is anchored at the current date.
func New(backend Backend, opts Options) *Engine {
	e := &Engine{
		backend:      backend,
		workSchedule: opts.WorkSchedule,
		weekStart:    opts.WeekStart,
		loc:          opts.Location,
		now:          opts.Now,
		notifier:     opts.Notifier,
		log:          opts.Logger,
	}
	if e.workSchedule <= 0 {
		e.workSchedule = DefaultWorkSchedule
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.notifier == nil {
		e.notifier = discardNotifier{}
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	e.pivot = timecalc.StartOfWeek(e.now().In(e.loc), e.weekStart)
	return e
}

// LoadWeek fetches subjectID's timesheet and anchors the grid at the week
// containing pivot's calendar date. The pivot moves even when the fetch
// fails. A failure leaves the last fetched timesheet in view mode; unsaved
// edits are dropped.
func (e *Engine) LoadWeek(ctx context.Context, subjectID string, pivot time.Time) error {
	if subjectID == "" {
		return ErrNoSubject
	}
	e.mu.Lock()
	e.subject = subjectID
	// Keep the caller's calendar date; converting the instant could move it
	// to the previous or next day.
	e.pivot = time.Date(pivot.Year(), pivot.Month(), pivot.Day(), 0, 0, 0, 0, e.loc)
	e.fetchSeq++
	seq := e.fetchSeq
	e.mu.Unlock()

	e.log.Debug("fetching timesheet", zap.String("subject", subjectID), zap.Uint64("seq", seq))
	doc, err := e.backend.FetchTimesheet(ctx, subjectID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.fetchSeq {
		e.log.Debug("dropping stale timesheet response",
			zap.String("subject", subjectID), zap.Uint64("seq", seq), zap.Uint64("latest", e.fetchSeq))
		return ErrStaleResponse
	}
	if err != nil {
		fe := newFetchError(err)
		e.lastErr = fe
		if e.mode == Edit {
			// Unsaved edits never outlive a move, even a failed one.
			e.entries = model.CloneEntries(e.fetched.Time)
			e.comment = e.fetched.Comment
			e.projects = deriveProjects(e.entries)
			e.mode = View
		}
		e.log.Warn("timesheet fetch failed", zap.String("subject", subjectID), zap.Error(err))
		return fe
	}

	e.fetched = doc.Clone()
	e.entries = model.CloneEntries(doc.Time)
	e.comment = doc.Comment
	e.projects = deriveProjects(e.entries)
	e.mode = View
	e.lastErr = nil
	return nil
}

// ShiftWeek moves the window one week back, one week forward, or to the
// current week, and reloads the subject's timesheet. Unsaved edits are lost.
func (e *Engine) ShiftWeek(ctx context.Context, dir Direction) error {
	e.mu.Lock()
	subject := e.subject
	start := timecalc.StartOfWeek(e.pivot, e.weekStart)
	e.mu.Unlock()

	var pivot time.Time
	switch dir {
	case Previous:
		pivot = start.AddDate(0, 0, -timecalc.DaysPerWeek)
	case Next:
		pivot = start.AddDate(0, 0, timecalc.DaysPerWeek)
	default:
		pivot = timecalc.StartOfWeek(e.now().In(e.loc), e.weekStart)
	}
	if subject == "" {
		e.mu.Lock()
		e.pivot = pivot
		e.mu.Unlock()
		return ErrNoSubject
	}
	return e.LoadWeek(ctx, subject, pivot)
}

// SetEditMode enters edit mode. Leaving edit mode without saving discards
// the edits by reloading the timesheet.
func (e *Engine) SetEditMode(ctx context.Context, on bool) error {
	if on {
		e.mu.Lock()
		e.mode = Edit
		e.mu.Unlock()
		return nil
	}
	e.mu.Lock()
	subject, pivot, mode := e.subject, e.pivot, e.mode
	e.mu.Unlock()
	if mode == View {
		return nil
	}
	return e.LoadWeek(ctx, subject, pivot)
}

// EditCell sets the hours of every project on date's entry to hours. Editing
// a single cell rewrites the whole day column; entries on other dates are
// untouched and no entry is created for a date that has none.
func (e *Engine) EditCell(date time.Time, hours float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Edit {
		return ErrNotEditing
	}
	i := e.entryIndex(date)
	if i < 0 {
		return ErrNoEntry
	}
	projects := make([]model.ProjectHours, len(e.entries[i].Projects))
	for j, p := range e.entries[i].Projects {
		projects[j] = model.ProjectHours{ProjectCode: p.ProjectCode, Hours: hours}
	}
	e.entries[i].Projects = projects
	return nil
}

// SetComment replaces the in-memory comment.
func (e *Engine) SetComment(text string) {
	e.mu.Lock()
	e.comment = text
	e.mu.Unlock()
}

// Save sends the in-memory timesheet to the backend. On success the grid
// returns to view mode; on failure it stays in edit mode with every edit
// kept so the save can be retried.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.mode != Edit {
		e.mu.Unlock()
		return ErrNotEditing
	}
	if e.saving {
		e.mu.Unlock()
		return ErrSaveInFlight
	}
	e.saving = true
	subject := e.subject
	doc := model.Document{Time: model.CloneEntries(e.entries), Comment: e.comment}
	e.mu.Unlock()

	msg, err := e.backend.UpdateTimesheet(ctx, subject, doc)

	e.mu.Lock()
	e.saving = false
	if err != nil {
		e.mu.Unlock()
		e.log.Warn("timesheet save failed", zap.String("subject", subject), zap.Error(err))
		e.notifier.Notify(Notice{Level: Failure, Message: SaveFailedMessage})
		return &SaveError{Message: SaveFailedMessage, Err: err}
	}
	e.mode = View
	e.mu.Unlock()

	if msg == "" {
		msg = SavedMessage
	}
	e.notifier.Notify(Notice{Level: Success, Message: msg})
	return nil
}

// Subject returns the subject whose timesheet is loaded.
func (e *Engine) Subject() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subject
}

// Pivot returns the date anchoring the displayed week.
func (e *Engine) Pivot() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pivot
}

// Mode returns the current interaction state.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Err returns the error state left by the last failed load, or nil.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Comment returns the in-memory comment.
func (e *Engine) Comment() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.comment
}

// Entries returns a copy of the in-memory entries.
func (e *Engine) Entries() []model.TimeEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneEntries(e.entries)
}

// Document returns a copy of the in-memory timesheet as it would be saved.
func (e *Engine) Document() model.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.Document{Time: model.CloneEntries(e.entries), Comment: e.comment}
}

// Restore replaces the in-memory timesheet with doc and enters edit mode.
// It is used to resume a draft whose save previously failed.
func (e *Engine) Restore(subjectID string, doc model.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subject = subjectID
	e.fetched = model.Document{}
	e.entries = model.CloneEntries(doc.Time)
	e.comment = doc.Comment
	e.projects = deriveProjects(e.entries)
	e.mode = Edit
	e.lastErr = nil
}

// Projects returns the project codes seen in the loaded timesheet in
// first-seen order.
func (e *Engine) Projects() []model.ProjectRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.ProjectRef(nil), e.projects...)
}

// WorkSchedule returns the daily hours after which overtime accrues.
func (e *Engine) WorkSchedule() float64 {
	return e.workSchedule
}

// entryIndex returns the index of the first entry on date's calendar day,
// or -1. Callers hold e.mu.
func (e *Engine) entryIndex(date time.Time) int {
	for i, entry := range e.entries {
		if timecalc.SameDay(entry.Date.Time, date) {
			return i
		}
	}
	return -1
}

// deriveProjects lists every project code in entries once, in the order it
// first appears.
func deriveProjects(entries []model.TimeEntry) []model.ProjectRef {
	seen := map[string]bool{}
	projects := []model.ProjectRef{}
	for _, entry := range entries {
		for _, p := range entry.Projects {
			if seen[p.ProjectCode] {
				continue
			}
			seen[p.ProjectCode] = true
			projects = append(projects, model.ProjectRef{ProjectCode: p.ProjectCode})
		}
	}
	return projects
}

// IsStale reports whether err is the result of a superseded load.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleResponse)
}
