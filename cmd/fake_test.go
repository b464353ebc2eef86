package cmd

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/model"
)

var errBackendDown = errors.New("backend down")

// fakeBackend serves one document and records what was saved.
type fakeBackend struct {
	mu        sync.Mutex
	doc       model.Document
	fetchErr  error
	updateErr error
	fetches   int
	saved     []model.Document
}

func (f *fakeBackend) FetchTimesheet(context.Context, string) (model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return model.Document{}, f.fetchErr
	}
	return f.doc.Clone(), nil
}

func (f *fakeBackend) UpdateTimesheet(_ context.Context, _ string, doc model.Document) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return "", f.updateErr
	}
	f.saved = append(f.saved, doc.Clone())
	f.doc = doc.Clone()
	return "", nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleDoc has two projects on Monday 3 June 2024 and one on Tuesday.
func sampleDoc() model.Document {
	return model.Document{
		Time: []model.TimeEntry{
			{Date: model.NewDay(day(2024, 6, 3)), Projects: []model.ProjectHours{
				{ProjectCode: "A", Hours: 2}, {ProjectCode: "B", Hours: 3},
			}},
			{Date: model.NewDay(day(2024, 6, 4)), Projects: []model.ProjectHours{
				{ProjectCode: "A", Hours: 8},
			}},
		},
		Comment: "before",
	}
}

func newTestEngine(b grid.Backend, notify func(grid.Notice)) *grid.Engine {
	if notify == nil {
		notify = func(grid.Notice) {}
	}
	return grid.New(b, grid.Options{
		Location: time.UTC,
		Now:      func() time.Time { return day(2024, 6, 5) },
		Notifier: grid.NotifierFunc(notify),
	})
}
