package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
)

func runScript(t *testing.T, b *fakeBackend, script string) string {
	t.Helper()
	var out bytes.Buffer
	engine := newTestEngine(b, func(n grid.Notice) { out.WriteString(n.Message + "\n") })
	if err := engine.LoadWeek(context.Background(), "emp-1", day(2024, 6, 5)); err != nil {
		t.Fatal(err)
	}
	if err := runShell(context.Background(), engine, strings.NewReader(script), &out, time.UTC); err != nil {
		t.Fatalf("runShell: %v", err)
	}
	return out.String()
}

func TestShellEditAndSave(t *testing.T) {
	b := &fakeBackend{doc: sampleDoc()}
	out := runScript(t, b, "edit\nset 2024-06-03 5\ncomment all good\nsave\nquit\n")

	if len(b.saved) != 1 {
		t.Fatalf("saved %d documents, want 1\n%s", len(b.saved), out)
	}
	got := b.saved[0]
	if got.Time[0].Projects[0].Hours != 5 || got.Time[0].Projects[1].Hours != 5 {
		t.Errorf("Monday = %+v, want every project at 5", got.Time[0].Projects)
	}
	if got.Comment != "all good" {
		t.Errorf("comment = %q", got.Comment)
	}
	if !strings.Contains(out, grid.SavedMessage) {
		t.Errorf("output missing %q:\n%s", grid.SavedMessage, out)
	}
	if !strings.Contains(out, "edit> ") {
		t.Errorf("prompt should show edit mode:\n%s", out)
	}
}

func TestShellSaveFailureStaysInEdit(t *testing.T) {
	b := &fakeBackend{doc: sampleDoc(), updateErr: errBackendDown}
	out := runScript(t, b, "edit\nset 2024-06-04 1\nsave\nquit\n")

	if !strings.Contains(out, grid.SaveFailedMessage) {
		t.Errorf("output missing %q:\n%s", grid.SaveFailedMessage, out)
	}
	if !strings.HasSuffix(out, "edit> Unsaved edits discarded.\n") {
		t.Errorf("shell should still be editing when quitting:\n%s", out)
	}
}

func TestShellRejectsEditsInViewMode(t *testing.T) {
	b := &fakeBackend{doc: sampleDoc()}
	out := runScript(t, b, "set 2024-06-03 5\ncomment x\nsave\n")

	if n := strings.Count(out, "Error: "+grid.ErrNotEditing.Error()); n != 3 {
		t.Errorf("got %d not-editing errors, want 3:\n%s", n, out)
	}
	if len(b.saved) != 0 {
		t.Error("nothing should be saved in view mode")
	}
}

func TestShellNavigationReloads(t *testing.T) {
	b := &fakeBackend{doc: sampleDoc()}
	out := runScript(t, b, "next\nprev\ntoday\n")

	if b.fetches != 4 {
		t.Errorf("fetches = %d, want 4 (initial load and one per move)", b.fetches)
	}
	for _, want := range []string{"Week of 09 Jun 2024", "Week of 02 Jun 2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShellCancelDiscardsEdits(t *testing.T) {
	b := &fakeBackend{doc: sampleDoc()}
	out := runScript(t, b, "edit\nset 2024-06-03 9\ncancel\nsave\n")

	if len(b.saved) != 0 {
		t.Errorf("cancelled edits were saved: %+v", b.saved)
	}
	if b.fetches != 2 {
		t.Errorf("fetches = %d, want 2 (cancel reloads)", b.fetches)
	}
	if !strings.Contains(out, "Error: "+grid.ErrNotEditing.Error()) {
		t.Errorf("save after cancel should be rejected:\n%s", out)
	}
}

func TestShellBadInput(t *testing.T) {
	b := &fakeBackend{doc: sampleDoc()}
	out := runScript(t, b, "bogus\nedit\nset 2024-06-03\nset 2024-06-07 4\n")

	for _, want := range []string{
		`unknown command "bogus"`,
		"usage: set YYYY-MM-DD HOURS",
		"Error: " + grid.ErrNoEntry.Error(),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShellFailedMoveShowsNewWeek(t *testing.T) {
	b := &fakeBackend{doc: sampleDoc()}
	var out bytes.Buffer
	engine := newTestEngine(b, nil)
	if err := engine.LoadWeek(context.Background(), "emp-1", day(2024, 6, 5)); err != nil {
		t.Fatal(err)
	}
	b.fetchErr = errBackendDown
	if err := runShell(context.Background(), engine, strings.NewReader("edit\nnext\n"), &out, time.UTC); err != nil {
		t.Fatalf("runShell: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Error: " + grid.FetchFailedMessage, "Week of 09 Jun 2024\nview> "} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
