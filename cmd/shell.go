package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/report"
	"github.com/Tiliavir/timesheet-grid/internal/timecalc"
)

var shellDate string

var shellCmd = &cobra.Command{
	Use:   "shell <subject>",
	Short: "Browse and edit a subject's timesheet interactively",
	Long: `shell keeps one timesheet grid open and reads commands from stdin:

  prev | next | today     move one week back, forward, or to this week
  show                    print the grid again
  edit                    start editing
  set YYYY-MM-DD HOURS    set a day's hours for every project of that day
  comment TEXT            replace the comment
  save                    save and leave edit mode
  cancel                  drop unsaved edits
  quit                    leave the shell

Moving to another week reloads the timesheet and drops unsaved edits.`,
	Args: cobra.ExactArgs(1),
	RunE: runShellCmd,
}

func init() {
	shellCmd.Flags().StringVar(&shellDate, "date", "", "Week to open (YYYY-MM-DD); defaults to today")
}

func runShellCmd(cmd *cobra.Command, args []string) error {
	subject := args[0]
	env := loadEnv()
	defer env.log.Sync()

	pivot, err := pivotDate(shellDate, 0, time.Now(), env.loc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	out := cmd.OutOrStdout()
	engine := env.engine(env.client(ctx), subject, out)
	if err := engine.LoadWeek(ctx, subject, pivot); err != nil {
		fmt.Fprintln(out, loadFailure(err))
	} else {
		report.Text(out, engine.Snapshot())
	}
	return runShell(ctx, engine, cmd.InOrStdin(), out, env.loc)
}

// runShell reads commands from in until quit or EOF. Command errors are
// printed and the session continues.
func runShell(ctx context.Context, engine *grid.Engine, in io.Reader, out io.Writer, loc *time.Location) error {
	scanner := bufio.NewScanner(in)
	prompt := func() {
		fmt.Fprintf(out, "%s> ", engine.Mode())
	}
	prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			prompt()
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		var err error
		redraw := false
		switch strings.ToLower(verb) {
		case "quit", "exit", "q":
			if engine.Mode() == grid.Edit {
				fmt.Fprintln(out, "Unsaved edits discarded.")
			}
			return nil
		case "help", "?":
			fmt.Fprintln(out, "commands: prev, next, today, show, edit, set DATE HOURS, comment TEXT, save, cancel, quit")
		case "show", "s":
			redraw = true
		case "prev", "p":
			err = engine.ShiftWeek(ctx, grid.Previous)
			redraw = true
		case "next", "n":
			err = engine.ShiftWeek(ctx, grid.Next)
			redraw = true
		case "today", "t":
			err = engine.ShiftWeek(ctx, grid.Today)
			redraw = true
		case "edit", "e":
			err = engine.SetEditMode(ctx, true)
		case "cancel":
			err = engine.SetEditMode(ctx, false)
			redraw = true
		case "set":
			err = shellSet(engine, rest, loc)
			redraw = err == nil
		case "comment":
			if engine.Mode() != grid.Edit {
				err = grid.ErrNotEditing
				break
			}
			engine.SetComment(rest)
		case "save":
			// Success and failure are both reported by the notifier.
			if err = engine.Save(ctx); err == nil {
				redraw = true
			} else if errors.As(err, new(*grid.SaveError)) {
				err = nil
			}
		default:
			err = fmt.Errorf("unknown command %q (try help)", verb)
		}

		switch {
		case err != nil:
			fmt.Fprintln(out, loadFailure(err))
			if errors.As(err, new(*grid.FetchError)) {
				// The window moved even though the reload failed.
				start := engine.Snapshot().WeekStart
				fmt.Fprintln(out, timecalc.WeekLabel(start, start.Weekday()))
			}
		case redraw:
			report.Text(out, engine.Snapshot())
		}
		prompt()
	}
	return scanner.Err()
}

// shellSet handles "set YYYY-MM-DD HOURS".
func shellSet(engine *grid.Engine, args string, loc *time.Location) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return errors.New("usage: set YYYY-MM-DD HOURS")
	}
	edit, err := parseCellEdit(fields[0]+"="+fields[1], loc)
	if err != nil {
		return err
	}
	return engine.EditCell(edit.date, edit.hours)
}
