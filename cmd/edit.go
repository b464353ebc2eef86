package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/report"
	"github.com/Tiliavir/timesheet-grid/internal/storage"
)

var (
	editSets    []string
	editComment string
	editDate    string
)

var editCmd = &cobra.Command{
	Use:   "edit <subject>",
	Short: "Bulk-edit hours and the comment of a subject's timesheet, then save",
	Long: `edit loads the subject's timesheet, applies every --set and --comment and
saves the whole timesheet back.

Setting a day's hours sets them for every project on that day, exactly as
the dashboard's bulk edit does. Days without an entry cannot be edited.

If the save fails the edited timesheet is kept as a draft; retry it with
'tsg save <subject>'.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringArrayVar(&editSets, "set", nil, "Set a day's hours: YYYY-MM-DD=HOURS (repeatable)")
	editCmd.Flags().StringVar(&editComment, "comment", "", "Replace the timesheet comment")
	editCmd.Flags().StringVar(&editDate, "date", "", "Week to show after saving (YYYY-MM-DD); defaults to the first --set date")
}

func runEdit(cmd *cobra.Command, args []string) error {
	subject := args[0]
	commentSet := cmd.Flags().Changed("comment")
	if len(editSets) == 0 && !commentSet {
		fmt.Fprintln(os.Stderr, "nothing to edit: pass --set and/or --comment")
		os.Exit(1)
	}

	env := loadEnv()
	defer env.log.Sync()

	edits := make([]cellEdit, 0, len(editSets))
	for _, s := range editSets {
		e, err := parseCellEdit(s, env.loc)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		edits = append(edits, e)
	}

	pivot := time.Now().In(env.loc)
	if len(edits) > 0 {
		pivot = edits[0].date
	}
	if editDate != "" {
		var err error
		if pivot, err = pivotDate(editDate, 0, time.Now(), env.loc); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	var comment *string
	if commentSet {
		comment = &editComment
	}

	ctx := context.Background()
	engine := env.engine(env.client(ctx), subject, cmd.OutOrStdout())
	err := applyEdits(ctx, engine, subject, pivot, edits, comment, drafts())
	var se *grid.SaveError
	switch {
	case errors.As(err, &se):
		fmt.Fprintf(os.Stderr, "Edits kept as a draft; retry with: tsg save %s\n", subject)
		os.Exit(2)
	case err != nil:
		fmt.Fprintln(os.Stderr, loadFailure(err))
		os.Exit(2)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	return report.Text(cmd.OutOrStdout(), engine.Snapshot())
}

// applyEdits runs one bulk edit: load, enter edit mode, set each day, replace
// the comment when given, save. A failed save leaves the edited timesheet in
// draftStore so it can be retried later; a successful one clears any older
// draft of the subject.
func applyEdits(ctx context.Context, engine *grid.Engine, subject string, pivot time.Time,
	edits []cellEdit, comment *string, draftStore *storage.Store) error {
	if err := engine.LoadWeek(ctx, subject, pivot); err != nil {
		return err
	}
	if err := engine.SetEditMode(ctx, true); err != nil {
		return err
	}
	for _, e := range edits {
		if err := engine.EditCell(e.date, e.hours); err != nil {
			return fmt.Errorf("%s: %w", e.date.Format("2006-01-02"), err)
		}
	}
	if comment != nil {
		engine.SetComment(*comment)
	}

	if err := engine.Save(ctx); err != nil {
		if draftErr := draftStore.Save(subject, engine.Document()); draftErr != nil {
			return fmt.Errorf("%w (draft not kept: %v)", err, draftErr)
		}
		return err
	}
	if err := draftStore.Delete(subject); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return nil
}
