package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/storage"
)

var saveDiscard bool

var saveCmd = &cobra.Command{
	Use:   "save <subject>",
	Short: "Retry saving a draft left by a failed edit",
	Args:  cobra.ExactArgs(1),
	RunE:  runSave,
}

func init() {
	saveCmd.Flags().BoolVar(&saveDiscard, "discard", false, "Delete the draft instead of saving it")
}

func runSave(cmd *cobra.Command, args []string) error {
	subject := args[0]
	store := drafts()

	if saveDiscard {
		if err := store.Delete(subject); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Discarded draft for %q\n", subject)
		return nil
	}

	env := loadEnv()
	defer env.log.Sync()

	ctx := context.Background()
	engine := env.engine(env.client(ctx), subject, cmd.OutOrStdout())
	err := retryDraft(ctx, engine, subject, store)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Fprintf(os.Stderr, "No draft for %q.\n", subject)
		os.Exit(1)
	case err != nil:
		var se *grid.SaveError
		if !errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}
	return nil
}

// retryDraft resumes subject's draft in edit mode and saves it. The draft is
// removed only once the backend accepted it.
func retryDraft(ctx context.Context, engine *grid.Engine, subject string, store *storage.Store) error {
	rec, err := store.Load(subject)
	if err != nil {
		return err
	}
	engine.Restore(subject, rec.Document)
	if err := engine.Save(ctx); err != nil {
		return err
	}
	return store.Delete(subject)
}
