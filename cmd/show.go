package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timesheet-grid/internal/report"
)

var (
	showDate   string
	showOffset int
)

var showCmd = &cobra.Command{
	Use:   "show <subject>",
	Short: "Show a subject's weekly timesheet grid",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "Any date in the week to show (YYYY-MM-DD); defaults to today")
	showCmd.Flags().IntVar(&showOffset, "offset", 0, "Weeks to move from --date, e.g. -1 for the previous week")
}

func runShow(cmd *cobra.Command, args []string) error {
	subject := args[0]
	env := loadEnv()
	defer env.log.Sync()

	pivot, err := pivotDate(showDate, showOffset, time.Now(), env.loc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	engine := env.engine(env.client(ctx), subject, cmd.OutOrStdout())
	if err := engine.LoadWeek(ctx, subject, pivot); err != nil {
		fmt.Fprintln(os.Stderr, loadFailure(err))
		os.Exit(2)
	}

	return report.Text(cmd.OutOrStdout(), engine.Snapshot())
}
