package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timesheet-grid/internal/config"
	"github.com/Tiliavir/timesheet-grid/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured backend and pending drafts",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	env := loadEnv()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Backend: %s\n", env.cfg.Server.BaseURL)
	if env.cfg.Server.Token == "" {
		fmt.Fprintf(out, "Token:   not set (%s)\n", config.EnvToken)
	} else {
		fmt.Fprintln(out, "Token:   set")
	}
	fmt.Fprintf(out, "Week:    starts %s, %sh work schedule\n",
		env.cfg.WeekStart(), timecalc.FormatHours(env.cfg.Grid.WorkScheduleHours))

	records, err := drafts().List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No pending drafts.")
		return nil
	}
	fmt.Fprintln(out, "Pending drafts:")
	for _, r := range records {
		fmt.Fprintf(out, "  %-20s %d days, saved %s\n",
			r.Subject, len(r.Document.Time), r.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
