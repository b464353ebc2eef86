package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timesheet-grid/internal/report"
)

var (
	exportFormat string
	exportDate   string
	exportOffset int
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <subject>",
	Short: "Export a week of a subject's timesheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: "+strings.Join(report.Formats, ", "))
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Any date in the week to export (YYYY-MM-DD); defaults to today")
	exportCmd.Flags().IntVar(&exportOffset, "offset", 0, "Weeks to move from --date")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout; required for xlsx)")
}

func runExport(cmd *cobra.Command, args []string) error {
	subject := args[0]
	if !validFormat(exportFormat) {
		fmt.Fprintf(os.Stderr, "unknown --format %q (want one of %s)\n", exportFormat, strings.Join(report.Formats, ", "))
		os.Exit(1)
	}
	if exportFormat == "xlsx" && exportOut == "" {
		fmt.Fprintln(os.Stderr, "--out is required for xlsx exports")
		os.Exit(1)
	}

	env := loadEnv()
	defer env.log.Sync()

	pivot, err := pivotDate(exportDate, exportOffset, time.Now(), env.loc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	engine := env.engine(env.client(ctx), subject, cmd.ErrOrStderr())
	if err := engine.LoadWeek(ctx, subject, pivot); err != nil {
		fmt.Fprintln(os.Stderr, loadFailure(err))
		os.Exit(2)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		defer f.Close()
		w = f
	}

	if err := report.Write(w, engine.Snapshot(), exportFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if exportOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportOut)
	}
	return nil
}

func validFormat(format string) bool {
	for _, f := range report.Formats {
		if f == format {
			return true
		}
	}
	return false
}
