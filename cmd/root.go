package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/timesheet-grid/internal/api"
	"github.com/Tiliavir/timesheet-grid/internal/config"
	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/logger"
	"github.com/Tiliavir/timesheet-grid/internal/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tsg",
	Short: "Timesheet grid – view and edit weekly timesheets from the command line",
	Long: `tsg shows a subject's weekly timesheet as a project × day grid with daily
totals and overtime, and lets you bulk-edit hours and the comment before
saving them back to the project-management backend.

Configuration lives in ~/.tsg/config.json; TSG_BASE_URL and TSG_TOKEN
override it.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.tsg/config.json)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

// env is what every command needs: configuration, a logger and the
// timezone for "today" and date flags.
type env struct {
	cfg config.Config
	log *zap.Logger
	loc *time.Location
}

// loadEnv reads configuration and builds the logger. Errors exit with
// status 2, like every other runtime failure.
func loadEnv() env {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	loc, _ := cfg.Location()
	return env{cfg: cfg, log: log, loc: loc}
}

// client builds the API client for the configured backend.
func (e env) client(ctx context.Context) *api.Client {
	return api.NewClient(ctx, e.cfg.Server.BaseURL, api.Options{
		Token:   e.cfg.Server.Token,
		Timeout: e.cfg.Timeout(),
		Logger:  e.log.Named("api"),
	})
}

// engine builds a grid engine for subjectID that reports notices to out.
func (e env) engine(backend grid.Backend, subjectID string, out io.Writer) *grid.Engine {
	return grid.New(backend, grid.Options{
		WorkSchedule: e.cfg.WorkSchedule(subjectID),
		WeekStart:    e.cfg.WeekStart(),
		Location:     e.loc,
		Notifier:     printNotifier(out),
		Logger:       e.log.Named("grid"),
	})
}

// drafts returns the store of timesheets whose save failed.
func drafts() *storage.Store {
	base, err := config.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return storage.NewStore(filepath.Join(base, "drafts"))
}

// printNotifier writes success notices to out and failures to stderr.
func printNotifier(out io.Writer) grid.Notifier {
	return grid.NotifierFunc(func(n grid.Notice) {
		if n.Level == grid.Failure {
			fmt.Fprintln(os.Stderr, n.Message)
			return
		}
		fmt.Fprintln(out, n.Message)
	})
}
