package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/timesheet-grid/internal/config"
	"github.com/Tiliavir/timesheet-grid/internal/devserver"
	"github.com/Tiliavir/timesheet-grid/internal/storage"
)

var (
	serveAddr  string
	serveData  string
	serveToken string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local timesheet backend for testing",
	Long: `serve starts a small HTTP server that implements the backend's
timesheet endpoints (GET /api/fetch-times/:id, PUT /api/times/:id) over a
directory of JSON files. Point server.base_url at it to try tsg without the
real service.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveData, "data", "", "Data directory (default ~/.tsg/server)")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "Require this bearer token")
}

func runServe(cmd *cobra.Command, args []string) error {
	env := loadEnv()
	defer env.log.Sync()

	dir := serveData
	if dir == "" {
		base, err := config.BaseDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		dir = filepath.Join(base, "server")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := devserver.New(storage.NewStore(dir), devserver.Options{
		Token:  serveToken,
		Logger: env.log.Named("devserver"),
	})
	httpSrv := &http.Server{
		Addr:              serveAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving timesheets from %s on %s\n", dir, serveAddr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			env.log.Warn("shutdown", zap.Error(err))
		}
	}
	return nil
}
