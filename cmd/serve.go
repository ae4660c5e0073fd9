// =============================================================================
// Rebate CSV Formatter - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which starts the HTTP upload API
// and the embedded browser page.
//
// COMMAND USAGE:
//   formatter serve [flags]
//
// FLAGS:
//   --addr : Listen address (overrides listen_addr from the config file)
//
// Serve mode also starts the cron-scheduled retention sweep that removes
// stored uploads and outputs past their configured age. SIGINT/SIGTERM
// shut the server down gracefully; batches already running complete at the
// next file boundary.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/batch"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/config"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/server"
	"github.com/ginjaninja78/rebate-csv-formatter/pkg/utils"
)

// listenAddr overrides the configured listen address.
var listenAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP upload API and web page",
	Long: `The serve command starts the HTTP server exposing the processing API:

  POST /api/process             multipart upload, field "files"
  GET  /api/download/{filename} fetch a processed output file
  GET  /api/healthz             liveness probe
  GET  /                        browser page

Uploads are stored under upload_dir, outputs under output_dir, and both are
swept on the configured retention schedule.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&listenAddr,
		"addr",
		"",
		"Listen address (overrides listen_addr from the config file)",
	)
}

// runServe starts the server and blocks until shutdown.
func runServe() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	logger := setupLogging(cfg)

	fileManager := utils.NewFileManager(cfg.UploadDir, cfg.OutputDir)
	if err := fileManager.EnsureDirectories(); err != nil {
		return err
	}

	orch := batch.New(fileManager, batch.Options{
		LenientDates:     cfg.LenientDates,
		MaxConcurrency:   cfg.MaxConcurrency,
		DownloadBasePath: server.DownloadBasePath,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.New(cfg, fileManager, orch, logger).Handler(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	// Retention sweep for stored uploads and outputs.
	scheduler := cron.New()
	if cfg.RetentionDays > 0 {
		maxAge := time.Duration(cfg.RetentionDays) * 24 * time.Hour
		_, err := scheduler.AddFunc(cfg.RetentionSchedule, func() {
			removed, err := fileManager.CleanOldFiles(maxAge)
			if err != nil {
				logger.Error("retention sweep failed: %v", err)
				return
			}
			logger.Info("retention sweep removed %d file(s)", removed)
		})
		if err != nil {
			return fmt.Errorf("invalid retention_schedule %q: %w", cfg.RetentionSchedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}
