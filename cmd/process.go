// =============================================================================
// Rebate CSV Formatter - Process Command
// =============================================================================
//
// This file defines the 'process' command, the CLI batch mode. It runs the
// full pipeline over files named on the command line (or discovered in an
// input directory) and prints a per-file and batch summary.
//
// COMMAND USAGE:
//   formatter process [files...] [flags]
//
// FLAGS:
//   --input-dir : Process every .csv file in a directory
//   --lenient   : Blank unparsable date cells instead of failing the file
//
// Each file is processed independently and concurrently; errors in one file
// do not affect the processing of others. Ctrl-C stops the batch at the
// next file boundary — files already running finish first.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/batch"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/config"
	"github.com/ginjaninja78/rebate-csv-formatter/pkg/utils"
)

// inputDir is an optional directory to scan for CSV files.
var inputDir string

// lenientDates overrides the configured date policy from the command line.
var lenientDates bool

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Process CSV files into the Header/Lumpsum layout",
	Long: `The process command runs the transformation pipeline over every named
file (or every .csv file found with --input-dir), writes the restructured
outputs to the configured output directory, and prints a summary.

Per-file failures are reported with their error kind and message; the batch
totals cover successful files only, so a bad file can be corrected and
re-run on its own.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&inputDir,
		"input-dir",
		"",
		"Process every .csv file in this directory",
	)

	processCmd.Flags().BoolVar(
		&lenientDates,
		"lenient",
		false,
		"Blank unparsable date cells instead of failing the file",
	)
}

// runProcess is the main function that orchestrates the CLI batch.
func runProcess(args []string) error {
	startTime := time.Now()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := setupLogging(cfg)

	files, err := collectInputFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No CSV files to process.")
		return nil
	}

	fileManager := utils.NewFileManager(cfg.UploadDir, cfg.OutputDir)
	if err := fileManager.EnsureDirectories(); err != nil {
		return err
	}

	orch := batch.New(fileManager, batch.Options{
		LenientDates:   cfg.LenientDates || lenientDates,
		MaxConcurrency: cfg.MaxConcurrency,
	}, logger)

	jobs := make([]batch.Job, len(files))
	for i, path := range files {
		jobs[i] = batch.Job{Name: filepath.Base(path), Path: path}
	}

	fmt.Printf("Processing %d file(s)...\n", len(jobs))

	// Ctrl-C cancels the batch at the next file boundary.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := orch.Run(ctx, jobs)

	for _, out := range report.Outcomes {
		if out.Success {
			fmt.Printf("  ✓ %s -> %s (%d rows in, %d rows out)\n",
				out.InputFile, out.OutputFile, out.InputRows, out.OutputRows)
		} else {
			fmt.Printf("  ✗ %s: [%s] %s\n", out.InputFile, out.Error.Kind, out.Error.Message)
		}
	}

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Files processed:   %d\n", report.Totals.FilesProcessed)
	fmt.Printf("Total headers:     %d\n", report.Totals.TotalHeaders)
	fmt.Printf("Total lumpsum:     %d\n", report.Totals.TotalLumpsum)
	fmt.Printf("Total output rows: %d\n", report.Totals.TotalOutputRows)
	fmt.Printf("Time elapsed:      %s\n", time.Since(startTime).Round(time.Millisecond))

	return nil
}

// collectInputFiles merges explicit arguments with an --input-dir scan.
func collectInputFiles(args []string) ([]string, error) {
	files := append([]string{}, args...)

	if inputDir != "" {
		entries, err := os.ReadDir(inputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read input directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if filepath.Ext(entry.Name()) == ".csv" {
				files = append(files, filepath.Join(inputDir, entry.Name()))
			}
		}
	}

	sort.Strings(files[len(args):])
	return files, nil
}
