// =============================================================================
// Rebate CSV Formatter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (formatter)
//   ├── processCmd (formatter process)
//   ├── serveCmd   (formatter serve)
//   └── versionCmd (formatter version)
//
// The root command owns the global flags (--config, --verbose) and the
// logging setup shared by the subcommands.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/batch"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/config"
)

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "formatter",
	Short: "Rebate CSV Formatter - restructure supplier-billing CSVs into Header/Lumpsum rows",
	Long: `Rebate CSV Formatter ingests supplier-billing CSV files and restructures
each row set into the two-row-type layout (Header and Lumpsum) consumed by
the downstream accounting import.

For every distinct Rebate Name one Header row is synthesized (lumpsum
columns blanked); every original row is retagged as a Lumpsum row with its
date columns normalized to MM/DD/YYYY. Output rows are sorted by Rebate
Name with the Header leading its Lumpsum rows.

Example Usage:
  formatter process invoices.csv          # Process one file
  formatter process --input-dir ./in      # Process every CSV in a directory
  formatter serve                         # Start the upload API and web page`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// setupLogging points the standard logger at the log file under LogDir,
// teed to stderr, and returns the leveled logger the orchestrator uses.
// Verbose mode (the flag or log_level: debug) enables Debug lines.
func setupLogging(cfg *config.Config) batch.Logger {
	logPath := filepath.Join(cfg.LogDir, "app.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[WARN] cannot open log file %s: %v; logging to stderr only", logPath, err)
	} else {
		log.SetOutput(io.MultiWriter(os.Stderr, file))
	}
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("rebate-formatter ")

	if verbose || cfg.LogLevel == "debug" {
		return &batch.VerboseLogger{}
	}
	return batch.NewDefaultLogger()
}
