// =============================================================================
// Rebate CSV Formatter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Rebate CSV Formatter. It initializes
// the Cobra CLI framework and delegates command execution to the cmd
// package.
//
// USAGE:
//   formatter process   - Process CSV files from the command line
//   formatter serve     - Start the HTTP upload API and web page
//   formatter version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core business logic (not for external import)
//   - pkg/       : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/rebate-csv-formatter/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
