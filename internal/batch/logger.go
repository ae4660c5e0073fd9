// =============================================================================
// Rebate CSV Formatter - Batch Logging Helpers
// =============================================================================

package batch

import "log"

// logPrintf writes one leveled line through the standard logger, which the
// CLI and server configure to tee into the log file.
func logPrintf(level, msg string, args ...interface{}) {
	log.Printf("["+level+"] "+msg, args...)
}

// NewDefaultLogger returns the standard leveled logger with Debug
// suppressed.
func NewDefaultLogger() Logger {
	return &defaultLogger{}
}

// VerboseLogger is the default logger with Debug enabled; the --verbose
// flag swaps it in.
type VerboseLogger struct {
	defaultLogger
}

// Debug logs pipeline-stage detail normally suppressed.
func (l *VerboseLogger) Debug(msg string, args ...interface{}) {
	logPrintf("DEBUG", msg, args...)
}
