// =============================================================================
// Rebate CSV Formatter - Batch Orchestrator
// =============================================================================
//
// This module runs the per-file pipeline across every file of one batch and
// folds the per-file results into aggregate totals.
//
// CONCURRENCY:
//   Files fan out to independent goroutines bounded by MaxConcurrency; each
//   file's pipeline touches no shared state, so no locks are needed during
//   per-file work. Results come back over a buffered channel and are
//   aggregated only after all workers finish.
//
// FAILURE ISOLATION:
//   A failing file contributes a structured error payload instead of a
//   result and never aborts its siblings. Totals are summed over successful
//   files only.
//
// CANCELLATION:
//   The context is checked at file boundaries: once it is cancelled,
//   remaining unstarted files report a "cancelled" outcome while in-flight
//   files run to completion. The pipeline itself is never interrupted
//   mid-row.
//
// =============================================================================

package batch

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/csvparser"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/formatter"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/validation"
	"github.com/ginjaninja78/rebate-csv-formatter/pkg/utils"
)

// =============================================================================
// JOBS AND OUTCOMES
// =============================================================================

// Job is one file handle for a batch: the original name reported to the
// caller and the stored path the bytes are read from.
type Job struct {
	Name string
	Path string
}

// Outcome is the per-file record returned to the caller: either the success
// fields or a structured error, never both.
type Outcome struct {
	InputFile       string        `json:"input_file"`
	Success         bool          `json:"success"`
	OutputFile      string        `json:"output_file,omitempty"`
	DownloadURL     string        `json:"download_url,omitempty"`
	SizeBytes       int64         `json:"size_bytes,omitempty"`
	InputRows       int           `json:"input_rows"`
	DistinctRebates int           `json:"distinct_rebates"`
	HeaderCount     int           `json:"header_count"`
	LumpsumCount    int           `json:"lumpsum_count"`
	OutputRows      int           `json:"output_rows"`
	ElapsedMS       float64       `json:"elapsed_ms"`
	Error           *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload is the structured per-file failure record.
type ErrorPayload struct {
	// Kind is the stable error kind: "missing_columns", "invalid_date",
	// "malformed_csv", "cancelled" or "processing_error".
	Kind    string `json:"kind"`
	Message string `json:"message"`

	// MissingColumns is set for "missing_columns".
	MissingColumns []string `json:"missing_columns,omitempty"`

	// Row and Column are set for "invalid_date". Row is the 1-based data
	// row number.
	Row    int    `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
}

// Totals aggregates the successful outcomes of one batch. Recomputed per
// batch, never persisted across batches.
type Totals struct {
	FilesProcessed  int `json:"files_processed"`
	TotalHeaders    int `json:"total_headers"`
	TotalLumpsum    int `json:"total_lumpsum"`
	TotalOutputRows int `json:"total_output_rows"`
}

// Report is the full batch response: one outcome per input file, in input
// order, plus the totals over successes.
type Report struct {
	Outcomes []Outcome `json:"results"`
	Totals   Totals    `json:"totals"`
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger is the logging interface the orchestrator writes progress to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Options configures a batch orchestrator.
type Options struct {
	// LenientDates is passed through to the per-file pipeline.
	LenientDates bool

	// MaxConcurrency bounds how many files are processed at once.
	// Values below 1 are treated as 1.
	MaxConcurrency int

	// DownloadBasePath, when set, prefixes stored output names to build
	// each result's download_url (e.g. "/api/download/"). Left empty in
	// CLI mode, where there is nothing to download from.
	DownloadBasePath string
}

// Orchestrator fans the per-file pipeline out across the files of a batch.
type Orchestrator struct {
	store  *utils.FileManager
	opts   Options
	logger Logger
}

// New creates an Orchestrator storing outputs through the given file
// manager. A nil logger falls back to the package default.
func New(store *utils.FileManager, opts Options, logger Logger) *Orchestrator {
	if logger == nil {
		logger = &defaultLogger{}
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Orchestrator{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Run processes every job of the batch and returns the collected report.
// Outcomes keep the input file order regardless of completion order.
func (o *Orchestrator) Run(ctx context.Context, jobs []Job) *Report {
	type indexed struct {
		pos     int
		outcome Outcome
	}

	results := make(chan indexed, len(jobs))
	sem := make(chan struct{}, o.opts.MaxConcurrency)
	var wg sync.WaitGroup

	for i, job := range jobs {
		// Cancellation is honored at file boundaries only: files already
		// dispatched run to completion.
		if err := ctx.Err(); err != nil {
			results <- indexed{pos: i, outcome: cancelledOutcome(job)}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(pos int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()

			results <- indexed{pos: pos, outcome: o.processFile(job)}
		}(i, job)
	}

	wg.Wait()
	close(results)

	report := &Report{Outcomes: make([]Outcome, len(jobs))}
	for r := range results {
		report.Outcomes[r.pos] = r.outcome
	}

	// Fan-in: totals are a plain reduction over completed outcomes, so no
	// locking is needed anywhere in the batch.
	for _, out := range report.Outcomes {
		if !out.Success {
			continue
		}
		report.Totals.FilesProcessed++
		report.Totals.TotalHeaders += out.HeaderCount
		report.Totals.TotalLumpsum += out.LumpsumCount
		report.Totals.TotalOutputRows += out.OutputRows
	}

	return report
}

// processFile runs parse -> validate -> normalize -> expand -> sort ->
// serialize -> store for a single file, timing the whole sequence.
func (o *Orchestrator) processFile(job Job) Outcome {
	started := time.Now()

	o.logger.Debug("processing file: %s", job.Name)

	table, err := csvparser.ParseFile(job.Path)
	if err != nil {
		o.logger.Warn("parse failed for file=%s: %v", job.Name, err)
		return failedOutcome(job, err)
	}

	output, err := formatter.Run(table, formatter.Options{
		LenientDates: o.opts.LenientDates,
	})
	if err != nil {
		o.logger.Warn("processing failed for file=%s: %v", job.Name, err)
		return failedOutcome(job, err)
	}

	storedName, err := o.store.StoreOutput(job.Name, output.Data)
	if err != nil {
		o.logger.Error("output write failed for file=%s: %v", job.Name, err)
		return failedOutcome(job, err)
	}

	elapsed := roundMillis(time.Since(started))
	o.logger.Info("file processed: file=%s output=%s rows_in=%d rows_out=%d elapsed_ms=%.2f",
		job.Name, storedName, output.Stats.InputRows, output.Stats.OutputRows, elapsed)

	out := Outcome{
		InputFile:       job.Name,
		Success:         true,
		OutputFile:      storedName,
		SizeBytes:       int64(len(output.Data)),
		InputRows:       output.Stats.InputRows,
		DistinctRebates: output.Stats.DistinctRebates,
		HeaderCount:     output.Stats.HeaderCount,
		LumpsumCount:    output.Stats.LumpsumCount,
		OutputRows:      output.Stats.OutputRows,
		ElapsedMS:       elapsed,
	}
	if o.opts.DownloadBasePath != "" {
		out.DownloadURL = o.opts.DownloadBasePath + storedName
	}

	return out
}

// =============================================================================
// OUTCOME HELPERS
// =============================================================================

// failedOutcome wraps a pipeline error into the structured failure record.
func failedOutcome(job Job, err error) Outcome {
	return Outcome{
		InputFile: job.Name,
		Error:     classifyError(err),
	}
}

// cancelledOutcome records a file skipped because the batch deadline or
// cancellation hit before it was dispatched.
func cancelledOutcome(job Job) Outcome {
	return Outcome{
		InputFile: job.Name,
		Error: &ErrorPayload{
			Kind:    "cancelled",
			Message: "batch cancelled before this file was processed",
		},
	}
}

// classifyError maps the pipeline error taxonomy onto the wire payload.
func classifyError(err error) *ErrorPayload {
	var missingErr *validation.MissingColumnsError
	if errors.As(err, &missingErr) {
		return &ErrorPayload{
			Kind:           missingErr.Kind(),
			Message:        missingErr.Error(),
			MissingColumns: missingErr.Columns,
		}
	}

	var dateErr *formatter.InvalidDateError
	if errors.As(err, &dateErr) {
		return &ErrorPayload{
			Kind:    dateErr.Kind(),
			Message: dateErr.Error(),
			Row:     dateErr.Row,
			Column:  dateErr.Column,
		}
	}

	var csvErr *csvparser.MalformedCsvError
	if errors.As(err, &csvErr) {
		return &ErrorPayload{
			Kind:    csvErr.Kind(),
			Message: csvErr.Error(),
		}
	}

	return &ErrorPayload{
		Kind:    "processing_error",
		Message: err.Error(),
	}
}

// roundMillis converts a duration to milliseconds rounded to two decimals.
func roundMillis(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/1000*100) / 100
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// defaultLogger routes orchestrator logging through the standard logger.
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	logPrintf("INFO", msg, args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	logPrintf("WARN", msg, args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	logPrintf("ERROR", msg, args...)
}
