// Package sheetforge detects tables in spreadsheets and generates
// multi-sheet workbooks from record sets.
package sheetforge

import (
	"log/slog"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/chunk"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/parser"
)

// Version is stamped into generated workbooks.
const Version = "0.3.0"

// DetectOptions configures table detection.
type DetectOptions struct {
	// Params tunes component filtering and type inference.
	Params parser.TableDetectionParams
	// Header picks the header heuristic. Nil means parser.NumericFreeHeader.
	Header parser.HeaderDetector
	// Sheets restricts detection to the named sheets. Empty means all.
	Sheets []string
	// Logger receives debug output. Nil means the default logger.
	Logger *slog.Logger
	// Telemetry, if set, is updated after each call.
	Telemetry *Telemetry
}

// DefaultDetectOptions returns default detection options.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		Params: parser.DefaultTableParams(),
		Header: parser.NumericFreeHeader{},
	}
}

// ProgressFunc receives a job percentage (0-100) and a status line.
type ProgressFunc = chunk.ProgressFunc

// RecordFunc transforms one cleaned row during generation.
type RecordFunc = chunk.RecordFunc

// MemorySampler reports approximate memory use in megabytes.
type MemorySampler = chunk.MemorySampler

type generateOptions struct {
	progress  ProgressFunc
	sampler   MemorySampler
	recordFn  RecordFunc
	telemetry *Telemetry
	logger    *slog.Logger
}

// GenerateOption configures Generate.
type GenerateOption func(*generateOptions)

// WithProgress sets the progress callback. It is called synchronously.
func WithProgress(fn ProgressFunc) GenerateOption {
	return func(o *generateOptions) { o.progress = fn }
}

// WithMemorySampler replaces the runtime memory sampler.
func WithMemorySampler(s MemorySampler) GenerateOption {
	return func(o *generateOptions) { o.sampler = s }
}

// WithRecordFunc installs a per-record transform.
func WithRecordFunc(fn RecordFunc) GenerateOption {
	return func(o *generateOptions) { o.recordFn = fn }
}

// WithTelemetry sets counters shared across jobs.
func WithTelemetry(t *Telemetry) GenerateOption {
	return func(o *generateOptions) { o.telemetry = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GenerateOption {
	return func(o *generateOptions) { o.logger = l }
}
