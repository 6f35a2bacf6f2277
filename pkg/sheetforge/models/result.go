package models

import "time"

// RunStatus is the terminal state of a generation run.
type RunStatus string

const (
	// StatusCompleted means the artifact was written (and validated, if enabled).
	StatusCompleted RunStatus = "completed"
	// StatusFailed means a fatal error stopped the run.
	StatusFailed RunStatus = "failed"
	// StatusCancelled means the caller cancelled the run at a chunk boundary.
	StatusCancelled RunStatus = "cancelled"
)

// ValidationReport is the outcome of structural checks on a generated artifact.
type ValidationReport struct {
	// Valid is true when no hard errors were found.
	Valid bool `json:"valid"`
	// Errors lists hard failures.
	Errors []string `json:"errors"`
	// Warnings lists soft findings.
	Warnings []string `json:"warnings"`
	// RowCount is the number of rows in the main data sheet.
	RowCount int `json:"row_count"`
	// ColumnCount is the widest row in the main data sheet.
	ColumnCount int `json:"column_count"`
	// SheetCount is the number of sheets in the workbook.
	SheetCount int `json:"sheet_count"`
	// ValidationScore is max(0, 100 - 25*errors - 5*warnings).
	ValidationScore int `json:"validation_score"`
}

// GenerationResult is the caller-owned summary of one generation run.
type GenerationResult struct {
	// Success is true only for StatusCompleted.
	Success bool `json:"success"`
	// Status is the terminal run state.
	Status RunStatus `json:"status"`
	// ErrorKind names the fatal error kind, empty on success.
	ErrorKind string `json:"error_kind,omitempty"`
	// FilePath is the artifact path (set once the file is in place).
	FilePath string `json:"file_path,omitempty"`
	// FileSize is the artifact size in bytes.
	FileSize int64 `json:"file_size"`
	// TotalRows is the number of input records.
	TotalRows int `json:"total_rows"`
	// ProcessedRows is the number of rows written, error markers included.
	ProcessedRows int `json:"processed_rows"`
	// DroppedRows is the number of records dropped under PolicyContinue.
	DroppedRows int `json:"dropped_rows"`
	// ErrorRows is the number of error marker rows under PolicyLogOnly.
	ErrorRows int `json:"error_rows"`
	// MissingFieldCount is the number of synthesized default values.
	MissingFieldCount int `json:"missing_field_count"`
	// Errors lists error messages collected during the run.
	Errors []string `json:"errors"`
	// Warnings lists warning messages collected during the run.
	Warnings []string `json:"warnings"`
	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`
	// MemoryPeakMB is the highest sampled memory use.
	MemoryPeakMB float64 `json:"memory_peak_mb"`
	// DataQualityScore is a 0-100 score of clean rows times completeness.
	DataQualityScore float64 `json:"data_quality_score"`
	// FieldMapping maps original field names to sanitized names.
	FieldMapping map[string]string `json:"field_mapping"`
	// Validation is the artifact report when validation ran.
	Validation *ValidationReport `json:"validation,omitempty"`
}
