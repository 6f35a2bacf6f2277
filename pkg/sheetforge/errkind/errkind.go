// Package errkind defines the error taxonomy shared by detection and
// generation components.
package errkind

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// InputFormat means the source bytes are not a supported spreadsheet container.
	InputFormat Kind = "input_format"
	// InputValidation means generation input is structurally invalid.
	InputValidation Kind = "input_validation"
	// DataProcessing means a record transformation failed fatally.
	DataProcessing Kind = "data_processing"
	// MemoryLimitExceeded means sampled memory use passed the configured ceiling.
	MemoryLimitExceeded Kind = "memory_limit_exceeded"
	// OutputGeneration means writing the artifact failed.
	OutputGeneration Kind = "output_generation"
	// OutputValidation means the written artifact failed structural checks.
	OutputValidation Kind = "output_validation"
	// Cancelled means the caller cancelled the run.
	Cancelled Kind = "cancelled"
)

// codes maps each kind to a support reference code.
var codes = map[Kind]string{
	InputFormat:         "FMT001",
	InputValidation:     "VAL001",
	DataProcessing:      "PRC001",
	MemoryLimitExceeded: "MEM001",
	OutputGeneration:    "OUT001",
	OutputValidation:    "OUT002",
	Cancelled:           "RUN001",
}

// summaries maps each kind to a user-facing sentence.
var summaries = map[Kind]string{
	InputFormat:         "The file is not a readable spreadsheet",
	InputValidation:     "The input records are not valid for export",
	DataProcessing:      "A record could not be processed",
	MemoryLimitExceeded: "The export exceeded its memory limit",
	OutputGeneration:    "The workbook could not be written",
	OutputValidation:    "The generated workbook failed validation",
	Cancelled:           "The export was cancelled",
}

// Code returns the support code for k, or "ERR000" for unknown kinds.
func (k Kind) Code() string {
	if c, ok := codes[k]; ok {
		return c
	}
	return "ERR000"
}

// Summary returns a user-facing sentence for k.
func (k Kind) Summary() string {
	if s, ok := summaries[k]; ok {
		return s
	}
	return "An unexpected error occurred"
}

// Error is a classified failure raised by one component.
type Error struct {
	Kind      Kind
	Component string // "parser", "sanitize", "chunk", "workbook", "validate"
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Component, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error.
func New(kind Kind, component string, err error) *Error {
	return &Error{
		Kind:      kind,
		Component: component,
		Err:       err,
	}
}

// Newf creates a classified error from a format string.
func Newf(kind Kind, component, format string, args ...interface{}) *Error {
	return New(kind, component, fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first classified error in err's chain,
// or "" when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Describe renders a one-line, user-facing summary with the support code.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	k := KindOf(err)
	return fmt.Sprintf("[%s] %s: %v", k.Code(), k.Summary(), err)
}
