package sheetforge

import (
	"errors"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/errkind"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a supported spreadsheet container.
var ErrInvalidFormat = errors.New("invalid spreadsheet format")

// Error is a classified failure.
type Error = errkind.Error

// ErrorKind classifies failures.
type ErrorKind = errkind.Kind

// Error kinds.
const (
	KindInputFormat         = errkind.InputFormat
	KindInputValidation     = errkind.InputValidation
	KindDataProcessing      = errkind.DataProcessing
	KindMemoryLimitExceeded = errkind.MemoryLimitExceeded
	KindOutputGeneration    = errkind.OutputGeneration
	KindOutputValidation    = errkind.OutputValidation
	KindCancelled           = errkind.Cancelled
)

// KindOf returns the kind of err, or "" for unclassified errors.
func KindOf(err error) ErrorKind { return errkind.KindOf(err) }

// Describe renders err as a one-line message with its support code.
func Describe(err error) string { return errkind.Describe(err) }
