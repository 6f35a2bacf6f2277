// Package workbook renders a processed dataset into a four-sheet xlsx
// artifact and moves it into place atomically.
package workbook

import (
	"time"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// Sheet names, in workbook order.
const (
	SheetData         = "Data"
	SheetSummary      = "Summary"
	SheetMetadata     = "Metadata"
	SheetFieldMapping = "Field Mapping"
)

// SheetNames lists the sheets every artifact must contain.
var SheetNames = []string{SheetData, SheetSummary, SheetMetadata, SheetFieldMapping}

// Rows of the main data sheet (1-based).
const (
	titleRow     = 1
	timestampRow = 2
	// HeaderOffset is the row holding column headers; data starts below it.
	HeaderOffset = 4
)

// Column width bounds, in characters.
const (
	minColWidth = 10
	maxColWidth = 50
)

// RunInfo describes the run for the Metadata sheet.
type RunInfo struct {
	// TotalRecords is the number of input records.
	TotalRecords int
	// Duration is the elapsed time before the build started.
	Duration time.Duration
	// PeakMemoryMB is the highest memory sample of the run.
	PeakMemoryMB float64
	// GeneratedAt is stamped under the title; zero means now.
	GeneratedAt time.Time
	// Version is the producing tool version.
	Version string
}

// Input is everything a build needs.
type Input struct {
	Dataset      *models.Dataset
	FieldMapping map[string]string
	Run          RunInfo
}
