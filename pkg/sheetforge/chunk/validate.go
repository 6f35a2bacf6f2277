package chunk

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/errkind"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

const (
	// sampleSize is the number of leading records checked before a run.
	sampleSize = 20
	// maxFieldName is the longest field name accepted, in runes.
	maxFieldName = 255
	// maxValueBytes is the largest text value accepted in the sample.
	maxValueBytes = 32 * 1024
)

// ValidateRecords rejects raw input that cannot produce a workbook:
// a nil or empty list, more than models.MaxRecords records, or oversized
// field names or values among the first records.
func ValidateRecords(records []models.Record) error {
	if records == nil {
		return invalid(errors.New("records must be a list"))
	}
	if len(records) == 0 {
		return invalid(errors.New("no records to export"))
	}
	if len(records) > models.MaxRecords {
		return invalid(fmt.Errorf("%d records exceed the limit of %d", len(records), models.MaxRecords))
	}

	for i, rec := range records[:min(sampleSize, len(records))] {
		for name, v := range rec {
			if utf8.RuneCountInString(name) > maxFieldName {
				return invalid(fmt.Errorf("record %d: field name longer than %d characters", i+1, maxFieldName))
			}
			if s, ok := v.(string); ok && len(s) > maxValueBytes {
				return invalid(fmt.Errorf("record %d: value of field %q larger than 32KB", i+1, truncate(name)))
			}
		}
	}
	return nil
}

// ValidateDataset applies the same checks to an aligned dataset.
func ValidateDataset(ds *models.Dataset) error {
	if ds == nil {
		return invalid(errors.New("dataset must not be nil"))
	}
	if ds.Len() == 0 {
		return invalid(errors.New("no records to export"))
	}
	if ds.Len() > models.MaxRecords {
		return invalid(fmt.Errorf("%d records exceed the limit of %d", ds.Len(), models.MaxRecords))
	}
	if len(ds.Fields) == 0 {
		return invalid(errors.New("records have no fields"))
	}
	for _, name := range ds.Fields {
		if utf8.RuneCountInString(name) > maxFieldName {
			return invalid(fmt.Errorf("field name longer than %d characters", maxFieldName))
		}
	}

	for i, row := range ds.Rows[:min(sampleSize, ds.Len())] {
		if len(row) != len(ds.Fields) {
			return invalid(fmt.Errorf("record %d has %d values for %d fields", i+1, len(row), len(ds.Fields)))
		}
		for j, v := range row {
			if v.Kind == models.KindText && len(v.Str) > maxValueBytes {
				return invalid(fmt.Errorf("record %d: value of field %q larger than 32KB", i+1, truncate(ds.Fields[j])))
			}
		}
	}
	return nil
}

func invalid(err error) error {
	return errkind.New(errkind.InputValidation, "chunk", err)
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= 40 {
		return s
	}
	return string([]rune(s)[:40]) + "..."
}
