package workbook

import (
	"sort"
	"strings"
	"time"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/parser"
)

// typeThreshold matches the detector's column type threshold.
const typeThreshold = 0.8

// dateLayouts parse text dates when computing the date range.
var dateLayouts = []string{
	time.RFC3339,
	models.TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

// Summary holds aggregate statistics of a dataset.
type Summary struct {
	TotalRecords int
	TotalFields  int
	// DateFrom and DateTo bound the values of date-named columns; both are
	// zero when no such value exists.
	DateFrom time.Time
	DateTo   time.Time
	// Field counts by inferred type. Empty fields are not counted elsewhere.
	NumericFields int
	TextFields    int
	DateFields    int
	EmptyFields   int
	// CommonField is the lowest-cardinality text column and CommonValue its
	// most frequent value, seen CommonCount times.
	CommonField string
	CommonValue string
	CommonCount int
	// Completeness is the percentage of non-empty cells.
	Completeness float64
}

// HasDateRange reports whether a date range was found.
func (s Summary) HasDateRange() bool { return !s.DateFrom.IsZero() }

// Summarize computes statistics over ds.
func Summarize(ds *models.Dataset) Summary {
	s := Summary{TotalRecords: ds.Len(), TotalFields: len(ds.Fields)}
	if ds.Len() == 0 || len(ds.Fields) == 0 {
		return s
	}

	bestCard := -1
	filled := 0
	for col, field := range ds.Fields {
		values := make([]models.Value, 0, ds.Len())
		counts := make(map[string]int)
		nonEmpty := 0
		for _, row := range ds.Rows {
			v := row[col]
			values = append(values, v)
			if v.IsEmpty() {
				continue
			}
			nonEmpty++
			counts[v.String()]++
		}
		filled += nonEmpty

		if isDateField(field) {
			s.extendDateRange(values)
		}

		if nonEmpty == 0 {
			s.EmptyFields++
			continue
		}
		switch parser.InferColumnType(values, typeThreshold) {
		case models.ColumnInteger, models.ColumnFloat:
			s.NumericFields++
		case models.ColumnDate:
			s.DateFields++
		default:
			s.TextFields++
			if bestCard < 0 || len(counts) < bestCard {
				bestCard = len(counts)
				s.CommonField = field
				s.CommonValue, s.CommonCount = mostCommon(counts)
			}
		}
	}

	s.Completeness = float64(filled) / float64(ds.Len()*len(ds.Fields)) * 100
	return s
}

// isDateField reports whether a column name suggests dates.
func isDateField(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "date") || strings.Contains(lower, "time") ||
		strings.HasSuffix(lower, "_at") || strings.HasSuffix(name, "At")
}

func (s *Summary) extendDateRange(values []models.Value) {
	for _, v := range values {
		t, ok := asTime(v)
		if !ok {
			continue
		}
		if s.DateFrom.IsZero() || t.Before(s.DateFrom) {
			s.DateFrom = t
		}
		if s.DateTo.IsZero() || t.After(s.DateTo) {
			s.DateTo = t
		}
	}
}

func asTime(v models.Value) (time.Time, bool) {
	switch v.Kind {
	case models.KindTimestamp:
		return v.Time, !v.Time.IsZero()
	case models.KindText:
		str := strings.TrimSpace(v.Str)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// mostCommon returns the most frequent key; ties go to the smallest key.
func mostCommon(counts map[string]int) (string, int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best, bestN := "", 0
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best, bestN
}
