package workbook

import (
	"math"
	"testing"
	"time"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

func TestSummarize(t *testing.T) {
	s := Summarize(sampleInput(6).Dataset)

	if s.TotalRecords != 6 || s.TotalFields != 4 {
		t.Errorf("totals = %d/%d, expected 6/4", s.TotalRecords, s.TotalFields)
	}
	if s.NumericFields != 1 || s.DateFields != 1 || s.TextFields != 2 || s.EmptyFields != 0 {
		t.Errorf("field counts numeric %d date %d text %d empty %d, expected 1/1/2/0",
			s.NumericFields, s.DateFields, s.TextFields, s.EmptyFields)
	}
	from := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	if !s.DateFrom.Equal(from) || !s.DateTo.Equal(from.Add(5*time.Hour)) {
		t.Errorf("date range = %v to %v", s.DateFrom, s.DateTo)
	}
	// "name" has a single distinct value, so it is the lowest-cardinality text column.
	if s.CommonField != "name" || s.CommonValue != "user" || s.CommonCount != 6 {
		t.Errorf("most common = %s: %s (%d), expected name: user (6)", s.CommonField, s.CommonValue, s.CommonCount)
	}
	if s.Completeness != 100 {
		t.Errorf("Completeness = %v, expected 100", s.Completeness)
	}
}

func TestSummarizeCompleteness(t *testing.T) {
	ds := &models.Dataset{
		Fields: []string{"a", "b"},
		Rows: [][]models.Value{
			{models.Text("x"), models.Text("")},
			{models.Text("y"), models.Null()},
		},
	}
	s := Summarize(ds)
	if math.Abs(s.Completeness-50) > 1e-9 {
		t.Errorf("Completeness = %v, expected 50", s.Completeness)
	}
	if s.EmptyFields != 1 || s.TextFields != 1 {
		t.Errorf("empty %d text %d, expected 1/1", s.EmptyFields, s.TextFields)
	}
	if s.HasDateRange() {
		t.Error("expected no date range")
	}
}

func TestIsDateField(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"created_at", true},
		{"updatedAt", true},
		{"order_date", true},
		{"Timestamp", true},
		{"lastSeenAt", true},
		{"status", false},
		{"format", false},
		{"category", false},
		{"rate", false},
	}
	for _, tt := range tests {
		if got := isDateField(tt.name); got != tt.expected {
			t.Errorf("isDateField(%q) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}
