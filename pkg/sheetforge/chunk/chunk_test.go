package chunk

import (
	"math"
	"strings"
	"testing"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/errkind"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		n, size  int
		expected []Span
	}{
		{0, 10, nil},
		{5, 10, []Span{{0, 5}}},
		{10, 10, []Span{{0, 10}}},
		{11, 10, []Span{{0, 10}, {10, 11}}},
		{25, 10, []Span{{0, 10}, {10, 20}, {20, 25}}},
	}
	for _, tt := range tests {
		got := SplitChunks(tt.n, tt.size)
		if len(got) != len(tt.expected) {
			t.Errorf("SplitChunks(%d, %d) = %v, expected %v", tt.n, tt.size, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("SplitChunks(%d, %d)[%d] = %v, expected %v", tt.n, tt.size, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name     string
		input    models.Value
		expected models.Value
		wantErr  bool
	}{
		{"number", models.Number(1.5), models.Number(1.5), false},
		{"nan", models.Number(math.NaN()), models.Value{}, true},
		{"inf", models.Number(math.Inf(-1)), models.Value{}, true},
		{"control chars", models.Text("a\x00b\x1fc\td"), models.Text("abc\td"), false},
		{"too long", models.Text(strings.Repeat("y", models.MaxCellText+1)), models.Value{}, true},
		{"at limit", models.Text(strings.Repeat("y", models.MaxCellText)), models.Text(strings.Repeat("y", models.MaxCellText)), false},
		{"bool", models.Bool(true), models.Bool(true), false},
	}
	for _, tt := range tests {
		got, err := CleanValue(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("CleanValue(%s) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if !got.Equal(tt.expected) {
			t.Errorf("CleanValue(%s) = %q, expected %q", tt.name, got.String(), tt.expected.String())
		}
		again, err := CleanValue(got)
		if err != nil || !again.Equal(got) {
			t.Errorf("CleanValue(%s) not idempotent: %q, %v", tt.name, again.String(), err)
		}
	}
}

func TestValidateRecords(t *testing.T) {
	long := strings.Repeat("n", 256)
	tests := []struct {
		name    string
		records []models.Record
		wantErr bool
	}{
		{"nil", nil, true},
		{"empty", []models.Record{}, true},
		{"ok", []models.Record{{"a": 1}}, false},
		{"long field name", []models.Record{{long: 1}}, true},
		{"large value", []models.Record{{"a": strings.Repeat("v", 33*1024)}}, true},
		{"too many", make([]models.Record, models.MaxRecords+1), true},
	}
	for _, tt := range tests {
		err := ValidateRecords(tt.records)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRecords(%s) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errkind.Is(err, errkind.InputValidation) {
			t.Errorf("ValidateRecords(%s) error kind = %q", tt.name, errkind.KindOf(err))
		}
	}
}

func TestValidateRecordsSamplesOnlyLeadingRecords(t *testing.T) {
	records := make([]models.Record, 30)
	for i := range records {
		records[i] = models.Record{"a": i}
	}
	records[25] = models.Record{strings.Repeat("n", 300): 1}
	if err := ValidateRecords(records); err != nil {
		t.Errorf("ValidateRecords error = %v, expected only the first 20 records to be checked", err)
	}
}
