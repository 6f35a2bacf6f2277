package parser

import (
	"math"
	"testing"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		input    string
		expected models.CellRange
		wantErr  bool
	}{
		{"A1:D10", models.CellRange{R1: 1, C1: 1, R2: 10, C2: 4}, false},
		{"$B$2:$C$3", models.CellRange{R1: 2, C1: 2, R2: 3, C2: 3}, false},
		{"'Sheet 1'!B2:C3", models.CellRange{R1: 2, C1: 2, R2: 3, C2: 3}, false},
		{"D10:A1", models.CellRange{R1: 1, C1: 1, R2: 10, C2: 4}, false},
		{"E5", models.CellRange{R1: 5, C1: 5, R2: 5, C2: 5}, false},
		{"A1:B2:C3", models.CellRange{}, true},
		{"nope", models.CellRange{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseRange(%q) = %+v, expected %+v", tt.input, got, tt.expected)
		}
	}
}

func TestColumnNameAndRef(t *testing.T) {
	tests := []struct {
		col      int
		expected string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{702, "ZZ"},
		{703, "AAA"},
		{16384, "XFD"},
		{0, ""},
		{-1, ""},
		{16385, ""},
		{math.MaxInt, ""},
	}
	for _, tt := range tests {
		if got := models.ColumnName(tt.col); got != tt.expected {
			t.Errorf("ColumnName(%d) = %q, expected %q", tt.col, got, tt.expected)
		}
	}

	cellTests := []struct {
		row, col int
		expected string
	}{
		{4, 28, "AB4"},
		{1048576, 16384, "XFD1048576"},
		{0, 1, ""},
		{1, 0, ""},
		{1, math.MaxInt, ""},
	}
	for _, tt := range cellTests {
		if got := CellRef(tt.row, tt.col); got != tt.expected {
			t.Errorf("CellRef(%d, %d) = %q, expected %q", tt.row, tt.col, got, tt.expected)
		}
	}
	r := models.CellRange{R1: 6, C1: 4, R2: 8, C2: 5}
	if got := r.Ref(); got != "D6:E8" {
		t.Errorf("Ref() = %q, expected D6:E8", got)
	}
	if rt, err := ParseRange(r.Ref()); err != nil || rt != r {
		t.Errorf("ParseRange(Ref()) = %+v, %v; expected %+v", rt, err, r)
	}
}
