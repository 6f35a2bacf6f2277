package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/yamitzky/xlrd-go/xlrd"
)

func TestXLSCellValue(t *testing.T) {
	day, err := xlrd.XldateAsDatetime(45000, 0)
	if err != nil {
		t.Fatalf("XldateAsDatetime failed: %v", err)
	}
	day1904, err := xlrd.XldateAsDatetime(45000, 1)
	if err != nil {
		t.Fatalf("XldateAsDatetime failed: %v", err)
	}

	tests := []struct {
		name     string
		ctype    int
		value    interface{}
		datemode int
		expected models.Value
	}{
		{"text", xlrd.XL_CELL_TEXT, "hello", 0, models.Text("hello")},
		{"text from number", xlrd.XL_CELL_TEXT, 12, 0, models.Text("12")},
		{"number", xlrd.XL_CELL_NUMBER, 3.5, 0, models.Number(3.5)},
		{"number from int", xlrd.XL_CELL_NUMBER, 7, 0, models.Number(7)},
		{"number not numeric", xlrd.XL_CELL_NUMBER, "x", 0, models.Null()},
		{"date", xlrd.XL_CELL_DATE, 45000.0, 0, models.Timestamp(day)},
		{"date 1904", xlrd.XL_CELL_DATE, 45000.0, 1, models.Timestamp(day1904)},
		{"date not numeric", xlrd.XL_CELL_DATE, "soon", 0, models.Null()},
		{"bool", xlrd.XL_CELL_BOOLEAN, true, 0, models.Bool(true)},
		{"bool numeric one", xlrd.XL_CELL_BOOLEAN, 1.0, 0, models.Bool(true)},
		{"bool numeric zero", xlrd.XL_CELL_BOOLEAN, 0, 0, models.Bool(false)},
		{"error", xlrd.XL_CELL_ERROR, "#DIV/0!", 0, models.Text("#DIV/0!")},
		{"empty", xlrd.XL_CELL_EMPTY, "", 0, models.Null()},
		{"blank", xlrd.XL_CELL_BLANK, "", 0, models.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := xlsCellValue(tt.ctype, tt.value, tt.datemode)
			if got.Kind != tt.expected.Kind {
				t.Fatalf("kind = %v, expected %v", got.Kind, tt.expected.Kind)
			}
			switch got.Kind {
			case models.KindTimestamp:
				if !got.Time.Equal(tt.expected.Time) {
					t.Errorf("time = %v, expected %v", got.Time, tt.expected.Time)
				}
			default:
				if got != tt.expected {
					t.Errorf("value = %+v, expected %+v", got, tt.expected)
				}
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		value    interface{}
		expected float64
		ok       bool
	}{
		{2.5, 2.5, true},
		{float32(1.5), 1.5, true},
		{int(3), 3, true},
		{int64(4), 4, true},
		{int32(5), 5, true},
		{"6", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := toFloat(tt.value)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("toFloat(%#v) = %v, %v; expected %v, %v", tt.value, got, ok, tt.expected, tt.ok)
		}
	}
}

func readProfiles(t *testing.T) []byte {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", "profiles.xls"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	return content
}

func TestLoadXLSGrids(t *testing.T) {
	content := readProfiles(t)

	format, err := SniffFormat(content, ".xls")
	if err != nil || format != FormatXLS {
		t.Fatalf("SniffFormat = %q, %v", format, err)
	}

	grids, err := LoadXLSGrids(content, nil)
	if err != nil {
		t.Fatalf("LoadXLSGrids failed: %v", err)
	}

	names := []string{"PROFILEDEF", "AXISDEF", "TRAVERSALCHAINAGE", "AXISDATUMLEVELS", "PROFILELEVELS"}
	if len(grids) != len(names) {
		t.Fatalf("got %d sheets, expected %d", len(grids), len(names))
	}
	for i, name := range names {
		if grids[i].Name != name {
			t.Errorf("sheet %d = %q, expected %q", i, grids[i].Name, name)
		}
	}

	maxRow, maxCol := grids[0].Grid.Bounds()
	if grids[0].Grid.Len() == 0 || maxRow >= 15 || maxCol >= 13 {
		t.Errorf("PROFILEDEF grid has %d cells, bounds (%d, %d)", grids[0].Grid.Len(), maxRow, maxCol)
	}
}

func TestLoadXLSGridsSheetFilter(t *testing.T) {
	grids, err := LoadXLSGrids(readProfiles(t), []string{"AXISDEF"})
	if err != nil {
		t.Fatalf("LoadXLSGrids failed: %v", err)
	}
	if len(grids) != 1 || grids[0].Name != "AXISDEF" {
		t.Fatalf("got %+v, expected only AXISDEF", grids)
	}
}
