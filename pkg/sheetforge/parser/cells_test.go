package parser

import (
	"path/filepath"
	"testing"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/xuri/excelize/v2"
)

func TestLoadXLSXGrid(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "Text")
	f.SetCellValue(sheetName, "C5", true)

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	grid, err := LoadXLSXGrid(f2, sheetName)
	if err != nil {
		t.Fatalf("LoadXLSXGrid failed: %v", err)
	}

	if grid.Len() != 6 {
		t.Errorf("Expected 6 occupied cells, got %d", grid.Len())
	}
	if got := grid.Get(0, 0); !got.Equal(models.Text("Header1")) {
		t.Errorf("Expected 'Header1', got %v", got)
	}
	if got := grid.Get(1, 0); !got.Equal(models.Number(100)) {
		t.Errorf("Expected 100, got %v (kind: %v)", got, got.Kind)
	}
	if got := grid.Get(1, 1); !got.Equal(models.Number(200.5)) {
		t.Errorf("Expected 200.5, got %v", got)
	}
	if got := grid.Get(4, 2); !got.Equal(models.Bool(true)) {
		t.Errorf("Expected TRUE, got %v (kind: %v)", got, got.Kind)
	}
	if grid.Occupied(3, 0) {
		t.Error("Expected row 4 to be empty")
	}
}

func TestLoadXLSXGridsSheetFilter(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.NewSheet("Second")
	f.SetCellValue("Sheet1", "A1", "x")
	f.SetCellValue("Second", "A1", "y")

	all, err := LoadXLSXGrids(f, nil)
	if err != nil {
		t.Fatalf("LoadXLSXGrids failed: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Sheet1" || all[1].Name != "Second" {
		t.Fatalf("Expected [Sheet1 Second], got %+v", all)
	}

	only, err := LoadXLSXGrids(f, []string{"Second"})
	if err != nil {
		t.Fatalf("LoadXLSXGrids failed: %v", err)
	}
	if len(only) != 1 || only[0].Name != "Second" {
		t.Fatalf("Expected [Second], got %+v", only)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Value
	}{
		{"123", models.Number(123)},
		{"123.45", models.Number(123.45)},
		{"-100", models.Number(-100)},
		{"TRUE", models.Bool(true)},
		{"FALSE", models.Bool(false)},
		{"hello", models.Text("hello")},
		{"NaN", models.Text("NaN")},
		{"Inf", models.Text("Inf")},
		{"0x1F", models.Text("0x1F")},
		{"2024-01-05", models.Text("2024-01-05")},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if !result.Equal(tt.expected) {
			t.Errorf("parseValue(%q) = %v (kind: %v), expected %v (kind: %v)",
				tt.input, result, result.Kind, tt.expected, tt.expected.Kind)
		}
	}
}
