package parser

import (
	"strconv"
	"strings"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/xuri/excelize/v2"
)

// LoadXLSXGrid reads the occupied cells of one sheet into a GridIndex.
// Rows are streamed with excelize's row iterator so only one row is held
// in memory at a time.
func LoadXLSXGrid(f *excelize.File, sheetName string) (*GridIndex, error) {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grid := NewGridIndex()
	rowIdx := 0
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		for colIdx, cellValue := range cols {
			if cellValue == "" {
				continue
			}
			grid.Set(rowIdx, colIdx, parseValue(cellValue))
		}
		rowIdx++
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}

	return grid, nil
}

// LoadXLSXGrids reads every sheet of a workbook, in workbook order.
// When sheets is non-empty only the named sheets are read.
func LoadXLSXGrids(f *excelize.File, sheets []string) ([]SheetGrid, error) {
	var out []SheetGrid
	for _, name := range f.GetSheetList() {
		if !wantSheet(name, sheets) {
			continue
		}
		grid, err := LoadXLSXGrid(f, name)
		if err != nil {
			return nil, err
		}
		out = append(out, SheetGrid{Name: name, Grid: grid})
	}
	return out, nil
}

// parseValue converts a rendered cell string to a typed value.
// Integers and decimals become numbers, TRUE/FALSE become booleans,
// everything else stays text.
func parseValue(s string) models.Value {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.Number(float64(i))
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "nNiIxX") {
		return models.Number(f)
	}
	switch s {
	case "TRUE":
		return models.Bool(true)
	case "FALSE":
		return models.Bool(false)
	}
	return models.Text(s)
}

func wantSheet(name string, sheets []string) bool {
	if len(sheets) == 0 {
		return true
	}
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}
