package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/xuri/excelize/v2"
)

// ParseRange parses an A1 range such as "$A$1:$D$10" or "'Sheet 1'!B2:C3".
// A single cell reference yields a one-cell range.
func ParseRange(ref string) (models.CellRange, error) {
	// Drop a sheet qualifier
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		ref = ref[idx+1:]
	}
	// Remove $ signs
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")

	parts := strings.Split(ref, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return models.CellRange{}, fmt.Errorf("invalid range %q", ref)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.CellRange{}, err
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.CellRange{}, err
	}

	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}

	return models.CellRange{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}, nil
}

// CellRef returns the A1 name of a 1-based (row, col) position, or "" when
// the position is outside the sheet limits.
func CellRef(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}
