package models

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CellRange represents cell coordinate bounds of a table.
type CellRange struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Rows returns the number of rows covered by the range.
func (r CellRange) Rows() int { return r.R2 - r.R1 + 1 }

// Cols returns the number of columns covered by the range.
func (r CellRange) Cols() int { return r.C2 - r.C1 + 1 }

// Ref returns the range in A1 notation, e.g. "B2:D10".
func (r CellRange) Ref() string {
	return fmt.Sprintf("%s%d:%s%d", ColumnName(r.C1), r.R1, ColumnName(r.C2), r.R2)
}

// Overlaps reports whether two ranges share at least one cell.
func (r CellRange) Overlaps(o CellRange) bool {
	return r.R1 <= o.R2 && o.R1 <= r.R2 && r.C1 <= o.C2 && o.C1 <= r.C2
}

// ColumnName converts a 1-based column number to its letter name:
// 1 -> "A", 26 -> "Z", 27 -> "AA", 16384 -> "XFD". Columns outside the
// sheet limits yield "".
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}
