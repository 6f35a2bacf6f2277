package parser

import "github.com/ukaji3/sheetforge/pkg/sheetforge/models"

// HeaderDetector decides whether the first row of a block holds column names.
// Implementations are heuristics, not guarantees.
type HeaderDetector interface {
	IsHeader(rows [][]models.Value) bool
}

// NumericFreeHeader treats the first row as headers when none of its cells
// is purely numeric.
type NumericFreeHeader struct{}

// IsHeader implements HeaderDetector.
func (NumericFreeHeader) IsHeader(rows [][]models.Value) bool {
	if len(rows) == 0 {
		return false
	}
	for _, v := range rows[0] {
		if v.IsNumeric() {
			return false
		}
	}
	return true
}

// MajorityTextHeader is a stricter heuristic: the first row must be mostly
// text and the majority of columns must have a non-text value somewhere
// below the first row, or the first row must differ in kind from the second.
type MajorityTextHeader struct{}

// IsHeader implements HeaderDetector.
func (MajorityTextHeader) IsHeader(rows [][]models.Value) bool {
	if len(rows) == 0 {
		return false
	}
	first := rows[0]
	textCells, filled := 0, 0
	for _, v := range first {
		if v.IsNull() {
			continue
		}
		filled++
		if v.Kind == models.KindText && !v.IsNumeric() {
			textCells++
		}
	}
	if filled == 0 || textCells*2 <= filled {
		return false
	}
	if len(rows) == 1 {
		return true
	}

	// Vote per column: does the body look different from the candidate header?
	votes, voters := 0, 0
	for col, head := range first {
		if head.IsNull() {
			continue
		}
		voters++
		for _, row := range rows[1:] {
			v := row[col]
			if v.IsNull() {
				continue
			}
			if v.Kind != models.KindText || v.IsNumeric() {
				votes++
				break
			}
		}
	}
	if votes*2 > voters {
		return true
	}
	return textCells == filled && !sameTextRow(first, rows[1])
}

func sameTextRow(a, b []models.Value) bool {
	for i := range a {
		if i >= len(b) || !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
