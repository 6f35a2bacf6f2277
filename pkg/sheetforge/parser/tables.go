package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	// MinCells is the smallest component kept as a table. Four cells is the
	// minimum viable 2x2 block.
	MinCells int
	// TypeThreshold is the share of non-null values a column type must reach.
	TypeThreshold float64
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		MinCells:      4,
		TypeThreshold: 0.8,
	}
}

// TableDetector splits a sheet grid into independent tables.
type TableDetector struct {
	Params TableDetectionParams
	// Header decides whether a block's first row names its columns.
	// Nil means NumericFreeHeader.
	Header HeaderDetector
}

// NewTableDetector returns a detector with default parameters.
func NewTableDetector() *TableDetector {
	return &TableDetector{Params: DefaultTableParams(), Header: NumericFreeHeader{}}
}

// component is one 4-connected group of occupied cells.
type component struct {
	cells          []Coord
	minRow, minCol int
	maxRow, maxCol int
}

// isStrip reports whether comp spans a single row or a single column.
func (c component) isStrip() bool {
	return c.minRow == c.maxRow || c.minCol == c.maxCol
}

// DetectTables returns every table found in grid, in discovery order
// (row-major by each component's first cell).
func (d *TableDetector) DetectTables(grid *GridIndex, sheetName string) []models.Table {
	if grid == nil || grid.Len() == 0 {
		return nil
	}
	params := d.Params
	if params.MinCells <= 0 {
		params.MinCells = DefaultTableParams().MinCells
	}
	if params.TypeThreshold <= 0 || params.TypeThreshold > 1 {
		params.TypeThreshold = DefaultTableParams().TypeThreshold
	}
	header := d.Header
	if header == nil {
		header = NumericFreeHeader{}
	}

	var tables []models.Table
	for _, comp := range findComponents(grid) {
		if len(comp.cells) < params.MinCells || comp.isStrip() {
			continue
		}
		t, ok := buildTable(grid, comp, header, params.TypeThreshold)
		if !ok {
			continue
		}
		t.SheetName = sheetName
		tables = append(tables, t)
	}

	for i := range tables {
		if len(tables) == 1 {
			tables[i].Name = sheetName
		} else {
			tables[i].Name = fmt.Sprintf("%s_Table%d", sheetName, i+1)
		}
	}
	return tables
}

// DetectTables runs a default detector over grid.
func DetectTables(grid *GridIndex, sheetName string) []models.Table {
	return NewTableDetector().DetectTables(grid, sheetName)
}

// findComponents partitions the occupied cells into 4-connected components
// using an explicit work stack.
func findComponents(grid *GridIndex) []component {
	visited := make(map[Coord]bool, grid.Len())
	var out []component
	var stack []Coord

	for _, start := range grid.Coords() {
		if visited[start] {
			continue
		}
		comp := component{
			minRow: start.Row, maxRow: start.Row,
			minCol: start.Col, maxCol: start.Col,
		}
		visited[start] = true
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp.cells = append(comp.cells, c)
			comp.minRow = min(comp.minRow, c.Row)
			comp.maxRow = max(comp.maxRow, c.Row)
			comp.minCol = min(comp.minCol, c.Col)
			comp.maxCol = max(comp.maxCol, c.Col)

			for _, n := range [4]Coord{
				{c.Row - 1, c.Col}, {c.Row + 1, c.Col},
				{c.Row, c.Col - 1}, {c.Row, c.Col + 1},
			} {
				if n.Row < 0 || n.Col < 0 || visited[n] || !grid.Occupied(n.Row, n.Col) {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
		out = append(out, comp)
	}
	return out
}

// buildTable materializes the bounding rectangle of comp. Cells belonging
// to other components inside the rectangle read as Null.
func buildTable(grid *GridIndex, comp component, header HeaderDetector, threshold float64) (models.Table, bool) {
	members := make(map[Coord]bool, len(comp.cells))
	for _, c := range comp.cells {
		members[c] = true
	}

	width := comp.maxCol - comp.minCol + 1
	var block [][]models.Value
	for r := comp.minRow; r <= comp.maxRow; r++ {
		row := make([]models.Value, width)
		filled := false
		for c := comp.minCol; c <= comp.maxCol; c++ {
			if members[Coord{Row: r, Col: c}] {
				row[c-comp.minCol] = grid.Get(r, c)
				filled = true
			}
		}
		if filled {
			block = append(block, row)
		}
	}
	if len(block) == 0 {
		return models.Table{}, false
	}

	var headers []string
	data := block
	if header.IsHeader(block) {
		headers = headerNames(block[0])
		data = block[1:]
	} else {
		headers = syntheticHeaders(width)
	}
	if len(data) == 0 {
		return models.Table{}, false
	}

	types := make([]models.ColumnType, width)
	for col := 0; col < width; col++ {
		values := make([]models.Value, 0, len(data))
		for _, row := range data {
			values = append(values, row[col])
		}
		types[col] = InferColumnType(values, threshold)
	}

	rng := models.CellRange{
		R1: comp.minRow + 1, C1: comp.minCol + 1,
		R2: comp.maxRow + 1, C2: comp.maxCol + 1,
	}
	return models.Table{
		Range:       rng,
		Ref:         rng.Ref(),
		Headers:     headers,
		Rows:        data,
		ColumnTypes: types,
	}, true
}

// headerNames renders a header row, naming blank cells ColN.
func headerNames(row []models.Value) []string {
	names := make([]string, len(row))
	for i, v := range row {
		name := strings.TrimSpace(v.String())
		if name == "" {
			name = fmt.Sprintf("Col%d", i+1)
		}
		names[i] = name
	}
	return names
}

func syntheticHeaders(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Col%d", i+1)
	}
	return names
}
