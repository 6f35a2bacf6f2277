package parser

import (
	"sort"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// Coord is a 0-based (row, column) cell position.
type Coord struct {
	Row int
	Col int
}

// GridIndex is a sparse index of the occupied cells of one sheet.
// Empty values are never stored.
type GridIndex struct {
	cells  map[Coord]models.Value
	maxRow int
	maxCol int
}

// NewGridIndex returns an empty grid.
func NewGridIndex() *GridIndex {
	return &GridIndex{
		cells:  make(map[Coord]models.Value),
		maxRow: -1,
		maxCol: -1,
	}
}

// Set stores v at (row, col). Empty values clear the cell instead.
func (g *GridIndex) Set(row, col int, v models.Value) {
	if row < 0 || col < 0 {
		return
	}
	c := Coord{Row: row, Col: col}
	if v.IsEmpty() {
		delete(g.cells, c)
		return
	}
	g.cells[c] = v
	if row > g.maxRow {
		g.maxRow = row
	}
	if col > g.maxCol {
		g.maxCol = col
	}
}

// Get returns the value at (row, col), or Null.
func (g *GridIndex) Get(row, col int) models.Value {
	return g.cells[Coord{Row: row, Col: col}]
}

// Occupied reports whether (row, col) holds a value.
func (g *GridIndex) Occupied(row, col int) bool {
	_, ok := g.cells[Coord{Row: row, Col: col}]
	return ok
}

// Len returns the number of occupied cells.
func (g *GridIndex) Len() int {
	return len(g.cells)
}

// Coords returns all occupied positions in row-major order.
func (g *GridIndex) Coords() []Coord {
	out := make([]Coord, 0, len(g.cells))
	for c := range g.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Bounds returns the largest occupied row and column seen so far, or -1, -1
// for an empty grid. Bounds do not shrink when cells are cleared.
func (g *GridIndex) Bounds() (maxRow, maxCol int) {
	return g.maxRow, g.maxCol
}

// SheetGrid pairs a grid with the sheet it was read from.
type SheetGrid struct {
	Name string
	Grid *GridIndex
}
