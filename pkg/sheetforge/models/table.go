package models

import "strings"

// ColumnType is the inferred type of a table column.
type ColumnType int

const (
	// ColumnText is the fallback type.
	ColumnText ColumnType = iota
	// ColumnInteger holds whole numbers only.
	ColumnInteger
	// ColumnFloat holds numbers with a fractional part.
	ColumnFloat
	// ColumnDate holds date or datetime literals.
	ColumnDate
)

// String returns the type name.
func (t ColumnType) String() string {
	switch t {
	case ColumnInteger:
		return "integer"
	case ColumnFloat:
		return "float"
	case ColumnDate:
		return "date"
	default:
		return "text"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ColumnType) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "integer":
		*t = ColumnInteger
	case "float":
		*t = ColumnFloat
	case "date":
		*t = ColumnDate
	default:
		*t = ColumnText
	}
	return nil
}

// Table is one independent data block detected inside a sheet.
type Table struct {
	// Name is unique within the workbook: the sheet name, or
	// "<sheet>_Table<n>" when the sheet holds several tables.
	Name string `json:"name"`
	// SheetName is the sheet owning the table.
	SheetName string `json:"sheet_name"`
	// Range is the bounding rectangle of the block.
	Range CellRange `json:"range"`
	// Ref is Range in A1 notation.
	Ref string `json:"ref"`
	// Headers holds one name per column.
	Headers []string `json:"headers"`
	// Rows holds data rows; each has exactly len(Headers) cells.
	Rows [][]Value `json:"rows"`
	// ColumnTypes holds one inferred type per column.
	ColumnTypes []ColumnType `json:"column_types"`
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Headers) }

// Column returns the values of column i.
func (t *Table) Column(i int) []Value {
	out := make([]Value, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[i])
	}
	return out
}

// DetectionResult is the outcome of running table detection over a workbook.
type DetectionResult struct {
	// BookName is the workbook file name (no path), if known.
	BookName string `json:"book_name,omitempty"`
	// Format is the sniffed container format ("xlsx" or "xls").
	Format string `json:"format"`
	// Tables lists detected tables in sheet order, then discovery order.
	Tables []Table `json:"tables"`
}

// TablesInSheet returns the tables detected in one sheet.
func (d *DetectionResult) TablesInSheet(sheet string) []Table {
	var out []Table
	for _, t := range d.Tables {
		if t.SheetName == sheet {
			out = append(out, t)
		}
	}
	return out
}
