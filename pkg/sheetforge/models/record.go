package models

// Record is one logical input row: a mapping of field name to an arbitrary
// scalar or composite value. The field set may vary between records.
type Record map[string]interface{}

// Dataset is a sanitized, aligned record set: every row holds exactly one
// value per field, in field order.
type Dataset struct {
	// Fields holds sanitized field names in column order.
	Fields []string
	// Rows holds one value slice per record.
	Rows [][]Value
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// FieldIndex returns the column index of a field, or -1.
func (d *Dataset) FieldIndex(name string) int {
	for i, f := range d.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Record returns row i as a field-keyed map.
func (d *Dataset) Record(i int) map[string]Value {
	out := make(map[string]Value, len(d.Fields))
	for j, f := range d.Fields {
		out[f] = d.Rows[i][j]
	}
	return out
}
