// Package models defines data structures shared by table detection and
// workbook generation.
package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Kind identifies which member of the Value union is set.
type Kind int

const (
	// KindNull is an empty cell or a missing value.
	KindNull Kind = iota
	// KindText is a string value.
	KindText
	// KindNumber is a float64 value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindTimestamp is a date or datetime value.
	KindTimestamp
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	default:
		return "null"
	}
}

// TimestampLayout is the textual form used when a timestamp is rendered.
const TimestampLayout = "2006-01-02 15:04:05"

// Value is a single cell value.
type Value struct {
	// Kind selects the populated field.
	Kind Kind
	// Str holds the text for KindText.
	Str string
	// Num holds the number for KindNumber.
	Num float64
	// Flag holds the boolean for KindBool.
	Flag bool
	// Time holds the instant for KindTimestamp.
	Time time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Flag: b} }

// Timestamp returns a timestamp value.
func Timestamp(t time.Time) Value { return Value{Kind: KindTimestamp, Time: t} }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsEmpty reports whether v is null or whitespace-only text.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindText:
		return strings.TrimSpace(v.Str) == ""
	}
	return false
}

// Float returns the numeric view of v. Text is parsed; ok is false when v
// is not numeric.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// IsNumeric reports whether v is a number or text holding a number.
func (v Value) IsNumeric() bool {
	_, ok := v.Float()
	return ok
}

// String renders v the way it would appear in a cell.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		if v.Flag {
			return "TRUE"
		}
		return "FALSE"
	case KindTimestamp:
		return v.Time.Format(TimestampLayout)
	}
	return ""
}

// Interface returns the Go value handed to spreadsheet writers.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Flag
	case KindTimestamp:
		return v.Time
	}
	return nil
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Str == o.Str
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Flag == o.Flag
	case KindTimestamp:
		return v.Time.Equal(o.Time)
	}
	return true
}

// MarshalJSON encodes v as its natural JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindTimestamp {
		return json.Marshal(v.Time.Format(time.RFC3339))
	}
	return json.Marshal(v.Interface())
}
