package chunk

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// CleanValue prepares a coerced value for writing. Text loses characters
// that are illegal in XML; NaN, infinities and text longer than the cell
// limit are rejected. CleanValue(CleanValue(v)) == CleanValue(v).
func CleanValue(v models.Value) (models.Value, error) {
	switch v.Kind {
	case models.KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return v, fmt.Errorf("non-finite number %v", v.Num)
		}
	case models.KindText:
		s := stripIllegalXML(v.Str)
		if n := utf8.RuneCountInString(s); n > models.MaxCellText {
			return v, fmt.Errorf("text of %d characters exceeds the %d character cell limit", n, models.MaxCellText)
		}
		if s != v.Str {
			return models.Text(s), nil
		}
	}
	return v, nil
}

// stripIllegalXML removes runes that XML 1.0 cannot carry. Tab, newline and
// carriage return are kept.
func stripIllegalXML(s string) string {
	if strings.IndexFunc(s, illegalXMLRune) < 0 && utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == utf8.RuneError || illegalXMLRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func illegalXMLRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0xD800 && r <= 0xDFFF:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	}
	return false
}
