package parser

import (
	"math"
	"regexp"
	"strings"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// datePatterns are the date literals recognized by column type inference:
// YYYY-MM-DD, MM/DD/YYYY or DD/MM/YYYY, and ISO datetimes.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?$`),
}

// IsDateLiteral reports whether v is a timestamp or text matching one of the
// recognized date patterns.
func IsDateLiteral(v models.Value) bool {
	switch v.Kind {
	case models.KindTimestamp:
		return true
	case models.KindText:
		s := strings.TrimSpace(v.Str)
		for _, re := range datePatterns {
			if re.MatchString(s) {
				return true
			}
		}
	}
	return false
}

// InferColumnType classifies a column from all of its non-null values.
// A column is numeric when at least threshold of its values are numbers
// (Integer when every numeric value is whole), a date column when at least
// threshold are date literals, and text otherwise.
func InferColumnType(values []models.Value, threshold float64) models.ColumnType {
	total, numeric, dates := 0, 0, 0
	whole := true
	for _, v := range values {
		if v.IsEmpty() {
			continue
		}
		total++
		if f, ok := v.Float(); ok {
			numeric++
			if f != math.Trunc(f) {
				whole = false
			}
			continue
		}
		if IsDateLiteral(v) {
			dates++
		}
	}
	if total == 0 {
		return models.ColumnText
	}

	if float64(numeric)/float64(total) >= threshold {
		if whole {
			return models.ColumnInteger
		}
		return models.ColumnFloat
	}
	if float64(dates)/float64(total) >= threshold {
		return models.ColumnDate
	}
	return models.ColumnText
}
