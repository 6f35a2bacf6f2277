package sanitize

import (
	"strings"
	"time"
	"unicode"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// numericNameTokens mark fields whose missing value defaults to zero.
var numericNameTokens = map[string]bool{
	"id": true, "count": true, "score": true, "total": true, "amount": true,
	"number": true, "num": true, "qty": true, "quantity": true, "age": true,
	"rating": true, "price": true, "sum": true,
}

// DefaultValue synthesizes a value for a missing field. An explicit
// override, looked up by original name and then by sanitized name, wins
// over the name heuristics.
func DefaultValue(original, sanitized string, overrides map[string]models.Value, now time.Time) models.Value {
	if v, ok := overrides[original]; ok {
		return v
	}
	if v, ok := overrides[sanitized]; ok {
		return v
	}
	return guessDefault(original, now)
}

func guessDefault(name string, now time.Time) models.Value {
	lower := strings.ToLower(name)
	tokens := nameTokens(name)
	last := ""
	if len(tokens) > 0 {
		last = tokens[len(tokens)-1]
	}

	switch {
	case strings.Contains(lower, "date") || strings.Contains(lower, "time") || last == "at":
		return models.Timestamp(now)
	case strings.Contains(lower, "email") || strings.Contains(lower, "e-mail"):
		return models.Text("N/A")
	case strings.Contains(lower, "name") || strings.Contains(lower, "title"):
		return models.Text("Unknown")
	case hasAny(tokens, numericNameTokens):
		return models.Number(0)
	case strings.Contains(lower, "status"):
		return models.Text("Unknown")
	case strings.Contains(lower, "desc") || strings.Contains(lower, "note") || strings.Contains(lower, "comment"):
		return models.Text("")
	}
	return models.Text("")
}

// nameTokens splits a field name into lower-case words on separators and
// camelCase boundaries: "createdAt" -> [created at], "user_ID" -> [user id].
func nameTokens(name string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return tokens
}

func hasAny(tokens []string, set map[string]bool) bool {
	for _, t := range tokens {
		if set[t] {
			return true
		}
	}
	return false
}
