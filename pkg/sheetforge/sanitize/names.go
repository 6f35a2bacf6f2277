// Package sanitize aligns heterogeneous records into a header-safe,
// rectangular dataset.
package sanitize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ellipsis marks a truncated field name.
const ellipsis = "..."

// illegalHeaderRunes are replaced with an underscore in field names.
const illegalHeaderRunes = "\n\r\t/\\[]?*:|"

// fieldNameSpace seeds synthetic names so that the same blank input always
// maps to the same name.
var fieldNameSpace = uuid.MustParse("6f1e2c4a-7b3d-4f5e-9a8b-0c1d2e3f4a5b")

// SanitizeFieldName rewrites name into a spreadsheet-safe header of at most
// maxLen runes. The result is stable: SanitizeFieldName of a sanitized name
// returns it unchanged.
func SanitizeFieldName(name string, maxLen int) string {
	if maxLen <= len(ellipsis) {
		maxLen = 100
	}
	s := norm.NFC.String(name)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalHeaderRunes, r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	if s == "" {
		id := uuid.NewSHA1(fieldNameSpace, []byte(name))
		s = "field_" + strings.ReplaceAll(id.String(), "-", "")[:8]
	} else if r, _ := utf8.DecodeRuneInString(s); unicode.IsDigit(r) {
		s = "field_" + s
	}

	if utf8.RuneCountInString(s) > maxLen {
		s = truncateRunes(s, maxLen-len(ellipsis)) + ellipsis
	}
	return s
}

// truncateRunes returns at most n leading runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// uniqueName returns base, or base with the smallest numeric suffix ("_2",
// "_3", ...) not yet in used, truncated so that it fits maxLen runes.
func uniqueName(base string, used map[string]bool, maxLen int) string {
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate := base
		if maxLen > 0 && utf8.RuneCountInString(base)+len(suffix) > maxLen {
			candidate = truncateRunes(base, maxLen-len(suffix))
		}
		candidate += suffix
		if !used[candidate] {
			return candidate
		}
	}
}
