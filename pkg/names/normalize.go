// CLAUDE:SUMMARY Text normalization (lowercase + strip accents) and Spanish title-casing for name keys.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes combining marks (e.g. "José" -> "Jose").
func StripAccents(s string) string {
	result, _, _ := transform.String(stripAccents, s)
	return result
}

// Normalize lowercases and strips accents. Every key in the index and every
// classification lookup goes through this, so "María" and "maria" collapse
// to the same entry.
func Normalize(s string) string {
	return StripAccents(strings.ToLower(s))
}

// FirstToken returns the normalized first word of a full name. The first
// token is what carries the gender signal for Argentine given names.
func FirstToken(fullName string) string {
	fields := strings.Fields(Normalize(fullName))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var titleCaser = cases.Title(language.Spanish)

// TitleCase renders a normalized name for display ("juan carlos" -> "Juan Carlos").
func TitleCase(s string) string {
	return titleCaser.String(s)
}
