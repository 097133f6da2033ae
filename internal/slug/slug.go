// Package slug derives canonical, URL-safe identifiers from display names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, strips diacritics, collapses every run of characters
// outside [a-z0-9] into a single hyphen and trims hyphens at both ends.
// "Limpia Pisós" => "limpia-pisos". The result may be empty.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	folded := strings.ToLower(s)
	// A fresh chain per call: transform.Chain keeps internal state.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, folded)
	if err != nil {
		stripped = folded
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSep := false
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Valid reports whether s is already in canonical form and non-empty.
func Valid(s string) bool {
	return s != "" && Normalize(s) == s
}
