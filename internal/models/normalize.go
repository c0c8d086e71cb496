package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameTransformer strips diacritics so "Café" and "Cafe" normalize to
// the same show. Case folding is applied separately via cases.Fold.
var nameTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeShowName collapses casing, punctuation and whitespace
// differences so that "The.Office (US)" and "the office us" map to the
// same natural key.
func NormalizeShowName(name string) string {
	folded := cases.Fold().String(name)
	stripped, _, err := transform.String(nameTransformer, folded)
	if err != nil {
		stripped = folded
	}

	var b strings.Builder
	b.Grow(len(stripped))
	lastSpace := true
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			// Punctuation and whitespace all act as a single separator.
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
