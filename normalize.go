package vigie

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes to NFD and drops combining marks, so that
// "Chênehutte" and "Chenehutte" compare equal. Source documents are
// French and inconsistently accented.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey canonicalizes a natural-key component: trimmed, lowercased,
// diacritics folded, inner whitespace collapsed to single spaces. Used for
// client (nom, adresse) matching during import; stored values are untouched.
func NormalizeKey(s string) string {
	folded, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw value.
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// EqualKeys reports whether two natural-key components match after
// normalization.
func EqualKeys(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}
