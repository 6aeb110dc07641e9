package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey converts any string into the canonical feature key form:
// uppercase ASCII letters, digits and single hyphens, with no leading or
// trailing hyphen. Diacritics are stripped via NFD decomposition and every
// maximal run of other characters collapses to one hyphen.
//
// The function is total (never fails, even for empty or pure-punctuation
// input) and idempotent: NormalizeKey(NormalizeKey(s)) == NormalizeKey(s).
func NormalizeKey(value string) string {
	sanitized := stripDiacritics(value)

	var b strings.Builder
	b.Grow(len(sanitized))

	pendingHyphen := false
	for _, r := range sanitized {
		if isAlphanumeric(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// stripDiacritics removes combining marks after NFD decomposition, so that
// "Gestão" becomes "Gestao". A fresh transformer is built per call because
// transformers carry internal state and are not safe for concurrent reuse.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		// Normalization must stay total; fall back to the raw input and let
		// the hyphen-collapse pass discard anything non-alphanumeric.
		return s
	}
	return out
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
