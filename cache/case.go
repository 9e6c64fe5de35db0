package cache

import (
	"strings"
	"unicode"
)

// toSnake normalizes a configured key prefix to snake_case. Prefixes are
// caller input and may arrive with dashes, spaces, camelCase humps or stray
// punctuation; keys derived from them must stay stable across processes and
// must never contain the key separator, so every run of non-alphanumeric
// runes collapses into a single underscore.
func toSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	pendingBreak := false
	var prev rune

	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				pendingBreak = true
			}
			if pendingBreak && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingBreak = false
			b.WriteRune(unicode.ToLower(r))

		case unicode.IsLower(r) || unicode.IsDigit(r):
			if pendingBreak && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingBreak = false
			b.WriteRune(r)

		default:
			pendingBreak = true
		}
		prev = r
	}

	return b.String()
}
