// Package normalize derives canonical comparison keys from display titles.
//
// The key is what the catalog deduplicates on: "Fast & Furious!!" and
// "fast and furious" must collapse to the same key so a retyped title
// resolves to the existing entry instead of a duplicate row.
package normalize

import "strings"

// Key converts a display title into its canonical comparison key.
// It lowercases, folds "&" to "and", collapses every run of
// non-alphanumeric characters to a single space, and trims the result.
// Deterministic and side-effect-free.
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", "and")

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if isAlnum(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// Words splits a title's canonical key into its component words,
// used for order-independent AND matching in suggestions.
func Words(s string) []string {
	key := Key(s)
	if key == "" {
		return nil
	}
	return strings.Fields(key)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
