// Package slug generates URL-safe slugs from human-readable names.
package slug

import (
	"strings"
	"unicode"
)

// Make lowercases the name and replaces every run of non-alphanumeric
// characters with a single hyphen. Leading and trailing hyphens are trimmed.
func Make(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
