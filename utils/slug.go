package utils

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe identifier from a person's name. Letters and
// digits are kept (lowercased), everything else collapses into single
// hyphens. The result is stable for a given name.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
