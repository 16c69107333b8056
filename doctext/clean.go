package doctext

import (
	"regexp"
	"strings"
)

var wsRun = regexp.MustCompile(`\s+`)

// Normalize canonicalizes text for anchoring: zero-width characters are
// dropped and whitespace runs collapse to single spaces. Quotes recorded
// against a normalized document keep matching after re-encoding or
// whitespace drift upstream.
func Normalize(text string) string {
	text = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff', '\u00ad':
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(wsRun.ReplaceAllString(text, " "))
}
