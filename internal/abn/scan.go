// Package abn finds Australian Business Numbers in free text.
package abn

import (
	"regexp"
	"strings"
)

// Length is the number of digits in an ABN.
const Length = 11

// abnPattern matches eleven digits, each optionally followed by one whitespace character
// or one hyphen. Whitespace covers ASCII space and control whitespace including \v, every
// Unicode separator (NBSP, line and paragraph separators) and the U+FEFF byte order mark.
// The word boundaries keep longer digit runs from yielding an eleven digit slice.
var abnPattern = regexp.MustCompile(`\b(?:\d[\s\v\p{Z}\x{FEFF}-]?){11}\b`)

// Scan returns the first ABN-shaped sequence in text with separators removed.
// The second result is false when text contains no candidate. No checksum is applied.
func Scan(text string) (string, bool) {
	match := abnPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return Normalize(match), true
}

// Candidates returns every ABN-shaped sequence in document order, normalized.
func Candidates(text string) []string {
	matches := abnPattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, Normalize(m))
	}
	return out
}

// Normalize strips every non-digit character.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Scanner adapts Scan to an interface for callers that inject it.
type Scanner struct{}

// Scan implements the identifier scanner contract.
func (Scanner) Scan(text string) (string, bool) {
	return Scan(text)
}
