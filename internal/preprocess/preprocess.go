// Package preprocess turns raw assembly source lines into compact instruction strings.
package preprocess

import (
	"strings"
	"unicode"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = "//"

// Line strips comments and all whitespace from a raw source line.
// It returns false if nothing remains, which is the case for blank and
// comment-only lines.
func Line(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, CommentMarker) {
		return "", false
	}

	// removing whitespace can join two slashes into a new marker, keep
	// truncating until the result is stable.
	for {
		before, _, _ := strings.Cut(s, CommentMarker)
		s = stripWhitespace(before)
		if !strings.Contains(s, CommentMarker) {
			break
		}
	}

	if s == "" {
		return "", false
	}
	return s, true
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
