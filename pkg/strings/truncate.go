package strings

import (
	"strings"
)

// DefaultSnippetLen is the default length of response excerpts quoted in
// error messages.
const DefaultSnippetLen = 512

// MinTruncateLen is the minimum maxLen value for Snippet.
// Values smaller than this would not leave room for meaningful content plus "...".
const MinTruncateLen = 4

// Snippet collapses s to a single line and cuts it to maxLen runes, ending
// a cut string with "...". maxLen is clamped to MinTruncateLen.
func Snippet(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// FirstLines returns the first n lines of s, without the trailing newline.
func FirstLines(s string, n int) string {
	if n < 1 {
		return ""
	}
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
