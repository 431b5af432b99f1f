package prompt

import (
	"strings"
	"unicode/utf8"
)

// Tail returns the last n runes of s.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := len(s)
	for count := 0; count < n; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}

// Head returns the first n runes of s.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Window cuts the source around offset: at most lines lines and chars
// characters on each side, budgets applied independently before and after.
// The line containing the cursor counts as one line on each side.
func Window(text string, offset, lines, chars int) (before, after string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	before, after = text[:offset], text[offset:]

	if lines > 0 {
		if parts := strings.Split(before, "\n"); len(parts) > lines {
			before = strings.Join(parts[len(parts)-lines:], "\n")
		}
		if parts := strings.SplitN(after, "\n", lines+1); len(parts) > lines {
			after = strings.Join(parts[:lines], "\n")
		}
	}
	return Tail(before, chars), Head(after, chars)
}
