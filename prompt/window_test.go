package prompt

import (
	"strings"
	"testing"
)

func TestTailHead(t *testing.T) {
	tests := []struct {
		s        string
		n        int
		wantTail string
		wantHead string
	}{
		{"hello", 3, "llo", "hel"},
		{"hello", 10, "hello", "hello"},
		{"hello", 0, "", ""},
		{"héllo wörld", 5, "wörld", "héllo"},
		{"", 4, "", ""},
	}

	for _, tt := range tests {
		if got := Tail(tt.s, tt.n); got != tt.wantTail {
			t.Errorf("Tail(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.wantTail)
		}
		if got := Head(tt.s, tt.n); got != tt.wantHead {
			t.Errorf("Head(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.wantHead)
		}
	}
}

func TestWindow(t *testing.T) {
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, "line")
	}
	text := strings.Join(lines, "\n")
	offset := len(text) / 2

	t.Run("line budget", func(t *testing.T) {
		before, after := Window(text, offset, 3, 10000)
		if n := strings.Count(before, "\n"); n != 2 {
			t.Errorf("before has %d newlines, want 2", n)
		}
		if n := strings.Count(after, "\n"); n != 2 {
			t.Errorf("after has %d newlines, want 2", n)
		}
	})

	t.Run("char budget applied independently", func(t *testing.T) {
		before, after := Window(text, offset, 1000, 7)
		if len(before) != 7 || len(after) != 7 {
			t.Errorf("got %d/%d chars, want 7/7", len(before), len(after))
		}
		if !strings.HasSuffix(text[:offset], before) || !strings.HasPrefix(text[offset:], after) {
			t.Error("window is not adjacent to the cursor")
		}
	})

	t.Run("offset clamped", func(t *testing.T) {
		before, after := Window("abc", 99, 5, 5)
		if before != "abc" || after != "" {
			t.Errorf("got %q/%q", before, after)
		}
	})
}
