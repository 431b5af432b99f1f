package model

import "testing"

func TestOffsetAt(t *testing.T) {
	text := "abc\nhé llo\nz"

	tests := []struct {
		name string
		pos  Position
		want int
	}{
		{"start", Position{0, 0}, 0},
		{"first line middle", Position{0, 2}, 2},
		{"second line start", Position{1, 0}, 4},
		{"counts runes", Position{1, 2}, 7},
		{"clamps character", Position{1, 99}, 11},
		{"negative character", Position{1, -3}, 4},
		{"last line", Position{2, 1}, 13},
		{"clamps line", Position{9, 0}, len(text)},
		{"negative line", Position{-1, 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OffsetAt(text, tt.pos); got != tt.want {
				t.Errorf("OffsetAt(%+v) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	ctx := &EditorContext{FilePath: "/a.go", FullText: "foo(bar)", Cursor: Position{0, 4}}
	before, after := ctx.Split()
	if before != "foo(" || after != "bar)" {
		t.Errorf("Split() = %q, %q", before, after)
	}

	var none *EditorContext
	if b, a := none.Split(); b != "" || a != "" || none.HasDocument() || none.HasSelection() {
		t.Error("nil context not empty")
	}
}
