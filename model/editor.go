package model

import "strings"

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Selection struct {
	Text      string `json:"text"`
	StartLine int    `json:"startLine"`
	StartChar int    `json:"startChar"`
	EndLine   int    `json:"endLine"`
	EndChar   int    `json:"endChar"`
}

type Surrounding struct {
	Before string `json:"beforeCursor"`
	After  string `json:"afterCursor"`
}

// EditorContext is a snapshot of the editor taken when a request is made.
// It is passed by value so later edits never leak into an in-flight request.
// Lines and characters are zero-based.
type EditorContext struct {
	FilePath    string       `json:"filePath"`
	FullText    string       `json:"fullText"`
	LanguageID  string       `json:"languageId"`
	Selection   Selection    `json:"selection"`
	Cursor      Position     `json:"cursor"`
	Surrounding *Surrounding `json:"surroundingCode,omitempty"`
}

func (c *EditorContext) HasDocument() bool {
	return c != nil && c.FilePath != ""
}

func (c *EditorContext) HasSelection() bool {
	return c != nil && c.Selection.Text != ""
}

// CursorOffset converts the cursor position into a byte offset in FullText,
// clamping out-of-range lines and characters. Characters count runes.
func (c *EditorContext) CursorOffset() int {
	if c == nil {
		return 0
	}
	return OffsetAt(c.FullText, c.Cursor)
}

func OffsetAt(text string, pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	offset := 0
	for line := 0; line < pos.Line; line++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return len(text)
		}
		offset += nl + 1
	}

	lineEnd := strings.IndexByte(text[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - offset
	}
	lineText := text[offset : offset+lineEnd]
	if pos.Character <= 0 {
		return offset
	}

	chars := 0
	for i := range lineText {
		if chars == pos.Character {
			return offset + i
		}
		chars++
	}
	return offset + len(lineText)
}

// Split returns the text before and after the cursor.
func (c *EditorContext) Split() (before, after string) {
	if c == nil {
		return "", ""
	}
	off := c.CursorOffset()
	return c.FullText[:off], c.FullText[off:]
}
