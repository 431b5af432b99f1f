package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tessa/model"
)

var languageIDs = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascriptreact",
	".ts":   "typescript",
	".tsx":  "typescriptreact",
	".rs":   "rust",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".rb":   "ruby",
	".php":  "php",
	".sh":   "shellscript",
	".md":   "markdown",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".html": "html",
	".css":  "css",
	".sql":  "sql",
}

// Document is the file the terminal front end works on. Its text is read
// from disk for every snapshot so updates applied behind its back are
// always seen.
type Document struct {
	Path       string
	LanguageID string
	Cursor     model.Position
}

// OpenDocument opens path with the cursor at a one-based line and column.
func OpenDocument(path string, line, col int) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	lang, ok := languageIDs[strings.ToLower(filepath.Ext(abs))]
	if !ok {
		lang = "plaintext"
	}
	return &Document{
		Path:       abs,
		LanguageID: lang,
		Cursor:     model.Position{Line: max(line-1, 0), Character: max(col-1, 0)},
	}, nil
}

// Context snapshots the document. A nil Document has no context.
func (d *Document) Context() (*model.EditorContext, error) {
	if d == nil {
		return nil, nil
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", d.Path, err)
	}
	return &model.EditorContext{
		FilePath:   d.Path,
		FullText:   string(data),
		LanguageID: d.LanguageID,
		Cursor:     d.Cursor,
	}, nil
}

// Insert writes ins.Text into the file at ins.Position.
func (d *Document) Insert(ins model.Insertion) error {
	if d == nil {
		return fmt.Errorf("no document is open")
	}
	if ins.FilePath != d.Path {
		return fmt.Errorf("insertion targets %s but %s is open", ins.FilePath, d.Path)
	}

	info, err := os.Stat(d.Path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", d.Path, err)
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", d.Path, err)
	}

	text := string(data)
	off := model.OffsetAt(text, ins.Position)
	updated := text[:off] + ins.Text + text[off:]
	if err := os.WriteFile(d.Path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.Path, err)
	}
	return nil
}
