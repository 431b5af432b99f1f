package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tessa/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0640); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenDocument(t *testing.T) {
	path := writeFile(t, "main.go", "package main\n")

	doc, err := OpenDocument(path, 3, 5)
	if err != nil {
		t.Fatal(err)
	}
	if doc.LanguageID != "go" {
		t.Errorf("LanguageID = %q", doc.LanguageID)
	}
	if doc.Cursor != (model.Position{Line: 2, Character: 4}) {
		t.Errorf("Cursor = %+v", doc.Cursor)
	}

	if doc, err := OpenDocument(writeFile(t, "notes.xyz", ""), 0, 0); err != nil || doc.LanguageID != "plaintext" || doc.Cursor != (model.Position{}) {
		t.Errorf("OpenDocument(notes.xyz) = %+v, %v", doc, err)
	}
	if _, err := OpenDocument(filepath.Join(t.TempDir(), "missing.go"), 1, 1); err == nil {
		t.Error("missing file opened")
	}
	if _, err := OpenDocument(t.TempDir(), 1, 1); err == nil {
		t.Error("directory opened")
	}
}

func TestDocumentContextReadsDisk(t *testing.T) {
	path := writeFile(t, "a.py", "x = 1\n")
	doc, err := OpenDocument(path, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("x = 2\n"), 0640); err != nil {
		t.Fatal(err)
	}
	ctx, err := doc.Context()
	if err != nil {
		t.Fatal(err)
	}
	if ctx.FullText != "x = 2\n" || ctx.FilePath != doc.Path || ctx.LanguageID != "python" {
		t.Errorf("Context() = %+v", ctx)
	}

	var none *Document
	if ctx, err := none.Context(); ctx != nil || err != nil {
		t.Errorf("nil document Context() = %+v, %v", ctx, err)
	}
}

func TestDocumentInsert(t *testing.T) {
	path := writeFile(t, "add.go", "func add(a, b int) int {\n\t\n}\n")
	doc, err := OpenDocument(path, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	ins := model.Insertion{FilePath: doc.Path, Position: doc.Cursor, Text: "return a + b"}
	if err := doc.Insert(ins); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "func add(a, b int) int {\n\treturn a + b\n}\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0640 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}

	ins.FilePath = "/elsewhere.go"
	if err := doc.Insert(ins); err == nil || !strings.Contains(err.Error(), "elsewhere") {
		t.Errorf("Insert(other path) = %v", err)
	}
}
