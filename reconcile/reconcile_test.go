package reconcile

import (
	"errors"
	"testing"

	"tessa/model"
	"tessa/provider/testutil"
)

func TestExtractFileContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare fence single line", "```function bar(){}```", "function bar(){}"},
		{"language tag", "```go\npackage main\n```", "package main"},
		{"language with symbols", "```c++\nint x;\n```", "int x;"},
		{"surrounding whitespace", "\n  ```js\nlet a = 1;\nlet b = 2;\n```\n\n", "let a = 1;\nlet b = 2;"},
		{"tag followed by spaces", "```python  \nprint(1)\n```", "print(1)"},
		{"no fence", "function bar(){}", "function bar(){}"},
		{"prose before fence", "Here you go:\n```js\nx\n```", "Here you go:\n```js\nx\n```"},
		{"prose after fence", "```js\nx\n```\nDone.", "```js\nx\n```\nDone."},
		{"two fences", "```js\na\n```\n\n```js\nb\n```", "```js\na\n```\n\n```js\nb\n```"},
		{"unterminated", "```js\nx", "```js\nx"},
		{"empty", "", ""},
		{"inline backticks kept", "```md\nuse `x` here\n```", "use `x` here"},
		{"crlf with tag", "```go\r\nfunc main() {}\r\n```", "func main() {}"},
		{"crlf multi line", "```js\r\na();\r\nb();\r\n```\r\n", "a();\r\nb();"},
		{"fence after carriage return", "```\r```y``````", "```\r```y``````"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFileContent(tt.in); got != tt.want {
				t.Errorf("ExtractFileContent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractFileContentIdempotent(t *testing.T) {
	inputs := []string{
		"```function bar(){}```",
		"```go\npackage main\n```",
		"``````",
		"```\n```\n```",
		"```md\n```go\nx\n```\n```",
		"plain text",
		"```js\na\n```\n```js\nb\n```",
		"   ```\n\n\n```   ",
		"```go\r\nfunc main() {}\r\n```",
		"```\r```y``````",
		"```\f```y``````",
	}

	for _, in := range inputs {
		once := ExtractFileContent(in)
		if twice := ExtractFileContent(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestInterpretUpdateFile(t *testing.T) {
	ctx := &model.EditorContext{FilePath: "/work/app.js", FullText: "function foo(){}"}

	resp := Interpret(model.UpdateFile{Instruction: "rename foo to bar"}, "```function bar(){}```", ctx)
	if resp.FileUpdate == nil {
		t.Fatalf("expected a proposal, got %+v", resp)
	}
	want := model.FileUpdateProposal{
		FilePath:        "/work/app.js",
		OriginalContent: "function foo(){}",
		ProposedContent: "function bar(){}",
	}
	if *resp.FileUpdate != want {
		t.Errorf("proposal = %+v, want %+v", *resp.FileUpdate, want)
	}
	if resp.Text != "" || resp.Err != nil || resp.Insertion != nil {
		t.Error("more than one response field set")
	}
}

func TestInterpretUpdateFileEmpty(t *testing.T) {
	resp := Interpret(model.UpdateFile{}, "```\n   \n```", testutil.GoFile())
	var empty *model.EmptyResponseError
	if !errors.As(resp.Err, &empty) || empty.Kind != model.KindUpdateFile {
		t.Fatalf("expected EmptyResponseError, got %+v", resp)
	}
}

func TestInterpretFIM(t *testing.T) {
	ctx := testutil.GoFile()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "sum := a + b\n\t", "sum := a + b\n\t"},
		{"echoed sentinel", "a * b<fim_middle>", "a * b"},
		{"fenced", "```go\na - b\n```", "a - b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Interpret(model.FillInMiddle{}, tt.raw, ctx)
			if resp.Insertion == nil {
				t.Fatalf("expected insertion, got %+v", resp)
			}
			if resp.Insertion.Text != tt.want {
				t.Errorf("Text = %q, want %q", resp.Insertion.Text, tt.want)
			}
			if resp.Insertion.Position != ctx.Cursor || resp.Insertion.FilePath != ctx.FilePath {
				t.Errorf("wrong target %+v", resp.Insertion)
			}
		})
	}
}

func TestInterpretPlainText(t *testing.T) {
	raw := "```go\nfmt.Println()\n```"
	resp := Interpret(model.PlainChat{Prompt: "hi"}, raw, nil)
	if resp.Text != raw {
		t.Errorf("chat text altered: %q", resp.Text)
	}
}
