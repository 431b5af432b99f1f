package render

import (
	"regexp"
	"strings"

	termmd "github.com/MichaelMure/go-term-markdown"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

const codeGutter = "┃"

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const (
	ansiRed      = "\x1b[31m"
	ansiDarkGray = "\x1b[90m"
	ansiReset    = "\x1b[0m"
)

// Terminal renders markdown as ANSI text wrapped to width columns.
func Terminal(md string, width int) string {
	if width < 20 {
		width = 20
	}

	// Links become bare URLs so the terminal can make them clickable.
	md = mdLinkRegex.ReplaceAllString(md, "$2")

	ext := termmd.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := termmd.NewRenderer(width-4, 0)
	out := string(markdown.Render(p.Parse([]byte(md)), r))

	out = inlineCodeRegex.ReplaceAllString(out, ansiRed+"$1"+ansiReset)
	out = colorURLs(out)
	return frameCode(out, width)
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeGutter) {
			lines[i] = urlRegex.ReplaceAllString(line, ansiRed+"$1"+ansiReset)
		}
	}
	return strings.Join(lines, "\n")
}

// frameCode replaces the renderer's code gutter with horizontal rules above
// and below each block, so copied code has no prefix.
func frameCode(s string, width int) string {
	var out []string
	inBlock := false
	rule := ansiDarkGray + strings.Repeat("━", width-4) + ansiReset

	closeBlock := func() {
		out = append(out, "", rule, "")
		inBlock = false
	}

	for _, line := range strings.Split(s, "\n") {
		idx := strings.Index(line, codeGutter)
		if idx < 0 {
			if inBlock {
				closeBlock()
			}
			out = append(out, line)
			continue
		}

		if !inBlock {
			inBlock = true
			out = append(out, "", codeRule(width), "")
		}
		code := line[idx+len(codeGutter):]
		out = append(out, strings.TrimPrefix(code, " "))
	}
	if inBlock {
		closeBlock()
	}
	return strings.Join(out, "\n")
}

func codeRule(width int) string {
	label := "[code]"
	n := width - 4 - len(label)
	if n < 2 {
		n = 2
	}
	left := n / 2
	return ansiDarkGray + strings.Repeat("━", left) + ansiReset + label +
		ansiDarkGray + strings.Repeat("━", n-left) + ansiReset
}
