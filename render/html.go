// Package render converts model markdown for display. HTML output is always
// passed through an allow-list sanitizer before it reaches a view.
package render

import (
	"regexp"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitizer allows user-generated-content markup plus language classes on
// code blocks, which the chat view uses for highlighting.
func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#.-]+$`)).OnElements("code")
		p.RequireNoFollowOnLinks(true)
		policy = p
	})
	return policy
}

// HTML renders markdown to sanitized HTML.
func HTML(md string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)

	opts := html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank}
	r := html.NewRenderer(opts)

	unsafe := markdown.ToHTML([]byte(md), p, r)
	return string(sanitizer().SanitizeBytes(unsafe))
}

// Sanitize applies the same allow-list to markup produced elsewhere.
func Sanitize(markup string) string {
	return sanitizer().Sanitize(markup)
}
