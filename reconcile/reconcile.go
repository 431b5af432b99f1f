// Package reconcile turns raw model text into a typed response.
package reconcile

import (
	"regexp"
	"strings"

	"tessa/config"
	"tessa/model"
	"tessa/prompt"
)

// wholeFence matches a response that is exactly one fenced block surrounded
// by nothing but whitespace. A language tag only counts as one when it ends
// the opening line, so "```function f(){}```" keeps its first word.
var wholeFence = regexp.MustCompile("(?s)^\\s*```(?:[\\w+#.-]*[ \\t]*\\r?\\n)?(.*?)\\r?\\n?```\\s*$")

// innerFence finds a fence line inside an unwrapped body, with the same
// notion of leading whitespace as wholeFence.
var innerFence = regexp.MustCompile("(?m)^\\s*```")

// ExtractFileContent strips a fence that spans the whole response and
// returns its interior verbatim. Anything else, including responses with
// several fences or prose around the block, is returned unchanged.
func ExtractFileContent(raw string) string {
	m := wholeFence.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	body := m[1]
	if wholeFence.MatchString(body) || innerFence.MatchString(body) {
		return raw
	}
	return body
}

// Interpret shapes the model output for intent into a response. ctx must be
// the snapshot the request was built from.
func Interpret(intent model.Intent, raw string, ctx *model.EditorContext) model.Response {
	switch intent.(type) {
	case model.UpdateFile:
		proposed := ExtractFileContent(raw)
		if strings.TrimSpace(proposed) == "" {
			return model.ErrorResponse(&model.EmptyResponseError{Kind: model.KindUpdateFile})
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Reconcile] update proposal for %s: %d -> %d bytes", ctx.FilePath, len(ctx.FullText), len(proposed))
		}
		return model.Response{FileUpdate: &model.FileUpdateProposal{
			FilePath:        ctx.FilePath,
			OriginalContent: ctx.FullText,
			ProposedContent: proposed,
		}}

	case model.FillInMiddle:
		text := CleanInsertion(raw)
		if text == "" {
			return model.ErrorResponse(&model.EmptyResponseError{Kind: model.KindFIM})
		}
		return model.Response{Insertion: &model.Insertion{
			FilePath: ctx.FilePath,
			Position: ctx.Cursor,
			Text:     text,
		}}
	}

	return model.TextResponse(raw)
}

// CleanInsertion removes echoed sentinels and a wrapping fence from a
// fill-in-the-middle answer.
func CleanInsertion(raw string) string {
	text := raw
	for _, s := range []string{prompt.FIMPrefix, prompt.FIMSuffix, prompt.FIMMiddle} {
		text = strings.ReplaceAll(text, s, "")
	}
	text = ExtractFileContent(text)
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}
