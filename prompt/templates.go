package prompt

import (
	"fmt"
	"strings"

	"tessa/model"
)

const (
	FIMPrefix = "<fim_prefix>"
	FIMSuffix = "<fim_suffix>"
	FIMMiddle = "<fim_middle>"
)

const (
	fimSystemPrompt    = "You are an AI that completes code. Given a prefix and a suffix, fill in the middle part. Output only the code to be inserted, with no explanation and no markdown fences."
	inlineSystemPrompt = "You are a helpful AI code assistant providing inline code completions. Complete the user's code. Provide only the completion text itself, without any prefix or explanation."
)

// Headers that open the two mutually exclusive context blocks.
const (
	SelectionHeader   = "Selected code:"
	SurroundingHeader = "Code around the cursor"
)

// paramsByKind holds the fixed generation parameters per request kind.
var paramsByKind = map[model.Kind]model.Params{
	model.KindChat:       {MaxTokens: 1024, Temperature: 0.7},
	model.KindExplain:    {MaxTokens: 1024, Temperature: 0.7},
	model.KindUpdateFile: {MaxTokens: 4096, Temperature: 0.2},
	model.KindFIM:        {MaxTokens: 150, Temperature: 0.5, Stop: []string{FIMPrefix, FIMSuffix, FIMMiddle}},
	model.KindInline:     {MaxTokens: 60, Temperature: 0.3, Stop: []string{"\n", "```"}},
}

// ParamsFor returns a copy of the generation parameters for kind.
func ParamsFor(kind model.Kind) model.Params {
	p := paramsByKind[kind]
	if p.Stop != nil {
		p.Stop = append([]string(nil), p.Stop...)
	}
	return p
}

func fence(lang, body string) string {
	return "```" + lang + "\n" + body + "\n```"
}

// FIMPayload joins prefix and suffix with the fill-in-the-middle sentinels.
func FIMPayload(prefix, suffix string) string {
	return FIMPrefix + prefix + FIMSuffix + suffix + FIMMiddle
}

func updateFileInstruction(ctx *model.EditorContext, instruction string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Given the following file content for \"%s\" and the user's request, provide the *entire new file content*.\n", ctx.FilePath)
	fmt.Fprintf(&sb, "User request: \"%s\"\n\n", instruction)
	sb.WriteString("Respond with the entire new file content only, without surrounding markdown fences unless the file itself is markdown.\n\n")
	sb.WriteString("Original content:\n")
	sb.WriteString(fence(ctx.LanguageID, ctx.FullText))
	return sb.String()
}

// ExplainText builds the request text for /explain. code is either the
// selection or the window around the cursor; question may be empty.
func ExplainText(ctx *model.EditorContext, code string, fromSelection bool, question string) string {
	var sb strings.Builder
	sb.WriteString("Explain the following")

	lang := ""
	if ctx != nil {
		lang = ctx.LanguageID
	}
	switch {
	case fromSelection && ctx.HasDocument():
		fmt.Fprintf(&sb, " code selection from \"%s\":\n", ctx.FilePath)
	case fromSelection:
		sb.WriteString(" code selection:\n")
	default:
		fmt.Fprintf(&sb, " code around line %d of \"%s\":\n", ctx.Cursor.Line+1, ctx.FilePath)
	}
	sb.WriteString(fence(lang, code))

	if question != "" {
		fmt.Fprintf(&sb, "\nUser's specific question about this context: \"%s\"", question)
	}
	return sb.String()
}
