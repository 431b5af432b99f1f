// Package command classifies raw chat input into intents.
//
// Input is a command when its trimmed text starts with one of the known
// command names, ignoring case. Whatever follows the name is the argument
// text. Anything else, including text that merely contains a slash, is sent
// as plain chat with the input left untouched.
package command

import (
	"strings"

	"tessa/config"
	"tessa/model"
	"tessa/prompt"
)

const (
	FIM        = "/fim"
	Explain    = "/explain"
	UpdateFile = "/update_file"
)

// Router needs the prompt builder to cut the explain window around the
// cursor with the configured budgets.
type Router struct {
	builder *prompt.Builder
}

func NewRouter(builder *prompt.Builder) *Router {
	return &Router{builder: builder}
}

// Classify turns one utterance and the editor snapshot into an intent. It
// never performs I/O. Commands that lack the context they need come back as
// a model.Notice.
func (r *Router) Classify(raw string, ctx *model.EditorContext) model.Intent {
	name, args, ok := Split(raw)
	if !ok {
		return model.PlainChat{Prompt: raw}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Command] classified %s (args=%d chars)", name, len(args))
	}

	switch name {
	case FIM:
		if !ctx.HasDocument() {
			return model.Notice{Severity: model.SeverityError, Command: FIM, Text: "Please open a file editor to use /fim."}
		}
		return model.FillInMiddle{}

	case Explain:
		return r.explain(raw, args, ctx)

	case UpdateFile:
		if !ctx.HasDocument() {
			return model.Notice{Severity: model.SeverityInfo, Command: UpdateFile, Text: "To use `/update_file`, please have a file open in the editor."}
		}
		return model.UpdateFile{Instruction: args}
	}

	return model.PlainChat{Prompt: raw}
}

func (r *Router) explain(raw, question string, ctx *model.EditorContext) model.Intent {
	switch {
	case ctx.HasSelection():
		return model.Explain{
			Prompt:      raw,
			ContextText: prompt.ExplainText(ctx, ctx.Selection.Text, true, question),
		}
	case ctx.HasDocument():
		before, after := r.builder.Surrounding(ctx)
		return model.Explain{
			Prompt:      raw,
			ContextText: prompt.ExplainText(ctx, before+after, false, question),
		}
	default:
		return model.Notice{Severity: model.SeverityError, Command: Explain, Text: "For /explain, please select code or have a file open."}
	}
}

// Split matches the start of the trimmed input against the command names in
// table order and returns the trimmed remainder as arguments.
func Split(raw string) (name, args string, ok bool) {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	for _, c := range Commands {
		if strings.HasPrefix(lower, c.Name) {
			return c.Name, strings.TrimSpace(trimmed[len(c.Name):]), true
		}
	}
	return "", "", false
}
