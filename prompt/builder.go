// Package prompt turns classified intents and editor snapshots into
// provider-agnostic requests.
package prompt

import (
	"fmt"
	"strings"

	"tessa/config"
	"tessa/model"
)

// Builder is configured once from the loaded config and is safe for
// concurrent use.
type Builder struct {
	preamble     string
	history      int
	explain      config.ExplainConfig
	fim          config.FIMConfig
	contextChars int
}

func NewBuilder(cfg *config.Config) *Builder {
	preamble := cfg.SystemPrompt
	if strings.TrimSpace(preamble) == "" {
		preamble = config.DefaultSystemPrompt
	}
	return &Builder{
		preamble:     preamble,
		history:      cfg.HistoryMessages,
		explain:      cfg.Explain,
		fim:          cfg.FIM,
		contextChars: cfg.Completion.ContextChars,
	}
}

func (b *Builder) Preamble() string {
	return b.preamble
}

// Build produces the request for one turn. history is the session log
// including the message for this turn as its last user entry; system
// messages in it are ignored.
func (b *Builder) Build(intent model.Intent, ctx *model.EditorContext, history []model.Message, shape model.Shape) (model.Request, error) {
	switch in := intent.(type) {
	case model.Notice:
		return model.Request{}, in.Err()
	case model.FillInMiddle:
		return b.buildFIM(ctx, shape)
	case model.PlainChat:
		return b.buildChat(model.KindChat, in.Prompt, ctx, history, shape), nil
	case model.Explain:
		return b.buildChat(model.KindExplain, in.ContextText, ctx, history, shape), nil
	case model.UpdateFile:
		if !ctx.HasDocument() {
			return model.Request{}, &model.NoContextError{Command: "/update_file", Message: "To use `/update_file`, please have a file open in the editor."}
		}
		return b.buildChat(model.KindUpdateFile, updateFileInstruction(ctx, in.Instruction), ctx, history, shape), nil
	default:
		return model.Request{}, fmt.Errorf("unsupported intent %T", intent)
	}
}

// buildChat assembles preamble, editor context, replayed history and the
// final user message. The final message replaces the raw text of the
// current turn so the model sees one coherent request.
func (b *Builder) buildChat(kind model.Kind, final string, ctx *model.EditorContext, history []model.Message, shape model.Shape) model.Request {
	var turns []model.ChatTurn
	if ctxMsg := b.contextMessage(ctx); ctxMsg != "" {
		turns = append(turns, model.ChatTurn{Role: model.RoleSystem, Content: ctxMsg})
	}
	turns = append(turns, b.historyTurns(history)...)
	turns = append(turns, model.ChatTurn{Role: model.RoleUser, Content: final})

	req := model.Request{
		Kind:   kind,
		Shape:  shape,
		Params: ParamsFor(kind),
	}
	if shape == model.ShapeCompletion {
		req.Completion = &model.CompletionPayload{Prompt: flatten(b.preamble, turns)}
		return req
	}
	req.Chat = &model.ChatPayload{System: b.preamble, Messages: turns}
	return req
}

// historyTurns returns up to b.history prior user/assistant messages,
// oldest first, leaving out the trailing user message of the current turn.
func (b *Builder) historyTurns(history []model.Message) []model.ChatTurn {
	var convo []model.Message
	for _, m := range history {
		if m.Role == model.RoleUser || m.Role == model.RoleAssistant {
			convo = append(convo, m)
		}
	}
	if n := len(convo); n > 0 && convo[n-1].Role == model.RoleUser {
		convo = convo[:n-1]
	}
	if len(convo) > b.history {
		convo = convo[len(convo)-b.history:]
	}

	turns := make([]model.ChatTurn, 0, len(convo))
	for _, m := range convo {
		turns = append(turns, model.ChatTurn{Role: m.Role, Content: m.Raw})
	}
	return turns
}

// contextMessage summarizes the editor state. It carries the selection or
// the code around the cursor, never both.
func (b *Builder) contextMessage(ctx *model.EditorContext) string {
	if !ctx.HasDocument() && !ctx.HasSelection() {
		return ""
	}

	var sb strings.Builder
	if ctx.HasDocument() {
		lang := ctx.LanguageID
		if lang == "" {
			lang = "plaintext"
		}
		fmt.Fprintf(&sb, "The user is currently in the file: `%s` (language: %s).\n", ctx.FilePath, lang)
		fmt.Fprintf(&sb, "Cursor position: line %d, character %d.\n", ctx.Cursor.Line+1, ctx.Cursor.Character+1)
	}

	if ctx.HasSelection() {
		sb.WriteString(SelectionHeader + "\n")
		sb.WriteString(fence(ctx.LanguageID, ctx.Selection.Text))
		return sb.String()
	}

	before, after := b.Surrounding(ctx)
	sb.WriteString(SurroundingHeader + " (before, then after):\n")
	sb.WriteString(fence(ctx.LanguageID, before))
	sb.WriteString("\n")
	sb.WriteString(fence(ctx.LanguageID, after))
	return sb.String()
}

// Surrounding returns the code window around the cursor, preferring the one
// the editor supplied.
func (b *Builder) Surrounding(ctx *model.EditorContext) (before, after string) {
	if ctx.Surrounding != nil {
		return ctx.Surrounding.Before, ctx.Surrounding.After
	}
	return Window(ctx.FullText, ctx.CursorOffset(), b.explain.Lines, b.explain.Chars)
}

func (b *Builder) buildFIM(ctx *model.EditorContext, shape model.Shape) (model.Request, error) {
	if !ctx.HasDocument() {
		return model.Request{}, &model.NoContextError{Command: "/fim", Message: "Please open a file editor to use /fim."}
	}

	before, after := ctx.Split()
	payload := FIMPayload(Tail(before, b.fim.PrefixChars), Head(after, b.fim.SuffixChars))

	req := model.Request{
		Kind:   model.KindFIM,
		Shape:  shape,
		Params: ParamsFor(model.KindFIM),
	}
	if shape == model.ShapeCompletion {
		req.Completion = &model.CompletionPayload{Prompt: payload}
		return req, nil
	}
	req.Chat = &model.ChatPayload{
		System:   fimSystemPrompt,
		Messages: []model.ChatTurn{{Role: model.RoleUser, Content: payload}},
	}
	return req, nil
}

// BuildInline builds an inline completion request from the text before the
// cursor.
func (b *Builder) BuildInline(ctx *model.EditorContext, shape model.Shape) (model.Request, error) {
	if !ctx.HasDocument() {
		return model.Request{}, &model.NoContextError{Command: "inline", Message: "no active document"}
	}

	before, _ := ctx.Split()
	prefix := Tail(before, b.contextChars)

	req := model.Request{
		Kind:   model.KindInline,
		Shape:  shape,
		Params: ParamsFor(model.KindInline),
	}
	if shape == model.ShapeCompletion {
		req.Completion = &model.CompletionPayload{Prompt: prefix}
		return req, nil
	}
	req.Chat = &model.ChatPayload{
		System:   inlineSystemPrompt,
		Messages: []model.ChatTurn{{Role: model.RoleUser, Content: "Complete the following code:\n" + fence("", prefix)}},
	}
	return req, nil
}

// flatten renders a conversation as a transcript for completion-shaped
// endpoints, ending with an open assistant turn.
func flatten(preamble string, turns []model.ChatTurn) string {
	var sb strings.Builder
	sb.WriteString("System: " + preamble + "\n\n")
	for _, t := range turns {
		switch t.Role {
		case model.RoleSystem:
			sb.WriteString("System: ")
		case model.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(t.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Assistant:")
	return sb.String()
}
