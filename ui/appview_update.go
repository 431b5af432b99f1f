package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tessa/apply"
	"tessa/command"
	"tessa/config"
	"tessa/model"
	"tessa/provider"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		a.updateViewportContent(true)
		return a, a.renderPending()

	case chatMessageMsg:
		a.entries = append(a.entries, entry{msg: msg.msg})
		a.updateViewportContent(true)
		if msg.msg.Role == model.RoleAssistant && a.ready {
			return a, a.renderMarkdownAsync(msg.msg, a.contentWidth())
		}
		return a, nil

	case markdownRenderedMsg:
		if msg.width != a.contentWidth() {
			return a, nil
		}
		for i := range a.entries {
			if a.entries[i].msg.ID == msg.id {
				a.entries[i].rendered = msg.rendered
				a.entries[i].width = msg.width
			}
		}
		a.updateViewportContent(a.viewport.AtBottom())
		return a, nil

	case loadingMsg:
		a.loading = bool(msg)
		if a.loading {
			return a, a.spinner.Tick
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case resetChatMsg:
		a.entries = nil
		a.status = ""
		a.updateViewportContent(true)
		return a, nil

	case modelsMsg:
		a.models = msg
		return a, nil

	case choiceRequestMsg:
		if a.choice != nil || len(msg.options) == 0 {
			msg.reply <- -1
			return a, nil
		}
		a.choice = &choiceState{prompt: msg.prompt, options: msg.options, reply: msg.reply}
		return a, nil

	case diffMsg:
		a.diff = &msg
		a.diffView.Width = a.width
		a.diffView.SetContent(colorDiff(msg.text))
		a.diffView.GotoTop()
		return a, nil

	case notifyMsg:
		a.setStatus(msg.level, msg.text)
		return a, nil

	case modelSetMsg:
		if msg.err != nil {
			a.setStatus(apply.LevelError, model.UserMessage(msg.err))
			return a, nil
		}
		a.currentModel = msg.id
		a.setStatus(apply.LevelInfo, fmt.Sprintf("Chat model set to %s.", msg.id))
		return a, nil

	case turnDoneMsg:
		a.busy = false
		return a, nil

	case fimDoneMsg:
		a.busy = false
		if msg.err == nil {
			a.setStatus(apply.LevelInfo, "Filled in the middle at the cursor.")
		}
		return a, nil

	case provider.PingEndpointMsg:
		if msg.Err != nil {
			a.setStatus(apply.LevelWarning, fmt.Sprintf("%s: %s", msg.LogicalID, model.UserMessage(msg.Err)))
		}
		return a, nil

	case provider.EndpointModelsMsg:
		if msg.Err != nil {
			a.selector.remote = "provider models unavailable"
		} else {
			a.selector.remote = fmt.Sprintf("%d models at provider", len(msg.Models))
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		if a.choice != nil {
			a.choice.answer(-1)
			a.choice = nil
		}
		a.cancel()
		return a, tea.Quit
	}

	if a.choice != nil {
		return a.handleChoiceKey(msg)
	}
	if a.showHelp {
		if key.Matches(msg, keys.Help) || msg.String() == "esc" {
			a.showHelp = false
		}
		return a, nil
	}
	if a.selector.visible {
		return a.handleSelectorKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, keys.Models):
		a.selector.open(a.models, a.currentModel)
		return a, nil

	case key.Matches(msg, keys.Reset):
		sess := a.session
		return a, func() tea.Msg {
			sess.Reset()
			return nil
		}

	case key.Matches(msg, keys.FIM):
		return a.fillInMiddle()

	case key.Matches(msg, keys.Yank):
		a.yankLastResponse()
		return a, nil

	case key.Matches(msg, keys.PageUp, keys.PageDown):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case key.Matches(msg, keys.Complete):
		if len(a.suggestions) > 0 {
			a.textarea.SetValue(a.suggestions[a.suggestionIdx].Name + " ")
			a.textarea.CursorEnd()
			a.refreshSuggestions()
		}
		return a, nil

	case len(a.suggestions) > 0 && (msg.String() == "up" || msg.String() == "down"):
		delta := 1
		if msg.String() == "up" {
			delta = -1
		}
		a.suggestionIdx = (a.suggestionIdx + delta + len(a.suggestions)) % len(a.suggestions)
		return a, nil

	case key.Matches(msg, keys.Send):
		return a.send()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	a.refreshSuggestions()
	return a, cmd
}

func (a AppView) handleChoiceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := msg.String(); s {
	case "up", "k", "shift+tab":
		a.choice.move(-1)
	case "down", "j", "tab":
		a.choice.move(1)
	case "enter":
		a.answerChoice(a.choice.selected)
	case "esc":
		a.answerChoice(-1)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.diffView, cmd = a.diffView.Update(msg)
		return a, cmd
	default:
		if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(a.choice.options) {
			a.answerChoice(int(s[0] - '1'))
		}
	}
	return a, nil
}

// answerChoice replies and closes the choice together with the diff it was
// reviewing.
func (a *AppView) answerChoice(idx int) {
	a.choice.answer(idx)
	a.choice = nil
	a.diff = nil
}

func (a AppView) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.selector

	if s.filterMode {
		switch msg.String() {
		case "esc":
			s.filterMode = false
			s.filter.Blur()
			return a, nil
		case "up", "down", "enter":
		default:
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			s.refilter(a.models)
			return a, cmd
		}
	}

	switch msg.String() {
	case "esc", "ctrl+o":
		s.visible = false
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
		s.remote = ""
	case "down", "j":
		if s.selected < len(s.list)-1 {
			s.selected++
		}
		s.remote = ""
	case "/":
		s.filterMode = true
		return a, s.filter.Focus()
	case "i":
		return a, a.fetchProviderModels()
	case "enter":
		m, ok := s.current()
		if !ok {
			return a, nil
		}
		s.visible = false
		sess := a.session
		return a, func() tea.Msg {
			return modelSetMsg{id: m.ID, err: sess.SetModel(m.ID)}
		}
	}
	return a, nil
}

func (a *AppView) fetchProviderModels() tea.Cmd {
	m, ok := a.selector.current()
	if !ok {
		return nil
	}
	if a.pinger == nil {
		a.selector.remote = "provider models unavailable"
		return nil
	}
	ep, err := a.registry.Resolve(m.ID)
	if err != nil {
		a.selector.remote = model.UserMessage(err)
		return nil
	}
	a.selector.remote = "listing provider models..."
	return provider.FetchEndpointModels(a.pinger, ep)
}

func (a AppView) send() (tea.Model, tea.Cmd) {
	text := a.textarea.Value()
	if strings.TrimSpace(text) == "" {
		return a, nil
	}
	if a.busy {
		a.setStatus(apply.LevelWarning, "Wait for the current response to finish.")
		return a, nil
	}

	editor, err := a.doc.Context()
	if err != nil {
		a.setStatus(apply.LevelError, err.Error())
		return a, nil
	}

	a.textarea.Reset()
	a.refreshSuggestions()
	a.status = ""
	a.busy = true

	sess := a.session
	return a, a.run(func(ctx context.Context) tea.Msg {
		sess.Send(ctx, text, editor)
		return turnDoneMsg{}
	})
}

func (a AppView) fillInMiddle() (tea.Model, tea.Cmd) {
	if a.busy {
		a.setStatus(apply.LevelWarning, "Wait for the current response to finish.")
		return a, nil
	}
	editor, err := a.doc.Context()
	if err != nil {
		a.setStatus(apply.LevelError, err.Error())
		return a, nil
	}

	a.busy = true
	a.setStatus(apply.LevelInfo, "Filling in the middle...")

	sess := a.session
	return a, a.run(func(ctx context.Context) tea.Msg {
		err := sess.FillInMiddle(ctx, editor)
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[AppView] fill in middle failed: %v", err)
		}
		return fimDoneMsg{err: err}
	})
}

// run executes fn off the event loop with the view's lifetime context.
func (a AppView) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return fn(ctx)
	}
}

func (a *AppView) yankLastResponse() {
	for i := len(a.entries) - 1; i >= 0; i-- {
		msg := a.entries[i].msg
		if msg.Role != model.RoleAssistant {
			continue
		}
		if err := clipboard.WriteAll(msg.Raw); err != nil {
			a.setStatus(apply.LevelError, fmt.Sprintf("Failed to copy: %v", err))
			return
		}
		a.setStatus(apply.LevelInfo, "Copied last response to clipboard.")
		return
	}
	a.setStatus(apply.LevelInfo, "No response to copy yet.")
}

func (a *AppView) refreshSuggestions() {
	a.suggestions = command.Suggest(a.textarea.Value())
	if len(a.suggestions) > maxSuggestions {
		a.suggestions = a.suggestions[:maxSuggestions]
	}
	if a.suggestionIdx >= len(a.suggestions) {
		a.suggestionIdx = 0
	}
	a.layout()
}

func (a *AppView) setStatus(level apply.Level, text string) {
	a.statusLevel = level
	a.status = text
}
