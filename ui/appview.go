package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tessa/apply"
	"tessa/command"
	"tessa/config"
	"tessa/model"
	"tessa/provider"
	"tessa/session"
)

const (
	inputHeight    = 3
	maxSuggestions = 4
)

type entry struct {
	msg      model.Message
	rendered string
	width    int
}

// AppView is the terminal chat surface. Everything that talks to a model
// runs in commands off the event loop; results come back through Host.
type AppView struct {
	cfg      *config.Config
	session  *session.Session
	registry *provider.Registry
	pinger   *provider.Client
	host     *Host
	doc      *Document
	version  string

	ctx    context.Context
	cancel context.CancelFunc

	viewport viewport.Model
	diffView viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	entries      []entry
	models       []model.ModelSummary
	currentModel string

	loading     bool
	busy        bool
	status      string
	statusLevel apply.Level

	suggestions   []command.Command
	suggestionIdx int

	showHelp bool
	selector modelSelector
	choice   *choiceState
	diff     *diffMsg

	width  int
	height int
	ready  bool
}

// NewAppView wires a session to a new view. doc may be nil when no file was
// given; commands that need one then answer with a notice. Call
// Host().Attach with the program before running it.
func NewAppView(cfg *config.Config, client session.Sender, doc *Document, version string) AppView {
	host := NewHost(doc)
	registry := provider.NewRegistry(cfg)
	pinger, _ := client.(*provider.Client)

	ta := textarea.New()
	ta.Placeholder = "Ask anything or type / for commands..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	ctx, cancel := context.WithCancel(context.Background())
	return AppView{
		cfg:          cfg,
		session:      session.New(cfg, client, host, host),
		registry:     registry,
		pinger:       pinger,
		host:         host,
		doc:          doc,
		version:      version,
		ctx:          ctx,
		cancel:       cancel,
		viewport:     viewport.New(0, 0),
		diffView:     viewport.New(0, 0),
		textarea:     ta,
		spinner:      sp,
		currentModel: registry.DefaultID(model.KindChat),
		selector:     newModelSelector(),
	}
}

func (a AppView) Host() *Host {
	return a.host
}

func (a AppView) Init() tea.Cmd {
	sess := a.session
	cmds := []tea.Cmd{
		textarea.Blink,
		func() tea.Msg {
			sess.Start()
			return nil
		},
	}
	if a.pinger != nil {
		if ep, err := a.registry.DefaultFor(model.KindChat); err == nil {
			cmds = append(cmds, provider.PingEndpoint(a.pinger, ep))
		}
	}
	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading Tessa..."
	}
	if a.width < 20 || a.height < 10 {
		return "Terminal too small"
	}

	// Layers, top first: an open choice (over the diff it reviews), help,
	// the model selector, then the chat.
	if a.choice != nil {
		if a.diff != nil {
			return a.renderDiffReview()
		}
		return RenderChoiceModal(a.choice, a.width, a.height)
	}
	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}
	if a.selector.visible {
		return renderModelSelector(a.selector, len(a.models), a.currentModel, a.width, a.height)
	}

	parts := []string{a.renderHeader(), a.viewport.View()}
	if s := a.renderSuggestions(); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, a.renderStatus(), a.textarea.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout sizes the chat viewport around the fixed rows.
func (a *AppView) layout() {
	a.textarea.SetWidth(a.width)
	a.viewport.Width = a.width

	rows := 1 + 1 + inputHeight + len(a.suggestions)
	a.viewport.Height = max(a.height-rows, 1)
}
