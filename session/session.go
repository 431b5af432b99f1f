// Package session orchestrates one chat conversation: it routes each user
// turn, sends at most one request for it, and turns the outcome into exactly
// one appended message or a file-update flow.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tessa/apply"
	"tessa/command"
	"tessa/config"
	"tessa/model"
	"tessa/prompt"
	"tessa/provider"
	"tessa/reconcile"
	"tessa/render"
)

const (
	WelcomeText = "Welcome to Tessa Agent! Ask anything or use `/` for commands."
	ResetText   = "Chat reset. How can I assist you?"

	// ExplainRecap stands in for an earlier /explain turn in replayed history.
	ExplainRecap = "Explain the code I had selected or open."
)

// Emitter receives everything the rendering surface needs to show. Calls
// are made while the session lock is held so their order matches the log;
// implementations must not call back into the Session.
type Emitter interface {
	AddMessage(msg model.Message)
	ShowLoading()
	HideLoading()
	ResetChat()
	SetModels(models []model.ModelSummary)
}

// Host is the editor: the confirmation and diff capabilities used for file
// updates plus insertion at the cursor.
type Host interface {
	apply.Host
	InsertText(ctx context.Context, ins model.Insertion) error
}

// Sender performs one model call. *provider.Client implements it.
type Sender interface {
	Send(ctx context.Context, req model.Request, ep model.Endpoint) (string, error)
}

type Session struct {
	router   *command.Router
	builder  *prompt.Builder
	registry *provider.Registry
	client   Sender
	applier  *apply.Applier
	emitter  Emitter
	host     Host

	mu        sync.Mutex
	log       []model.Message
	epoch     uint64
	chatModel string
}

// New creates a session whose log holds the welcome message.
func New(cfg *config.Config, client Sender, emitter Emitter, host Host) *Session {
	builder := prompt.NewBuilder(cfg)
	return &Session{
		router:   command.NewRouter(builder),
		builder:  builder,
		registry: provider.NewRegistry(cfg),
		client:   client,
		applier:  apply.NewApplier(host, ""),
		emitter:  emitter,
		host:     host,
		log:      []model.Message{model.NewMessage(model.RoleSystem, WelcomeText)},
	}
}

// Start pushes the model list and the current log to a freshly attached
// surface.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.emitter.SetModels(s.registry.Models())
	s.emitter.ResetChat()
	for _, m := range s.log {
		s.emitter.AddMessage(m)
	}
}

// Messages returns a copy of the log.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.log...)
}

// Reset clears the log down to a single system message. Responses to turns
// issued before the reset are dropped when they arrive.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.log = []model.Message{model.NewMessage(model.RoleSystem, ResetText)}
	s.emitter.ResetChat()
	s.emitter.AddMessage(s.log[0])

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] reset, epoch now %d", s.epoch)
	}
}

// SetModel switches the chat model for later turns. An empty id restores
// the configured default.
func (s *Session) SetModel(id string) error {
	if id != "" {
		if _, err := s.registry.Resolve(id); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.chatModel = id
	s.mu.Unlock()
	return nil
}

func (s *Session) Models() []model.ModelSummary {
	return s.registry.Models()
}

// Send runs one user turn to completion. It blocks for the model call; the
// caller runs it off the UI thread. All failures end up in the log as one
// system message, so Send has no error result.
func (s *Session) Send(ctx context.Context, text string, editor *model.EditorContext) {
	userMsg := model.NewMessage(model.RoleUser, text)
	epoch, ok := s.append(-1, userMsg)
	if !ok {
		return
	}

	intent := s.router.Classify(text, editor)
	if n, isNotice := intent.(model.Notice); isNotice {
		s.appendSystem(epoch, n.Text)
		return
	}

	ep, err := s.endpointFor(intent.Kind())
	if err != nil {
		s.appendError(epoch, err)
		return
	}

	req, err := s.builder.Build(intent, editor, s.historyThrough(userMsg.ID), ep.Shape)
	if err != nil {
		s.appendError(epoch, err)
		return
	}

	s.emitter.ShowLoading()
	raw, err := s.client.Send(ctx, req, ep)
	s.emitter.HideLoading()
	if err != nil {
		s.appendError(epoch, err)
		return
	}

	if !s.current(epoch) {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] dropping %s response from epoch %d", intent.Kind(), epoch)
		}
		return
	}

	s.deliver(ctx, epoch, reconcile.Interpret(intent, raw, editor), raw)
}

func (s *Session) deliver(ctx context.Context, epoch uint64, resp model.Response, raw string) {
	switch {
	case resp.Err != nil:
		s.appendError(epoch, resp.Err)

	case resp.FileUpdate != nil:
		if _, err := s.applier.Apply(ctx, *resp.FileUpdate); err != nil {
			s.appendError(epoch, err)
		}

	case resp.Insertion != nil:
		if err := s.host.InsertText(ctx, *resp.Insertion); err != nil {
			s.appendError(epoch, fmt.Errorf("failed to insert text: %w", err))
			return
		}
		s.appendSystem(epoch, fmt.Sprintf("Filled in the middle at line %d.", resp.Insertion.Position.Line+1))

	default:
		s.append(int64(epoch), model.NewMarkupMessage(raw, render.HTML(resp.Text)))
	}
}

// FillInMiddle is the palette action: it fills the gap at the cursor
// without touching the chat log and reports through host notices.
func (s *Session) FillInMiddle(ctx context.Context, editor *model.EditorContext) error {
	notify := func(level apply.Level, text string) {
		if err := s.host.Notify(ctx, level, text); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Session] notify failed: %v", err)
		}
	}

	if !editor.HasDocument() {
		notify(apply.LevelInfo, "Open a file to use Fill In Middle.")
		return &model.NoContextError{Command: command.FIM, Message: "Open a file to use Fill In Middle."}
	}

	ins, err := s.fim(ctx, editor)
	if err != nil {
		var empty *model.EmptyResponseError
		if errors.As(err, &empty) {
			notify(apply.LevelError, "AI could not fill in the middle for the current context.")
		} else {
			notify(apply.LevelError, model.UserMessage(err))
		}
		return err
	}
	if err := s.host.InsertText(ctx, *ins); err != nil {
		return fmt.Errorf("failed to insert text: %w", err)
	}
	return nil
}

func (s *Session) fim(ctx context.Context, editor *model.EditorContext) (*model.Insertion, error) {
	ep, err := s.registry.DefaultFor(model.KindFIM)
	if err != nil {
		return nil, err
	}
	req, err := s.builder.Build(model.FillInMiddle{}, editor, nil, ep.Shape)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Send(ctx, req, ep)
	if err != nil {
		return nil, err
	}
	resp := reconcile.Interpret(model.FillInMiddle{}, raw, editor)
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Insertion, nil
}

// historyThrough returns the log up to and including the user message id,
// so turns appended after it by concurrent sends stay out of its prompt.
// Earlier command turns are rewritten by replayable. A message removed by
// a reset yields nil.
func (s *Session) historyThrough(id string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.log {
		if m.ID == id {
			return append(replayable(s.log[:i]), m)
		}
	}
	return nil
}

// replayable prepares earlier turns for replay. The slash text of a command
// was never what the model saw, so /explain turns are replaced by a short
// recap and /fim and /update_file turns are left out; their results are
// system messages, which are not replayed either.
func replayable(prior []model.Message) []model.Message {
	out := make([]model.Message, 0, len(prior)+1)
	for _, m := range prior {
		if m.Role != model.RoleUser {
			out = append(out, m)
			continue
		}
		name, args, ok := command.Split(m.Raw)
		switch {
		case !ok:
			out = append(out, m)
		case name == command.Explain:
			m.Raw = ExplainRecap
			if args != "" {
				m.Raw += " " + args
			}
			out = append(out, m)
		}
	}
	return out
}

func (s *Session) endpointFor(kind model.Kind) (model.Endpoint, error) {
	s.mu.Lock()
	override := s.chatModel
	s.mu.Unlock()

	if override != "" && kind != model.KindFIM {
		return s.registry.Resolve(override)
	}
	return s.registry.DefaultFor(kind)
}

func (s *Session) current(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch == epoch
}

// append adds msg to the log if epoch is still current, or unconditionally
// when epoch is -1. It returns the epoch the message was appended under.
func (s *Session) append(epoch int64, msg model.Message) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch >= 0 && uint64(epoch) != s.epoch {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] dropping stale %s message from epoch %d", msg.Role, epoch)
		}
		return s.epoch, false
	}
	s.log = append(s.log, msg)
	s.emitter.AddMessage(msg)
	return s.epoch, true
}

func (s *Session) appendSystem(epoch uint64, text string) {
	s.append(int64(epoch), model.NewMessage(model.RoleSystem, text))
}

func (s *Session) appendError(epoch uint64, err error) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] turn failed: %v", err)
	}
	s.appendSystem(epoch, model.UserMessage(err))
}
