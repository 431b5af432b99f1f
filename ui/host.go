package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"tessa/apply"
	"tessa/model"
)

// Host connects a session to the running program. Session goroutines post
// messages into the event loop; Choose blocks until the user answers in the
// view. The document is the file on disk, so updates are read and written
// there directly.
type Host struct {
	apply.Files
	doc *Document

	mu   sync.Mutex
	send func(tea.Msg)
}

var errNotAttached = errors.New("no terminal attached to answer the prompt")

func NewHost(doc *Document) *Host {
	return &Host{doc: doc}
}

// Attach routes posts to p. Posts made before Attach are dropped.
func (h *Host) Attach(p *tea.Program) {
	h.attach(p.Send)
}

func (h *Host) attach(send func(tea.Msg)) {
	h.mu.Lock()
	h.send = send
	h.mu.Unlock()
}

// post reports false when no program is attached yet.
func (h *Host) post(msg tea.Msg) bool {
	h.mu.Lock()
	send := h.send
	h.mu.Unlock()
	if send == nil {
		return false
	}
	send(msg)
	return true
}

func (h *Host) AddMessage(msg model.Message) { h.post(chatMessageMsg{msg: msg}) }
func (h *Host) ShowLoading()                 { h.post(loadingMsg(true)) }
func (h *Host) HideLoading()                 { h.post(loadingMsg(false)) }
func (h *Host) ResetChat()                   { h.post(resetChatMsg{}) }

func (h *Host) SetModels(models []model.ModelSummary) {
	h.post(modelsMsg(models))
}

func (h *Host) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	reply := make(chan int, 1)
	if !h.post(choiceRequestMsg{prompt: prompt, options: options, reply: reply}) {
		return -1, errNotAttached
	}

	select {
	case idx := <-reply:
		return idx, nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// ShowDiff renders the unified diff into the review pane. It does not wait:
// the choice that follows is shown on top of the diff.
func (h *Host) ShowDiff(ctx context.Context, leftPath, rightPath, title string) error {
	name := strings.TrimSuffix(filepath.Base(leftPath), ".original_by_ai.tmp")
	text, err := apply.DiffFiles(leftPath, rightPath, name)
	if err != nil {
		return err
	}
	h.post(diffMsg{title: title, text: text})
	return nil
}

func (h *Host) Notify(ctx context.Context, level apply.Level, text string) error {
	h.post(notifyMsg{level: level, text: text})
	return nil
}

func (h *Host) InsertText(ctx context.Context, ins model.Insertion) error {
	return h.doc.Insert(ins)
}
