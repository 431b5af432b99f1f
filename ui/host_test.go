package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tessa/apply"
	"tessa/model"
)

// capture attaches a buffered channel in place of a running program.
func capture(h *Host) chan tea.Msg {
	ch := make(chan tea.Msg, 16)
	h.attach(func(msg tea.Msg) { ch <- msg })
	return ch
}

func next(t *testing.T, ch chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message posted")
		return nil
	}
}

func TestHostEmitterPosts(t *testing.T) {
	h := NewHost(nil)
	ch := capture(h)

	h.ShowLoading()
	h.AddMessage(model.NewMessage(model.RoleUser, "hi"))
	h.HideLoading()
	h.ResetChat()

	if msg, ok := next(t, ch).(loadingMsg); !ok || !bool(msg) {
		t.Errorf("first = %#v", msg)
	}
	if msg, ok := next(t, ch).(chatMessageMsg); !ok || msg.msg.Text != "hi" {
		t.Errorf("second = %#v", msg)
	}
	if msg, ok := next(t, ch).(loadingMsg); !ok || bool(msg) {
		t.Errorf("third = %#v", msg)
	}
	if _, ok := next(t, ch).(resetChatMsg); !ok {
		t.Error("missing reset")
	}
}

func TestHostPostBeforeAttach(t *testing.T) {
	h := NewHost(nil)
	h.AddMessage(model.NewMessage(model.RoleSystem, "dropped"))
	if err := h.Notify(context.Background(), apply.LevelInfo, "dropped"); err != nil {
		t.Errorf("Notify() = %v", err)
	}
}

func TestHostChoose(t *testing.T) {
	h := NewHost(nil)
	ch := capture(h)

	done := make(chan int, 1)
	go func() {
		idx, _ := h.Choose(context.Background(), "Pick", []string{"a", "b"})
		done <- idx
	}()

	req, ok := next(t, ch).(choiceRequestMsg)
	if !ok || req.prompt != "Pick" || len(req.options) != 2 {
		t.Fatalf("request = %#v", req)
	}
	req.reply <- 1

	if idx := <-done; idx != 1 {
		t.Errorf("Choose() = %d, want 1", idx)
	}
}

func TestHostChooseCancelled(t *testing.T) {
	h := NewHost(nil)
	capture(h)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	idx, err := h.Choose(ctx, "Pick", []string{"a"})
	if idx != -1 || !errors.Is(err, context.Canceled) {
		t.Errorf("Choose() = %d, %v", idx, err)
	}
}

func TestHostChooseBeforeAttach(t *testing.T) {
	h := NewHost(nil)

	done := make(chan error, 1)
	go func() {
		idx, err := h.Choose(context.Background(), "Pick", []string{"a"})
		if idx != -1 {
			err = errors.New("answered without a terminal")
		}
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, errNotAttached) {
			t.Errorf("Choose() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Choose blocked without an attached program")
	}
}

func TestHostShowDiff(t *testing.T) {
	h := NewHost(nil)
	ch := capture(h)

	dir := t.TempDir()
	left := filepath.Join(dir, "app.js.original_by_ai.tmp")
	right := filepath.Join(dir, "app.js.new_by_ai.tmp")
	if err := os.WriteFile(left, []byte("function foo(){}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(right, []byte("function bar(){}\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := h.ShowDiff(context.Background(), left, right, "Diff: app.js (Original vs AI Suggestion)"); err != nil {
		t.Fatal(err)
	}
	msg, ok := next(t, ch).(diffMsg)
	if !ok {
		t.Fatalf("posted %#v", msg)
	}
	for _, want := range []string{"--- app.js (original)", "+++ app.js (AI suggestion)", "-function foo(){}", "+function bar(){}"} {
		if !strings.Contains(msg.text, want) {
			t.Errorf("diff missing %q:\n%s", want, msg.text)
		}
	}
	if msg.title != "Diff: app.js (Original vs AI Suggestion)" {
		t.Errorf("title = %q", msg.title)
	}

	if err := h.ShowDiff(context.Background(), filepath.Join(dir, "gone"), right, "x"); err == nil {
		t.Error("missing file diffed")
	}
}

func TestHostInsertWithoutDocument(t *testing.T) {
	h := NewHost(nil)
	if err := h.InsertText(context.Background(), model.Insertion{FilePath: "/a.go"}); err == nil {
		t.Error("insert without document succeeded")
	}
}
