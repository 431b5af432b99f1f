package apply

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tessa/model"
)

// fakeHost answers choices from a script and records everything shown.
// Documents live on disk.
type fakeHost struct {
	Files
	choices   []int
	prompts   []string
	options   [][]string
	diffs     [][2]string
	diffSeen  [][2]string
	notices   []string
	chooseErr error
}

func (h *fakeHost) Choose(_ context.Context, prompt string, options []string) (int, error) {
	if h.chooseErr != nil {
		return 0, h.chooseErr
	}
	h.prompts = append(h.prompts, prompt)
	h.options = append(h.options, options)
	if len(h.choices) == 0 {
		return -1, nil
	}
	c := h.choices[0]
	h.choices = h.choices[1:]
	return c, nil
}

func (h *fakeHost) ShowDiff(_ context.Context, left, right, _ string) error {
	h.diffs = append(h.diffs, [2]string{left, right})
	l, _ := os.ReadFile(left)
	r, _ := os.ReadFile(right)
	h.diffSeen = append(h.diffSeen, [2]string{string(l), string(r)})
	return nil
}

func (h *fakeHost) Notify(_ context.Context, _ Level, text string) error {
	h.notices = append(h.notices, text)
	return nil
}

func setup(t *testing.T, content string) (model.FileUpdateProposal, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.js")
	if err := os.WriteFile(path, []byte(content), 0640); err != nil {
		t.Fatal(err)
	}
	return model.FileUpdateProposal{
		FilePath:        path,
		OriginalContent: content,
		ProposedContent: "function bar(){}",
	}, filepath.Join(dir, "tmp")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestApplyFlows(t *testing.T) {
	tests := []struct {
		name        string
		choices     []int
		wantState   State
		wantContent string
		wantNotice  string
		wantDiff    bool
	}{
		{"apply directly", []int{1}, StateAppliedDirectly, "function bar(){}", "updated by AI.", false},
		{"cancel", []int{2}, StateCancelled, "function foo(){}", "cancelled.", false},
		{"dismissed", nil, StateCancelled, "function foo(){}", "cancelled.", false},
		{"review and apply", []int{0, 0}, StateApplied, "function bar(){}", "updated by AI.", true},
		{"review and discard", []int{0, 1}, StateDiscarded, "function foo(){}", "discarded.", true},
		{"review and dismiss", []int{0}, StateDiscarded, "function foo(){}", "discarded.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, tmp := setup(t, "function foo(){}")
			host := &fakeHost{choices: tt.choices}

			out, err := NewApplier(host, tmp).Apply(context.Background(), p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.State != tt.wantState {
				t.Errorf("state = %s, want %s", out.State, tt.wantState)
			}
			if got := readFile(t, p.FilePath); got != tt.wantContent {
				t.Errorf("file = %q, want %q", got, tt.wantContent)
			}
			if len(host.notices) != 1 || !strings.HasSuffix(host.notices[0], tt.wantNotice) {
				t.Errorf("notices = %v, want one ending in %q", host.notices, tt.wantNotice)
			}
			if got := len(host.diffs) > 0; got != tt.wantDiff {
				t.Errorf("diff shown = %v, want %v", got, tt.wantDiff)
			}
			if len(host.options) == 0 || strings.Join(host.options[0], "|") != "Review and Apply|Apply Directly|Cancel" {
				t.Errorf("first choice options = %v", host.options)
			}
		})
	}
}

func TestReviewArtifacts(t *testing.T) {
	p, tmp := setup(t, "function foo(){}")
	host := &fakeHost{choices: []int{0, 1}}

	if _, err := NewApplier(host, tmp).Apply(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	left, right := host.diffs[0][0], host.diffs[0][1]
	if !strings.HasSuffix(left, "app.js.original_by_ai.tmp") || !strings.HasSuffix(right, "app.js.new_by_ai.tmp") {
		t.Errorf("unexpected artifact names %s %s", left, right)
	}
	if !strings.HasPrefix(left, tmp) {
		t.Errorf("artifact %s not under temp dir %s", left, tmp)
	}
	if host.diffSeen[0] != [2]string{"function foo(){}", "function bar(){}"} {
		t.Errorf("diff content = %v", host.diffSeen[0])
	}
	for _, f := range []string{left, right} {
		if _, err := os.Stat(f); !os.IsNotExist(err) {
			t.Errorf("%s not removed", f)
		}
	}
}

func TestApplyConflict(t *testing.T) {
	p, tmp := setup(t, "function foo(){}")
	if err := os.WriteFile(p.FilePath, []byte("edited meanwhile"), 0640); err != nil {
		t.Fatal(err)
	}
	host := &fakeHost{choices: []int{1}}

	out, err := NewApplier(host, tmp).Apply(context.Background(), p)
	var conflict *model.ApplyConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ApplyConflictError, got %v", err)
	}
	if out.State != StateConflict {
		t.Errorf("state = %s", out.State)
	}
	if got := readFile(t, p.FilePath); got != "edited meanwhile" {
		t.Errorf("file overwritten: %q", got)
	}
	if len(host.notices) != 0 {
		t.Errorf("conflict should be reported once through the error, got notices %v", host.notices)
	}
}

func TestApplyKeepsMode(t *testing.T) {
	p, tmp := setup(t, "function foo(){}")
	if err := os.Chmod(p.FilePath, 0750); err != nil {
		t.Fatal(err)
	}

	if _, err := NewApplier(&fakeHost{choices: []int{1}}, tmp).Apply(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(p.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0750 {
		t.Errorf("mode = %v, want 0750", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(p.FilePath))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tessa-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestApplyChooseError(t *testing.T) {
	p, tmp := setup(t, "function foo(){}")
	host := &fakeHost{chooseErr: errors.New("host gone")}

	out, err := NewApplier(host, tmp).Apply(context.Background(), p)
	if err == nil || out.State != StateFailed {
		t.Fatalf("expected failure, got %v %v", out, err)
	}
	if got := readFile(t, p.FilePath); got != "function foo(){}" {
		t.Errorf("file changed: %q", got)
	}
}

// bufferHost keeps documents in memory the way an editor keeps unsaved
// buffers.
type bufferHost struct {
	fakeHost
	buffers map[string]string
	writes  int
}

func (h *bufferHost) ReadDocument(_ context.Context, path string) (string, error) {
	text, ok := h.buffers[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return text, nil
}

func (h *bufferHost) WriteDocument(_ context.Context, path, content string) error {
	h.buffers[path] = content
	h.writes++
	return nil
}

func TestApplyThroughHostBuffers(t *testing.T) {
	p, tmp := setup(t, "function foo(){}")
	p.OriginalContent = "function foo(){} // unsaved"

	host := &bufferHost{
		fakeHost: fakeHost{choices: []int{1}},
		buffers:  map[string]string{p.FilePath: "function foo(){} // unsaved"},
	}
	out, err := NewApplier(host, tmp).Apply(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if out.State != StateAppliedDirectly || host.writes != 1 || host.buffers[p.FilePath] != "function bar(){}" {
		t.Errorf("state %s, writes %d, buffer %q", out.State, host.writes, host.buffers[p.FilePath])
	}
	if got := readFile(t, p.FilePath); got != "function foo(){}" {
		t.Errorf("disk written behind the host: %q", got)
	}

	missing := &bufferHost{fakeHost: fakeHost{choices: []int{1}}, buffers: map[string]string{}}
	if _, err := NewApplier(missing, tmp).Apply(context.Background(), p); !errors.As(err, new(*model.ApplyConflictError)) {
		t.Errorf("missing document: err = %v", err)
	}
	if missing.writes != 0 {
		t.Error("missing document written")
	}
}

func TestUnifiedDiff(t *testing.T) {
	text, err := UnifiedDiff("app.js", "a\nb\nc\n", "a\nB\nc\n")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"--- app.js (original)", "+++ app.js (AI suggestion)", "-b", "+B"} {
		if !strings.Contains(text, want) {
			t.Errorf("diff missing %q:\n%s", want, text)
		}
	}
}
