// Package apply runs the confirmation flow for whole-file updates proposed
// by the model and performs the write.
//
// The flow always starts with a three-way choice. Reviewing writes the
// original and proposed content to a private temp directory, asks the host
// to show a diff of the two, then asks for a second confirmation. Every
// terminal state produces exactly one user-visible message: a host notice
// for normal outcomes, or the returned error for conflicts and I/O
// failures.
package apply

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tessa/config"
	"tessa/model"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Host is the editor side of the flow. Choose returns the index of the
// picked option, or -1 when the prompt was dismissed. ReadDocument returns
// the content the editor currently holds for path, wrapping fs.ErrNotExist
// when there is none; WriteDocument replaces it. Hosts without buffers of
// their own can embed Files.
type Host interface {
	Choose(ctx context.Context, prompt string, options []string) (int, error)
	ShowDiff(ctx context.Context, leftPath, rightPath, title string) error
	Notify(ctx context.Context, level Level, text string) error
	ReadDocument(ctx context.Context, path string) (string, error)
	WriteDocument(ctx context.Context, path, content string) error
}

// Choice labels.
const (
	ChoiceReview  = "Review and Apply"
	ChoiceDirect  = "Apply Directly"
	ChoiceCancel  = "Cancel"
	ChoiceApply   = "Apply Changes"
	ChoiceDiscard = "Discard Changes"
)

type State int

const (
	StateProposed State = iota
	StateReviewingDiff
	StateApplied
	StateAppliedDirectly
	StateDiscarded
	StateCancelled
	StateConflict
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateProposed:
		return "proposed"
	case StateReviewingDiff:
		return "reviewing_diff"
	case StateApplied:
		return "applied"
	case StateAppliedDirectly:
		return "applied_directly"
	case StateDiscarded:
		return "discarded"
	case StateCancelled:
		return "cancelled"
	case StateConflict:
		return "conflict"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome is the terminal state of one flow and the message shown for it.
type Outcome struct {
	State   State
	Message string
}

type Applier struct {
	host    Host
	tempDir string
}

// NewApplier creates an applier whose review artifacts live under tempDir.
// An empty tempDir uses config.GetTempDir().
func NewApplier(host Host, tempDir string) *Applier {
	if tempDir == "" {
		tempDir = config.GetTempDir()
	}
	return &Applier{host: host, tempDir: tempDir}
}

// Apply runs the flow for p. A non-nil error means the flow ended in
// StateConflict or StateFailed and nothing was written.
func (a *Applier) Apply(ctx context.Context, p model.FileUpdateProposal) (Outcome, error) {
	name := displayName(p.FilePath)

	choice, err := a.host.Choose(ctx, fmt.Sprintf("AI suggests an update for %s.", name),
		[]string{ChoiceReview, ChoiceDirect, ChoiceCancel})
	if err != nil {
		return Outcome{State: StateFailed}, fmt.Errorf("failed to ask for confirmation: %w", err)
	}

	switch choice {
	case 0:
		return a.review(ctx, p, name)
	case 1:
		if err := a.write(ctx, p); err != nil {
			return a.failed(p, err)
		}
		return a.finish(ctx, StateAppliedDirectly, LevelInfo, fmt.Sprintf("File %s updated by AI.", name))
	default:
		return a.finish(ctx, StateCancelled, LevelInfo, fmt.Sprintf("Update for %s cancelled.", name))
	}
}

func (a *Applier) review(ctx context.Context, p model.FileUpdateProposal, name string) (Outcome, error) {
	left, right, cleanup, err := a.materialize(p)
	if err != nil {
		return Outcome{State: StateFailed}, fmt.Errorf("failed to prepare diff review: %w", err)
	}
	defer cleanup()

	title := fmt.Sprintf("Diff: %s (Original vs AI Suggestion)", name)
	if err := a.host.ShowDiff(ctx, left, right, title); err != nil {
		return Outcome{State: StateFailed}, fmt.Errorf("failed to show diff: %w", err)
	}

	choice, err := a.host.Choose(ctx, "Apply changes shown in diff to the original file?",
		[]string{ChoiceApply, ChoiceDiscard})
	if err != nil {
		return Outcome{State: StateFailed}, fmt.Errorf("failed to ask for confirmation: %w", err)
	}
	if choice != 0 {
		return a.finish(ctx, StateDiscarded, LevelInfo, fmt.Sprintf("Changes for %s discarded.", name))
	}

	if err := a.write(ctx, p); err != nil {
		return a.failed(p, err)
	}
	return a.finish(ctx, StateApplied, LevelInfo, fmt.Sprintf("File %s updated by AI.", name))
}

func (a *Applier) finish(ctx context.Context, state State, level Level, msg string) (Outcome, error) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Apply] %s: %s", state, msg)
	}
	if err := a.host.Notify(ctx, level, msg); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Apply] notify failed: %v", err)
	}
	return Outcome{State: state, Message: msg}, nil
}

func (a *Applier) failed(p model.FileUpdateProposal, err error) (Outcome, error) {
	var conflict *model.ApplyConflictError
	if errors.As(err, &conflict) {
		return Outcome{State: StateConflict, Message: conflict.UserMessage()}, err
	}
	return Outcome{State: StateFailed}, fmt.Errorf("failed to update file %s: %w", p.FilePath, err)
}

// materialize writes both sides of the diff into a fresh directory under
// the temp dir. cleanup removes it; removal failures are only logged.
func (a *Applier) materialize(p model.FileUpdateProposal) (left, right string, cleanup func(), err error) {
	if err := config.EnsureDir(a.tempDir); err != nil {
		return "", "", nil, err
	}
	dir, err := os.MkdirTemp(a.tempDir, "review-*")
	if err != nil {
		return "", "", nil, err
	}
	cleanup = func() {
		if err := os.RemoveAll(dir); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Apply] failed to remove review files in %s: %v", dir, err)
		}
	}

	base := filepath.Base(p.FilePath)
	left = filepath.Join(dir, base+".original_by_ai.tmp")
	right = filepath.Join(dir, base+".new_by_ai.tmp")

	if err := os.WriteFile(left, []byte(p.OriginalContent), 0600); err != nil {
		cleanup()
		return "", "", nil, err
	}
	if err := os.WriteFile(right, []byte(p.ProposedContent), 0600); err != nil {
		cleanup()
		return "", "", nil, err
	}
	return left, right, cleanup, nil
}

// write replaces the document with the proposed content after checking
// that the editor still holds the content the proposal was built from.
func (a *Applier) write(ctx context.Context, p model.FileUpdateProposal) error {
	current, err := a.host.ReadDocument(ctx, p.FilePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if p.OriginalContent != "" {
			return &model.ApplyConflictError{FilePath: p.FilePath}
		}
	case err != nil:
		return fmt.Errorf("failed to read current content: %w", err)
	case current != p.OriginalContent:
		return &model.ApplyConflictError{FilePath: p.FilePath}
	}

	if err := a.host.WriteDocument(ctx, p.FilePath, p.ProposedContent); err != nil {
		return err
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Apply] wrote %d bytes to %s", len(p.ProposedContent), p.FilePath)
	}
	return nil
}

// displayName shortens path relative to the working directory when it lies
// inside it.
func displayName(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
