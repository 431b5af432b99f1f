package bridge

import (
	"context"
	"fmt"
	"io/fs"

	"tessa/apply"
	"tessa/model"
)

// Emitter side.

func (s *Server) AddMessage(msg model.Message) {
	s.write(Outbound{
		Command: CmdAddMessage,
		ID:      msg.ID,
		Role:    string(msg.Role),
		Text:    msg.Text,
		RawHTML: msg.IsMarkup,
	})
}

func (s *Server) ShowLoading() { s.write(Outbound{Command: CmdShowLoading}) }
func (s *Server) HideLoading() { s.write(Outbound{Command: CmdHideLoading}) }
func (s *Server) ResetChat()   { s.write(Outbound{Command: CmdResetChat}) }

func (s *Server) SetModels(models []model.ModelSummary) {
	s.write(Outbound{Command: CmdSetModels, Models: models})
}

// Host side. Each call is a request the plugin must answer with a reply.

func (s *Server) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	r, err := s.request(ctx, Outbound{Command: CmdChoose, Prompt: prompt, Options: options})
	return r.index, err
}

func (s *Server) ShowDiff(ctx context.Context, leftPath, rightPath, title string) error {
	_, err := s.request(ctx, Outbound{Command: CmdShowDiff, Left: leftPath, Right: rightPath, Title: title})
	return err
}

func (s *Server) Notify(ctx context.Context, level apply.Level, text string) error {
	_, err := s.request(ctx, Outbound{Command: CmdNotify, Level: string(level), Text: text})
	return err
}

func (s *Server) InsertText(ctx context.Context, ins model.Insertion) error {
	pos := ins.Position
	_, err := s.request(ctx, Outbound{Command: CmdInsertText, FilePath: ins.FilePath, Position: &pos, Text: ins.Text})
	return err
}

// ReadDocument asks for the editor's buffer, which may hold unsaved edits.
func (s *Server) ReadDocument(ctx context.Context, path string) (string, error) {
	r, err := s.request(ctx, Outbound{Command: CmdReadDocument, FilePath: path})
	if err != nil {
		return "", err
	}
	if r.missing {
		return "", fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return r.text, nil
}

// WriteDocument has the editor replace the buffer and save it.
func (s *Server) WriteDocument(ctx context.Context, path, content string) error {
	_, err := s.request(ctx, Outbound{Command: CmdWriteDocument, FilePath: path, Text: content})
	return err
}
