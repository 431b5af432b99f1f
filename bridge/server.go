package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"tessa/completion"
	"tessa/config"
	"tessa/session"
)

const maxLine = 16 * 1024 * 1024

// Server owns one chat session and the inline completion engine for a
// single editor connection.
type Server struct {
	cfg     *config.Config
	in      io.Reader
	out     io.Writer
	outMu   sync.Mutex
	session *session.Session
	engine  *completion.Engine

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	nextID  atomic.Uint64
	mu      sync.Mutex
	pending map[string]chan reply
	inline  map[string]context.CancelFunc
}

func NewServer(cfg *config.Config, client session.Sender, in io.Reader, out io.Writer) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		in:      in,
		out:     out,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]chan reply),
		inline:  make(map[string]context.CancelFunc),
	}
	s.session = session.New(cfg, client, s, s)
	s.engine = completion.NewEngine(cfg, client)
	return s
}

// Serve reads commands until the input ends, then waits for in-flight work.
// Host requests still waiting for a reply fail once the input is closed.
func (s *Server) Serve() error {
	defer s.engine.Close()
	s.session.Start()

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		s.handle(scanner.Bytes())
	}

	s.cancel()
	s.wg.Wait()

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			s.write(Outbound{Command: CmdError, Message: "Request too large. Reduce the context size."})
		}
		return fmt.Errorf("failed to read editor input: %w", err)
	}
	return nil
}

func (s *Server) handle(line []byte) {
	var in Inbound
	if err := json.Unmarshal(line, &in); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Bridge] invalid JSON: %s", line)
		}
		s.write(Outbound{Command: CmdError, Message: "Invalid JSON"})
		return
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Bridge] <- %s %s", in.Command, in.RequestID)
	}

	switch in.Command {
	case CmdReady:
		s.session.Start()

	case CmdSendMessage:
		s.goWork(func() { s.session.Send(s.ctx, in.Text, in.Editor) })

	case CmdRefreshChat:
		s.session.Reset()

	case CmdFillInMiddle:
		s.goWork(func() {
			if err := s.session.FillInMiddle(s.ctx, in.Editor); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[Bridge] fill in middle failed: %v", err)
			}
		})

	case CmdInlineCompletion:
		s.startCompletion(in)

	case CmdCancelCompletion:
		s.cancelCompletion(in.RequestID)

	case CmdSetModel:
		if err := s.session.SetModel(in.Model); err != nil {
			s.write(Outbound{Command: CmdError, RequestID: in.RequestID, Message: err.Error()})
			return
		}
		s.SetModels(s.session.Models())

	case CmdOpenSettings:
		s.write(Outbound{
			Command:   CmdSettingsPath,
			RequestID: in.RequestID,
			Path:      filepath.Join(s.cfg.DataDir(), "config.toml"),
		})

	case CmdReply:
		s.resolve(in)

	default:
		s.write(Outbound{Command: CmdError, RequestID: in.RequestID, Message: "Unknown command: " + in.Command})
	}
}

func (s *Server) goWork(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// startCompletion runs one inline request. A newer request supersedes every
// older one still waiting out its debounce.
func (s *Server) startCompletion(in Inbound) {
	ctx, cancel := context.WithCancel(s.ctx)

	s.mu.Lock()
	for id, c := range s.inline {
		c()
		delete(s.inline, id)
	}
	s.inline[in.RequestID] = cancel
	s.mu.Unlock()

	trigger := completion.Trigger(in.Trigger)
	if trigger == "" {
		trigger = completion.TriggerAutomatic
	}

	s.goWork(func() {
		defer s.cancelCompletion(in.RequestID)
		text, ok := s.engine.Complete(ctx, in.Editor, trigger)
		if ctx.Err() != nil {
			ok, text = false, ""
		}
		s.write(Outbound{Command: CmdCompletion, RequestID: in.RequestID, Text: text, OK: ok})
	})
}

func (s *Server) cancelCompletion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.inline[id]; ok {
		c()
		delete(s.inline, id)
	}
}

// request sends a host request and blocks for the matching reply.
func (s *Server) request(ctx context.Context, out Outbound) (reply, error) {
	id := "h" + strconv.FormatUint(s.nextID.Add(1), 10)
	ch := make(chan reply, 1)

	s.mu.Lock()
	s.pending[id] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	out.RequestID = id
	s.write(out)

	select {
	case r := <-ch:
		if r.err != "" {
			return reply{index: -1}, fmt.Errorf("editor: %s", r.err)
		}
		return r, nil
	case <-ctx.Done():
		return reply{index: -1}, ctx.Err()
	case <-s.ctx.Done():
		return reply{index: -1}, errors.New("editor disconnected")
	}
}

// resolve hands a reply to its waiter. It runs on the read loop, so it
// never blocks: only the first reply for a request is kept.
func (s *Server) resolve(in Inbound) {
	s.mu.Lock()
	ch, ok := s.pending[in.RequestID]
	s.mu.Unlock()
	if !ok {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Bridge] reply for unknown request %s", in.RequestID)
		}
		return
	}

	r := reply{index: -1, text: in.Text, missing: in.Missing, err: in.Error}
	if in.Index != nil {
		r.index = *in.Index
	}
	select {
	case ch <- r:
	default:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Bridge] duplicate reply for request %s ignored", in.RequestID)
		}
	}
}

// write sends one line. Lines from concurrent goroutines never interleave.
func (s *Server) write(out Outbound) {
	data, err := json.Marshal(out)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Bridge] failed to encode %s: %v", out.Command, err)
		}
		return
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()
	if _, err := s.out.Write(append(data, '\n')); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Bridge] failed to write %s: %v", out.Command, err)
	}
}
