// Package completion serves inline (ghost text) completions. Failures are
// never shown to the user; they are logged and reported as "no suggestion".
package completion

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"tessa/config"
	"tessa/model"
	"tessa/prompt"
	"tessa/provider"
)

type Trigger string

const (
	TriggerAutomatic Trigger = "automatic"
	TriggerInvoke    Trigger = "invoke"
)

// Sender performs one model call. *provider.Client implements it.
type Sender interface {
	Send(ctx context.Context, req model.Request, ep model.Endpoint) (string, error)
}

var statementEnd = regexp.MustCompile(`[;}\]]$`)

type Engine struct {
	builder  *prompt.Builder
	registry *provider.Registry
	client   Sender
	enabled  bool
	debounce time.Duration
	cache    *ttlcache.Cache[string, string]
}

func NewEngine(cfg *config.Config, client Sender) *Engine {
	ttl := time.Duration(cfg.Completion.CacheTTLSeconds) * time.Second
	cache := ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithCapacity[string, string](256),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go cache.Start()

	return &Engine{
		builder:  prompt.NewBuilder(cfg),
		registry: provider.NewRegistry(cfg),
		client:   client,
		enabled:  cfg.Completion.Enabled,
		debounce: time.Duration(cfg.Completion.DebounceMS) * time.Millisecond,
		cache:    cache,
	}
}

// Close stops the cache's expiry loop.
func (e *Engine) Close() {
	e.cache.Stop()
}

// Complete returns a suggestion for the cursor in doc. It waits out the
// debounce delay first and gives up if ctx is cancelled meanwhile, so a
// newer keystroke can supersede the request.
func (e *Engine) Complete(ctx context.Context, doc *model.EditorContext, trigger Trigger) (string, bool) {
	if !e.enabled || !doc.HasDocument() {
		return "", false
	}

	linePrefix, lineRest := currentLine(doc)
	if skip(linePrefix, lineRest, trigger) {
		return "", false
	}

	if e.debounce > 0 {
		timer := time.NewTimer(e.debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", false
		case <-timer.C:
		}
	}

	ep, err := e.registry.DefaultFor(model.KindInline)
	if err != nil {
		e.logf("no completion model: %v", err)
		return "", false
	}
	req, err := e.builder.BuildInline(doc, ep.Shape)
	if err != nil {
		e.logf("build failed: %v", err)
		return "", false
	}

	key := ep.LogicalID + "\x00" + requestKey(req)
	var suggestion string
	if item := e.cache.Get(key); item != nil {
		suggestion = item.Value()
	} else {
		raw, err := e.client.Send(ctx, req, ep)
		if err != nil {
			e.logf("request failed: %v", err)
			return "", false
		}
		suggestion = strings.TrimSpace(raw)
		e.cache.Set(key, suggestion, ttlcache.DefaultTTL)
	}

	if ctx.Err() != nil || suggestion == "" || strings.HasSuffix(linePrefix, suggestion) {
		return "", false
	}
	return suggestion, true
}

// skip reports whether a completion is unlikely to be wanted: right after a
// statement terminator at the end of a line, or on a blank line unless the
// user asked explicitly.
func skip(linePrefix, lineRest string, trigger Trigger) bool {
	if statementEnd.MatchString(linePrefix) && strings.TrimSpace(lineRest) == "" {
		return true
	}
	return trigger == TriggerAutomatic && strings.TrimSpace(linePrefix) == ""
}

func currentLine(doc *model.EditorContext) (prefix, rest string) {
	before, after := doc.Split()
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		after = after[:i]
	}
	return before, after
}

func requestKey(req model.Request) string {
	if req.Completion != nil {
		return req.Completion.Prompt
	}
	var sb strings.Builder
	for _, t := range req.Chat.Messages {
		sb.WriteString(t.Content)
		sb.WriteByte(0)
	}
	return sb.String()
}

func (e *Engine) logf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Completion] "+format, args...)
	}
}
