package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tessa/config"
	"tessa/model"
)

// Factory builds a provider for a configuration. Tests substitute one that
// returns a mock.
type Factory func(Config) (model.Provider, error)

// Client sends built requests to resolved endpoints. Providers are created
// lazily and cached per configuration, so repeated calls to the same
// endpoint reuse one SDK client.
type Client struct {
	factory Factory

	mu        sync.Mutex
	providers map[Config]model.Provider
}

func NewClient() *Client {
	return NewClientWithFactory(NewProvider)
}

func NewClientWithFactory(f Factory) *Client {
	return &Client{
		factory:   f,
		providers: make(map[Config]model.Provider),
	}
}

// Send performs exactly one call and returns the raw model text.
//
// Checks run before anything touches the network, in this order:
//  1. the endpoint needs a credential and none resolved → *model.ConfigError
//  2. the request is malformed or its shape differs from the endpoint's → *model.ConfigError
//  3. the provider cannot be constructed → *model.ConfigError
//
// A failed call returns *model.TransportError; a successful call with
// blank text returns *model.EmptyResponseError.
func (c *Client) Send(ctx context.Context, req model.Request, ep model.Endpoint) (string, error) {
	pcfg := ConfigForEndpoint(ep)

	if pcfg.Type.RequiresAPIKey() && ep.APIKey == "" {
		return "", &model.ConfigError{
			LogicalID: ep.LogicalID,
			Message:   fmt.Sprintf("API Key is not configured for model %s.", ep.DisplayName),
		}
	}
	if err := req.Validate(); err != nil {
		return "", &model.ConfigError{LogicalID: ep.LogicalID, Message: err.Error()}
	}
	if req.Shape != ep.Shape {
		return "", &model.ConfigError{
			LogicalID: ep.LogicalID,
			Message:   fmt.Sprintf("Model %s accepts %s requests, not %s.", ep.DisplayName, ep.Shape, req.Shape),
		}
	}

	p, err := c.providerFor(pcfg)
	if err != nil {
		return "", &model.ConfigError{LogicalID: ep.LogicalID, Message: err.Error()}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Client] %s request to %s (%s, %s)", req.Kind, ep.LogicalID, ep.Provider, req.Shape)
	}

	var text string
	switch req.Shape {
	case model.ShapeChat:
		text, err = p.Chat(ctx, req.Chat, req.Params)
	case model.ShapeCompletion:
		text, err = p.Complete(ctx, req.Completion, req.Params)
	}
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Client] %s request to %s failed: %v", req.Kind, ep.LogicalID, err)
		}
		return "", classifyError(ep.Provider, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", &model.EmptyResponseError{Kind: req.Kind}
	}
	return text, nil
}

// Ping checks that an endpoint is reachable and its credential accepted.
func (c *Client) Ping(ctx context.Context, ep model.Endpoint) error {
	p, err := c.providerFor(ConfigForEndpoint(ep))
	if err != nil {
		return &model.ConfigError{LogicalID: ep.LogicalID, Message: err.Error()}
	}
	if err := p.Ping(ctx); err != nil {
		return classifyError(ep.Provider, err)
	}
	return nil
}

func (c *Client) providerFor(cfg Config) (model.Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.providers[cfg]; ok {
		return p, nil
	}
	p, err := c.factory(cfg)
	if err != nil {
		return nil, err
	}
	c.providers[cfg] = p
	return p, nil
}
