package provider

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tessa/config"
	"tessa/model"
	"tessa/ollama"
)

// PingEndpointMsg is sent when an endpoint ping completes
type PingEndpointMsg struct {
	LogicalID string
	Valid     bool
	Err       error
}

// EndpointModelsMsg is sent when the models behind an endpoint were listed
type EndpointModelsMsg struct {
	LogicalID string
	Models    []ollama.ModelInfo
	Err       error
}

// PingEndpoint validates an endpoint's URL and credential in the background.
// The terminal front end runs it at startup for the default chat model.
func PingEndpoint(c *Client, ep model.Endpoint) tea.Cmd {
	return func() tea.Msg {
		if err := c.Ping(context.Background(), ep); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Provider] ping %s failed: %v", ep.LogicalID, err)
			}
			return PingEndpointMsg{LogicalID: ep.LogicalID, Err: fmt.Errorf("connection failed: %w", err)}
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] ping %s ok", ep.LogicalID)
		}
		return PingEndpointMsg{LogicalID: ep.LogicalID, Valid: true}
	}
}

// FetchEndpointModels lists the models the endpoint's provider offers.
func FetchEndpointModels(c *Client, ep model.Endpoint) tea.Cmd {
	return func() tea.Msg {
		p, err := c.providerFor(ConfigForEndpoint(ep))
		if err != nil {
			return EndpointModelsMsg{LogicalID: ep.LogicalID, Err: err}
		}
		models, err := p.ListModels(context.Background())
		if err != nil {
			return EndpointModelsMsg{LogicalID: ep.LogicalID, Err: classifyError(ep.Provider, err)}
		}
		return EndpointModelsMsg{LogicalID: ep.LogicalID, Models: models}
	}
}
