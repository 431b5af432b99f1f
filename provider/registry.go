package provider

import (
	"fmt"

	"tessa/config"
	"tessa/model"
)

// Registry resolves logical model ids against the loaded configuration.
// It never reads settings from disk; the Config it holds is fixed for the
// life of the process.
type Registry struct {
	cfg *config.Config
}

func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg}
}

// Resolve turns a logical model id into an endpoint. The [[models]] entry
// with that id supplies name, shape, provider and optional URL and key;
// missing values fall back per config.ResolveAPIURL and ResolveAPIKey. An id
// with no entry is served by the global settings. Its shape is completion
// only when it is the default completion model.
//
// A missing credential is not an error here; Client.Send reports it.
func (r *Registry) Resolve(logicalID string) (model.Endpoint, error) {
	if logicalID == "" {
		return model.Endpoint{}, &model.ConfigError{Message: "No model is configured for this action."}
	}

	mc, ok := r.cfg.ModelByID(logicalID)
	if !ok {
		mc = config.ModelConfig{ID: logicalID}
		if logicalID == r.cfg.DefaultCompletionModel {
			mc.Type = string(model.ShapeCompletion)
		}
	}

	shape, err := model.ParseShape(mc.Type)
	if err != nil {
		return model.Endpoint{}, &model.ConfigError{LogicalID: logicalID, Message: fmt.Sprintf("Model %s has an invalid type %q.", logicalID, mc.Type)}
	}

	providerID := config.ProviderOf(mc)
	if !config.KnownProvider(providerID) {
		return model.Endpoint{}, &model.ConfigError{LogicalID: logicalID, Message: fmt.Sprintf("Model %s uses unknown provider %q.", logicalID, providerID)}
	}

	name := mc.Name
	if name == "" {
		name = logicalID
	}

	return model.Endpoint{
		LogicalID:   logicalID,
		DisplayName: name,
		BaseURL:     r.cfg.ResolveAPIURL(mc),
		APIKey:      r.cfg.ResolveAPIKey(mc),
		Shape:       shape,
		Provider:    providerID,
	}, nil
}

// DefaultID returns the configured logical model id for a request kind.
func (r *Registry) DefaultID(kind model.Kind) string {
	switch kind {
	case model.KindFIM:
		return r.cfg.DefaultFimModel
	case model.KindInline:
		return r.cfg.DefaultCompletionModel
	default:
		return r.cfg.DefaultChatModel
	}
}

// DefaultFor resolves the default endpoint for a request kind.
func (r *Registry) DefaultFor(kind model.Kind) (model.Endpoint, error) {
	return r.Resolve(r.DefaultID(kind))
}

// Models lists the configured overrides in order, followed by any default
// model ids that have no entry of their own.
func (r *Registry) Models() []model.ModelSummary {
	seen := make(map[string]bool)
	var out []model.ModelSummary

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ep, err := r.Resolve(id)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Registry] skipping model %s: %v", id, err)
			}
			return
		}
		out = append(out, model.ModelSummary{
			ID:       ep.LogicalID,
			Name:     ep.DisplayName,
			Type:     ep.Shape,
			Provider: ep.Provider,
		})
	}

	for _, m := range r.cfg.Models {
		add(m.ID)
	}
	add(r.cfg.DefaultChatModel)
	add(r.cfg.DefaultCompletionModel)
	add(r.cfg.DefaultFimModel)
	return out
}
