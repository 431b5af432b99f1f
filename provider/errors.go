package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"tessa/model"
)

// authPhrases are provider messages that mean the credential was rejected
// even when the status code says otherwise (some OpenAI-compatible servers
// answer 400).
var authPhrases = []string{
	"incorrect api key",
	"invalid api key",
	"invalid x-api-key",
	"invalid_api_key",
	"authentication",
	"unauthorized",
}

// classifyError wraps a provider error into a *model.TransportError,
// keeping the provider's own message and flagging credential rejections.
func classifyError(providerName string, err error) error {
	if err == nil {
		return nil
	}

	te := &model.TransportError{
		Provider: providerName,
		Message:  err.Error(),
		Err:      err,
	}

	var (
		oaErr *openai.Error
		anErr *anthropic.Error
		olErr api.StatusError
	)
	switch {
	case errors.As(err, &oaErr):
		te.StatusCode = oaErr.StatusCode
		if oaErr.Message != "" {
			te.Message = oaErr.Message
		}
	case errors.As(err, &anErr):
		te.StatusCode = anErr.StatusCode
	case errors.As(err, &olErr):
		te.StatusCode = olErr.StatusCode
		if olErr.ErrorMessage != "" {
			te.Message = olErr.ErrorMessage
		}
	case errors.Is(err, context.DeadlineExceeded):
		te.Message = "the request timed out"
	}

	te.Auth = isAuthFailure(te.StatusCode, te.Message)
	return te
}

func isAuthFailure(status int, message string) bool {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return true
	}
	lower := strings.ToLower(message)
	for _, phrase := range authPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
