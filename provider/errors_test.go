package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tessa/model"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantAuth bool
	}{
		{"plain network error", errors.New("dial tcp: connection refused"), false},
		{"auth phrase in message", errors.New("Incorrect API key provided: sk-***"), true},
		{"invalid x-api-key", fmt.Errorf("wrapped: %w", errors.New("invalid x-api-key")), true},
		{"deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError("openai", tt.err)

			var te *model.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %T", err)
			}
			if te.Auth != tt.wantAuth {
				t.Errorf("Auth = %v, want %v", te.Auth, tt.wantAuth)
			}
			if !errors.Is(err, tt.err) {
				t.Error("original error not preserved")
			}
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	if classifyError("openai", nil) != nil {
		t.Error("expected nil")
	}
}

func TestIsAuthFailureStatus(t *testing.T) {
	if !isAuthFailure(401, "") || !isAuthFailure(403, "") {
		t.Error("401 and 403 must be auth failures")
	}
	if isAuthFailure(500, "internal error") {
		t.Error("500 is not an auth failure")
	}
}
