package model

import (
	"errors"
	"fmt"
)

// ConfigError reports a missing or unusable setting: no credential, no model
// id, or an endpoint that cannot serve the request.
type ConfigError struct {
	LogicalID string
	Message   string
}

func (e *ConfigError) Error() string {
	if e.LogicalID == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config (%s): %s", e.LogicalID, e.Message)
}

func (e *ConfigError) UserMessage() string {
	return e.Message + " Please check your settings."
}

type NoContextError struct {
	Command string
	Message string
}

func (e *NoContextError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

func (e *NoContextError) UserMessage() string {
	return e.Message
}

// TransportError wraps a failed call to a model API. Auth is set for
// rejected credentials.
type TransportError struct {
	Provider   string
	StatusCode int
	Message    string
	Auth       bool
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) UserMessage() string {
	if e.Auth {
		return "Incorrect API Key provided. Please check your settings."
	}
	return "Error: " + e.Message
}

type EmptyResponseError struct {
	Kind Kind
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response for %s request", e.Kind)
}

func (e *EmptyResponseError) UserMessage() string {
	if e.Kind == KindUpdateFile {
		return "AI could not generate an update for the file."
	}
	return "Received no response from AI."
}

// ApplyConflictError is returned when the target file no longer matches the
// content the proposal was built from.
type ApplyConflictError struct {
	FilePath string
}

func (e *ApplyConflictError) Error() string {
	return fmt.Sprintf("%s changed since the update was requested", e.FilePath)
}

func (e *ApplyConflictError) UserMessage() string {
	return fmt.Sprintf("%s changed on disk after the update was requested. The AI update was not applied.", e.FilePath)
}

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return "Error: " + err.Error()
}

func IsAuthError(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Auth
}
