package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry of the session log. Messages are never mutated after
// they are appended.
type Message struct {
	ID        string
	Role      Role
	Text      string // display text; sanitized HTML when IsMarkup is set
	IsMarkup  bool
	Raw       string // unrendered model text, replayed as history
	Timestamp time.Time
}

func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Raw:       text,
		Timestamp: time.Now(),
	}
}

// NewMarkupMessage creates an assistant message whose display text was
// rendered from raw.
func NewMarkupMessage(raw, rendered string) Message {
	msg := NewMessage(RoleAssistant, rendered)
	msg.IsMarkup = true
	msg.Raw = raw
	return msg
}
