package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is an immutable turn in a ChatSession.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// NewMessage creates a Message, rejecting content that is empty after
// trimming whitespace.
func NewMessage(role Role, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessageContent
	}
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

// ReconstructMessage rebuilds a Message from persisted fields without
// re-validating content, since a persisted message was valid when created.
func ReconstructMessage(id string, role Role, content string, createdAt time.Time) *Message {
	return &Message{ID: id, Role: role, Content: content, CreatedAt: createdAt}
}
