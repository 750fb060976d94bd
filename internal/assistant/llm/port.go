// Package llm defines the capability the domain services depend on for text
// completion and schema-constrained structured output, plus the concrete
// provider adapters (Anthropic, OpenAI) that satisfy it.
package llm

import (
	"context"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

// Message is one entry in the ordered list passed to a Provider call. A
// well-formed list begins with a SYSTEM message and ends with a USER
// message; intermediate history may interleave USER/ASSISTANT.
type Message struct {
	Role    domain.Role
	Content string
}

// System builds a SYSTEM Message.
func System(content string) Message { return Message{Role: domain.RoleSystem, Content: content} }

// User builds a USER Message.
func User(content string) Message { return Message{Role: domain.RoleUser, Content: content} }

// Assistant builds an ASSISTANT Message.
func Assistant(content string) Message { return Message{Role: domain.RoleAssistant, Content: content} }

// FromHistory converts a session's domain Messages into port Messages,
// preserving order.
func FromHistory(messages []*domain.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// Provider is the capability the domain services use for LLM calls. It is
// stateless and side-effect-free beyond the network call; implementations
// must be safe for concurrent use.
type Provider interface {
	// Generate returns the assistant's free-form response to messages.
	Generate(ctx context.Context, messages []Message) (string, error)

	// GenerateStructured returns a value conforming to schema, decoded into
	// out (a pointer). The port enforces the schema: if the provider
	// returns a value the schema cannot accept, the call fails.
	GenerateStructured(ctx context.Context, messages []Message, schema *Schema, out any) error
}
