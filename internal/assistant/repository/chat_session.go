package repository

import (
	"context"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

// ChatSessionRepository persists and reconstructs ChatSessions.
type ChatSessionRepository interface {
	// FindByID reconstructs a session by joining its messages, task plans,
	// and each plan's tasks (with TaskLogs rehydrated from their
	// typed-variant JSON column). It returns (nil, nil) if no session with
	// id exists.
	FindByID(ctx context.Context, id string) (*domain.ChatSession, error)
	// Save upserts session, its non-SYSTEM messages, its task plans, and
	// every task across those plans, in a single transaction.
	Save(ctx context.Context, session *domain.ChatSession) error
}
