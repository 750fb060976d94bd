package repository

import (
	"context"
	"sync"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

// InMemoryChatSessionRepository is a process-local ChatSessionRepository,
// used by the use-case layer's own tests and as a dependency-free default
// before a database is wired.
type InMemoryChatSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.ChatSession
}

// NewInMemoryChatSessionRepository builds an empty repository.
func NewInMemoryChatSessionRepository() *InMemoryChatSessionRepository {
	return &InMemoryChatSessionRepository{sessions: make(map[string]*domain.ChatSession)}
}

var _ ChatSessionRepository = (*InMemoryChatSessionRepository)(nil)

func (r *InMemoryChatSessionRepository) FindByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id], nil
}

func (r *InMemoryChatSessionRepository) Save(ctx context.Context, session *domain.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}
