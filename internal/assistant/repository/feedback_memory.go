package repository

import (
	"context"
	"sync"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

// InMemoryFeedbackRepository is a process-local FeedbackRepository.
type InMemoryFeedbackRepository struct {
	mu   sync.Mutex
	byID map[string]*domain.Feedback // keyed by messageID + "\x00" + userID
}

// NewInMemoryFeedbackRepository builds an empty repository.
func NewInMemoryFeedbackRepository() *InMemoryFeedbackRepository {
	return &InMemoryFeedbackRepository{byID: make(map[string]*domain.Feedback)}
}

var _ FeedbackRepository = (*InMemoryFeedbackRepository)(nil)

func feedbackKey(messageID, userID string) string {
	return messageID + "\x00" + userID
}

func (r *InMemoryFeedbackRepository) FindByMessageAndUser(ctx context.Context, messageID, userID string) (*domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[feedbackKey(messageID, userID)], nil
}

func (r *InMemoryFeedbackRepository) Save(ctx context.Context, feedback *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[feedbackKey(feedback.MessageID, feedback.UserID)] = feedback
	return nil
}
