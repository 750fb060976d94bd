package repository

import (
	"context"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

// FeedbackRepository persists and reconstructs Feedback.
type FeedbackRepository interface {
	// FindByMessageAndUser returns (nil, nil) if no feedback exists for the
	// (messageID, userID) pair.
	FindByMessageAndUser(ctx context.Context, messageID, userID string) (*domain.Feedback, error)
	// Save upserts feedback on the (message_id, user_id) unique key.
	Save(ctx context.Context, feedback *domain.Feedback) error
}
