package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

// PostgresFeedbackRepository is the postgres-backed FeedbackRepository.
type PostgresFeedbackRepository struct {
	db *sql.DB
}

// NewPostgresFeedbackRepository wraps db.
func NewPostgresFeedbackRepository(db *sql.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

var _ FeedbackRepository = (*PostgresFeedbackRepository)(nil)

func (r *PostgresFeedbackRepository) FindByMessageAndUser(ctx context.Context, messageID, userID string) (*domain.Feedback, error) {
	var (
		id, polarity         string
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, feedback, created_at, updated_at
		FROM feedbacks WHERE message_id = $1 AND user_id = $2
	`, messageID, userID).Scan(&id, &polarity, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &RepositoryFetchError{Entity: "feedback", Cause: err}
	}
	return domain.ReconstructFeedback(id, messageID, userID, domain.Polarity(polarity), createdAt, updatedAt), nil
}

func (r *PostgresFeedbackRepository) Save(ctx context.Context, feedback *domain.Feedback) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feedbacks (id, message_id, user_id, feedback, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (message_id, user_id) DO UPDATE SET
			feedback = EXCLUDED.feedback,
			updated_at = EXCLUDED.updated_at
	`, feedback.ID, feedback.MessageID, feedback.UserID, string(feedback.Polarity), feedback.CreatedAt, feedback.UpdatedAt)
	if err != nil {
		return &RepositorySaveError{Entity: "feedback", Cause: err}
	}
	return nil
}
