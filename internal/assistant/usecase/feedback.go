package usecase

import (
	"context"
	"strings"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/repository"
)

// FeedbackInput is the feedback request contract.
type FeedbackInput struct {
	MessageID    string
	FeedbackType string // "good" or "bad"
	UserID       string
}

// FeedbackUseCase records a user's good/bad signal on a prior answer,
// upserting by (message_id, user_id).
type FeedbackUseCase struct {
	Feedback repository.FeedbackRepository
}

// NewFeedbackUseCase builds the use case against repo.
func NewFeedbackUseCase(repo repository.FeedbackRepository) *FeedbackUseCase {
	return &FeedbackUseCase{Feedback: repo}
}

// Execute validates input, then mutates existing feedback for the
// (message_id, user_id) pair or creates new feedback.
func (uc *FeedbackUseCase) Execute(ctx context.Context, input FeedbackInput) error {
	if strings.TrimSpace(input.MessageID) == "" {
		return &InvalidInputError{Field: "message_id"}
	}
	if strings.TrimSpace(input.UserID) == "" {
		return &InvalidInputError{Field: "user_id"}
	}
	var polarity domain.Polarity
	switch input.FeedbackType {
	case "good":
		polarity = domain.PolarityGood
	case "bad":
		polarity = domain.PolarityBad
	default:
		return &InvalidInputError{Field: "feedback_type"}
	}

	existing, err := uc.Feedback.FindByMessageAndUser(ctx, input.MessageID, input.UserID)
	if err != nil {
		return err
	}

	if existing != nil {
		if polarity == domain.PolarityGood {
			existing.MakePositive()
		} else {
			existing.MakeNegative()
		}
		return uc.Feedback.Save(ctx, existing)
	}

	return uc.Feedback.Save(ctx, domain.NewFeedback(input.MessageID, input.UserID, polarity))
}
