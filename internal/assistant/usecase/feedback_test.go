package usecase

import (
	"context"
	"testing"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/repository"
)

func TestFeedbackUseCaseCreatesNewFeedback(t *testing.T) {
	repo := repository.NewInMemoryFeedbackRepository()
	uc := NewFeedbackUseCase(repo)

	err := uc.Execute(context.Background(), FeedbackInput{
		MessageID:    "msg-1",
		UserID:       "user-1",
		FeedbackType: "good",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	fb, err := repo.FindByMessageAndUser(context.Background(), "msg-1", "user-1")
	if err != nil {
		t.Fatalf("FindByMessageAndUser: %v", err)
	}
	if fb == nil {
		t.Fatal("expected feedback to be created")
	}
	if fb.Polarity != domain.PolarityGood {
		t.Fatalf("fb.Polarity = %v, want good", fb.Polarity)
	}
}

func TestFeedbackUseCaseMutatesExistingFeedbackPolarity(t *testing.T) {
	repo := repository.NewInMemoryFeedbackRepository()
	uc := NewFeedbackUseCase(repo)

	if err := uc.Execute(context.Background(), FeedbackInput{
		MessageID:    "msg-1",
		UserID:       "user-1",
		FeedbackType: "good",
	}); err != nil {
		t.Fatalf("Execute (create): %v", err)
	}

	if err := uc.Execute(context.Background(), FeedbackInput{
		MessageID:    "msg-1",
		UserID:       "user-1",
		FeedbackType: "bad",
	}); err != nil {
		t.Fatalf("Execute (update): %v", err)
	}

	fb, err := repo.FindByMessageAndUser(context.Background(), "msg-1", "user-1")
	if err != nil {
		t.Fatalf("FindByMessageAndUser: %v", err)
	}
	if fb == nil {
		t.Fatal("expected feedback to exist")
	}
	if fb.Polarity != domain.PolarityBad {
		t.Fatalf("fb.Polarity = %v, want bad after mutation", fb.Polarity)
	}
}

func TestFeedbackUseCaseRejectsEmptyMessageID(t *testing.T) {
	repo := repository.NewInMemoryFeedbackRepository()
	uc := NewFeedbackUseCase(repo)

	err := uc.Execute(context.Background(), FeedbackInput{
		MessageID:    "",
		UserID:       "user-1",
		FeedbackType: "good",
	})
	if ie, ok := err.(*InvalidInputError); !ok || ie.Field != "message_id" {
		t.Fatalf("err = %v, want InvalidInputError{Field: message_id}", err)
	}
}

func TestFeedbackUseCaseRejectsEmptyUserID(t *testing.T) {
	repo := repository.NewInMemoryFeedbackRepository()
	uc := NewFeedbackUseCase(repo)

	err := uc.Execute(context.Background(), FeedbackInput{
		MessageID:    "msg-1",
		UserID:       "",
		FeedbackType: "good",
	})
	if ie, ok := err.(*InvalidInputError); !ok || ie.Field != "user_id" {
		t.Fatalf("err = %v, want InvalidInputError{Field: user_id}", err)
	}
}

func TestFeedbackUseCaseRejectsUnknownFeedbackType(t *testing.T) {
	repo := repository.NewInMemoryFeedbackRepository()
	uc := NewFeedbackUseCase(repo)

	err := uc.Execute(context.Background(), FeedbackInput{
		MessageID:    "msg-1",
		UserID:       "user-1",
		FeedbackType: "neutral",
	})
	if ie, ok := err.(*InvalidInputError); !ok || ie.Field != "feedback_type" {
		t.Fatalf("err = %v, want InvalidInputError{Field: feedback_type}", err)
	}
}
