package repository

import (
	"context"
	"testing"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

func TestInMemoryChatSessionRepositoryRoundTrips(t *testing.T) {
	repo := NewInMemoryChatSessionRepository()
	ctx := context.Background()

	if got, err := repo.FindByID(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("FindByID(missing) = %+v, %v, want nil, nil", got, err)
	}

	session := domain.NewChatSession("session-1", "thread-1", "user-1", "channel-1")
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.FindByID(ctx, "session-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != session {
		t.Fatalf("FindByID returned a different session instance")
	}
}

func TestInMemoryFeedbackRepositoryRoundTrips(t *testing.T) {
	repo := NewInMemoryFeedbackRepository()
	ctx := context.Background()

	if got, err := repo.FindByMessageAndUser(ctx, "msg-1", "user-1"); err != nil || got != nil {
		t.Fatalf("FindByMessageAndUser = %+v, %v, want nil, nil", got, err)
	}

	feedback := domain.NewFeedback("msg-1", "user-1", domain.PolarityGood)
	if err := repo.Save(ctx, feedback); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.FindByMessageAndUser(ctx, "msg-1", "user-1")
	if err != nil {
		t.Fatalf("FindByMessageAndUser: %v", err)
	}
	if got != feedback {
		t.Fatal("FindByMessageAndUser returned a different feedback instance")
	}

	feedback.MakeNegative()
	if err := repo.Save(ctx, feedback); err != nil {
		t.Fatalf("Save (update): %v", err)
	}
	got, err = repo.FindByMessageAndUser(ctx, "msg-1", "user-1")
	if err != nil {
		t.Fatalf("FindByMessageAndUser: %v", err)
	}
	if got.Polarity != domain.PolarityBad {
		t.Fatalf("got.Polarity = %s, want bad after update", got.Polarity)
	}
}
