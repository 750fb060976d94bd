package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

func planWithOneCompletedTask(t *testing.T, userMessageID string) *domain.TaskPlan {
	t.Helper()
	task, err := domain.NewGeneralAnswerTask("explain goroutines")
	if err != nil {
		t.Fatalf("NewGeneralAnswerTask: %v", err)
	}
	if err := task.Complete("goroutines are cheap"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	plan, err := domain.NewTaskPlan(userMessageID, []*domain.Task{task})
	if err != nil {
		t.Fatalf("NewTaskPlan: %v", err)
	}
	return plan
}

func TestFinalAnswerServiceSynthesizesAssistantMessage(t *testing.T) {
	provider := &fakeProvider{generateResponses: []string{"Goroutines are cheap concurrent functions managed by the Go runtime."}}
	svc := &FinalAnswerService{Provider: provider, Now: func() time.Time { return time.Unix(0, 0) }}

	session := newSessionWithUserMessage(t, "explain goroutines")
	plan := planWithOneCompletedTask(t, session.Messages[0].ID)

	msg, err := svc.Execute(context.Background(), session, plan)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if msg.Role != domain.RoleAssistant {
		t.Fatalf("msg.Role = %s, want assistant", msg.Role)
	}
	if !strings.Contains(msg.Content, "Goroutines") {
		t.Fatalf("msg.Content = %q", msg.Content)
	}
}

func TestFinalAnswerServiceFailsWhenAllTasksFailed(t *testing.T) {
	provider := &fakeProvider{generateResponses: []string{"unused"}}
	svc := &FinalAnswerService{Provider: provider, Now: time.Now}

	session := newSessionWithUserMessage(t, "explain goroutines")
	task, err := domain.NewGeneralAnswerTask("explain goroutines")
	if err != nil {
		t.Fatalf("NewGeneralAnswerTask: %v", err)
	}
	task.Fail("no answer")
	plan, err := domain.NewTaskPlan(session.Messages[0].ID, []*domain.Task{task})
	if err != nil {
		t.Fatalf("NewTaskPlan: %v", err)
	}

	if _, err := svc.Execute(context.Background(), session, plan); err != domain.ErrAllTasksFailed {
		t.Fatalf("err = %v, want ErrAllTasksFailed", err)
	}
}

func TestFinalAnswerServiceRequiresUserMessage(t *testing.T) {
	provider := &fakeProvider{}
	svc := &FinalAnswerService{Provider: provider, Now: time.Now}

	session := domain.NewChatSession("session-1", "", "user-1", "")
	plan := planWithOneCompletedTask(t, "msg-1")

	if _, err := svc.Execute(context.Background(), session, plan); err != domain.ErrUserMessageNotFound {
		t.Fatalf("err = %v, want ErrUserMessageNotFound", err)
	}
}
