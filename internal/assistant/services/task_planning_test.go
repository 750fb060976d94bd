package services

import (
	"context"
	"testing"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

func newSessionWithUserMessage(t *testing.T, content string) *domain.ChatSession {
	t.Helper()
	session := domain.NewChatSession("session-1", "", "user-1", "")
	msg, err := domain.NewMessage(domain.RoleUser, content)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if err := session.AddUserMessage(msg); err != nil {
		t.Fatalf("AddUserMessage: %v", err)
	}
	return session
}

func TestTaskPlanningServiceBuildsOneTaskPerEntry(t *testing.T) {
	provider := &fakeProvider{structuredResponses: []any{llm.TaskPlanOutput{
		Tasks: []llm.TaskPlanTask{
			{Description: "look up release notes", NextAgent: "web_search"},
			{Description: "explain the concept", NextAgent: "general_answer"},
		},
		Reason: "needs both",
	}}}
	svc := &TaskPlanningService{Provider: provider, Now: func() time.Time { return time.Unix(0, 0) }}

	session := newSessionWithUserMessage(t, "explain goroutines and find the latest release notes")
	plan, err := svc.Execute(context.Background(), session)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(plan.Tasks) != 2 {
		t.Fatalf("len(plan.Tasks) = %d, want 2", len(plan.Tasks))
	}
	if plan.Tasks[0].AgentName != domain.AgentWebSearch {
		t.Fatalf("Tasks[0].AgentName = %s, want web_search", plan.Tasks[0].AgentName)
	}
	if plan.Tasks[1].AgentName != domain.AgentGeneralAnswer {
		t.Fatalf("Tasks[1].AgentName = %s, want general_answer", plan.Tasks[1].AgentName)
	}
}

func TestTaskPlanningServiceRejectsUnknownAgent(t *testing.T) {
	provider := &fakeProvider{structuredResponses: []any{llm.TaskPlanOutput{
		Tasks:  []llm.TaskPlanTask{{Description: "do something", NextAgent: "carrier_pigeon"}},
		Reason: "bad",
	}}}
	svc := &TaskPlanningService{Provider: provider, Now: time.Now}

	session := newSessionWithUserMessage(t, "anything")
	if _, err := svc.Execute(context.Background(), session); err != domain.ErrUnknownAgent {
		t.Fatalf("err = %v, want ErrUnknownAgent", err)
	}
}

func TestTaskPlanningServiceRequiresUserMessage(t *testing.T) {
	provider := &fakeProvider{}
	svc := &TaskPlanningService{Provider: provider, Now: time.Now}

	session := domain.NewChatSession("session-1", "", "user-1", "")
	if _, err := svc.Execute(context.Background(), session); err != domain.ErrUserMessageNotFound {
		t.Fatalf("err = %v, want ErrUserMessageNotFound", err)
	}
}

func TestTaskPlanningServiceRejectsEmptyTaskList(t *testing.T) {
	provider := &fakeProvider{structuredResponses: []any{llm.TaskPlanOutput{Tasks: nil, Reason: "n/a"}}}
	svc := &TaskPlanningService{Provider: provider, Now: time.Now}

	session := newSessionWithUserMessage(t, "anything")
	if _, err := svc.Execute(context.Background(), session); err != domain.ErrEmptyTaskList {
		t.Fatalf("err = %v, want ErrEmptyTaskList", err)
	}
}
