package services

import (
	"context"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

// TaskPlanningService decomposes a session's latest user request into a
// TaskPlan of independently dispatchable Tasks.
type TaskPlanningService struct {
	Provider llm.Provider
	Now      func() time.Time
}

// NewTaskPlanningService builds a TaskPlanningService against provider.
func NewTaskPlanningService(provider llm.Provider) *TaskPlanningService {
	return &TaskPlanningService{Provider: provider, Now: time.Now}
}

// Execute produces a TaskPlan for session's latest user message.
func (s *TaskPlanningService) Execute(ctx context.Context, session *domain.ChatSession) (*domain.TaskPlan, error) {
	latest, err := session.LatestUserMessage()
	if err != nil {
		return nil, err
	}

	messages := append([]llm.Message{llm.System(taskPlanSystemPrompt)}, llm.FromHistory(session.Messages)...)
	messages = append(messages, llm.User(taskPlanUserPrompt(s.Now(), latest.Content)))

	var out llm.TaskPlanOutput
	if err := s.Provider.GenerateStructured(ctx, messages, llm.TaskPlanSchema, &out); err != nil {
		return nil, err
	}
	if len(out.Tasks) == 0 {
		return nil, domain.ErrEmptyTaskList
	}

	tasks := make([]*domain.Task, 0, len(out.Tasks))
	for _, t := range out.Tasks {
		agentName, err := domain.ParseAgentName(t.NextAgent)
		if err != nil {
			return nil, err
		}
		var task *domain.Task
		switch agentName {
		case domain.AgentWebSearch:
			task, err = domain.NewWebSearchTask(t.Description)
		case domain.AgentGeneralAnswer:
			task, err = domain.NewGeneralAnswerTask(t.Description)
		}
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return domain.NewTaskPlan(latest.ID, tasks)
}
