package services

import (
	"context"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

// TaskResultGenerationService synthesizes a web-search Task's result from
// every SearchResult gathered across its attempts so far.
type TaskResultGenerationService struct {
	Provider llm.Provider
	Now      func() time.Time
}

// NewTaskResultGenerationService builds a TaskResultGenerationService.
func NewTaskResultGenerationService(provider llm.Provider) *TaskResultGenerationService {
	return &TaskResultGenerationService{Provider: provider, Now: time.Now}
}

// Execute synthesizes task's result from its accumulated search evidence.
// previousResult is the task's prior result when this is a retry (attempt
// > 0), empty otherwise.
func (s *TaskResultGenerationService) Execute(ctx context.Context, task *domain.Task, feedback, previousResult string) error {
	results := task.Log.AllSearchResults()

	messages := []llm.Message{
		llm.System(taskResultSystemPrompt),
		llm.User(taskResultUserPrompt(s.Now(), task.Description, results, feedback, previousResult)),
	}

	response, err := s.Provider.Generate(ctx, messages)
	if err != nil {
		return err
	}

	if task.Status == domain.TaskStatusInProgress {
		return task.Complete(response)
	}
	return task.UpdateResult(response)
}
