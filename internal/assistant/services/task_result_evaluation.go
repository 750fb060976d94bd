package services

import (
	"context"
	"strings"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

// TaskResultEvaluationService judges whether a task's result adequately
// answers its description, and if not, which retry target to use.
type TaskResultEvaluationService struct {
	Provider llm.Provider
	Now      func() time.Time
}

// NewTaskResultEvaluationService builds a TaskResultEvaluationService.
func NewTaskResultEvaluationService(provider llm.Provider) *TaskResultEvaluationService {
	return &TaskResultEvaluationService{Provider: provider, Now: time.Now}
}

// Execute evaluates task.Result, requiring one to already be present.
func (s *TaskResultEvaluationService) Execute(ctx context.Context, task *domain.Task) (domain.TaskEvaluation, error) {
	if strings.TrimSpace(task.Result) == "" {
		return domain.TaskEvaluation{}, domain.ErrTaskResultNotFound
	}

	messages := []llm.Message{
		llm.System(taskEvaluationSystemPrompt),
		llm.User(taskEvaluationUserPrompt(s.Now(), task.Description, task.Result)),
	}

	var out llm.TaskEvaluationOutput
	if err := s.Provider.GenerateStructured(ctx, messages, llm.TaskEvaluationSchema, &out); err != nil {
		return domain.TaskEvaluation{}, err
	}

	need := domain.NeedNone
	if out.Need != nil {
		need = domain.EvaluationNeed(*out.Need)
	}
	feedback := ""
	if out.Feedback != nil {
		feedback = *out.Feedback
	}

	return domain.NewTaskEvaluation(out.IsSatisfactory, need, out.Reason, feedback), nil
}
