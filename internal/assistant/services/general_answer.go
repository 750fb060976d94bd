package services

import (
	"context"
	"errors"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

// GeneralAnswerService executes a general-answer Task directly from model
// knowledge, with no external evidence gathering.
type GeneralAnswerService struct {
	Provider llm.Provider
	Now      func() time.Time
}

// NewGeneralAnswerService builds a GeneralAnswerService against provider.
func NewGeneralAnswerService(provider llm.Provider) *GeneralAnswerService {
	return &GeneralAnswerService{Provider: provider, Now: time.Now}
}

// Execute answers task directly and transitions it to COMPLETED (or FAILED
// on an empty response).
func (s *GeneralAnswerService) Execute(ctx context.Context, session *domain.ChatSession, task *domain.Task) error {
	messages := append([]llm.Message{llm.System(generalAnswerSystemPrompt)}, llm.FromHistory(session.Messages)...)
	messages = append(messages, llm.User(generalAnswerUserPrompt(s.Now(), task.Description)))

	response, err := s.Provider.Generate(ctx, messages)
	if err != nil {
		return err
	}

	if err := task.AddGenerationAttempt(response); err != nil {
		// An empty response is a weak result, not a transport failure: fail
		// the task the same way Task.Complete would, instead of surfacing
		// the log's rejection as an agent-terminating error.
		if errors.Is(err, domain.ErrEmptyResponse) {
			task.Fail("task produced an empty result")
			return nil
		}
		return err
	}
	return task.Complete(response)
}
