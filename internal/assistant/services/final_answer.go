package services

import (
	"context"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

// FinalAnswerService synthesizes one integrated ASSISTANT Message from a
// session's history and the results of every task in its TaskPlan.
type FinalAnswerService struct {
	Provider llm.Provider
	Now      func() time.Time
}

// NewFinalAnswerService builds a FinalAnswerService.
func NewFinalAnswerService(provider llm.Provider) *FinalAnswerService {
	return &FinalAnswerService{Provider: provider, Now: time.Now}
}

// Execute synthesizes the final answer. It does not append the returned
// Message to session; the caller owns that.
func (s *FinalAnswerService) Execute(ctx context.Context, session *domain.ChatSession, plan *domain.TaskPlan) (*domain.Message, error) {
	latest, err := session.LatestUserMessage()
	if err != nil {
		return nil, err
	}

	formatted, err := plan.FormatTaskResults()
	if err != nil {
		return nil, err
	}

	messages := append([]llm.Message{llm.System(finalAnswerSystemPrompt)}, llm.FromHistory(session.HistoryExcludingLatestUserMessage())...)
	messages = append(messages, llm.User(finalAnswerUserPrompt(s.Now(), latest.Content, formatted)))

	response, err := s.Provider.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	return domain.NewMessage(domain.RoleAssistant, response)
}
