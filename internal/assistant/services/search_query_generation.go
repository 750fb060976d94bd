package services

import (
	"context"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

// SearchQueryGenerationService proposes up to 3 search queries for a
// web-search Task, diversifying away from queries already tried and
// incorporating evaluator feedback when present.
type SearchQueryGenerationService struct {
	Provider llm.Provider
	Now      func() time.Time
}

// NewSearchQueryGenerationService builds a SearchQueryGenerationService.
func NewSearchQueryGenerationService(provider llm.Provider) *SearchQueryGenerationService {
	return &SearchQueryGenerationService{Provider: provider, Now: time.Now}
}

// Execute returns the queries to run next for task. feedback is the
// evaluator's feedback from a prior attempt, if any.
func (s *SearchQueryGenerationService) Execute(ctx context.Context, task *domain.Task, feedback string) ([]string, error) {
	usedQueries := task.Log.UsedQueries()

	messages := []llm.Message{
		llm.System(searchQuerySystemPrompt),
		llm.User(searchQueryUserPrompt(s.Now(), task.Description, usedQueries, feedback)),
	}

	var out llm.SearchQueriesOutput
	if err := s.Provider.GenerateStructured(ctx, messages, llm.SearchQueriesSchema, &out); err != nil {
		return nil, err
	}
	return out.Queries, nil
}
