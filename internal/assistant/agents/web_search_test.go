package agents

import (
	"context"
	"testing"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/graph"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
	"github.com/haasonsaas/nexus/internal/assistant/services"
)

func need(s string) *string { return &s }

func newWebSearchAgent(queriesProvider, resultProvider, evalProvider *fakeProvider, searchResults []domain.SearchResult) (*WebSearchAgent, *fakeSearchPort) {
	port := &fakeSearchPort{results: searchResults}
	agent := NewWebSearchAgent(
		services.NewSearchQueryGenerationService(queriesProvider),
		port,
		services.NewTaskResultGenerationService(resultProvider),
		services.NewTaskResultEvaluationService(evalProvider),
	)
	return agent, port
}

func TestWebSearchAgentOnePassSatisfiedCompletesWithOneAttempt(t *testing.T) {
	queriesProvider := &fakeProvider{structuredResponses: []any{llm.SearchQueriesOutput{
		Queries: []string{"latest python version"}, Reason: "one query suffices",
	}}}
	resultProvider := &fakeProvider{generateResponses: []string{"Python 3.13 released[0]"}}
	evalProvider := &fakeProvider{structuredResponses: []any{llm.TaskEvaluationOutput{
		IsSatisfactory: true, Reason: "covers the question",
	}}}

	results := []domain.SearchResult{{URL: "https://python.org", Title: "Python", Content: "Python 3.13"}}
	agent, port := newWebSearchAgent(queriesProvider, resultProvider, evalProvider, results)

	task, err := domain.NewWebSearchTask("latest Python version")
	if err != nil {
		t.Fatalf("NewWebSearchTask: %v", err)
	}

	if err := graph.NewEngine(0).Run(context.Background(), agent.Entry(task)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if task.Status != domain.TaskStatusCompleted {
		t.Fatalf("task.Status = %s, want completed", task.Status)
	}
	if got := len(task.Log.WebSearch.Attempts); got != 1 {
		t.Fatalf("SearchAttempts = %d, want 1", got)
	}
	if queriesProvider.structuredCalls != 1 {
		t.Fatalf("SearchQueryGeneration calls = %d, want 1", queriesProvider.structuredCalls)
	}
	if resultProvider.generateCalls != 1 {
		t.Fatalf("TaskResultGeneration calls = %d, want 1", resultProvider.generateCalls)
	}
	if evalProvider.structuredCalls != 1 {
		t.Fatalf("TaskResultEvaluation calls = %d, want 1", evalProvider.structuredCalls)
	}
	if len(port.queries) != 1 {
		t.Fatalf("search port queries = %v, want 1", port.queries)
	}
}

func TestWebSearchAgentRetriesSearchOnNeedSearch(t *testing.T) {
	queriesProvider := &fakeProvider{structuredResponses: []any{
		llm.SearchQueriesOutput{Queries: []string{"python version"}, Reason: "first try"},
		llm.SearchQueriesOutput{Queries: []string{"python version 2026"}, Reason: "use year"},
	}}
	resultProvider := &fakeProvider{generateResponses: []string{"Python 3.x (unclear)", "Python 3.13, released 2026"}}
	evalProvider := &fakeProvider{structuredResponses: []any{
		llm.TaskEvaluationOutput{IsSatisfactory: false, Need: need("search"), Reason: "stale", Feedback: need("use year")},
		llm.TaskEvaluationOutput{IsSatisfactory: true, Reason: "covers the question"},
	}}

	results := []domain.SearchResult{{URL: "https://python.org", Title: "Python", Content: "Python 3.13"}}
	agent, port := newWebSearchAgent(queriesProvider, resultProvider, evalProvider, results)

	task, err := domain.NewWebSearchTask("latest Python version")
	if err != nil {
		t.Fatalf("NewWebSearchTask: %v", err)
	}

	if err := graph.NewEngine(0).Run(context.Background(), agent.Entry(task)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if task.Status != domain.TaskStatusCompleted {
		t.Fatalf("task.Status = %s, want completed", task.Status)
	}
	if got := len(task.Log.WebSearch.Attempts); got != 2 {
		t.Fatalf("SearchAttempts = %d, want 2", got)
	}
	if queriesProvider.structuredCalls != 2 {
		t.Fatalf("SearchQueryGeneration calls = %d, want 2", queriesProvider.structuredCalls)
	}
	if resultProvider.generateCalls != 2 {
		t.Fatalf("TaskResultGeneration calls = %d, want 2", resultProvider.generateCalls)
	}
	if evalProvider.structuredCalls != 2 {
		t.Fatalf("TaskResultEvaluation calls = %d, want 2", evalProvider.structuredCalls)
	}
	if len(port.queries) != 2 {
		t.Fatalf("search port queries = %v, want 2", port.queries)
	}
}

func TestWebSearchAgentRetriesGenerationOnNeedGenerateWithoutResearching(t *testing.T) {
	queriesProvider := &fakeProvider{structuredResponses: []any{
		llm.SearchQueriesOutput{Queries: []string{"python version"}, Reason: "first try"},
	}}
	resultProvider := &fakeProvider{generateResponses: []string{"Python 3.13", "Python 3.13, see https://python.org"}}
	evalProvider := &fakeProvider{structuredResponses: []any{
		llm.TaskEvaluationOutput{IsSatisfactory: false, Need: need("generate"), Reason: "missing citation", Feedback: need("cite URL")},
		llm.TaskEvaluationOutput{IsSatisfactory: true, Reason: "covers the question"},
	}}

	results := []domain.SearchResult{{URL: "https://python.org", Title: "Python", Content: "Python 3.13"}}
	agent, port := newWebSearchAgent(queriesProvider, resultProvider, evalProvider, results)

	task, err := domain.NewWebSearchTask("latest Python version")
	if err != nil {
		t.Fatalf("NewWebSearchTask: %v", err)
	}

	if err := graph.NewEngine(0).Run(context.Background(), agent.Entry(task)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if task.Status != domain.TaskStatusCompleted {
		t.Fatalf("task.Status = %s, want completed", task.Status)
	}
	if got := len(task.Log.WebSearch.Attempts); got != 1 {
		t.Fatalf("SearchAttempts = %d, want 1 (search not re-run)", got)
	}
	if queriesProvider.structuredCalls != 1 {
		t.Fatalf("SearchQueryGeneration calls = %d, want 1", queriesProvider.structuredCalls)
	}
	if resultProvider.generateCalls != 2 {
		t.Fatalf("TaskResultGeneration calls = %d, want 2", resultProvider.generateCalls)
	}
	if len(port.queries) != 1 {
		t.Fatalf("search port queries = %v, want 1", port.queries)
	}
}

func TestWebSearchAgentStopsAtMaxAttemptsEvenWhenStillUnsatisfied(t *testing.T) {
	queriesProvider := &fakeProvider{structuredResponses: []any{
		llm.SearchQueriesOutput{Queries: []string{"python version"}, Reason: "first try"},
		llm.SearchQueriesOutput{Queries: []string{"python version 2026"}, Reason: "use year"},
	}}
	resultProvider := &fakeProvider{generateResponses: []string{"Python 3.x", "Python 3.13 (still unclear)"}}
	evalProvider := &fakeProvider{structuredResponses: []any{
		llm.TaskEvaluationOutput{IsSatisfactory: false, Need: need("search"), Reason: "stale", Feedback: need("use year")},
		llm.TaskEvaluationOutput{IsSatisfactory: false, Need: need("search"), Reason: "still stale", Feedback: need("try harder")},
	}}

	results := []domain.SearchResult{{URL: "https://python.org", Title: "Python", Content: "Python 3.13"}}
	agent, _ := newWebSearchAgent(queriesProvider, resultProvider, evalProvider, results)

	task, err := domain.NewWebSearchTask("latest Python version")
	if err != nil {
		t.Fatalf("NewWebSearchTask: %v", err)
	}

	if err := graph.NewEngine(0).Run(context.Background(), agent.Entry(task)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if task.Status != domain.TaskStatusCompleted {
		t.Fatalf("task.Status = %s, want completed (MAX reached, last result kept even though still unsatisfactory)", task.Status)
	}
	if task.Result != "Python 3.13 (still unclear)" {
		t.Fatalf("task.Result = %q, want the second attempt's result", task.Result)
	}
	if queriesProvider.structuredCalls != 2 {
		t.Fatalf("SearchQueryGeneration calls = %d, want 2 (MAX=2 stops the retry loop after the second eval)", queriesProvider.structuredCalls)
	}
	if evalProvider.structuredCalls != 2 {
		t.Fatalf("TaskResultEvaluation calls = %d, want 2", evalProvider.structuredCalls)
	}
}
