package agents

import (
	"context"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/graph"
	"github.com/haasonsaas/nexus/internal/assistant/search"
	"github.com/haasonsaas/nexus/internal/assistant/services"
)

// maxWebSearchAttempts bounds the GEN_QUERIES/SEARCH/GEN_RESULT/EVAL loop to
// at most two attempts total per task.
const maxWebSearchAttempts = 2

// searchResultsPerQuery is the fixed num_results passed to the search port
// for every query issued by the SEARCH node.
const searchResultsPerQuery = 3

// WebSearchAgent runs a web-search Task through a bounded evaluate/retry
// loop: GEN_QUERIES -> SEARCH -> GEN_RESULT -> EVAL -> {END, GEN_QUERIES,
// GEN_RESULT}.
type WebSearchAgent struct {
	Queries *services.SearchQueryGenerationService
	Search  search.Port
	Result  *services.TaskResultGenerationService
	Eval    *services.TaskResultEvaluationService
}

// NewWebSearchAgent builds a WebSearchAgent from its collaborators.
func NewWebSearchAgent(
	queries *services.SearchQueryGenerationService,
	searchPort search.Port,
	result *services.TaskResultGenerationService,
	eval *services.TaskResultEvaluationService,
) *WebSearchAgent {
	return &WebSearchAgent{Queries: queries, Search: searchPort, Result: result, Eval: eval}
}

// webSearchState is the private per-task state the loop threads through its
// nodes. attempt counts completed (search, result-generation, eval) rounds;
// feedback carries the evaluator's guidance into the next round; queries
// holds the most recently generated search queries.
type webSearchState struct {
	task     *domain.Task
	attempt  int
	feedback string
	queries  []string
}

// Entry returns the agent's entry node (GEN_QUERIES), scoped to one task.
func (a *WebSearchAgent) Entry(task *domain.Task) graph.Node {
	st := &webSearchState{task: task}
	return a.genQueries(st)
}

func (a *WebSearchAgent) genQueries(st *webSearchState) graph.Node {
	return func(ctx context.Context) (graph.Next, error) {
		queries, err := a.Queries.Execute(ctx, st.task, st.feedback)
		if err != nil {
			return graph.Next{}, err
		}
		st.queries = queries
		return graph.ContinueTo(a.search(st)), nil
	}
}

func (a *WebSearchAgent) search(st *webSearchState) graph.Node {
	return func(ctx context.Context) (graph.Next, error) {
		for _, q := range st.queries {
			results, err := a.Search.Search(ctx, q, searchResultsPerQuery)
			if err != nil {
				return graph.Next{}, err
			}
			if err := st.task.AddSearchAttempt(q, results); err != nil {
				return graph.Next{}, err
			}
		}
		return graph.ContinueTo(a.genResult(st)), nil
	}
}

func (a *WebSearchAgent) genResult(st *webSearchState) graph.Node {
	return func(ctx context.Context) (graph.Next, error) {
		previousResult := ""
		if st.attempt > 0 {
			previousResult = st.task.Result
		}
		if err := a.Result.Execute(ctx, st.task, st.feedback, previousResult); err != nil {
			return graph.Next{}, err
		}
		return graph.ContinueTo(a.eval(st)), nil
	}
}

func (a *WebSearchAgent) eval(st *webSearchState) graph.Node {
	return func(ctx context.Context) (graph.Next, error) {
		if st.task.Status != domain.TaskStatusCompleted {
			return graph.End(), nil
		}

		evaluation, err := a.Eval.Execute(ctx, st.task)
		if err != nil {
			return graph.Next{}, err
		}

		if evaluation.IsSatisfactory {
			return graph.End(), nil
		}
		if st.attempt+1 >= maxWebSearchAttempts {
			return graph.End(), nil
		}

		st.feedback = evaluation.Feedback
		st.attempt++

		switch evaluation.Need {
		case domain.NeedSearch:
			return graph.ContinueTo(a.genQueries(st)), nil
		case domain.NeedGenerate:
			return graph.ContinueTo(a.genResult(st)), nil
		default:
			return graph.End(), nil
		}
	}
}
