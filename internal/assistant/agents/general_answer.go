// Package agents implements the task agents and the supervisor agent as
// sub-state-machines on top of the graph engine: GeneralAnswerAgent (a single
// EXECUTE step), WebSearchAgent (the bounded GEN_QUERIES/SEARCH/GEN_RESULT/EVAL
// retry loop), and SupervisorAgent (PLAN/FAN_OUT/FINAL).
package agents

import (
	"context"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/graph"
	"github.com/haasonsaas/nexus/internal/assistant/services"
)

// GeneralAnswerAgent runs a general-answer Task straight from model
// knowledge. It has exactly one state: EXECUTE -> END, no retries.
type GeneralAnswerAgent struct {
	Service *services.GeneralAnswerService
}

// NewGeneralAnswerAgent builds a GeneralAnswerAgent against service.
func NewGeneralAnswerAgent(service *services.GeneralAnswerService) *GeneralAnswerAgent {
	return &GeneralAnswerAgent{Service: service}
}

// Entry returns the agent's entry node, scoped to one (session, task) pair.
// session is read-only; task is this agent's exclusive write target.
func (a *GeneralAnswerAgent) Entry(session *domain.ChatSession, task *domain.Task) graph.Node {
	return func(ctx context.Context) (graph.Next, error) {
		if err := a.Service.Execute(ctx, session, task); err != nil {
			return graph.Next{}, err
		}
		return graph.End(), nil
	}
}
