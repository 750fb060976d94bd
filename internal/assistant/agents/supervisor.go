package agents

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/graph"
	"github.com/haasonsaas/nexus/internal/assistant/observability"
	"github.com/haasonsaas/nexus/internal/assistant/services"
)

// SupervisorAgent runs one full turn: PLAN -> FAN_OUT -> FINAL -> END. It
// owns the session and the plan for the duration of the turn; task agents it
// dispatches to own only their individual Task.
type SupervisorAgent struct {
	Planning      *services.TaskPlanningService
	FinalAnswer   *services.FinalAnswerService
	GeneralAnswer *GeneralAnswerAgent
	WebSearch     *WebSearchAgent

	// Logger, Metrics, and Tracer are optional; a nil value disables the
	// corresponding instrumentation for the PLAN/FAN_OUT/FINAL stages. Set
	// them directly after construction.
	Logger  *observability.Logger
	Metrics *observability.Metrics
	Tracer  *observability.Tracer
}

// NewSupervisorAgent builds a SupervisorAgent from its collaborators.
func NewSupervisorAgent(
	planning *services.TaskPlanningService,
	finalAnswer *services.FinalAnswerService,
	generalAnswer *GeneralAnswerAgent,
	webSearch *WebSearchAgent,
) *SupervisorAgent {
	return &SupervisorAgent{
		Planning:      planning,
		FinalAnswer:   finalAnswer,
		GeneralAnswer: generalAnswer,
		WebSearch:     webSearch,
	}
}

// Result is what one turn produces: the synthesized answer message and the
// plan that was executed to produce it.
type Result struct {
	Answer *domain.Message
	Plan   *domain.TaskPlan
}

// Entry returns the supervisor's entry node (PLAN), scoped to one session.
// out receives the turn's Result once the chain reaches END; the caller
// reads it only after Engine.Run returns nil.
func (a *SupervisorAgent) Entry(session *domain.ChatSession, out *Result) graph.Node {
	return func(ctx context.Context) (graph.Next, error) {
		planCtx := ctx
		var planSpan trace.Span
		if a.Tracer != nil {
			planCtx, planSpan = a.Tracer.TracePlan(ctx)
		}
		if a.Logger != nil {
			a.Logger.Info(planCtx, "supervisor.plan_started")
		}

		plan, err := a.Planning.Execute(planCtx, session)
		if err != nil {
			a.endSpan(planSpan, err)
			if a.Logger != nil {
				a.Logger.Error(planCtx, "supervisor.plan_failed", "error", err)
			}
			return graph.Next{}, err
		}
		if err := session.AddTaskPlan(plan); err != nil {
			a.endSpan(planSpan, err)
			return graph.Next{}, err
		}
		out.Plan = plan
		if a.Logger != nil {
			a.Logger.Info(planCtx, "supervisor.plan_completed", "task_count", len(plan.Tasks))
		}
		a.endSpan(planSpan, nil)

		fanOutCtx := ctx
		var fanOutSpan trace.Span
		if a.Tracer != nil {
			fanOutCtx, fanOutSpan = a.Tracer.TraceFanOut(ctx, len(plan.Tasks))
		}
		if a.Logger != nil {
			a.Logger.Info(fanOutCtx, "supervisor.fan_out_started", "task_count", len(plan.Tasks))
		}

		dispatches := make([]graph.Dispatch, 0, len(plan.Tasks))
		for _, task := range plan.Tasks {
			dispatches = append(dispatches, a.dispatchFor(fanOutCtx, session, task))
		}

		return graph.FanOutTo(dispatches, a.final(ctx, fanOutSpan, session, plan, out)), nil
	}
}

func (a *SupervisorAgent) dispatchFor(fanOutCtx context.Context, session *domain.ChatSession, task *domain.Task) graph.Dispatch {
	var entry graph.Node
	switch task.AgentName {
	case domain.AgentWebSearch:
		entry = a.WebSearch.Entry(task)
	case domain.AgentGeneralAnswer:
		entry = a.GeneralAnswer.Entry(session, task)
	default:
		entry = func(ctx context.Context) (graph.Next, error) {
			return graph.Next{}, domain.ErrUnknownAgent
		}
	}
	return graph.Dispatch{Name: task.ID, Entry: a.instrumentTask(fanOutCtx, task, entry)}
}

// instrumentTask wraps a dispatched task's entry node with a per-task span,
// log lines, and a TaskAttempts metric, without changing its control flow.
func (a *SupervisorAgent) instrumentTask(fanOutCtx context.Context, task *domain.Task, entry graph.Node) graph.Node {
	if a.Logger == nil && a.Metrics == nil && a.Tracer == nil {
		return entry
	}
	return func(ctx context.Context) (graph.Next, error) {
		taskCtx := ctx
		var span trace.Span
		if a.Tracer != nil {
			taskCtx, span = a.Tracer.TraceTask(fanOutCtx, task.ID, string(task.AgentName))
		}
		next, err := entry(taskCtx)
		a.endSpan(span, err)

		outcome := "completed"
		if err != nil {
			outcome = "failed"
		}
		if a.Metrics != nil {
			a.Metrics.RecordTaskAttempt(string(task.AgentName), outcome)
		}
		if a.Logger != nil {
			if err != nil {
				a.Logger.Error(taskCtx, "supervisor.task_failed", "task_id", task.ID, "agent", task.AgentName, "error", err)
			} else {
				a.Logger.Info(taskCtx, "supervisor.task_completed", "task_id", task.ID, "agent", task.AgentName)
			}
		}
		return next, err
	}
}

func (a *SupervisorAgent) final(ctx context.Context, fanOutSpan trace.Span, session *domain.ChatSession, plan *domain.TaskPlan, out *Result) graph.Node {
	return func(_ context.Context) (graph.Next, error) {
		a.endSpan(fanOutSpan, nil)

		finalCtx := ctx
		var finalSpan trace.Span
		if a.Tracer != nil {
			finalCtx, finalSpan = a.Tracer.TraceFinal(ctx)
		}
		if a.Logger != nil {
			a.Logger.Info(finalCtx, "supervisor.final_started")
		}

		answer, err := a.FinalAnswer.Execute(finalCtx, session, plan)
		a.endSpan(finalSpan, err)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Error(finalCtx, "supervisor.final_failed", "error", err)
			}
			return graph.Next{}, err
		}
		if a.Logger != nil {
			a.Logger.Info(finalCtx, "supervisor.final_completed")
		}
		out.Answer = answer
		return graph.End(), nil
	}
}

// endSpan is a no-op if span is nil, which it is whenever a.Tracer is nil.
func (a *SupervisorAgent) endSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		a.Tracer.RecordError(span, err)
	}
	span.End()
}
