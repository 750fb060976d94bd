package usecase

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/haasonsaas/nexus/internal/assistant/agents"
	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/graph"
	"github.com/haasonsaas/nexus/internal/assistant/observability"
	"github.com/haasonsaas/nexus/internal/assistant/repository"
)

// AnswerToUserRequestInput is the inbound request contract: the user's
// message plus the context the chat adapter supplies to identify the
// conversation.
type AnswerToUserRequestInput struct {
	UserMessage    string
	ConversationID string
	ThreadID       string
	UserID         string
	ChannelID      string
}

// AnswerToUserRequestOutput is the outbound answer contract.
type AnswerToUserRequestOutput struct {
	Answer    string
	MessageID string
}

// defaultMaxConcurrentTurns bounds how many orchestrator invocations run at
// once when the caller does not configure one explicitly, matching
// config.OrchestrationConfig's own default.
const defaultMaxConcurrentTurns = 60

// AnswerToUserRequestUseCase runs one full turn for a conversation: load or
// create the session, append the user's message, run the supervisor to
// completion, append the synthesized answer, and persist the session. A
// process-wide counting semaphore admits at most maxConcurrentTurns
// concurrent Execute calls; its lifecycle is explicit (sized once at
// construction) rather than lazily initialized on first use.
type AnswerToUserRequestUseCase struct {
	Sessions   repository.ChatSessionRepository
	Supervisor *agents.SupervisorAgent
	Engine     *graph.Engine

	// Logger, Metrics, and Tracer are optional; a nil value disables the
	// corresponding instrumentation. Set them directly after construction.
	Logger  *observability.Logger
	Metrics *observability.Metrics
	Tracer  *observability.Tracer

	admission chan struct{}
}

// NewAnswerToUserRequestUseCase builds the use case from its collaborators.
// maxConcurrentTurns <= 0 uses defaultMaxConcurrentTurns.
func NewAnswerToUserRequestUseCase(sessions repository.ChatSessionRepository, supervisor *agents.SupervisorAgent, engine *graph.Engine, maxConcurrentTurns int) *AnswerToUserRequestUseCase {
	if maxConcurrentTurns <= 0 {
		maxConcurrentTurns = defaultMaxConcurrentTurns
	}
	return &AnswerToUserRequestUseCase{
		Sessions:   sessions,
		Supervisor: supervisor,
		Engine:     engine,
		admission:  make(chan struct{}, maxConcurrentTurns),
	}
}

// Execute runs one turn. On any failure the session is not persisted with a
// partial answer: it is saved only once a final answer has been produced.
func (uc *AnswerToUserRequestUseCase) Execute(ctx context.Context, input AnswerToUserRequestInput) (out *AnswerToUserRequestOutput, err error) {
	if strings.TrimSpace(input.UserMessage) == "" {
		return nil, &InvalidInputError{Field: "user_message"}
	}
	if strings.TrimSpace(input.ConversationID) == "" {
		return nil, &InvalidInputError{Field: "conversation_id"}
	}

	if uc.Tracer != nil {
		var span trace.Span
		ctx, span = uc.Tracer.TraceInvocation(ctx, input.ConversationID)
		defer func() {
			uc.Tracer.RecordError(span, err)
			span.End()
		}()
	}
	ctx = observability.ContextWithConversation(ctx, input.ConversationID)
	if input.UserID != "" {
		ctx = observability.ContextWithUser(ctx, input.UserID)
	}

	start := time.Now()
	outcome := "error"
	if uc.Metrics != nil {
		defer func() { uc.Metrics.RecordOrchestratorInvocation(outcome, time.Since(start).Seconds()) }()
	}
	if uc.Logger != nil {
		uc.Logger.Info(ctx, "orchestrator.invocation_started")
		defer func() {
			if err != nil {
				uc.Logger.Error(ctx, "orchestrator.invocation_failed", "error", err, "outcome", outcome)
			} else {
				uc.Logger.Info(ctx, "orchestrator.invocation_completed", "outcome", outcome)
			}
		}()
	}

	select {
	case uc.admission <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-uc.admission }()

	session, err := uc.Sessions.FindByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = domain.NewChatSession(input.ConversationID, input.ThreadID, input.UserID, input.ChannelID)
	}

	userMsg, err := domain.NewMessage(domain.RoleUser, input.UserMessage)
	if err != nil {
		return nil, err
	}
	if err := session.AddUserMessage(userMsg); err != nil {
		return nil, err
	}

	var result agents.Result
	if err := uc.Engine.Run(ctx, uc.Supervisor.Entry(session, &result)); err != nil {
		if err == domain.ErrAllTasksFailed {
			outcome = "all_tasks_failed"
		}
		return nil, err
	}

	// SupervisorAgent's PLAN node already appended result.Plan to session by
	// reference; only the answer message still needs appending here.
	if err := session.AddAssistantMessage(result.Answer); err != nil {
		return nil, err
	}

	if err := uc.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	outcome = "completed"
	return &AnswerToUserRequestOutput{Answer: result.Answer.Content, MessageID: result.Answer.ID}, nil
}
