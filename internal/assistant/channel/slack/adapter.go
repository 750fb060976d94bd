// Package slack is the reference chat-surface adapter: it translates Slack
// Socket Mode events into AnswerToUserRequestUseCase.Execute calls and
// posts the resulting answer back, managing the in-progress/success/failure
// reaction lifecycle spec.md leaves to the external chat adapter. The core
// orchestrator has no dependency on this package; it exists only because
// the original system ships attached to Slack and a reference wiring makes
// that concrete.
package slack

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.opentelemetry.io/otel/trace"

	"github.com/haasonsaas/nexus/internal/assistant/channel/dedup"
	"github.com/haasonsaas/nexus/internal/assistant/config"
	"github.com/haasonsaas/nexus/internal/assistant/observability"
	"github.com/haasonsaas/nexus/internal/assistant/usecase"
)

// Reactions applied across a turn's lifecycle, matching the original
// bot's ⏳ (working) / ✅ (answered) / ❌ (unrecovered failure) convention.
const (
	reactionInProgress = "hourglass_flowing_sand"
	reactionSuccess    = "white_check_mark"
	reactionFailure    = "x"
)

// genericRetryMessage is posted on any unrecovered turn failure, per
// spec.md §7's "the chat adapter (external) is expected to post a generic
// 'please try again in a new thread' message."
const genericRetryMessage = "Sorry, something went wrong. Please try again in a new thread."

// Adapter runs one Socket Mode connection and feeds inbound DMs, mentions,
// and thread replies into a use case, one turn per Slack event.
type Adapter struct {
	client       APIClient
	socketClient SocketModeClient
	useCase      *usecase.AnswerToUserRequestUseCase
	dedup        *dedup.Set

	logger  *observability.Logger
	tracer  *observability.Tracer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	botUserIDMu sync.RWMutex
	botUserID   string
}

// NewAdapter builds an Adapter from its collaborators. dedupSet may be nil,
// in which case duplicate event redelivery is not filtered. logger and
// tracer may be nil; nil means no logging/tracing for this adapter.
func NewAdapter(cfg config.SlackConfig, useCase *usecase.AnswerToUserRequestUseCase, dedupSet *dedup.Set, logger *observability.Logger, tracer *observability.Tracer) *Adapter {
	client := slack.New(cfg.BotToken, slack.OptionAppLevelToken(cfg.AppToken))
	socketClient := socketmode.New(client, socketmode.OptionDebug(false))

	return &Adapter{
		client:       client,
		socketClient: socketModeClientAdapter{socketClient},
		useCase:      useCase,
		dedup:        dedupSet,
		logger:       logger,
		tracer:       tracer,
	}
}

// newAdapterForTesting builds an Adapter over injected client doubles, for
// use from this package's own tests only.
func newAdapterForTesting(client APIClient, socketClient SocketModeClient, useCase *usecase.AnswerToUserRequestUseCase, dedupSet *dedup.Set) *Adapter {
	return &Adapter{client: client, socketClient: socketClient, useCase: useCase, dedup: dedupSet}
}

// Start authenticates, then begins processing Socket Mode events in the
// background. Call Stop to shut down.
func (a *Adapter) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	authResp, err := a.client.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack: auth test failed: %w", err)
	}
	a.botUserIDMu.Lock()
	a.botUserID = authResp.UserID
	a.botUserIDMu.Unlock()

	a.wg.Add(1)
	go a.handleEvents()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.socketClient.Run(); err != nil && a.logger != nil {
			a.logger.Error(a.ctx, "slack.socket_mode_stopped", "error", err)
		}
	}()

	return nil
}

// Stop cancels the background goroutines and waits for them to return or
// for ctx to be done, whichever comes first.
func (a *Adapter) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Adapter) handleEvents() {
	defer a.wg.Done()

	for {
		select {
		case <-a.ctx.Done():
			return
		case evt, ok := <-a.socketClient.Events():
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				a.handleEventsAPI(evt)
			case socketmode.EventTypeSlashCommand, socketmode.EventTypeInteractive:
				if evt.Request != nil {
					a.socketClient.Ack(*evt.Request)
				}
			}
		}
	}
}

func (a *Adapter) handleEventsAPI(evt socketmode.Event) {
	eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		if evt.Request != nil {
			a.socketClient.Ack(*evt.Request)
		}
		return
	}
	if evt.Request != nil {
		a.socketClient.Ack(*evt.Request)
	}

	if eventsAPIEvent.Type != slackevents.CallbackEvent {
		return
	}

	switch inner := eventsAPIEvent.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		a.handleMessage(&slackevents.MessageEvent{
			Type:            "message",
			User:            inner.User,
			Text:            inner.Text,
			Channel:         inner.Channel,
			TimeStamp:       inner.TimeStamp,
			ThreadTimeStamp: inner.ThreadTimeStamp,
		})
	case *slackevents.MessageEvent:
		if inner.BotID != "" {
			return
		}
		if inner.SubType != "" && inner.SubType != "file_share" {
			return
		}
		a.handleMessage(inner)
	}
}

// handleMessage runs one full turn for a qualifying inbound Slack message:
// DMs, @mentions, and thread replies. Everything else is ignored, matching
// the original bot's filtering.
func (a *Adapter) handleMessage(event *slackevents.MessageEvent) {
	a.botUserIDMu.RLock()
	botUserID := a.botUserID
	a.botUserIDMu.RUnlock()

	isDM := strings.HasPrefix(event.Channel, "D")
	isMention := botUserID != "" && strings.Contains(event.Text, fmt.Sprintf("<@%s>", botUserID))
	if !isDM && !isMention && event.ThreadTimeStamp == "" {
		return
	}

	// Slack message timestamps are unique per channel, so channel+ts
	// doubles as the at-least-once delivery idempotency key; Socket Mode
	// and the Events API can both redeliver the same event.
	if a.dedup != nil {
		eventID := dedup.Key(event.Channel, event.TimeStamp)
		if a.dedup.Seen(eventID) {
			if a.logger != nil {
				a.logger.Info(a.ctx, "slack.duplicate_event_skipped", "channel", event.Channel, "ts", event.TimeStamp)
			}
			return
		}
	}

	go a.runTurn(event)
}

// runTurn executes one AnswerToUserRequestUseCase turn for event, managing
// the ⏳ -> ✅/❌ reaction lifecycle and posting the answer or the generic
// retry message.
func (a *Adapter) runTurn(event *slackevents.MessageEvent) {
	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	threadTS := event.ThreadTimeStamp
	if threadTS == "" {
		threadTS = event.TimeStamp
	}
	item := slack.ItemRef{Channel: event.Channel, Timestamp: event.TimeStamp}

	if err := a.client.AddReactionContext(ctx, reactionInProgress, item); err != nil && a.logger != nil {
		a.logger.Warn(ctx, "slack.add_reaction_failed", "reaction", reactionInProgress, "error", err)
	}

	input := convertSlackMessage(event)

	if a.tracer != nil {
		var span trace.Span
		ctx, span = a.tracer.Start(ctx, "channel.slack.turn")
		defer span.End()
	}
	logger := a.logger
	if logger != nil {
		logger = logger.WithFields("conversation_id", input.ConversationID)
	}

	out, err := a.useCase.Execute(ctx, input)

	_ = a.client.RemoveReactionContext(ctx, reactionInProgress, item)

	if err != nil {
		if logger != nil {
			logger.Error(ctx, "slack.turn_failed", "error", err)
		}
		_ = a.client.AddReactionContext(ctx, reactionFailure, item)
		_, _, _ = a.client.PostMessageContext(ctx, event.Channel, slack.MsgOptionText(genericRetryMessage, false), slack.MsgOptionTS(threadTS))
		return
	}

	_ = a.client.AddReactionContext(ctx, reactionSuccess, item)
	_, _, _ = a.client.PostMessageContext(ctx, event.Channel, buildBlockKitMessage(out.Answer), slack.MsgOptionTS(threadTS))
}

// convertSlackMessage maps one inbound Slack message event to the
// use case's inbound request contract. ConversationID is derived
// deterministically from channel+thread, matching ChatSession's identity
// rule (spec.md: "session id derived by the caller from channel+thread").
func convertSlackMessage(event *slackevents.MessageEvent) usecase.AnswerToUserRequestInput {
	text := stripMentions(event.Text)

	threadTS := event.ThreadTimeStamp
	if threadTS == "" {
		threadTS = event.TimeStamp
	}

	return usecase.AnswerToUserRequestInput{
		UserMessage:    text,
		ConversationID: conversationID(event.Channel, threadTS),
		ThreadID:       threadTS,
		UserID:         event.User,
		ChannelID:      event.Channel,
	}
}

func stripMentions(text string) string {
	for strings.Contains(text, "<@") {
		start := strings.Index(text, "<@")
		end := strings.Index(text[start:], ">")
		if end == -1 {
			break
		}
		text = text[:start] + text[start+end+1:]
	}
	return strings.TrimSpace(text)
}

func conversationID(channel, threadTS string) string {
	sum := sha256.Sum256([]byte("slack:" + channel + ":" + threadTS))
	return hex.EncodeToString(sum[:])
}

func buildBlockKitMessage(text string) slack.MsgOption {
	block := slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil)
	return slack.MsgOptionBlocks(block)
}
