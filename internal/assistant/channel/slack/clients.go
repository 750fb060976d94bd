package slack

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// APIClient is the subset of *slack.Client operations the adapter uses.
// Declaring it as an interface, rather than depending on *slack.Client
// directly, lets tests inject a double without a live Slack connection.
type APIClient interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error
	RemoveReactionContext(ctx context.Context, name string, item slack.ItemRef) error
}

var _ APIClient = (*slack.Client)(nil)

// SocketModeClient is the subset of *socketmode.Client the adapter uses.
type SocketModeClient interface {
	Run() error
	Ack(req socketmode.Request, payload ...interface{})
	Events() <-chan socketmode.Event
}

// socketModeClientAdapter exposes the unexported-channel-field shape of
// *socketmode.Client through the SocketModeClient interface.
type socketModeClientAdapter struct {
	*socketmode.Client
}

func (s socketModeClientAdapter) Events() <-chan socketmode.Event { return s.Client.Events }

// mockAPIClient is a scripted APIClient test double.
type mockAPIClient struct {
	authTestFunc      func(ctx context.Context) (*slack.AuthTestResponse, error)
	postMessageFunc   func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	addReactionFunc   func(ctx context.Context, name string, item slack.ItemRef) error
	removeReactionFunc func(ctx context.Context, name string, item slack.ItemRef) error

	postedMessages []postedMessage
	reactionsAdded []string
	reactionsRemoved []string
}

type postedMessage struct {
	channelID string
	options   []slack.MsgOption
}

func (m *mockAPIClient) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	if m.authTestFunc != nil {
		return m.authTestFunc(ctx)
	}
	return &slack.AuthTestResponse{UserID: "UBOT123"}, nil
}

func (m *mockAPIClient) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	m.postedMessages = append(m.postedMessages, postedMessage{channelID: channelID, options: options})
	if m.postMessageFunc != nil {
		return m.postMessageFunc(ctx, channelID, options...)
	}
	return channelID, "1234567890.000100", nil
}

func (m *mockAPIClient) AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error {
	m.reactionsAdded = append(m.reactionsAdded, name)
	if m.addReactionFunc != nil {
		return m.addReactionFunc(ctx, name, item)
	}
	return nil
}

func (m *mockAPIClient) RemoveReactionContext(ctx context.Context, name string, item slack.ItemRef) error {
	m.reactionsRemoved = append(m.reactionsRemoved, name)
	if m.removeReactionFunc != nil {
		return m.removeReactionFunc(ctx, name, item)
	}
	return nil
}

var _ APIClient = (*mockAPIClient)(nil)
