package domain

import "time"

// ChatSession is the ordered history of USER/ASSISTANT messages plus every
// TaskPlan produced for them, keyed by an externally supplied session ID
// (derived by the caller from channel+thread). It exclusively owns its
// Messages and TaskPlans.
type ChatSession struct {
	ID        string
	ThreadID  string
	UserID    string
	ChannelID string
	Messages  []*Message
	TaskPlans []*TaskPlan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewChatSession creates an empty ChatSession for a new conversation ID.
func NewChatSession(id, threadID, userID, channelID string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:        id,
		ThreadID:  threadID,
		UserID:    userID,
		ChannelID: channelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReconstructChatSession rebuilds a ChatSession from persisted fields.
func ReconstructChatSession(id, threadID, userID, channelID string, messages []*Message, plans []*TaskPlan, createdAt, updatedAt time.Time) *ChatSession {
	return &ChatSession{
		ID:        id,
		ThreadID:  threadID,
		UserID:    userID,
		ChannelID: channelID,
		Messages:  messages,
		TaskPlans: plans,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// AddUserMessage appends a USER message, rejecting any message whose role
// is not RoleUser.
func (s *ChatSession) AddUserMessage(msg *Message) error {
	if msg.Role != RoleUser {
		return ErrInvalidUserMessageRole
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
	return nil
}

// AddAssistantMessage appends an ASSISTANT message, rejecting any message
// whose role is not RoleAssistant.
func (s *ChatSession) AddAssistantMessage(msg *Message) error {
	if msg.Role != RoleAssistant {
		return ErrInvalidAssistantRole
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
	return nil
}

// AddTaskPlan appends a TaskPlan, rejecting a nil plan.
func (s *ChatSession) AddTaskPlan(plan *TaskPlan) error {
	if plan == nil {
		return ErrNoneTaskPlan
	}
	s.TaskPlans = append(s.TaskPlans, plan)
	s.UpdatedAt = time.Now()
	return nil
}

// LatestUserMessage returns the most recently appended USER message, or
// ErrUserMessageNotFound if none exists.
func (s *ChatSession) LatestUserMessage() (*Message, error) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i], nil
		}
	}
	return nil, ErrUserMessageNotFound
}

// LatestAssistantMessage returns the most recently appended ASSISTANT
// message, or ErrAssistantMessageNotFound if none exists.
func (s *ChatSession) LatestAssistantMessage() (*Message, error) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], nil
		}
	}
	return nil, ErrAssistantMessageNotFound
}

// HistoryExcludingLatestUserMessage returns every message except the most
// recently appended USER message, preserving order. It is used by
// FinalAnswerService to avoid duplicating the current question in history.
func (s *ChatSession) HistoryExcludingLatestUserMessage() []*Message {
	latest, err := s.LatestUserMessage()
	if err != nil {
		return append([]*Message(nil), s.Messages...)
	}
	out := make([]*Message, 0, len(s.Messages))
	skipped := false
	for _, m := range s.Messages {
		if !skipped && m == latest {
			skipped = true
			continue
		}
		out = append(out, m)
	}
	return out
}
