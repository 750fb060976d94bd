package domain

import (
	"time"

	"github.com/google/uuid"
)

// Polarity is a user's post-hoc signal on an assistant message.
type Polarity string

const (
	PolarityGood Polarity = "good"
	PolarityBad  Polarity = "bad"
)

// Feedback is a user's good/bad signal on an assistant Message, unique per
// (MessageID, UserID). Feedback references a Message by ID but does not
// own it.
type Feedback struct {
	ID        string
	MessageID string
	UserID    string
	Polarity  Polarity
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewFeedback creates a new Feedback record.
func NewFeedback(messageID, userID string, polarity Polarity) *Feedback {
	now := time.Now()
	return &Feedback{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Polarity:  polarity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReconstructFeedback rebuilds a Feedback from persisted fields.
func ReconstructFeedback(id, messageID, userID string, polarity Polarity, createdAt, updatedAt time.Time) *Feedback {
	return &Feedback{
		ID:        id,
		MessageID: messageID,
		UserID:    userID,
		Polarity:  polarity,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// MakePositive sets the polarity to GOOD, bumping UpdatedAt only if the
// polarity actually changed.
func (f *Feedback) MakePositive() {
	f.setPolarity(PolarityGood)
}

// MakeNegative sets the polarity to BAD, bumping UpdatedAt only if the
// polarity actually changed.
func (f *Feedback) MakeNegative() {
	f.setPolarity(PolarityBad)
}

func (f *Feedback) setPolarity(p Polarity) {
	if f.Polarity == p {
		return
	}
	f.Polarity = p
	f.UpdatedAt = time.Now()
}
