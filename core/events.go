package core

import (
	"context"
	"time"
)

// routing keys
const (
	EventUserRegistered = "user.registered"
	EventQuizCompleted  = "quiz.completed"
)

type (
	Event struct {
		Type       string      `json:"type"`
		UserID     string      `json:"user_id"`
		OccurredAt time.Time   `json:"occurred_at"`
		Data       interface{} `json:"data,omitempty"`
	}

	// EventPublisher is any service that can broadcast domain events.
	EventPublisher interface {
		Publish(ctx context.Context, event Event) error
		Close() error
	}
)

func NewEvent(typ, userID string, data interface{}) Event {
	return Event{
		Type:       typ,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
