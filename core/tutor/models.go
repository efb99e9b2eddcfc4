package tutor

import (
	"context"
	"encoding/json"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type ChatMessage struct {
	Role      Role      `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"` // UTC
}

// TutorInput is everything the tutor prompt is assembled from.
type TutorInput struct {
	LessonTitle      string
	LessonContent    string
	DisplayName      string
	Interests        string
	LearningProgress string
	History          []ChatMessage
	UserMessage      string
}

type Suggestion struct {
	SuggestedModules string `json:"suggestedModules"`
	Reasoning        string `json:"reasoning"`
}

// Schema describes the JSON document a model must answer with.
type Schema struct {
	Name       string
	Definition map[string]interface{}
}

type (
	// Model is a hosted generative model. Every call is a single non-streaming request.
	Model interface {
		GenerateText(ctx context.Context, prompt string) (string, error)
		// GenerateImage returns the image as a data URI ("data:image/png;base64,...").
		GenerateImage(ctx context.Context, prompt string) (string, error)
		// GenerateJSON returns a document valid against schema.
		GenerateJSON(ctx context.Context, prompt string, schema Schema) (json.RawMessage, error)
	}

	// HistoryRepository stores one append-only chat transcript per user and lesson.
	HistoryRepository interface {
		// GetHistory returns an empty slice when nothing was recorded yet.
		GetHistory(ctx context.Context, userID, lessonSlug string) ([]ChatMessage, error)
		AppendMessage(ctx context.Context, userID, lessonSlug string, msg ChatMessage) error
	}
)

// AskRequest is the payload of a tutor turn.
type AskRequest struct {
	Message string `json:"message" validate:"required,notblank"`
}

type AvatarRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}
