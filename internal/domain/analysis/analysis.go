// Package analysis runs third-party AI analysis over logged messages and keeps the history of runs.
package analysis

import (
	"context"
	"encoding/json"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/domain/user"
)

// Request is the input handed to an AI provider.
type Request struct {
	APIKey   string
	Content  string
	Platform string
}

// Result is the structured part of a provider reply plus the raw reply.
type Result struct {
	Model             string
	ToxicityScore     *float64
	ManipulationScore *float64
	Sentiment         *string
	EmotionalTone     *string
	SuggestedResponse *string
	ImprovementTips   []string
	Raw               json.RawMessage
}

// Analyzer dispatches a request to the named provider.
type Analyzer interface {
	Analyze(ctx context.Context, provider credential.Provider, req Request) (*Result, error)
}

// Repository persists analysis runs.
type Repository interface {
	Create(ctx context.Context, a *message.Analysis) error
	// ListByMessage returns runs newest first.
	ListByMessage(ctx context.Context, messageID uint) ([]*message.Analysis, error)
}

// MessageReader returns messages visible to a user.
type MessageReader interface {
	GetByID(ctx context.Context, id string, requesterID uint) (*message.Message, error)
}

// UserReader loads the requester's analysis settings.
type UserReader interface {
	FindByID(ctx context.Context, id uint) (*user.User, error)
}

// KeyResolver returns the plaintext provider key stored for a user.
type KeyResolver interface {
	Resolve(ctx context.Context, userID uint, provider credential.Provider) (string, error)
}
