package message

import (
	"encoding/json"
	"time"
)

// Analysis is the stored result of one AI provider run over a message.
type Analysis struct {
	ID                uint
	PublicID          string
	MessageID         uint
	Provider          string
	Model             string
	ToxicityScore     *float64
	ManipulationScore *float64
	Sentiment         *string
	EmotionalTone     *string
	SuggestedResponse *string
	ImprovementTips   []string
	Raw               json.RawMessage
	CreatedAt         time.Time
}
