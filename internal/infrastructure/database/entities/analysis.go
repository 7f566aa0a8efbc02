package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"coparent-api/internal/domain/message"
)

// TableName specifies the table name for MessageAnalysis.
func (MessageAnalysis) TableName() string {
	return "message_analyses"
}

// MessageAnalysis is one stored AI analysis run.
type MessageAnalysis struct {
	ID                uint                        `gorm:"primaryKey"`
	PublicID          string                      `gorm:"column:public_id;size:64;not null;uniqueIndex"`
	MessageID         uint                        `gorm:"not null;index:idx_message_analyses_message_created,priority:1"`
	Message           *Message                    `gorm:"foreignKey:MessageID"`
	Provider          string                      `gorm:"size:32;not null"`
	Model             string                      `gorm:"size:128"`
	ToxicityScore     *float64
	ManipulationScore *float64
	Sentiment         *string                     `gorm:"size:64"`
	EmotionalTone     *string                     `gorm:"size:128"`
	SuggestedResponse *string                     `gorm:"type:text"`
	ImprovementTips   datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	RawResponse       datatypes.JSON              `gorm:"type:jsonb"`
	CreatedAt         time.Time                   `gorm:"not null;index:idx_message_analyses_message_created,priority:2"`
}

func NewMessageAnalysis(a *message.Analysis) *MessageAnalysis {
	if a == nil {
		return nil
	}
	var raw datatypes.JSON
	if len(a.Raw) > 0 {
		raw = datatypes.JSON(a.Raw)
	}
	return &MessageAnalysis{
		ID:                a.ID,
		PublicID:          a.PublicID,
		MessageID:         a.MessageID,
		Provider:          a.Provider,
		Model:             a.Model,
		ToxicityScore:     a.ToxicityScore,
		ManipulationScore: a.ManipulationScore,
		Sentiment:         a.Sentiment,
		EmotionalTone:     a.EmotionalTone,
		SuggestedResponse: a.SuggestedResponse,
		ImprovementTips:   datatypes.JSONSlice[string](a.ImprovementTips),
		RawResponse:       raw,
		CreatedAt:         a.CreatedAt,
	}
}

func (a *MessageAnalysis) EtoD() *message.Analysis {
	if a == nil {
		return nil
	}
	tips := []string(a.ImprovementTips)
	if tips == nil {
		tips = []string{}
	}
	return &message.Analysis{
		ID:                a.ID,
		PublicID:          a.PublicID,
		MessageID:         a.MessageID,
		Provider:          a.Provider,
		Model:             a.Model,
		ToxicityScore:     a.ToxicityScore,
		ManipulationScore: a.ManipulationScore,
		Sentiment:         a.Sentiment,
		EmotionalTone:     a.EmotionalTone,
		SuggestedResponse: a.SuggestedResponse,
		ImprovementTips:   tips,
		Raw:               json.RawMessage(a.RawResponse),
		CreatedAt:         a.CreatedAt,
	}
}
