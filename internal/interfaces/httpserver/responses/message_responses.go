package responses

import (
	"encoding/json"
	"time"

	"coparent-api/internal/domain/message"
)

// ParticipantResponse is the reduced user projection shown next to a message.
type ParticipantResponse struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID            string               `json:"id"`
	Content       string               `json:"content"`
	MessageType   string               `json:"messageType"`
	SenderID      string               `json:"senderId"`
	ReceiverID    *string              `json:"receiverId"`
	Sender        *ParticipantResponse `json:"sender,omitempty"`
	Receiver      *ParticipantResponse `json:"receiver,omitempty"`
	ScreenshotURL *string              `json:"screenshotUrl"`
	OCRText       *string              `json:"ocrText"`
	OCRConfidence *float64             `json:"ocrConfidence"`
	Platform      *string              `json:"platform"`
	ExternalID    *string              `json:"externalId"`
	Timestamp     time.Time            `json:"timestamp"`
	IsDeleted     bool                 `json:"isDeleted"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Analysis      *AnalysisResponse    `json:"analysis"`
}

// MessageEnvelope wraps a single message as {"message": ...}.
type MessageEnvelope struct {
	Message MessageResponse `json:"message"`
}

// MessagePageResponse is one page of list results.
type MessagePageResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	HasMore  bool              `json:"hasMore"`
}

// PlatformStatResponse is one platform bucket.
type PlatformStatResponse struct {
	Platform string `json:"platform"`
	Count    int64  `json:"count"`
}

// DayCountResponse is the message count of one UTC day.
type DayCountResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// StatsResponse aggregates the caller's visible messages.
type StatsResponse struct {
	TotalMessages     int64                  `json:"totalMessages"`
	AnalyzedMessages  int64                  `json:"analyzedMessages"`
	PlatformBreakdown []PlatformStatResponse `json:"platformBreakdown"`
	RecentActivity    []DayCountResponse     `json:"recentActivity"`
}

// AnalysisResponse represents one analysis run.
type AnalysisResponse struct {
	ID                string          `json:"id"`
	MessageID         string          `json:"messageId"`
	Provider          string          `json:"provider"`
	Model             string          `json:"model"`
	ToxicityScore     *float64        `json:"toxicityScore"`
	ManipulationScore *float64        `json:"manipulationScore"`
	Sentiment         *string         `json:"sentiment"`
	EmotionalTone     *string         `json:"emotionalTone"`
	SuggestedResponse *string         `json:"suggestedResponse"`
	ImprovementTips   []string        `json:"improvementTips"`
	RawResponse       json.RawMessage `json:"rawResponse,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// AnalysisListResponse lists the analysis history of a message, newest first.
type AnalysisListResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
}

func MapMessageToResponse(m *message.Message) MessageResponse {
	resp := MessageResponse{
		ID:            m.PublicID,
		Content:       m.Content,
		MessageType:   string(m.MessageType),
		Sender:        mapParticipant(m.Sender),
		Receiver:      mapParticipant(m.Receiver),
		ScreenshotURL: m.ScreenshotURL,
		OCRText:       m.OCRText,
		OCRConfidence: m.OCRConfidence,
		Platform:      m.Platform,
		ExternalID:    m.ExternalID,
		Timestamp:     m.Timestamp.UTC(),
		IsDeleted:     m.IsDeleted,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	if m.Sender != nil {
		resp.SenderID = m.Sender.ID
	}
	if m.Receiver != nil {
		receiverID := m.Receiver.ID
		resp.ReceiverID = &receiverID
	}
	if m.LatestAnalysis != nil {
		analysis := MapAnalysisToResponse(m.LatestAnalysis, m.PublicID)
		analysis.RawResponse = nil
		resp.Analysis = &analysis
	}
	return resp
}

func MapMessagesToResponse(items []*message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, MapMessageToResponse(m))
	}
	return out
}

func MapPageToResponse(p *message.Page) MessagePageResponse {
	return MessagePageResponse{
		Messages: MapMessagesToResponse(p.Items),
		Total:    p.Total,
		Page:     p.Page,
		Limit:    p.PageSize,
		HasMore:  p.HasMore,
	}
}

func MapStatsToResponse(s *message.Stats) StatsResponse {
	resp := StatsResponse{
		TotalMessages:     s.TotalMessages,
		AnalyzedMessages:  s.AnalyzedMessages,
		PlatformBreakdown: make([]PlatformStatResponse, 0, len(s.PlatformBreakdown)),
		RecentActivity:    make([]DayCountResponse, 0, len(s.RecentActivity)),
	}
	for _, p := range s.PlatformBreakdown {
		resp.PlatformBreakdown = append(resp.PlatformBreakdown, PlatformStatResponse{Platform: p.Platform, Count: p.Count})
	}
	for _, d := range s.RecentActivity {
		resp.RecentActivity = append(resp.RecentActivity, DayCountResponse{Date: d.Date, Count: d.Count})
	}
	return resp
}

// MapAnalysisToResponse maps an analysis run; messagePublicID is the id clients know the message by.
func MapAnalysisToResponse(a *message.Analysis, messagePublicID string) AnalysisResponse {
	tips := a.ImprovementTips
	if tips == nil {
		tips = []string{}
	}
	return AnalysisResponse{
		ID:                a.PublicID,
		MessageID:         messagePublicID,
		Provider:          a.Provider,
		Model:             a.Model,
		ToxicityScore:     a.ToxicityScore,
		ManipulationScore: a.ManipulationScore,
		Sentiment:         a.Sentiment,
		EmotionalTone:     a.EmotionalTone,
		SuggestedResponse: a.SuggestedResponse,
		ImprovementTips:   tips,
		RawResponse:       a.Raw,
		CreatedAt:         a.CreatedAt.UTC(),
	}
}

func MapAnalysesToResponse(items []*message.Analysis, messagePublicID string) AnalysisListResponse {
	out := make([]AnalysisResponse, 0, len(items))
	for _, a := range items {
		out = append(out, MapAnalysisToResponse(a, messagePublicID))
	}
	return AnalysisListResponse{Analyses: out}
}

func mapParticipant(p *message.Participant) *ParticipantResponse {
	if p == nil {
		return nil
	}
	return &ParticipantResponse{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}
}
