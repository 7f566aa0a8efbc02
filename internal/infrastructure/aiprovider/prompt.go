package aiprovider

import (
	"encoding/json"
	"fmt"
	"strings"

	"coparent-api/internal/domain/analysis"
)

const systemPrompt = `You are an assistant that detects manipulation, toxicity, and emotional tone in co-parenting messages.
Reply with a single JSON object and nothing else, using these keys:
  "toxicityScore": number between 0 and 1,
  "manipulationScore": number between 0 and 1,
  "sentiment": one of "positive", "neutral", "negative",
  "emotionalTone": short phrase,
  "suggestedResponse": a calm, child-focused reply the recipient could send,
  "improvementTips": array of short suggestions for the sender.`

func buildPrompt(req analysis.Request) string {
	if req.Platform == "" {
		return req.Content
	}
	return fmt.Sprintf("Platform: %s\n\nMessage:\n%s", req.Platform, req.Content)
}

type structuredReply struct {
	ToxicityScore     *float64 `json:"toxicityScore"`
	ManipulationScore *float64 `json:"manipulationScore"`
	Sentiment         *string  `json:"sentiment"`
	EmotionalTone     *string  `json:"emotionalTone"`
	SuggestedResponse *string  `json:"suggestedResponse"`
	ImprovementTips   []string `json:"improvementTips"`
}

// parseResult extracts the structured fields from a model reply. A reply that is
// not a JSON object is kept verbatim as a JSON string in Raw.
func parseResult(model, text string) *analysis.Result {
	result := &analysis.Result{Model: model, ImprovementTips: []string{}}

	body := stripCodeFence(text)
	var reply structuredReply
	if body != "" && json.Valid([]byte(body)) && strings.HasPrefix(body, "{") && json.Unmarshal([]byte(body), &reply) == nil {
		result.ToxicityScore = clampScore(reply.ToxicityScore)
		result.ManipulationScore = clampScore(reply.ManipulationScore)
		result.Sentiment = nonBlank(reply.Sentiment)
		result.EmotionalTone = nonBlank(reply.EmotionalTone)
		result.SuggestedResponse = nonBlank(reply.SuggestedResponse)
		if reply.ImprovementTips != nil {
			result.ImprovementTips = reply.ImprovementTips
		}
		result.Raw = json.RawMessage(body)
		return result
	}

	raw, _ := json.Marshal(text)
	result.Raw = raw
	return result
}

// stripCodeFence removes a surrounding markdown code fence some models add.
func stripCodeFence(text string) string {
	body := strings.TrimSpace(text)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

func clampScore(v *float64) *float64 {
	if v == nil {
		return nil
	}
	score := *v
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return &score
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
