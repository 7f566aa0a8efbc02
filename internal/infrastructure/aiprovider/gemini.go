package aiprovider

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API. A client is built per call because the key belongs to the requesting user.
type GeminiClient struct {
	model string
}

func NewGeminiClient(model string) *GeminiClient {
	return &GeminiClient{model: model}
}

func (c *GeminiClient) Complete(ctx context.Context, apiKey, system, prompt string) (*Completion, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReasonMessage != "" {
			return nil, fmt.Errorf("gemini blocked the prompt: %s", resp.PromptFeedback.BlockReasonMessage)
		}
		return nil, errors.New("gemini returned no candidates")
	}

	model := resp.ModelVersion
	if model == "" {
		model = c.model
	}
	return &Completion{Model: model, Text: resp.Text()}, nil
}
