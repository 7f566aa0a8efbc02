package aiprovider

import (
	"context"
	"errors"
	"fmt"

	gopenai "github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks the OpenAI chat completions API. Groq exposes the same API under its own base URL.
type OpenAIClient struct {
	baseURL string
	model   string
}

func NewOpenAIClient(baseURL, model string) *OpenAIClient {
	return &OpenAIClient{baseURL: baseURL, model: model}
}

func (c *OpenAIClient) Complete(ctx context.Context, apiKey, system, prompt string) (*Completion, error) {
	aiConfig := gopenai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		aiConfig.BaseURL = c.baseURL
	}
	client := gopenai.NewClientWithConfig(aiConfig)

	resp, err := client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []gopenai.ChatCompletionMessage{
			{Role: gopenai.ChatMessageRoleSystem, Content: system},
			{Role: gopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return &Completion{Model: model, Text: resp.Choices[0].Message.Content}, nil
}
