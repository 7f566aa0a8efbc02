package aiprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const anthropicVersion = "2023-06-01"

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	httpClient *resty.Client
	model      string
}

func NewAnthropicClient(baseURL, model string) *AnthropicClient {
	return &AnthropicClient{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetHeader("anthropic-version", anthropicVersion).
			SetTimeout(120 * time.Second),
		model: model,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, apiKey, system, prompt string) (*Completion, error) {
	var result anthropicResponse
	var apiErr anthropicError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("x-api-key", apiKey).
		SetBody(anthropicRequest{
			Model:     c.model,
			MaxTokens: 1024,
			System:    system,
			Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return nil, fmt.Errorf("anthropic api error %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return nil, fmt.Errorf("anthropic api error %d: %s", resp.StatusCode(), resp.String())
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("anthropic returned no text content")
	}

	model := result.Model
	if model == "" {
		model = c.model
	}
	return &Completion{Model: model, Text: text.String()}, nil
}
