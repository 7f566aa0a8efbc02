package aiprovider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coparent-api/internal/domain/analysis"
	"coparent-api/internal/domain/credential"
	"coparent-api/internal/utils/platformerrors"
)

type fakeClient struct {
	completion *Completion
	err        error
	gotKey     string
	gotPrompt  string
}

func (f *fakeClient) Complete(ctx context.Context, apiKey, system, prompt string) (*Completion, error) {
	f.gotKey = apiKey
	f.gotPrompt = prompt
	return f.completion, f.err
}

func TestParseResult_StructuredReply(t *testing.T) {
	text := "```json\n{\"toxicityScore\": 1.4, \"manipulationScore\": 0.2, \"sentiment\": \"negative\", \"emotionalTone\": \" hostile \", \"suggestedResponse\": \"\", \"improvementTips\": [\"avoid blame\"]}\n```"

	result := parseResult("gpt-4", text)

	assert.Equal(t, "gpt-4", result.Model)
	require.NotNil(t, result.ToxicityScore)
	assert.Equal(t, 1.0, *result.ToxicityScore)
	assert.Equal(t, 0.2, *result.ManipulationScore)
	assert.Equal(t, "negative", *result.Sentiment)
	assert.Equal(t, "hostile", *result.EmotionalTone)
	assert.Nil(t, result.SuggestedResponse)
	assert.Equal(t, []string{"avoid blame"}, result.ImprovementTips)
	assert.True(t, json.Valid(result.Raw))
}

func TestParseResult_PlainTextKeptRaw(t *testing.T) {
	result := parseResult("claude", "The message seems fine.")

	assert.Nil(t, result.ToxicityScore)
	assert.Nil(t, result.Sentiment)
	assert.Equal(t, []string{}, result.ImprovementTips)

	var raw string
	require.NoError(t, json.Unmarshal(result.Raw, &raw))
	assert.Equal(t, "The message seems fine.", raw)
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "hello", buildPrompt(analysis.Request{Content: "hello"}))
	assert.Contains(t, buildPrompt(analysis.Request{Content: "hello", Platform: "sms"}), "Platform: sms")
}

func TestRegistry_Dispatch(t *testing.T) {
	registry := NewRegistryWithClients(0, zerolog.Nop())
	client := &fakeClient{completion: &Completion{Model: "m", Text: `{"sentiment":"neutral"}`}}
	registry.Register(credential.ProviderGroq, client)

	result, err := registry.Analyze(context.Background(), credential.ProviderGroq, analysis.Request{APIKey: "k", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "k", client.gotKey)
	assert.Equal(t, "hi", client.gotPrompt)
	assert.Equal(t, "neutral", *result.Sentiment)
}

func TestRegistry_UnknownProviderIsConfiguration(t *testing.T) {
	registry := NewRegistryWithClients(0, zerolog.Nop())

	_, err := registry.Analyze(context.Background(), credential.ProviderGemini, analysis.Request{})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConfiguration))
}

func TestRegistry_ClientFailureIsExternal(t *testing.T) {
	registry := NewRegistryWithClients(0, zerolog.Nop())
	registry.Register(credential.ProviderOpenAI, &fakeClient{err: errors.New("401 invalid key")})

	_, err := registry.Analyze(context.Background(), credential.ProviderOpenAI, analysis.Request{})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestAnthropicClient(t *testing.T) {
	var captured anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"claude-test","content":[{"type":"text","text":"{\"toxicityScore\":0.1}"}]}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(server.URL+"/", "claude-default")
	completion, err := client.Complete(context.Background(), "secret", "sys", "hello")
	require.NoError(t, err)

	assert.Equal(t, "claude-test", completion.Model)
	assert.Equal(t, `{"toxicityScore":0.1}`, completion.Text)
	assert.Equal(t, "claude-default", captured.Model)
	assert.Equal(t, "sys", captured.System)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "hello", captured.Messages[0].Content)
}

func TestAnthropicClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	_, err := NewAnthropicClient(server.URL, "claude").Complete(context.Background(), "bad", "sys", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestOpenAIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4-0613","choices":[{"index":0,"message":{"role":"assistant","content":"looks calm"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	completion, err := NewOpenAIClient(server.URL, "gpt-4").Complete(context.Background(), "sk-test", "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-0613", completion.Model)
	assert.Equal(t, "looks calm", completion.Text)
}
