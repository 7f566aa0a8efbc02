// Package aiprovider calls third-party chat models to analyze co-parenting messages.
package aiprovider

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"coparent-api/internal/config"
	"coparent-api/internal/domain/analysis"
	"coparent-api/internal/domain/credential"
	"coparent-api/internal/infrastructure/metrics"
	"coparent-api/internal/utils/platformerrors"
)

// Completion is the text reply of one chat call.
type Completion struct {
	Model string
	Text  string
}

// Client sends one system and user prompt pair to a provider with the caller's key.
type Client interface {
	Complete(ctx context.Context, apiKey, system, prompt string) (*Completion, error)
}

// Registry dispatches analyses to the client registered for each provider.
type Registry struct {
	clients map[credential.Provider]Client
	timeout time.Duration
	log     zerolog.Logger
}

var _ analysis.Analyzer = (*Registry)(nil)

// NewRegistry wires the OpenAI, Groq, Anthropic and Gemini clients from configuration.
func NewRegistry(cfg *config.Config, log zerolog.Logger) *Registry {
	registry := NewRegistryWithClients(cfg.AIProviderTimeout, log)
	registry.Register(credential.ProviderOpenAI, NewOpenAIClient(cfg.AIOpenAIBaseURL, cfg.AIOpenAIModel))
	registry.Register(credential.ProviderGroq, NewOpenAIClient(cfg.AIGroqBaseURL, cfg.AIGroqModel))
	registry.Register(credential.ProviderAnthropic, NewAnthropicClient(cfg.AIAnthropicBaseURL, cfg.AIAnthropicModel))
	registry.Register(credential.ProviderGemini, NewGeminiClient(cfg.AIGeminiModel))
	return registry
}

// NewRegistryWithClients returns an empty registry. A zero timeout waits for the provider indefinitely.
func NewRegistryWithClients(timeout time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		clients: make(map[credential.Provider]Client),
		timeout: timeout,
		log:     log.With().Str("component", "aiprovider").Logger(),
	}
}

func (r *Registry) Register(provider credential.Provider, client Client) {
	r.clients[provider] = client
}

func (r *Registry) Analyze(ctx context.Context, provider credential.Provider, req analysis.Request) (*analysis.Result, error) {
	client, ok := r.clients[provider]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeConfiguration,
			"AI provider is not available: "+string(provider), nil, "aiprovider-dispatch-001")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	completion, err := client.Complete(ctx, req.APIKey, systemPrompt, buildPrompt(req))
	elapsed := time.Since(start)
	metrics.RecordAnalysis(string(provider), elapsed.Seconds(), err)

	if err != nil {
		r.log.Warn().
			Err(err).
			Str("provider", string(provider)).
			Dur("elapsed", elapsed).
			Msg("provider call failed")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"AI provider request failed", err, "aiprovider-call-001")
	}

	r.log.Debug().
		Str("provider", string(provider)).
		Str("model", completion.Model).
		Dur("elapsed", elapsed).
		Msg("provider call completed")

	return parseResult(completion.Model, completion.Text), nil
}
