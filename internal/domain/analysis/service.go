package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/utils/platformerrors"
)

// Service triggers analyses and lists past runs.
type Service interface {
	// Analyze always stores a new run; earlier runs are kept. Only the sender may analyze.
	Analyze(ctx context.Context, messageID string, requesterID uint, provider *string) (*message.Analysis, error)
	ListForMessage(ctx context.Context, messageID string, requesterID uint) ([]*message.Analysis, error)
}

// DefaultService implements Service.
type DefaultService struct {
	repo     Repository
	messages MessageReader
	users    UserReader
	keys     KeyResolver
	analyzer Analyzer
	log      zerolog.Logger
}

func NewService(repo Repository, messages MessageReader, users UserReader, keys KeyResolver, analyzer Analyzer, log zerolog.Logger) Service {
	return &DefaultService{
		repo:     repo,
		messages: messages,
		users:    users,
		keys:     keys,
		analyzer: analyzer,
		log:      log.With().Str("component", "analysis-service").Logger(),
	}
}

func (s *DefaultService) Analyze(ctx context.Context, messageID string, requesterID uint, provider *string) (*message.Analysis, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"messageId is required", nil, "analysis-run-001")
	}

	msg, err := s.messages.GetByID(ctx, messageID, requesterID)
	if err != nil {
		return nil, err
	}
	// Only the sender may start a run. Receivers can still read the history.
	if msg.SenderID != requesterID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"message not found", nil, "analysis-run-005")
	}

	u, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load user settings")
	}

	chosen := u.AIProvider
	if provider != nil && strings.TrimSpace(*provider) != "" {
		parsed, ok := credential.ParseProvider(*provider)
		if !ok {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"provider must be one of openai, anthropic, groq, gemini", nil, "analysis-run-002")
		}
		chosen = parsed
	}
	if chosen == "" {
		chosen = credential.DefaultProvider
	}

	if !u.AnalysisEnabled {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration,
			"AI analysis is disabled in your settings", nil, "analysis-run-003")
	}

	apiKey, err := s.keys.Resolve(ctx, requesterID, chosen)
	if err != nil {
		return nil, err
	}

	platform := ""
	if msg.Platform != nil {
		platform = *msg.Platform
	}

	result, err := s.analyzer.Analyze(ctx, chosen, Request{APIKey: apiKey, Content: msg.Content, Platform: platform})
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeConfiguration) {
			return nil, err
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"AI provider request failed", err, "analysis-run-004")
	}

	run := &message.Analysis{
		PublicID:          uuid.NewString(),
		MessageID:         msg.ID,
		Provider:          string(chosen),
		Model:             result.Model,
		ToxicityScore:     result.ToxicityScore,
		ManipulationScore: result.ManipulationScore,
		Sentiment:         result.Sentiment,
		EmotionalTone:     result.EmotionalTone,
		SuggestedResponse: result.SuggestedResponse,
		ImprovementTips:   result.ImprovementTips,
		Raw:               result.Raw,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, run); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store analysis")
	}

	s.log.Debug().
		Str("message_id", msg.PublicID).
		Str("provider", run.Provider).
		Str("model", run.Model).
		Msg("analysis stored")

	return run, nil
}

func (s *DefaultService) ListForMessage(ctx context.Context, messageID string, requesterID uint) ([]*message.Analysis, error) {
	msg, err := s.messages.GetByID(ctx, messageID, requesterID)
	if err != nil {
		return nil, err
	}

	runs, err := s.repo.ListByMessage(ctx, msg.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list analyses")
	}
	if runs == nil {
		runs = []*message.Analysis{}
	}
	return runs, nil
}
