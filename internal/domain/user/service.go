package user

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/utils/platformerrors"
)

const defaultAuthProvider = "oidc"

// Service resolves identities and manages account-level state.
type Service interface {
	ResolveOrCreate(ctx context.Context, identity Identity) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	UpdateSettings(ctx context.Context, userID uint, update SettingsUpdate) (*User, error)
	DeleteAccount(ctx context.Context, userID uint) error
}

// DefaultService implements Service.
type DefaultService struct {
	repo     Repository
	archiver MessageArchiver
	log      zerolog.Logger
}

func NewService(repo Repository, archiver MessageArchiver, log zerolog.Logger) Service {
	return &DefaultService{
		repo:     repo,
		archiver: archiver,
		log:      log.With().Str("component", "user-service").Logger(),
	}
}

// ResolveOrCreate is called on every authenticated request; the profile fields follow the latest token.
func (s *DefaultService) ResolveOrCreate(ctx context.Context, identity Identity) (*User, error) {
	if strings.TrimSpace(identity.Issuer) == "" || strings.TrimSpace(identity.Subject) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"identity issuer and subject are required", nil, "user-resolve-001")
	}

	authProvider := identity.Provider
	if authProvider == "" {
		authProvider = defaultAuthProvider
	}

	candidate := &User{
		AuthProvider:    authProvider,
		Issuer:          identity.Issuer,
		Subject:         identity.Subject,
		Email:           normalizeEmail(identity.Email),
		FirstName:       trimmed(identity.FirstName),
		LastName:        trimmed(identity.LastName),
		AIProvider:      credential.DefaultProvider,
		AnalysisEnabled: true,
	}

	u, err := s.repo.Upsert(ctx, candidate)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to resolve user")
	}
	return u, nil
}

func (s *DefaultService) FindByID(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load user")
	}
	return u, nil
}

func (s *DefaultService) FindByPublicID(ctx context.Context, publicID string) (*User, error) {
	u, err := s.repo.FindByPublicID(ctx, strings.TrimSpace(publicID))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load user")
	}
	return u, nil
}

func (s *DefaultService) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"email is required", nil, "user-email-001")
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up user")
	}
	return u.ToProfile(), nil
}

func (s *DefaultService) UpdateSettings(ctx context.Context, userID uint, update SettingsUpdate) (*User, error) {
	current, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load user")
	}

	provider := current.AIProvider
	if update.AIProvider.Set {
		raw, ok := update.AIProvider.Get()
		parsed, valid := credential.ParseProvider(raw)
		if !ok || !valid {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"aiProvider must be one of openai, anthropic, groq, gemini", nil, "user-settings-001")
		}
		provider = parsed
	}

	enabled := current.AnalysisEnabled
	if update.AnalysisEnabled.Set {
		v, ok := update.AnalysisEnabled.Get()
		if !ok {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"analysisEnabled cannot be null", nil, "user-settings-002")
		}
		enabled = v
	}

	updated, err := s.repo.UpdateSettings(ctx, userID, provider, enabled)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update settings")
	}
	return updated, nil
}

// DeleteAccount archives the user's messages and then soft-deletes the account row.
func (s *DefaultService) DeleteAccount(ctx context.Context, userID uint) error {
	archived, err := s.archiver.ArchiveByParticipant(ctx, userID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to archive messages")
	}

	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete account")
	}

	s.log.Info().Uint("user_id", userID).Int64("archived_messages", archived).Msg("account deleted")
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*email))
	if v == "" {
		return nil
	}
	return &v
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
