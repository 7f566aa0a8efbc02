package credential

import (
	"context"
	"strings"
	"time"

	"coparent-api/internal/utils/platformerrors"
)

// Service defines provider credential operations.
type Service interface {
	Put(ctx context.Context, userID uint, provider Provider, apiKey string) (*Credential, error)
	List(ctx context.Context, userID uint) ([]*Credential, error)
	Delete(ctx context.Context, userID uint, provider Provider) error
	// Resolve returns the decrypted key, or a configuration error when none is stored.
	Resolve(ctx context.Context, userID uint, provider Provider) (string, error)
}

// DefaultService implements Service.
type DefaultService struct {
	repo   Repository
	cipher Cipher
}

func NewService(repo Repository, cipher Cipher) Service {
	return &DefaultService{repo: repo, cipher: cipher}
}

func (s *DefaultService) Put(ctx context.Context, userID uint, provider Provider, apiKey string) (*Credential, error) {
	if _, ok := ParseProvider(string(provider)); !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unsupported provider: "+string(provider), nil, "credential-put-001")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"apiKey is required", nil, "credential-put-002")
	}

	sealed, err := s.cipher.Seal(apiKey)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to encrypt credential", err, "credential-put-003")
	}

	now := time.Now().UTC()
	cred := &Credential{
		UserID:       userID,
		Provider:     provider,
		EncryptedKey: sealed,
		Last4:        lastFour(apiKey),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := s.repo.Upsert(ctx, cred)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store credential")
	}
	return saved, nil
}

func (s *DefaultService) List(ctx context.Context, userID uint) ([]*Credential, error) {
	creds, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list credentials")
	}
	return creds, nil
}

func (s *DefaultService) Delete(ctx context.Context, userID uint, provider Provider) error {
	if err := s.repo.Delete(ctx, userID, provider); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete credential")
	}
	return nil
}

func (s *DefaultService) Resolve(ctx context.Context, userID uint, provider Provider) (string, error) {
	cred, err := s.repo.FindByUserAndProvider(ctx, userID, provider)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration,
				"no API key configured for provider "+string(provider), err, "credential-resolve-001")
		}
		return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load credential")
	}

	plaintext, err := s.cipher.Open(cred.EncryptedKey)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration,
			"stored API key could not be decrypted; store it again", err, "credential-resolve-002")
	}
	return plaintext, nil
}

func lastFour(key string) string {
	runes := []rune(key)
	if len(runes) <= 4 {
		return string(runes)
	}
	return string(runes[len(runes)-4:])
}
