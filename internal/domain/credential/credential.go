// Package credential manages per-user API keys for third-party AI providers.
package credential

import (
	"context"
	"strings"
	"time"
)

// Provider names an AI provider a user can store a key for.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGroq      Provider = "groq"
	ProviderGemini    Provider = "gemini"
)

// DefaultProvider is used when neither the request nor the user's settings name one.
const DefaultProvider = ProviderOpenAI

var supportedProviders = []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGroq, ProviderGemini}

// SupportedProviders returns the providers in display order.
func SupportedProviders() []Provider {
	out := make([]Provider, len(supportedProviders))
	copy(out, supportedProviders)
	return out
}

// ParseProvider normalizes raw and reports whether it names a supported provider.
func ParseProvider(raw string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	for _, supported := range supportedProviders {
		if p == supported {
			return p, true
		}
	}
	return "", false
}

// Credential is a stored provider key. The plaintext never leaves the service except through Resolve.
type Credential struct {
	ID           uint
	UserID       uint
	Provider     Provider
	EncryptedKey string
	Last4        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Masked returns the display form of the key.
func (c *Credential) Masked() string {
	return "••••" + c.Last4
}

// Repository persists credentials.
type Repository interface {
	Upsert(ctx context.Context, cred *Credential) (*Credential, error)
	FindByUserAndProvider(ctx context.Context, userID uint, provider Provider) (*Credential, error)
	ListByUser(ctx context.Context, userID uint) ([]*Credential, error)
	Delete(ctx context.Context, userID uint, provider Provider) error
}

// Cipher seals keys at rest.
type Cipher interface {
	Seal(plaintext string) (string, error)
	Open(ciphertext string) (string, error)
}
