package entities

import (
	"time"

	"coparent-api/internal/domain/credential"
)

// TableName specifies the table name for ProviderCredential.
func (ProviderCredential) TableName() string {
	return "provider_credentials"
}

// ProviderCredential stores a sealed AI provider key, unique per user and provider.
type ProviderCredential struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex:ux_provider_credentials_user_provider"`
	User         *User     `gorm:"foreignKey:UserID"`
	Provider     string    `gorm:"size:32;not null;uniqueIndex:ux_provider_credentials_user_provider"`
	EncryptedKey string    `gorm:"type:text;not null"`
	Last4        string    `gorm:"column:last4;size:8;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func NewProviderCredential(c *credential.Credential) *ProviderCredential {
	if c == nil {
		return nil
	}
	return &ProviderCredential{
		ID:           c.ID,
		UserID:       c.UserID,
		Provider:     string(c.Provider),
		EncryptedKey: c.EncryptedKey,
		Last4:        c.Last4,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (c *ProviderCredential) EtoD() *credential.Credential {
	if c == nil {
		return nil
	}
	return &credential.Credential{
		ID:           c.ID,
		UserID:       c.UserID,
		Provider:     credential.Provider(c.Provider),
		EncryptedKey: c.EncryptedKey,
		Last4:        c.Last4,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// All lists every entity for AutoMigrate in tests.
func All() []any {
	return []any{&User{}, &Message{}, &MessageAnalysis{}, &ProviderCredential{}}
}
