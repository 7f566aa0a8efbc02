// Package user resolves application users from external identities and manages their settings.
package user

import (
	"context"
	"time"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/utils/optional"
)

// User models an application user resolved from an external identity provider.
type User struct {
	ID              uint
	PublicID        string
	AuthProvider    string
	Issuer          string
	Subject         string
	Email           *string
	FirstName       *string
	LastName        *string
	AIProvider      credential.Provider
	AnalysisEnabled bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// Identity carries the attributes asserted by the identity provider token.
type Identity struct {
	Provider  string
	Issuer    string
	Subject   string
	Email     *string
	FirstName *string
	LastName  *string
}

// Profile is the reduced projection shared with other users for co-parent pairing.
type Profile struct {
	ID        string
	Email     *string
	FirstName *string
	LastName  *string
}

// ToProfile projects the user for display next to messages.
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:        u.PublicID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// SettingsUpdate is a partial update of the user's analysis preferences.
type SettingsUpdate struct {
	AIProvider      optional.Value[string]
	AnalysisEnabled optional.Value[bool]
}

// Repository defines storage operations for users.
type Repository interface {
	// Upsert inserts or refreshes the row keyed by (issuer, subject) and returns the stored user.
	Upsert(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateSettings(ctx context.Context, id uint, provider credential.Provider, analysisEnabled bool) (*User, error)
	SoftDelete(ctx context.Context, id uint) error
}

// MessageArchiver soft-deletes every message a user takes part in.
type MessageArchiver interface {
	ArchiveByParticipant(ctx context.Context, userID uint) (int64, error)
}
