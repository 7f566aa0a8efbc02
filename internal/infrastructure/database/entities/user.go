package entities

import (
	"time"

	"gorm.io/gorm"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/domain/user"
)

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// User is the persisted account linked to an external identity.
type User struct {
	ID              uint           `gorm:"primaryKey"`
	PublicID        string         `gorm:"column:public_id;size:64;not null;uniqueIndex"`
	AuthProvider    string         `gorm:"size:50;not null"`
	Issuer          string         `gorm:"size:255;not null;uniqueIndex:ux_users_issuer_subject"`
	Subject         string         `gorm:"size:255;not null;uniqueIndex:ux_users_issuer_subject"`
	Email           *string        `gorm:"size:320;uniqueIndex:ux_users_email"`
	FirstName       *string        `gorm:"size:255"`
	LastName        *string        `gorm:"size:255"`
	AIProvider      string         `gorm:"column:ai_provider;size:32;not null"`
	AnalysisEnabled bool           `gorm:"not null"`
	CreatedAt       time.Time      `gorm:"not null"`
	UpdatedAt       time.Time      `gorm:"not null"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// NewUser converts a domain user into its row.
func NewUser(u *user.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:              u.ID,
		PublicID:        u.PublicID,
		AuthProvider:    u.AuthProvider,
		Issuer:          u.Issuer,
		Subject:         u.Subject,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		AIProvider:      string(u.AIProvider),
		AnalysisEnabled: u.AnalysisEnabled,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// EtoD converts the row back to the domain user.
func (u *User) EtoD() *user.User {
	if u == nil {
		return nil
	}
	var deletedAt *time.Time
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		deletedAt = &t
	}
	return &user.User{
		ID:              u.ID,
		PublicID:        u.PublicID,
		AuthProvider:    u.AuthProvider,
		Issuer:          u.Issuer,
		Subject:         u.Subject,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		AIProvider:      credential.Provider(u.AIProvider),
		AnalysisEnabled: u.AnalysisEnabled,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}

// Participant projects the row for display next to a message.
func (u *User) Participant() *message.Participant {
	if u == nil {
		return nil
	}
	return &message.Participant{
		ID:        u.PublicID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
