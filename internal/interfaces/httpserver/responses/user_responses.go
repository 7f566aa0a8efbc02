package responses

import (
	"time"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/upload"
	"coparent-api/internal/domain/user"
)

// UserResponse is the authenticated user's own record.
type UserResponse struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	AuthProvider    string    `json:"authProvider"`
	AIProvider      string    `json:"aiProvider"`
	AnalysisEnabled bool      `json:"analysisEnabled"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserEnvelope wraps a user as {"user": ...}.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// ProfileResponse is the projection other users may look up.
type ProfileResponse struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// CredentialResponse never carries the key itself.
type CredentialResponse struct {
	Provider  string    `json:"provider"`
	MaskedKey string    `json:"maskedKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CredentialListResponse lists stored keys and the providers a key can be stored for.
type CredentialListResponse struct {
	Credentials        []CredentialResponse `json:"credentials"`
	SupportedProviders []string             `json:"supportedProviders"`
}

// UploadResponse describes a stored upload.
type UploadResponse struct {
	FileURL       string   `json:"fileUrl"`
	ExtractedText string   `json:"extractedText"`
	OCRConfidence *float64 `json:"ocrConfidence,omitempty"`
	MimeType      string   `json:"mimeType"`
	Size          int64    `json:"size"`
}

func MapUserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:              u.PublicID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		AuthProvider:    u.AuthProvider,
		AIProvider:      string(u.AIProvider),
		AnalysisEnabled: u.AnalysisEnabled,
		CreatedAt:       u.CreatedAt.UTC(),
		UpdatedAt:       u.UpdatedAt.UTC(),
	}
}

func MapProfileToResponse(p *user.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}
}

func MapCredentialsToResponse(items []*credential.Credential) CredentialListResponse {
	out := CredentialListResponse{
		Credentials:        make([]CredentialResponse, 0, len(items)),
		SupportedProviders: []string{},
	}
	for _, c := range items {
		out.Credentials = append(out.Credentials, MapCredentialToResponse(c))
	}
	for _, p := range credential.SupportedProviders() {
		out.SupportedProviders = append(out.SupportedProviders, string(p))
	}
	return out
}

func MapCredentialToResponse(c *credential.Credential) CredentialResponse {
	return CredentialResponse{
		Provider:  string(c.Provider),
		MaskedKey: c.Masked(),
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func MapUploadToResponse(r *upload.Result) UploadResponse {
	return UploadResponse{
		FileURL:       r.FileURL,
		ExtractedText: r.ExtractedText,
		OCRConfidence: r.OCRConfidence,
		MimeType:      r.MimeType,
		Size:          r.Size,
	}
}
