package requests

import (
	"coparent-api/internal/domain/user"
	"coparent-api/internal/utils/optional"
)

// UpdateSettingsRequest changes analysis preferences; absent keys are left untouched.
type UpdateSettingsRequest struct {
	AIProvider      optional.Value[string] `json:"aiProvider"`
	AnalysisEnabled optional.Value[bool]   `json:"analysisEnabled"`
}

func (r UpdateSettingsRequest) ToSettingsUpdate() user.SettingsUpdate {
	return user.SettingsUpdate{
		AIProvider:      r.AIProvider,
		AnalysisEnabled: r.AnalysisEnabled,
	}
}

// PutCredentialRequest stores a provider API key.
type PutCredentialRequest struct {
	APIKey string `json:"apiKey" validate:"required,max=512"`
}
