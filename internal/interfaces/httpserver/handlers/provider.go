package handlers

import (
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/analysis"
	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/domain/upload"
	"coparent-api/internal/domain/user"
	"coparent-api/internal/infrastructure/telemetry"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Message    *MessageHandler
	Analysis   *AnalysisHandler
	User       *UserHandler
	Credential *CredentialHandler
	Upload     *UploadHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	messageService message.Service,
	analysisService analysis.Service,
	userService user.Service,
	credentialService credential.Service,
	uploadService upload.Service,
	uploadLimit UploadLimit,
	sanitizer *telemetry.Sanitizer,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Message:    NewMessageHandler(messageService, analysisService, sanitizer, log),
		Analysis:   NewAnalysisHandler(analysisService, log),
		User:       NewUserHandler(userService, sanitizer, log),
		Credential: NewCredentialHandler(credentialService, log),
		Upload:     NewUploadHandler(uploadService, uploadLimit, log),
	}
}
