//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"coparent-api/internal/config"
	"coparent-api/internal/domain/analysis"
	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/domain/upload"
	"coparent-api/internal/domain/user"
	"coparent-api/internal/infrastructure/aiprovider"
	"coparent-api/internal/infrastructure/auth"
	"coparent-api/internal/infrastructure/database"
	"coparent-api/internal/infrastructure/logger"
	"coparent-api/internal/infrastructure/ocr"
	"coparent-api/internal/infrastructure/repository/analysisrepo"
	"coparent-api/internal/infrastructure/repository/credentialrepo"
	"coparent-api/internal/infrastructure/repository/messagerepo"
	"coparent-api/internal/infrastructure/repository/userrepo"
	"coparent-api/internal/infrastructure/storage"
	"coparent-api/internal/infrastructure/telemetry"
	"coparent-api/internal/interfaces/httpserver"
	"coparent-api/internal/interfaces/httpserver/handlers"
	"coparent-api/internal/utils/crypto"
)

var repositorySet = wire.NewSet(
	userrepo.NewUserGormRepository,
	wire.Bind(new(user.Repository), new(*userrepo.UserGormRepository)),
	messagerepo.NewMessageGormRepository,
	wire.Bind(new(message.Repository), new(*messagerepo.MessageGormRepository)),
	wire.Bind(new(user.MessageArchiver), new(*messagerepo.MessageGormRepository)),
	analysisrepo.NewAnalysisGormRepository,
	wire.Bind(new(analysis.Repository), new(*analysisrepo.AnalysisGormRepository)),
	credentialrepo.NewCredentialGormRepository,
	wire.Bind(new(credential.Repository), new(*credentialrepo.CredentialGormRepository)),
)

var serviceSet = wire.NewSet(
	newSealer,
	wire.Bind(new(credential.Cipher), new(*crypto.Sealer)),
	credential.NewService,
	newUserService,
	newMessageService,
	aiprovider.NewRegistry,
	wire.Bind(new(analysis.Analyzer), new(*aiprovider.Registry)),
	newAnalysisService,
	storage.New,
	ocr.New,
	newUploadService,
)

// BuildApplication assembles the message API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		database.ConfigFromEnv,
		database.Connect,
		auth.NewValidator,
		repositorySet,
		serviceSet,
		newSanitizer,
		newUploadLimit,
		handlers.NewProvider,
		readinessChecks,
		newHTTPServer,
		NewApplication,
	)
	return nil, nil
}

func newSealer(cfg *config.Config) (*crypto.Sealer, error) {
	return crypto.NewSealer(cfg.EncryptionSecret())
}

func newSanitizer(cfg *config.Config) *telemetry.Sanitizer {
	return telemetry.NewSanitizer(telemetry.ParsePIILevel(cfg.LogPIILevel), cfg.EncryptionSecret())
}

func newUploadLimit(cfg *config.Config) handlers.UploadLimit {
	return handlers.UploadLimit(cfg.UploadMaxBytes)
}

func newUserService(repo user.Repository, archiver user.MessageArchiver, log zerolog.Logger) user.Service {
	return user.NewService(repo, archiver, logger.Component(log, "user"))
}

func newMessageService(repo message.Repository, users user.Service) message.Service {
	return message.NewService(repo, users)
}

func newAnalysisService(
	repo analysis.Repository,
	messages message.Service,
	users user.Service,
	keys credential.Service,
	analyzer analysis.Analyzer,
	log zerolog.Logger,
) analysis.Service {
	return analysis.NewService(repo, messages, users, keys, analyzer, logger.Component(log, "analysis"))
}

func newUploadService(cfg *config.Config, backend storage.Backend, extractor upload.Extractor, log zerolog.Logger) upload.Service {
	return upload.NewService(backend, extractor, cfg.UploadMaxBytes, logger.Component(log, "upload"))
}

func newHTTPServer(
	cfg *config.Config,
	log zerolog.Logger,
	handlerProvider *handlers.Provider,
	validator *auth.Validator,
	users user.Service,
	sanitizer *telemetry.Sanitizer,
	checks httpserver.ReadinessChecks,
) *httpserver.HttpServer {
	return httpserver.New(cfg, log, handlerProvider, validator, users, sanitizer, checks)
}
