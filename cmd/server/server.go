package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

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
	"coparent-api/internal/infrastructure/observability"
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

// @title Co-Parent Message API
// @version 1.0
// @description Stores and searches co-parenting communication logs, with optional AI tone analysis and screenshot OCR.
// @contact.name Co-Parent API Team
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.ConfigFromEnv(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := database.Migrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	sealer, err := crypto.NewSealer(cfg.EncryptionSecret())
	if err != nil {
		log.Fatal().Err(err).Msg("initialize credential sealer")
	}

	backend, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize upload storage")
	}

	userRepository := userrepo.NewUserGormRepository(db)
	messageRepository := messagerepo.NewMessageGormRepository(db)
	analysisRepository := analysisrepo.NewAnalysisGormRepository(db)
	credentialRepository := credentialrepo.NewCredentialGormRepository(db)

	userService := user.NewService(userRepository, messageRepository, logger.Component(log, "user"))
	messageService := message.NewService(messageRepository, userService)
	credentialService := credential.NewService(credentialRepository, sealer)
	analysisService := analysis.NewService(
		analysisRepository,
		messageService,
		userService,
		credentialService,
		aiprovider.NewRegistry(cfg, log),
		logger.Component(log, "analysis"),
	)
	uploadService := upload.NewService(backend, ocr.New(cfg, log), cfg.UploadMaxBytes, logger.Component(log, "upload"))

	sanitizer := telemetry.NewSanitizer(telemetry.ParsePIILevel(cfg.LogPIILevel), cfg.EncryptionSecret())
	handlerProvider := handlers.NewProvider(
		messageService,
		analysisService,
		userService,
		credentialService,
		uploadService,
		handlers.UploadLimit(cfg.UploadMaxBytes),
		sanitizer,
		log,
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator, userService, sanitizer, readinessChecks(db, backend))
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func readinessChecks(db *gorm.DB, backend storage.Backend) httpserver.ReadinessChecks {
	return httpserver.ReadinessChecks{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
		"storage":  backend.Health,
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
