package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"imagesim/internal/config"
	"imagesim/internal/domain/embedding"
	domain "imagesim/internal/domain/image"
	"imagesim/internal/infrastructure/cache"
	"imagesim/internal/infrastructure/database"
	"imagesim/internal/infrastructure/encoder"
	"imagesim/internal/infrastructure/logger"
	"imagesim/internal/infrastructure/observability"
	imagerepo "imagesim/internal/infrastructure/repository/image"
	userrepo "imagesim/internal/infrastructure/repository/user"
	"imagesim/internal/infrastructure/storage"
	"imagesim/internal/interfaces/httpserver"
)

// @title Image API
// @version 1.0
// @description Image upload and similarity search service
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
type Application struct {
	httpServer *httpserver.HttpServer
	worker     *embedding.Worker
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, worker *embedding.Worker, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		worker:     worker,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	defer a.worker.Shutdown()
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

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	storageClient, err := provideStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	vectorCache, err := cache.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize embedding cache")
	}

	clipEncoder, err := encoder.NewCLIPEncoder(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load embedding model")
	}
	defer clipEncoder.Close()

	resolver := embedding.NewResolver(vectorCache, storageClient, clipEncoder, log)
	worker := embedding.NewWorker(resolver, cfg.EmbeddingWorkers, cfg.EmbeddingQueueCap, log)

	imageRepository := imagerepo.NewRepository(db)
	userRepository := userrepo.NewRepository(db)
	imageService := domain.NewService(cfg, imageRepository, storageClient, resolver, worker, log)

	httpServer := httpserver.New(cfg, log, imageService, userRepository, readinessCheckers(storageClient, vectorCache)...)
	app := NewApplication(httpServer, worker, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Backend, error) {
	if cfg.IsLocalStorage() {
		return storage.NewLocalStorage(cfg, log)
	}
	return storage.NewS3Storage(ctx, cfg, log)
}

func readinessCheckers(deps ...any) []httpserver.HealthChecker {
	checkers := make([]httpserver.HealthChecker, 0, len(deps))
	for _, dep := range deps {
		if checker, ok := dep.(httpserver.HealthChecker); ok {
			checkers = append(checkers, checker)
		}
	}
	return checkers
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
