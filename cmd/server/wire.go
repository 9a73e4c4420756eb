//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"imagesim/internal/config"
	"imagesim/internal/domain/embedding"
	domain "imagesim/internal/domain/image"
	"imagesim/internal/infrastructure/cache"
	"imagesim/internal/infrastructure/database"
	"imagesim/internal/infrastructure/encoder"
	"imagesim/internal/infrastructure/logger"
	imagerepo "imagesim/internal/infrastructure/repository/image"
	userrepo "imagesim/internal/infrastructure/repository/user"
	"imagesim/internal/infrastructure/storage"
	"imagesim/internal/interfaces/httpserver"
	"imagesim/internal/interfaces/httpserver/middleware"
)

var imageSet = wire.NewSet(
	imagerepo.NewRepository,
	wire.Bind(new(domain.Repository), new(*imagerepo.Repository)),
	userrepo.NewRepository,
	wire.Bind(new(middleware.UserLookup), new(*userrepo.Repository)),
	provideStorage,
	wire.Bind(new(domain.Storage), new(storage.Backend)),
	wire.Bind(new(embedding.ObjectStore), new(storage.Backend)),
	cache.New,
	encoder.NewCLIPEncoder,
	wire.Bind(new(embedding.Encoder), new(*encoder.CLIPEncoder)),
	embedding.NewResolver,
	wire.Bind(new(domain.EmbeddingResolver), new(*embedding.Resolver)),
	provideWorker,
	wire.Bind(new(domain.JobQueue), new(*embedding.Worker)),
	domain.NewService,
)

// BuildApplication assembles the image API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		imageSet,
		provideHTTPServer,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func provideWorker(cfg *config.Config, resolver *embedding.Resolver, log zerolog.Logger) *embedding.Worker {
	return embedding.NewWorker(resolver, cfg.EmbeddingWorkers, cfg.EmbeddingQueueCap, log)
}

func provideHTTPServer(cfg *config.Config, log zerolog.Logger, service *domain.Service, users middleware.UserLookup) *httpserver.HttpServer {
	return httpserver.New(cfg, log, service, users)
}
