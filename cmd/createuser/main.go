// Command createuser provisions an API consumer and prints its key.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"imagesim/internal/config"
	domain "imagesim/internal/domain/image"
	"imagesim/internal/infrastructure/database"
	"imagesim/internal/infrastructure/logger"
	userrepo "imagesim/internal/infrastructure/repository/user"
)

func main() {
	name := flag.String("name", "", "user name (required)")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: createuser -name <user name>")
		os.Exit(2)
	}

	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	ctx := context.Background()
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("generate api key")
	}

	user := &domain.User{
		Name:   *name,
		APIKey: apiKey,
	}
	if err := userrepo.NewRepository(db).Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("create user")
	}

	fmt.Printf("created user %q (id %d)\nAPI key: %s\n", user.Name, user.ID, apiKey)
}

func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
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
