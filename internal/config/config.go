package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the image service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"image-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"IMAGE_API_PORT" envDefault:"8290"`
	LogLevel        string        `env:"IMAGE_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Embedding cache backend. Options: "redis", "memory" or "noop".
	CacheBackend   string        `env:"IMAGE_CACHE_BACKEND" envDefault:"redis"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	CacheKeyPrefix string        `env:"IMAGE_CACHE_KEY_PREFIX" envDefault:""`
	CacheMaxSize   int           `env:"IMAGE_CACHE_MAX_SIZE" envDefault:"4096"`
	CacheTTL       time.Duration `env:"IMAGE_CACHE_TTL" envDefault:"0"`

	// Storage Backend Selection. Options: "s3" or "local".
	StorageBackend string `env:"IMAGE_STORAGE_BACKEND" envDefault:"s3"`

	// Local Storage Configuration
	LocalStoragePath string `env:"IMAGE_LOCAL_STORAGE_PATH"`

	// S3 Storage Configuration
	S3Endpoint     string `env:"IMAGE_S3_ENDPOINT" envDefault:"http://localhost:9000"`
	S3Region       string `env:"IMAGE_S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string `env:"IMAGE_S3_BUCKET" envDefault:"images"`
	S3AccessKeyID  string `env:"IMAGE_S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"IMAGE_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"IMAGE_S3_USE_PATH_STYLE" envDefault:"true"`

	// Image Configuration
	MaxImageBytes int64 `env:"IMAGE_MAX_BYTES" envDefault:"20971520"`

	// Embedding model (ONNX export of a CLIP vision encoder)
	ModelPath          string `env:"IMAGE_MODEL_PATH" envDefault:"./model/clip-vit-b-32.onnx"`
	OnnxRuntimeLibPath string `env:"IMAGE_ONNXRUNTIME_LIB_PATH" envDefault:"./model/libonnxruntime.so"`
	EmbeddingDim       int    `env:"IMAGE_EMBEDDING_DIM" envDefault:"512"`

	// Background embedding workers
	EmbeddingWorkers  int `env:"IMAGE_EMBEDDING_WORKERS" envDefault:"2"`
	EmbeddingQueueCap int `env:"IMAGE_EMBEDDING_QUEUE_CAP" envDefault:"100"`

	// Similarity search defaults
	SimilarLimit     int     `env:"IMAGE_SIMILAR_LIMIT" envDefault:"10"`
	SimilarThreshold float64 `env:"IMAGE_SIMILAR_THRESHOLD" envDefault:"0.8"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 20 * 1024 * 1024
	}
	if cfg.EmbeddingWorkers <= 0 {
		cfg.EmbeddingWorkers = 1
	}
	if cfg.SimilarLimit <= 0 {
		cfg.SimilarLimit = 10
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "local"
}
