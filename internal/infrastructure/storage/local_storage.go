package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"imagesim/internal/config"
	"imagesim/utils/apperrors"
)

// LocalStorage keeps image payloads on the local filesystem. Meant for
// development and single-node deployments.
type LocalStorage struct {
	basePath string
	log      zerolog.Logger
}

func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		return nil, fmt.Errorf("IMAGE_LOCAL_STORAGE_PATH must be set for the local storage backend")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create local storage directory: %w", err)
	}

	logger.Info().Str("path", basePath).Msg("local storage initialized")

	return &LocalStorage{
		basePath: basePath,
		log:      logger,
	}, nil
}

// resolvePath keeps keys inside the storage root.
func (l *LocalStorage) resolvePath(key string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(l.basePath, filepath.FromSlash(key)))
	if !strings.HasPrefix(cleaned, filepath.Clean(l.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

func (l *LocalStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	target, err := l.resolvePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	file, err := os.Create(target)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		return err
	}
	return file.Sync()
}

func (l *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	target, err := l.resolvePath(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", apperrors.NewError(
				ctx,
				apperrors.LayerInfrastructure,
				apperrors.ErrorTypeNotFound,
				fmt.Sprintf("object %s not found", key),
				err,
				"5b8d1e2f-7a43-4c6b-9f0d-6e2a8c4b1d37",
			)
		}
		return nil, "", err
	}

	// Content type is not tracked on disk; callers fall back to the record's.
	return file, "", nil
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	target, err := l.resolvePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
