package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"imagesim/internal/config"
	"imagesim/internal/domain/embedding"
	"imagesim/internal/infrastructure/metrics"
	"imagesim/utils/apperrors"
	"imagesim/utils/storagekey"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	Create(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, id uint) (*Image, error)
	List(ctx context.Context) ([]Image, error)
	ListExcept(ctx context.Context, id uint) ([]Image, error)
	Delete(ctx context.Context, id uint) error
}

// Storage defines object storage operations for image payloads.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// EmbeddingResolver answers vector lookups with cache-or-compute semantics.
type EmbeddingResolver interface {
	Resolve(ctx context.Context, storageKey, cacheKey string) ([]float32, error)
	Invalidate(ctx context.Context, cacheKey string)
}

// JobQueue schedules detached embedding computations.
type JobQueue interface {
	Enqueue(job embedding.Job)
}

// Service orchestrates image upload, retrieval and similarity search.
type Service struct {
	cfg      *config.Config
	repo     Repository
	storage  Storage
	resolver EmbeddingResolver
	jobs     JobQueue
	log      zerolog.Logger
}

func NewService(cfg *config.Config, repo Repository, storage Storage, resolver EmbeddingResolver, jobs JobQueue, log zerolog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		repo:     repo,
		storage:  storage,
		resolver: resolver,
		jobs:     jobs,
		log:      log.With().Str("component", "image-service").Logger(),
	}
}

// Upload validates and stores a new image: metadata row first, then the
// payload, then a fire-and-forget embedding job. The caller gets a response
// before the vector exists.
func (s *Service) Upload(ctx context.Context, userID uint, fileName, contentType string, data []byte) (*Image, error) {
	// Whitelist check runs before anything is persisted or even named.
	if !AllowedContentTypes[contentType] {
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerDomain,
			apperrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported content type %q, only JPEG and PNG are allowed", contentType),
			nil,
			"6d1f2c59-8a3b-4f0e-bb1d-7f9e2a64c801",
		)
	}

	if len(data) == 0 {
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerDomain,
			apperrors.ErrorTypeValidation,
			"file is empty",
			nil,
			"b2c7e1d0-5a44-4a8f-9c3e-0d6b8f1e2a73",
		)
	}
	if int64(len(data)) > s.cfg.MaxImageBytes {
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerDomain,
			apperrors.ErrorTypeValidation,
			fmt.Sprintf("file exceeds max size of %d bytes", s.cfg.MaxImageBytes),
			nil,
			"e8a94d12-7c05-4b3a-8d2f-4a1c9e6b5f30",
		)
	}

	// The declared type is authoritative for the whitelist; the sniffed type
	// only guards against payloads that are not images at all.
	if sniffed := mimetype.Detect(data).String(); !AllowedContentTypes[sniffed] {
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerDomain,
			apperrors.ErrorTypeValidation,
			fmt.Sprintf("file content detected as %q, not an allowed image type", sniffed),
			nil,
			"a4f0b8e6-3d21-47c9-9e5a-1b8d2c7f6e04",
		)
	}

	img := &Image{
		UserID:      userID,
		FileName:    fileName,
		FilePath:    storagekey.Generate(fileName),
		ContentType: contentType,
	}

	if err := s.repo.Create(ctx, img); err != nil {
		metrics.RecordUpload(contentType, "error", 0)
		return nil, err
	}

	start := time.Now()
	if err := s.storage.Upload(ctx, img.FilePath, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		metrics.RecordStorageOperation("upload", "error", time.Since(start).Seconds())
		metrics.RecordUpload(contentType, "error", 0)
		return nil, apperrors.AsError(ctx, apperrors.LayerDomain, err, "upload image data")
	}
	metrics.RecordStorageOperation("upload", "success", time.Since(start).Seconds())
	metrics.RecordUpload(contentType, "success", int64(len(data)))

	// The upload already holds the bytes, so the job carries them instead of
	// re-reading the object it just wrote.
	s.jobs.Enqueue(embedding.Job{
		ImageID:  img.ID,
		CacheKey: img.CacheKey(),
		Data:     data,
	})

	return img, nil
}

// List returns all stored image records.
func (s *Service) List(ctx context.Context) ([]Image, error) {
	return s.repo.List(ctx)
}

// Get returns a single image record.
func (s *Service) Get(ctx context.Context, id uint) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

// Download streams the stored payload. Missing bytes for an existing record
// surface as a dependency-missing error, not a plain not-found.
func (s *Service) Download(ctx context.Context, id uint) (io.ReadCloser, string, string, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", "", err
	}

	start := time.Now()
	reader, mime, err := s.storage.Download(ctx, img.FilePath)
	if err != nil {
		metrics.RecordStorageOperation("download", "error", time.Since(start).Seconds())
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return nil, "", "", apperrors.NewError(
				ctx,
				apperrors.LayerDomain,
				apperrors.ErrorTypeDependencyMissing,
				"image data missing from object store",
				err,
				"3e7b9f10-4c2d-4f6a-8b1e-9d0a5c3f7e22",
			)
		}
		return nil, "", "", apperrors.AsError(ctx, apperrors.LayerDomain, err, "download image data")
	}
	metrics.RecordStorageOperation("download", "success", time.Since(start).Seconds())

	if mime == "" {
		mime = img.ContentType
	}
	return reader, mime, img.FileName, nil
}

// Delete removes the metadata record and, as deliberate cleanup the lazy
// cache model would otherwise leak, its stored object and cached vector.
// Both cleanups are best-effort; the delete succeeds once the row is gone.
func (s *Service) Delete(ctx context.Context, id uint) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, img.FilePath); err != nil {
		s.log.Warn().Err(err).Str("storage_key", img.FilePath).Msg("orphaned object left in storage")
	}
	s.resolver.Invalidate(ctx, img.CacheKey())

	return nil
}

// FindSimilar ranks every other stored image against the query image.
// Vectors are resolved one candidate at a time through the cache-or-compute
// path; a candidate whose bytes are gone fails the whole search rather than
// being skipped silently.
func (s *Service) FindSimilar(ctx context.Context, id uint, limit int, threshold *float64) (*Image, []embedding.Match, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()

	query, err := s.resolver.Resolve(ctx, img.FilePath, img.CacheKey())
	if err != nil {
		return nil, nil, err
	}

	others, err := s.repo.ListExcept(ctx, img.ID)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]embedding.Candidate, 0, len(others))
	for i := range others {
		vector, err := s.resolver.Resolve(ctx, others[i].FilePath, others[i].CacheKey())
		if err != nil {
			return nil, nil, err
		}
		candidates = append(candidates, embedding.Candidate{
			ImageID: others[i].ID,
			Vector:  vector,
		})
	}

	if limit <= 0 {
		limit = s.cfg.SimilarLimit
	}
	matches := embedding.Rank(query, candidates, limit, threshold)

	metrics.RecordSimilarityQuery(time.Since(start).Seconds())

	return img, matches, nil
}
