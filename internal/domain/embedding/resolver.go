package embedding

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"imagesim/internal/infrastructure/metrics"
	"imagesim/utils/apperrors"
)

// Resolver answers "what is the vector for this image" with a two-tier
// lookup: cache first, then fetch-decode-encode with a best-effort cache
// write. Vectors are treated as immutable per cache key; the resolver never
// invalidates an existing entry.
type Resolver struct {
	cache   Cache
	storage ObjectStore
	encoder Encoder
	log     zerolog.Logger
}

func NewResolver(cache Cache, storage ObjectStore, encoder Encoder, log zerolog.Logger) *Resolver {
	return &Resolver{
		cache:   cache,
		storage: storage,
		encoder: encoder,
		log:     log.With().Str("component", "embedding-resolver").Logger(),
	}
}

// Resolve returns the vector for the image stored under storageKey, computing
// and caching it when absent. A missing object is reported as
// apperrors.ErrorTypeDependencyMissing: the caller holds a metadata record,
// so absent bytes are a broken dependency rather than an unknown image.
func (r *Resolver) Resolve(ctx context.Context, storageKey, cacheKey string) ([]float32, error) {
	if vector, ok := r.cache.Get(ctx, cacheKey); ok {
		metrics.RecordCacheLookup(true)
		return vector, nil
	}
	metrics.RecordCacheLookup(false)

	data, err := r.fetch(ctx, storageKey)
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewError(
				ctx,
				apperrors.LayerDomain,
				apperrors.ErrorTypeDependencyMissing,
				"image data missing from object store",
				err,
				"1f4f9a6e-30cd-4b8a-9f2f-58a1c1f7a402",
			)
		}
		return nil, apperrors.AsError(ctx, apperrors.LayerDomain, err, "fetch image data")
	}

	return r.ComputeAndCache(ctx, cacheKey, data)
}

// ComputeAndCache decodes raw image bytes, runs the encoder and stores the
// result under cacheKey. The cache write is best-effort: on failure the
// computed vector is still returned.
func (r *Resolver) ComputeAndCache(ctx context.Context, cacheKey string, data []byte) ([]float32, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerDomain,
			apperrors.ErrorTypeDecode,
			"image data is not a decodable image",
			err,
			"9c0a4b77-21fd-49a3-b6cf-3f4f3f0f8f11",
		)
	}

	start := time.Now()
	vector, err := r.encoder.Encode(img)
	if err != nil {
		metrics.RecordEmbedding("error", time.Since(start).Seconds())
		return nil, apperrors.AsError(ctx, apperrors.LayerDomain, err, "encode image")
	}
	metrics.RecordEmbedding("success", time.Since(start).Seconds())

	if err := r.cache.Set(ctx, cacheKey, vector, 0); err != nil {
		r.log.Warn().Err(err).Str("cache_key", cacheKey).Msg("cache write failed, returning computed vector anyway")
	}

	return vector, nil
}

// Invalidate drops the cached vector for cacheKey, best-effort.
func (r *Resolver) Invalidate(ctx context.Context, cacheKey string) {
	if err := r.cache.Delete(ctx, cacheKey); err != nil {
		r.log.Warn().Err(err).Str("cache_key", cacheKey).Msg("cache delete failed")
	}
}

func (r *Resolver) fetch(ctx context.Context, storageKey string) ([]byte, error) {
	reader, _, err := r.storage.Download(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
