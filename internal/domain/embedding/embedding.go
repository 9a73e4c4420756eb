// Package embedding holds the similarity-retrieval core: the vector cache
// contract, the cache-or-compute resolver and the brute-force ranking of
// stored images against a query vector.
package embedding

import (
	"context"
	"image"
	"io"
	"time"
)

// Cache stores computed image vectors keyed by a deterministic cache key.
// It is a best-effort accelerator, never a source of truth: a failed Set
// must not fail the computation that produced the vector.
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, value []float32, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ObjectStore is the subset of the object storage surface the resolver
// needs. A missing object must surface as apperrors.ErrorTypeNotFound so it
// can be told apart from transport failures.
type ObjectStore interface {
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// Encoder turns decoded pixel data into a fixed-length vector. The model
// behind it is loaded once at process start and shared across requests.
type Encoder interface {
	Encode(img image.Image) ([]float32, error)
	Dimensions() int
}
