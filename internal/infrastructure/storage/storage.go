// Package storage provides object storage backends for image payloads.
package storage

import (
	"context"
	"io"
)

// Backend is the object store surface shared by the S3 and local backends.
type Backend interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}
