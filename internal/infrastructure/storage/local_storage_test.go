package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"imagesim/internal/config"
	"imagesim/utils/apperrors"
)

func newLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()

	cfg := &config.Config{LocalStoragePath: t.TempDir()}
	store, err := NewLocalStorage(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLocalStorage() error: %v", err)
	}
	return store
}

func TestLocalStorageUploadDownloadRoundTrip(t *testing.T) {
	store := newLocalStorage(t)
	ctx := context.Background()
	payload := []byte("image bytes")

	if err := store.Upload(ctx, "image/a.png", bytes.NewReader(payload), int64(len(payload)), "image/png"); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	reader, mime, err := store.Download(ctx, "image/a.png")
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	defer reader.Close()

	if mime != "" {
		t.Errorf("mime = %q, want empty (caller falls back to record)", mime)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("payload mismatch: got %q", data)
	}
}

func TestLocalStorageDownloadMissingIsNotFound(t *testing.T) {
	store := newLocalStorage(t)

	_, _, err := store.Download(context.Background(), "image/absent.png")
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("got error %v, want NOT_FOUND", err)
	}
}

func TestLocalStorageDelete(t *testing.T) {
	store := newLocalStorage(t)
	ctx := context.Background()

	if err := store.Upload(ctx, "image/a.png", bytes.NewReader([]byte("x")), 1, "image/png"); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if err := store.Delete(ctx, "image/a.png"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, _, err := store.Download(ctx, "image/a.png"); !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("got error %v after delete, want NOT_FOUND", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "image/a.png"); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
}

func TestLocalStorageRejectsTraversalKeys(t *testing.T) {
	store := newLocalStorage(t)
	ctx := context.Background()

	for _, key := range []string{"../escape", "image/../../etc/passwd"} {
		if err := store.Upload(ctx, key, bytes.NewReader([]byte("x")), 1, ""); err == nil {
			t.Errorf("Upload(%q) accepted a traversal key", key)
		}
		if _, _, err := store.Download(ctx, key); err == nil {
			t.Errorf("Download(%q) accepted a traversal key", key)
		}
	}
}
