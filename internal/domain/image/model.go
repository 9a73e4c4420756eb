package image

import (
	"fmt"
	"time"
)

// AllowedContentTypes is the upload whitelist. Anything else is rejected
// before a record or storage key exists.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Image represents stored image metadata.
type Image struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// CacheKey derives the deterministic vector cache key for this record. Any
// two processes computing it for the same image agree, so concurrent cache
// fills for one image land on one entry.
func (i *Image) CacheKey() string {
	return fmt.Sprintf("image:%d:clip-embeddings", i.ID)
}

// User is an API consumer identified by a static key.
type User struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"-"`
}
