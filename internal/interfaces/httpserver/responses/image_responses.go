package responses

import (
	"time"

	"imagesim/internal/domain/embedding"
	domain "imagesim/internal/domain/image"
)

// ImageResponse represents a stored image record
type ImageResponse struct {
	ID          uint   `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	CreatedAt   string `json:"created_at"`
	ModifiedAt  string `json:"modified_at"`
}

// BuildImageResponse creates a response from the domain object
func BuildImageResponse(img *domain.Image) *ImageResponse {
	return &ImageResponse{
		ID:          img.ID,
		FileName:    img.FileName,
		ContentType: img.ContentType,
		CreatedAt:   img.CreatedAt.UTC().Format(time.RFC3339),
		ModifiedAt:  img.ModifiedAt.UTC().Format(time.RFC3339),
	}
}

// BuildImageListResponse maps a slice of records
func BuildImageListResponse(images []domain.Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for i := range images {
		out = append(out, *BuildImageResponse(&images[i]))
	}
	return out
}

// SimilarImageResponse couples an image id with its similarity score
type SimilarImageResponse struct {
	ImageID    uint    `json:"image_id"`
	Similarity float64 `json:"similarity"`
}

// ImageWithSimilarResponse is the similarity search result envelope
type ImageWithSimilarResponse struct {
	Image   ImageResponse          `json:"image"`
	Similar []SimilarImageResponse `json:"similar"`
}

// BuildSimilarResponse creates the search response from a query image and
// its ranked matches
func BuildSimilarResponse(img *domain.Image, matches []embedding.Match) *ImageWithSimilarResponse {
	similar := make([]SimilarImageResponse, 0, len(matches))
	for _, match := range matches {
		similar = append(similar, SimilarImageResponse{
			ImageID:    match.ImageID,
			Similarity: match.Similarity,
		})
	}
	return &ImageWithSimilarResponse{
		Image:   *BuildImageResponse(img),
		Similar: similar,
	}
}
