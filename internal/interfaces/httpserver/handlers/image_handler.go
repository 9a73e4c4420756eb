package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"imagesim/internal/config"
	domain "imagesim/internal/domain/image"
	"imagesim/internal/interfaces/httpserver/middleware"
	"imagesim/internal/interfaces/httpserver/responses"
	"imagesim/utils/apperrors"
)

// ImageHandler exposes image endpoints.
type ImageHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewImageHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "image-handler").Logger(),
	}
}

// List godoc
// @Summary      List images
// @Description  Returns metadata for all stored images.
// @Tags         images
// @Produce      json
// @Success      200  {array}  responses.ImageResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/images [get]
func (h *ImageHandler) List(c *gin.Context) {
	images, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list images failed")
		responses.HandleError(c, err, "failed to list images")
		return
	}

	c.JSON(http.StatusOK, responses.BuildImageListResponse(images))
}

// Upload godoc
// @Summary      Upload an image
// @Description  Accepts a JPEG or PNG multipart upload. The embedding is computed in the background after the response is sent.
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image file (JPEG or PNG)"
// @Success      201   {object}  responses.ImageResponse
// @Failure      422   {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/images [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "file is required", "7c9e1a3b-5d2f-4e8a-9b0c-6f4d8e2a1c53")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxImageBytes+1))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read upload")
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "failed to read file", "9e1b3d5f-7a2c-4b6e-8d0f-1a3c5e7b9d15")
		return
	}

	contentType := header.Header.Get("Content-Type")

	var userID uint
	if user, ok := middleware.UserFromContext(c); ok {
		userID = user.ID
	}

	img, err := h.service.Upload(c.Request.Context(), userID, header.Filename, contentType, data)
	if err != nil {
		h.log.Error().Err(err).Str("file_name", header.Filename).Msg("upload failed")
		responses.HandleError(c, err, "failed to upload image")
		return
	}

	c.JSON(http.StatusCreated, responses.BuildImageResponse(img))
}

// Get godoc
// @Summary      Get image metadata
// @Tags         images
// @Produce      json
// @Param        id   path      int  true  "Image ID"
// @Success      200  {object}  responses.ImageResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/images/{id} [get]
func (h *ImageHandler) Get(c *gin.Context) {
	id, ok := h.imageID(c)
	if !ok {
		return
	}

	img, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to get image")
		return
	}

	c.JSON(http.StatusOK, responses.BuildImageResponse(img))
}

// Download godoc
// @Summary      Download image bytes
// @Description  Streams the stored payload. Returns 424 when the metadata exists but the object store no longer has the bytes.
// @Tags         images
// @Produce      octet-stream
// @Param        id   path      int  true  "Image ID"
// @Success      200  "binary data"
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      424  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/images/{id}/download [get]
func (h *ImageHandler) Download(c *gin.Context) {
	id, ok := h.imageID(c)
	if !ok {
		return
	}

	reader, mime, fileName, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Uint("image_id", id).Msg("download failed")
		responses.HandleError(c, err, "failed to download image")
		return
	}
	defer reader.Close()

	if mime == "" {
		mime = "application/octet-stream"
	}

	c.Header("Content-Type", mime)
	if fileName != "" {
		c.Header("Content-Disposition", `inline; filename="`+fileName+`"`)
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.log.Error().Err(err).Msg("stream error")
	}
}

// FindSimilar godoc
// @Summary      Find similar images
// @Description  Ranks every other stored image by cosine similarity to the query image. A threshold of 0 disables filtering.
// @Tags         images
// @Produce      json
// @Param        id         path      int      true   "Image ID"
// @Param        limit      query     int      false  "Maximum matches to return"  default(10)
// @Param        threshold  query     number   false  "Minimum similarity score"   default(0.8)
// @Success      200  {object}  responses.ImageWithSimilarResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      422  {object}  responses.ErrorResponse
// @Failure      424  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/images/{id}/similar [get]
func (h *ImageHandler) FindSimilar(c *gin.Context) {
	id, ok := h.imageID(c)
	if !ok {
		return
	}

	limit := h.cfg.SimilarLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			responses.HandleNewError(c, apperrors.ErrorTypeValidation, "limit must be a positive integer", "b3d5f7a9-1c2e-4d6f-8a0b-3e5c7a9b1d37")
			return
		}
		limit = parsed
	}

	thresholdValue := h.cfg.SimilarThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			responses.HandleNewError(c, apperrors.ErrorTypeValidation, "threshold must be between 0 and 1", "d5f7a9b1-3e4c-4f8a-9b2d-5c7e9a1b3d59")
			return
		}
		thresholdValue = parsed
	}

	// A zero threshold means no filtering at all.
	var threshold *float64
	if thresholdValue > 0 {
		threshold = &thresholdValue
	}

	img, matches, err := h.service.FindSimilar(c.Request.Context(), id, limit, threshold)
	if err != nil {
		h.log.Error().Err(err).Uint("image_id", id).Msg("similarity search failed")
		responses.HandleError(c, err, "failed to find similar images")
		return
	}

	c.JSON(http.StatusOK, responses.BuildSimilarResponse(img, matches))
}

// Delete godoc
// @Summary      Delete an image
// @Description  Removes the metadata record, then best-effort removes the stored object and cached vector.
// @Tags         images
// @Param        id   path  int  true  "Image ID"
// @Success      204  "no content"
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/images/{id} [delete]
func (h *ImageHandler) Delete(c *gin.Context) {
	id, ok := h.imageID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Uint("image_id", id).Msg("delete failed")
		responses.HandleError(c, err, "failed to delete image")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ImageHandler) imageID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "image id must be a positive integer", "f7a9b1d3-5e6c-4a8b-9d2f-7c9e1a3b5d71")
		return 0, false
	}
	return uint(id), true
}
