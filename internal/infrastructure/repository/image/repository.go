package image

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "imagesim/internal/domain/image"
	"imagesim/internal/infrastructure/database/entities"
	"imagesim/utils/apperrors"
)

// Repository handles image metadata persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, img *domain.Image) error {
	entity := entities.Image{
		UserID:      img.UserID,
		FileName:    img.FileName,
		FilePath:    img.FilePath,
		ContentType: img.ContentType,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return apperrors.NewError(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeDatabaseError,
			"failed to create image record",
			err,
			"8f2a4c6e-1b3d-45e7-9a0c-5d7f9b1e3a62",
		)
	}
	*img = mapEntity(entity)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*domain.Image, error) {
	var entity entities.Image
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewError(
				ctx,
				apperrors.LayerRepository,
				apperrors.ErrorTypeNotFound,
				"image not found",
				err,
				"0d3e5f7a-9b1c-4d2e-8f6a-3c5b7d9e1f84",
			)
		}
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeDatabaseError,
			"failed to get image by id",
			err,
			"2e4f6a8c-0d1b-4e3f-9a7c-6b8d0f2a4c96",
		)
	}
	img := mapEntity(entity)
	return &img, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Image, error) {
	var rows []entities.Image
	err := r.db.WithContext(ctx).Order("id").Find(&rows).Error
	if err != nil {
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeDatabaseError,
			"failed to list images",
			err,
			"4a6c8e0f-2b3d-4f5e-8c9a-7d1f3b5e7a08",
		)
	}
	return mapEntities(rows), nil
}

func (r *Repository) ListExcept(ctx context.Context, id uint) ([]domain.Image, error) {
	var rows []entities.Image
	err := r.db.WithContext(ctx).Where("id <> ?", id).Order("id").Find(&rows).Error
	if err != nil {
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeDatabaseError,
			"failed to list candidate images",
			err,
			"6b8d0f2a-4c5e-4a7b-9d1f-8e3a5c7b9d20",
		)
	}
	return mapEntities(rows), nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Image{}, id)
	if result.Error != nil {
		return apperrors.NewError(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeDatabaseError,
			"failed to delete image",
			result.Error,
			"8c0e2a4b-6d7f-4b9c-8e1a-0f5d7b9e1c42",
		)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewError(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeNotFound,
			"image not found",
			nil,
			"a2b4c6d8-8e9f-4d1b-9c3e-2a7f9d1b3e64",
		)
	}
	return nil
}

func mapEntity(entity entities.Image) domain.Image {
	return domain.Image{
		ID:          entity.ID,
		UserID:      entity.UserID,
		FileName:    entity.FileName,
		FilePath:    entity.FilePath,
		ContentType: entity.ContentType,
		CreatedAt:   entity.CreatedAt,
		ModifiedAt:  entity.ModifiedAt,
	}
}

func mapEntities(rows []entities.Image) []domain.Image {
	images := make([]domain.Image, 0, len(rows))
	for _, row := range rows {
		images = append(images, mapEntity(row))
	}
	return images
}
