package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "imagesim/internal/domain/image"
	"imagesim/internal/infrastructure/database/entities"
	"imagesim/utils/apperrors"
)

// Repository handles user persistence, mainly API key lookups.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *domain.User) error {
	entity := entities.User{
		Name:   u.Name,
		APIKey: u.APIKey,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return apperrors.NewError(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeDatabaseError,
			"failed to create user",
			err,
			"c4d6e8f0-0a1b-4c3d-8e5f-4b9d1f3a5c86",
		)
	}
	u.ID = entity.ID
	return nil
}

func (r *Repository) FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewError(
				ctx,
				apperrors.LayerRepository,
				apperrors.ErrorTypeNotFound,
				"no user for api key",
				err,
				"e6f8a0b2-2c3d-4e5f-9a1b-6d0f2b4c6e08",
			)
		}
		return nil, apperrors.NewError(
			ctx,
			apperrors.LayerRepository,
			apperrors.ErrorTypeDatabaseError,
			"failed to look up api key",
			err,
			"0a2b4c6d-4e5f-4a7b-8c9d-8f1a3c5e7b20",
		)
	}
	return &domain.User{
		ID:     entity.ID,
		Name:   entity.Name,
		APIKey: entity.APIKey,
	}, nil
}
