package shortlink

import (
	"context"
	"time"

	"Foodgram-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShortLinkRepository interface {
		GetByRecipe(ctx context.Context, recipeID string) (*entities.ShortLink, error)
		GetByToken(ctx context.Context, token string) (*entities.ShortLink, error)
		Create(ctx context.Context, recipeID uuid.UUID, token string) error
		RecipeExists(ctx context.Context, recipeID string) (bool, error)
	}

	shortLinkRepository struct {
		db *gorm.DB
	}
)

func NewShortLinkRepository(db *gorm.DB) ShortLinkRepository {
	return &shortLinkRepository{db: db}
}

func (r *shortLinkRepository) GetByRecipe(ctx context.Context, recipeID string) (*entities.ShortLink, error) {
	var link entities.ShortLink
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *shortLinkRepository) GetByToken(ctx context.Context, token string) (*entities.ShortLink, error) {
	var link entities.ShortLink
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *shortLinkRepository) Create(ctx context.Context, recipeID uuid.UUID, token string) error {
	link := entities.ShortLink{
		RecipeID:  recipeID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *shortLinkRepository) RecipeExists(ctx context.Context, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
