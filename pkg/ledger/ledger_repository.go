package ledger

import (
	"context"
	"fmt"
	"time"

	"Foodgram-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipKind selects the favorite or shopping-cart table. Each kind maps
// to its own model through the switch below; there is no dynamic lookup.
type MembershipKind int

const (
	KindFavorite MembershipKind = iota
	KindCart
)

func (k MembershipKind) String() string {
	if k == KindFavorite {
		return "favorite"
	}
	return "shopping_cart"
}

type (
	LedgerRepository interface {
		HasMembership(ctx context.Context, kind MembershipKind, userID, recipeID string) (bool, error)
		CreateMembership(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) (uuid.UUID, error)
		DeleteMembership(ctx context.Context, kind MembershipKind, userID, recipeID string) (int64, error)

		IsSubscribed(ctx context.Context, followerID, followedID string) (bool, error)
		CreateSubscription(ctx context.Context, followerID, followedID uuid.UUID) error
		DeleteSubscription(ctx context.Context, followerID, followedID string) (int64, error)
		GetFollowedUsers(ctx context.Context, followerID string, page, limit int) ([]*entities.User, int64, error)

		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	ledgerRepository struct {
		db *gorm.DB
	}
)

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) membershipModel(kind MembershipKind) (any, error) {
	switch kind {
	case KindFavorite:
		return &entities.FavoriteMembership{}, nil
	case KindCart:
		return &entities.CartMembership{}, nil
	default:
		return nil, fmt.Errorf("unknown membership kind %d", kind)
	}
}

func (r *ledgerRepository) HasMembership(ctx context.Context, kind MembershipKind, userID, recipeID string) (bool, error) {
	model, err := r.membershipModel(kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ledgerRepository) CreateMembership(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	switch kind {
	case KindFavorite:
		membership := entities.FavoriteMembership{
			ID:        id,
			UserID:    userID,
			RecipeID:  recipeID,
			CreatedAt: time.Now(),
		}
		return id, r.db.WithContext(ctx).Create(&membership).Error
	case KindCart:
		membership := entities.CartMembership{
			ID:        id,
			UserID:    userID,
			RecipeID:  recipeID,
			CreatedAt: time.Now(),
		}
		return id, r.db.WithContext(ctx).Create(&membership).Error
	default:
		return uuid.Nil, fmt.Errorf("unknown membership kind %d", kind)
	}
}

func (r *ledgerRepository) DeleteMembership(ctx context.Context, kind MembershipKind, userID, recipeID string) (int64, error) {
	model, err := r.membershipModel(kind)
	if err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	return result.RowsAffected, result.Error
}

func (r *ledgerRepository) IsSubscribed(ctx context.Context, followerID, followedID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ledgerRepository) CreateSubscription(ctx context.Context, followerID, followedID uuid.UUID) error {
	subscription := entities.Subscription{
		ID:         uuid.New(),
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now(),
	}
	return r.db.WithContext(ctx).Create(&subscription).Error
}

func (r *ledgerRepository) DeleteSubscription(ctx context.Context, followerID, followedID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&entities.Subscription{})
	return result.RowsAffected, result.Error
}

func (r *ledgerRepository) GetFollowedUsers(ctx context.Context, followerID string, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Joins("JOIN subscriptions ON subscriptions.followed_id = users.id").
		Where("subscriptions.follower_id = ?", followerID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.followed_id = users.id").
		Where("subscriptions.follower_id = ?", followerID).
		Preload("Recipes", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipes.created_at asc")
		}).
		Offset(offset).
		Limit(limit).
		Order("subscriptions.created_at asc").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (r *ledgerRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *ledgerRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
