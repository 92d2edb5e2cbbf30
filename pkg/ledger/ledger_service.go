package ledger

import (
	"context"
	"errors"

	"Foodgram-Backend/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	LedgerService interface {
		AddMembership(ctx context.Context, kind MembershipKind, userID, recipeID string) (domain.MembershipResponse, error)
		RemoveMembership(ctx context.Context, kind MembershipKind, userID, recipeID string) error
		Subscribe(ctx context.Context, followerID, followedID string) error
		Unsubscribe(ctx context.Context, followerID, followedID string) error
		GetSubscriptions(ctx context.Context, userID string, recipesLimit, page, limit int) ([]domain.SubscriptionEntry, int64, error)
	}

	ledgerService struct {
		ledgerRepository LedgerRepository
	}
)

func NewLedgerService(ledgerRepository LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepository: ledgerRepository}
}

func (s *ledgerService) AddMembership(ctx context.Context, kind MembershipKind, userID, recipeID string) (domain.MembershipResponse, error) {
	recipe, err := s.ledgerRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MembershipResponse{}, domain.ErrRecipeNotFound
		}
		return domain.MembershipResponse{}, err
	}

	exists, err := s.ledgerRepository.HasMembership(ctx, kind, userID, recipeID)
	if err != nil {
		return domain.MembershipResponse{}, err
	}
	if exists {
		return domain.MembershipResponse{}, domain.ErrAlreadyInList
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.MembershipResponse{}, domain.ErrParseUUID
	}

	membershipID, err := s.ledgerRepository.CreateMembership(ctx, kind, userUUID, recipe.ID)
	if err != nil {
		return domain.MembershipResponse{}, err
	}

	return domain.MembershipResponse{
		RecipeSummary: domain.RecipeSummary{
			ID:          recipe.ID.String(),
			Name:        recipe.Name,
			Image:       recipe.ImageURL,
			CookingTime: recipe.CookingTime,
		},
		ModelID: membershipID.String(),
	}, nil
}

func (s *ledgerService) RemoveMembership(ctx context.Context, kind MembershipKind, userID, recipeID string) error {
	if _, err := s.ledgerRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	deleted, err := s.ledgerRepository.DeleteMembership(ctx, kind, userID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotInList
	}
	return nil
}

// Subscribe is the single owner of the subscription invariants: no
// self-subscription and at most one row per (follower, followed) pair.
func (s *ledgerService) Subscribe(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return domain.ErrSelfSubscription
	}

	followed, err := s.ledgerRepository.GetUserByID(ctx, followedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	exists, err := s.ledgerRepository.IsSubscribed(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadySubscribed
	}

	followerUUID, err := uuid.Parse(followerID)
	if err != nil {
		return domain.ErrParseUUID
	}

	return s.ledgerRepository.CreateSubscription(ctx, followerUUID, followed.ID)
}

func (s *ledgerService) Unsubscribe(ctx context.Context, followerID, followedID string) error {
	if _, err := s.ledgerRepository.GetUserByID(ctx, followedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	deleted, err := s.ledgerRepository.DeleteSubscription(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotSubscribed
	}
	return nil
}

// GetSubscriptions lists followed authors with their recipes in creation
// order. recipesLimit > 0 truncates each author's recipes; zero or negative
// means unlimited.
func (s *ledgerService) GetSubscriptions(ctx context.Context, userID string, recipesLimit, page, limit int) ([]domain.SubscriptionEntry, int64, error) {
	users, count, err := s.ledgerRepository.GetFollowedUsers(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]domain.SubscriptionEntry, 0, len(users))
	for _, user := range users {
		recipes := user.Recipes
		total := len(recipes)
		if recipesLimit > 0 && recipesLimit < total {
			recipes = recipes[:recipesLimit]
		}

		summaries := make([]domain.RecipeSummary, 0, len(recipes))
		for _, r := range recipes {
			summaries = append(summaries, domain.RecipeSummary{
				ID:          r.ID.String(),
				Name:        r.Name,
				Image:       r.ImageURL,
				CookingTime: r.CookingTime,
			})
		}

		entries = append(entries, domain.SubscriptionEntry{
			UserProfile: domain.UserProfile{
				ID:           user.ID.String(),
				Email:        user.Email,
				Username:     user.Username,
				FirstName:    user.FirstName,
				LastName:     user.LastName,
				IsSubscribed: true,
				Avatar:       user.AvatarURL,
			},
			Recipes:      summaries,
			RecipesCount: total,
		})
	}

	return entries, count, nil
}
