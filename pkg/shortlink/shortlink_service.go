package shortlink

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	charset     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenLength = 3
	maxAttempts = 5
)

type (
	ShortLinkService interface {
		GetOrCreate(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error)
		Resolve(ctx context.Context, token string) (string, error)
	}

	shortLinkService struct {
		shortLinkRepository ShortLinkRepository
	}
)

func NewShortLinkService(shortLinkRepository ShortLinkRepository) ShortLinkService {
	return &shortLinkService{shortLinkRepository: shortLinkRepository}
}

func generateToken(length int) (string, error) {
	token := make([]byte, length)
	for i := range token {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		token[i] = charset[num.Int64()]
	}
	return string(token), nil
}

func (s *shortLinkService) formatLink(token string) domain.ShortLinkResponse {
	return domain.ShortLinkResponse{
		ShortLink: fmt.Sprintf("%s/s/%s", utils.GetConfig("BASE_DOMAIN"), token),
	}
}

// GetOrCreate is idempotent: an existing link is returned unchanged. The
// unique constraint on the recipe key is the authority for a race between two
// concurrent first calls; the losing insert is converted into a read of the
// winning row.
func (s *shortLinkService) GetOrCreate(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error) {
	link, err := s.shortLinkRepository.GetByRecipe(ctx, recipeID)
	if err == nil {
		return s.formatLink(link.Token), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ShortLinkResponse{}, err
	}

	exists, err := s.shortLinkRepository.RecipeExists(ctx, recipeID)
	if err != nil {
		return domain.ShortLinkResponse{}, err
	}
	if !exists {
		return domain.ShortLinkResponse{}, domain.ErrRecipeNotFound
	}

	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ShortLinkResponse{}, domain.ErrParseUUID
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		token, err := generateToken(tokenLength)
		if err != nil {
			return domain.ShortLinkResponse{}, err
		}

		// a taken token means a collision with another recipe; retry
		if _, err := s.shortLinkRepository.GetByToken(ctx, token); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShortLinkResponse{}, err
		}

		if err := s.shortLinkRepository.Create(ctx, recipeUUID, token); err != nil {
			// lost the race: a concurrent caller inserted first, their row wins
			if winner, readErr := s.shortLinkRepository.GetByRecipe(ctx, recipeID); readErr == nil {
				return s.formatLink(winner.Token), nil
			}
			// no row for this recipe: the conflict was on the token, another
			// recipe claimed it between the check and the insert
			continue
		}
		return s.formatLink(token), nil
	}

	return domain.ShortLinkResponse{}, domain.ErrTokenGeneration
}

func (s *shortLinkService) Resolve(ctx context.Context, token string) (string, error) {
	link, err := s.shortLinkRepository.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrShortLinkNotFound
		}
		return "", err
	}
	return link.RecipeID.String(), nil
}
