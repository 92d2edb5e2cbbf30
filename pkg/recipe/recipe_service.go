package recipe

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/catalog"
	"Foodgram-Backend/pkg/ledger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinCookingTime = 1 // minutes
	MinAmount      = 1
)

type (
	RecipeService interface {
		Create(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeDetail, error)
		Update(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, actorID string) (domain.RecipeDetail, error)
		Delete(ctx context.Context, recipeID string, actorID string) error
		GetByID(ctx context.Context, recipeID string, viewerID string) (domain.RecipeDetail, error)
		List(ctx context.Context, filter domain.RecipeListFilter, page, limit int, viewerID string) ([]domain.RecipeDetail, int64, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		ledgerRepository  ledger.LedgerRepository
		s3                storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	ledgerRepository ledger.LedgerRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		ledgerRepository:  ledgerRepository,
		s3:                s3,
	}
}

// validateComposition enforces the composer rules in a fixed order: missing
// ingredients, duplicate ingredients, missing tags, duplicate tags, then the
// per-field numeric checks.
func (s *recipeService) validateComposition(ctx context.Context, tagIDs []string, entries []domain.IngredientEntry, cookingTime int) error {
	if len(entries) == 0 {
		return domain.NewValidationError("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if seenIngredients[entry.ID] {
			return domain.NewValidationError("ingredients", "ingredients must be unique")
		}
		seenIngredients[entry.ID] = true
	}

	if len(tagIDs) == 0 {
		return domain.NewValidationError("tags", "at least one tag is required")
	}
	seenTags := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seenTags[id] {
			return domain.NewValidationError("tags", "tags must be unique")
		}
		seenTags[id] = true
	}

	for _, entry := range entries {
		if entry.Amount < MinAmount {
			return domain.NewValidationError("amount", fmt.Sprintf("amount must be at least %d", MinAmount))
		}
	}
	if cookingTime < MinCookingTime {
		return domain.NewValidationError("cooking_time", fmt.Sprintf("cooking time must be at least %d", MinCookingTime))
	}

	ingredientIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		ingredientIDs = append(ingredientIDs, entry.ID)
	}
	ingredients, err := s.catalogRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	if len(ingredients) != len(ingredientIDs) {
		return domain.NewValidationError("ingredients", "unknown ingredient id")
	}

	tags, err := s.catalogRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	if len(tags) != len(tagIDs) {
		return domain.NewValidationError("tags", "unknown tag id")
	}

	return nil
}

func (s *recipeService) buildChildren(recipeID uuid.UUID, tagIDs []string, entries []domain.IngredientEntry) ([]*entities.IngredientLine, []*entities.TagAssignment, error) {
	now := time.Now()
	lines := make([]*entities.IngredientLine, 0, len(entries))
	for i, entry := range entries {
		ingredientID, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		lines = append(lines, &entities.IngredientLine{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: ingredientID,
			Amount:       entry.Amount,
			// spread timestamps so the read path keeps payload order
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}

	assignments := make([]*entities.TagAssignment, 0, len(tagIDs))
	for _, id := range tagIDs {
		tagID, err := uuid.Parse(id)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		assignments = append(assignments, &entities.TagAssignment{
			ID:       uuid.New(),
			RecipeID: recipeID,
			TagID:    tagID,
		})
	}

	return lines, assignments, nil
}

func (s *recipeService) uploadImage(payload string) (string, error) {
	// tolerate data-URI prefixed payloads
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", domain.NewValidationError("image", "invalid base64 image payload")
	}

	fileName := fmt.Sprintf("%s.img", uuid.New().String())
	objectKey, err := s.s3.UploadFile(fileName, data, "recipes", storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) Create(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeDetail, error) {
	if err := s.validateComposition(ctx, req.Tags, req.Ingredients, req.CookingTime); err != nil {
		return domain.RecipeDetail{}, err
	}
	if req.Image == "" {
		return domain.RecipeDetail{}, domain.NewValidationError("image", "image is required")
	}

	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeDetail{}, domain.ErrParseUUID
	}

	imageURL, err := s.uploadImage(req.Image)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
	}

	lines, assignments, err := s.buildChildren(recipe.ID, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, lines, assignments); err != nil {
		// the upload preceded the transaction, don't leave the object orphaned
		if objectKey := s.s3.GetObjectKeyFromLink(imageURL); objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
		return domain.RecipeDetail{}, err
	}

	return s.GetByID(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) Update(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, actorID string) (domain.RecipeDetail, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeDetail{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeDetail{}, err
	}

	if recipe.AuthorID.String() != actorID {
		return domain.RecipeDetail{}, domain.ErrNotRecipeAuthor
	}

	if err := s.validateComposition(ctx, req.Tags, req.Ingredients, req.CookingTime); err != nil {
		return domain.RecipeDetail{}, err
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	if req.Image != "" {
		imageURL, err := s.uploadImage(req.Image)
		if err != nil {
			return domain.RecipeDetail{}, err
		}
		recipe.ImageURL = imageURL
	}

	lines, assignments, err := s.buildChildren(recipe.ID, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	// detach preloaded children so Save only touches the header
	recipe.IngredientLines = nil
	recipe.TagAssignments = nil
	recipe.Author = nil

	if err := s.recipeRepository.ReplaceRecipe(ctx, recipe, lines, assignments); err != nil {
		return domain.RecipeDetail{}, err
	}

	return s.GetByID(ctx, recipe.ID.String(), actorID)
}

func (s *recipeService) Delete(ctx context.Context, recipeID string, actorID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID.String() != actorID {
		return domain.ErrNotRecipeAuthor
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}

	if recipe.ImageURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}
	return nil
}

func (s *recipeService) GetByID(ctx context.Context, recipeID string, viewerID string) (domain.RecipeDetail, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeDetail{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeDetail{}, err
	}
	return s.composeDetail(ctx, recipe, viewerID)
}

func (s *recipeService) List(ctx context.Context, filter domain.RecipeListFilter, page, limit int, viewerID string) ([]domain.RecipeDetail, int64, error) {
	// viewer-scoped filters yield nothing for an anonymous viewer
	if viewerID == "" && (filter.IsFavorited || filter.IsInShoppingCart) {
		return []domain.RecipeDetail{}, 0, nil
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	details := make([]domain.RecipeDetail, 0, len(recipes))
	for _, recipe := range recipes {
		detail, err := s.composeDetail(ctx, recipe, viewerID)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, detail)
	}
	return details, count, nil
}

// composeDetail renders the full read view. The is_favorited,
// is_in_shopping_cart and is_subscribed flags are relative to the viewer and
// false for an anonymous one.
func (s *recipeService) composeDetail(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeDetail, error) {
	detail := domain.RecipeDetail{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Tags:        make([]domain.TagResponse, 0, len(recipe.TagAssignments)),
		Ingredients: make([]domain.RecipeIngredientResponse, 0, len(recipe.IngredientLines)),
	}

	for _, assignment := range recipe.TagAssignments {
		if assignment.Tag == nil {
			continue
		}
		detail.Tags = append(detail.Tags, domain.TagResponse{
			ID:   assignment.Tag.ID.String(),
			Name: assignment.Tag.Name,
			Slug: assignment.Tag.Slug,
		})
	}

	for _, line := range recipe.IngredientLines {
		if line.Ingredient == nil {
			continue
		}
		detail.Ingredients = append(detail.Ingredients, domain.RecipeIngredientResponse{
			ID:              line.Ingredient.ID.String(),
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	if recipe.Author != nil {
		detail.Author = domain.UserProfile{
			ID:        recipe.Author.ID.String(),
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
			Avatar:    recipe.Author.AvatarURL,
		}
	}

	if viewerID == "" {
		return detail, nil
	}

	favorited, err := s.ledgerRepository.HasMembership(ctx, ledger.KindFavorite, viewerID, recipe.ID.String())
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	inCart, err := s.ledgerRepository.HasMembership(ctx, ledger.KindCart, viewerID, recipe.ID.String())
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	detail.IsFavorited = favorited
	detail.IsInShoppingCart = inCart

	if recipe.Author != nil && recipe.Author.ID.String() != viewerID {
		subscribed, err := s.ledgerRepository.IsSubscribed(ctx, viewerID, recipe.Author.ID.String())
		if err != nil {
			return domain.RecipeDetail{}, err
		}
		detail.Author.IsSubscribed = subscribed
	}

	return detail, nil
}
