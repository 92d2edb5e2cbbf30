package recipe

import (
	"context"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.IngredientLine, assignments []*entities.TagAssignment) error
		ReplaceRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.IngredientLine, assignments []*entities.TagAssignment) error
		DeleteRecipe(ctx context.Context, recipeID string) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeListFilter, viewerID string, page, limit int) ([]*entities.Recipe, int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipe persists the header, its ingredient lines and tag assignments
// in one transaction. Either all rows are created or none.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.IngredientLine, assignments []*entities.TagAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return tx.Create(&assignments).Error
	})
}

// ReplaceRecipe updates the header and swaps the full ingredient/tag set.
// Readers never observe a mix of old and new rows.
func (r *recipeRepository) ReplaceRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.IngredientLine, assignments []*entities.TagAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.IngredientLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.TagAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return tx.Create(&assignments).Error
	})
}

// DeleteRecipe removes the recipe and every row it owns: lines, tag
// assignments, memberships and the short link. Catalog rows stay untouched.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, recipeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.IngredientLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.TagAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.FavoriteMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.CartMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.ShortLink{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", recipeID).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("IngredientLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredient_lines.created_at asc")
		}).
		Preload("IngredientLines.Ingredient").
		Preload("TagAssignments.Tag").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeListFilter, viewerID string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	base := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if filter.AuthorID != "" {
		base = base.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		// subquery keeps the count correct when a recipe matches several slugs
		tagged := r.db.Model(&entities.TagAssignment{}).
			Select("tag_assignments.recipe_id").
			Joins("JOIN tags ON tags.id = tag_assignments.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		base = base.Where("recipes.id IN (?)", tagged)
	}
	if filter.IsFavorited {
		base = base.
			Joins("JOIN favorite_memberships ON favorite_memberships.recipe_id = recipes.id").
			Where("favorite_memberships.user_id = ?", viewerID)
	}
	if filter.IsInShoppingCart {
		base = base.
			Joins("JOIN cart_memberships ON cart_memberships.recipe_id = recipes.id").
			Where("cart_memberships.user_id = ?", viewerID)
	}

	if err := base.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := base.Session(&gorm.Session{}).
		Preload("Author").
		Preload("IngredientLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredient_lines.created_at asc")
		}).
		Preload("IngredientLines.Ingredient").
		Preload("TagAssignments.Tag").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}
