package domain

import "errors"

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"

	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrNotRecipeAuthor = errors.New("only the author may modify this recipe")
)

type (
	IngredientEntry struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required"`
	}

	CreateRecipeRequest struct {
		Name        string            `json:"name" validate:"required,max=256"`
		Text        string            `json:"text" validate:"required,max=256"`
		CookingTime int               `json:"cooking_time"`
		Image       string            `json:"image"` // base64 payload
		Tags        []string          `json:"tags"`
		Ingredients []IngredientEntry `json:"ingredients"`
	}

	UpdateRecipeRequest struct {
		Name        string            `json:"name" validate:"required,max=256"`
		Text        string            `json:"text" validate:"required,max=256"`
		CookingTime int               `json:"cooking_time"`
		Image       string            `json:"image,omitempty"`
		Tags        []string          `json:"tags"`
		Ingredients []IngredientEntry `json:"ingredients"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	// RecipeDetail is the composed read view: header, resolved tags and
	// ingredient lines, author profile, and two viewer-relative flags.
	RecipeDetail struct {
		ID                string                     `json:"id"`
		Tags              []TagResponse              `json:"tags"`
		Author            UserProfile                `json:"author"`
		Ingredients       []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited       bool                       `json:"is_favorited"`
		IsInShoppingCart  bool                       `json:"is_in_shopping_cart"`
		Name              string                     `json:"name"`
		Image             string                     `json:"image,omitempty"`
		Text              string                     `json:"text"`
		CookingTime       int                        `json:"cooking_time"`
	}

	// RecipeSummary is the minimal payload echoed by membership toggles and
	// embedded in subscription listings.
	RecipeSummary struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListFilter struct {
		AuthorID         string
		TagSlugs         []string
		IsFavorited      bool
		IsInShoppingCart bool
	}
)
