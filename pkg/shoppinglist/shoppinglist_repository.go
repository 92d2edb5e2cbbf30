package shoppinglist

import (
	"context"

	"Foodgram-Backend/entities"

	"gorm.io/gorm"
)

type (
	// AggregatedLine is one GROUP BY row: ingredient name and unit with the
	// summed amount over every cart recipe.
	AggregatedLine struct {
		Name            string `gorm:"column:name"`
		MeasurementUnit string `gorm:"column:measurement_unit"`
		TotalAmount     int    `gorm:"column:total_amount"`
	}

	ShoppingListRepository interface {
		AggregateCart(ctx context.Context, userID string) ([]AggregatedLine, error)
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// AggregateCart sums ingredient amounts over all recipes in the user's cart.
// The grouping key is the ingredient (name, measurement_unit) pair, not the
// ingredient id: distinct catalog rows sharing name and unit merge into one
// line. Order is first appearance in the cart's lines, which keeps the report
// deterministic.
func (r *shoppingListRepository) AggregateCart(ctx context.Context, userID string) ([]AggregatedLine, error) {
	var lines []AggregatedLine
	err := r.db.WithContext(ctx).
		Model(&entities.IngredientLine{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_lines.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_lines.ingredient_id").
		Joins("JOIN cart_memberships ON cart_memberships.recipe_id = ingredient_lines.recipe_id").
		Where("cart_memberships.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("MIN(ingredient_lines.created_at) asc").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
