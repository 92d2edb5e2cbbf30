package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string    `gorm:"not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"` // minutes
	ImageURL    string    `json:"image,omitempty"`

	Author          *User             `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	IngredientLines []*IngredientLine `gorm:"foreignKey:RecipeID" json:"ingredient_lines,omitempty"`
	TagAssignments  []*TagAssignment  `gorm:"foreignKey:RecipeID" json:"tag_assignments,omitempty"`
	Timestamp
}

// IngredientLine ties one ingredient with its amount to a recipe. An
// ingredient may not appear twice in the same recipe.
type IngredientLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;index:idx_line_recipe_ingredient,unique" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;index:idx_line_recipe_ingredient,unique" json:"ingredient_id"`
	Amount       int       `gorm:"not null" json:"amount"`
	CreatedAt    time.Time `gorm:"type:timestamp" json:"created_at"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID" json:"-"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

type TagAssignment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index:idx_assignment_recipe_tag,unique" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:uuid;not null;index:idx_assignment_recipe_tag,unique" json:"tag_id"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
	Tag    *Tag    `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

// ShortLink maps a recipe to its stable short token, created lazily at most
// once per recipe.
type ShortLink struct {
	RecipeID  uuid.UUID `gorm:"type:uuid;primary_key" json:"recipe_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}
