package entities

import (
	"time"

	"github.com/google/uuid"
)

// Favorite and shopping-cart memberships live in separate tables and are
// selected by an explicit kind parameter in the ledger, never by name lookup.

type FavoriteMembership struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_favorite_user_recipe,unique" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_favorite_user_recipe,unique" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}

type CartMembership struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_user_recipe,unique" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_user_recipe,unique" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}
