package entities

import (
	"github.com/google/uuid"
)

// Tag and Ingredient are reference data. Ingredients are loaded once by the
// catalog import and never mutated by recipe operations.

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug string    `gorm:"uniqueIndex;not null" json:"slug"`
}

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"not null;index:idx_ingredient_name_unit,unique" json:"name"`
	MeasurementUnit string    `gorm:"not null;index:idx_ingredient_name_unit,unique" json:"measurement_unit"`
}
