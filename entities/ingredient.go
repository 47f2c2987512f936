package entities

import (
	"github.com/google/uuid"
)

// Ingredient is a reference-table row, seeded by the administrator. Two rows
// may share a name as long as the measurement unit differs.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"index;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}
