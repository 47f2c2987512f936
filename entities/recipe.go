package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID           uuid.UUID `gorm:"not null;index" json:"author_id"`
	Name               string    `gorm:"index" json:"name"`
	ImageURL           string    `json:"image_url"`
	Description        string    `gorm:"type:text" json:"description"`
	CookingTimeMinutes int       `json:"cooking_time_minutes"`
	CreatedAt          time.Time `gorm:"type:timestamp" json:"created_at"`

	Author      *User               `gorm:"foreignKey:AuthorID" json:"-"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

// RecipeIngredient is one line of a recipe's ingredient list. Lines are
// replaced as a whole set on recipe update, never patched individually.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `gorm:"not null" json:"amount"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID" json:"-"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
	RelationSubscription RelationKind = "subscription"
)

// UserRecipeRelation stores favorite and shopping-cart entries in one table,
// discriminated by Kind. The unique index makes the second of two concurrent
// identical adds fail at the storage layer.
type UserRecipeRelation struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID    `gorm:"not null;uniqueIndex:idx_user_recipe_kind" json:"user_id"`
	RecipeID  uuid.UUID    `gorm:"not null;uniqueIndex:idx_user_recipe_kind" json:"recipe_id"`
	Kind      RelationKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_recipe_kind" json:"kind"`
	CreatedAt time.Time    `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}
