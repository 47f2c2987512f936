package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessAddRelation     = "recipe added successfully"
	MessageSuccessRemoveRelation  = "recipe removed successfully"
	MessageSuccessGetShoppingList = "success get shopping list"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedAddRelation     = "failed to add recipe"
	MessageFailedRemoveRelation  = "failed to remove recipe"
	MessageFailedGetShoppingList = "failed to get shopping list"

	ErrRecipeNotFound        = errors.New("recipe not found")
	ErrNotRecipeAuthor       = errors.New("recipe belongs to another user")
	ErrCookingTimeTooShort   = errors.New("cooking time is below the allowed minimum")
	ErrEmptyIngredientList   = errors.New("recipe must contain at least one ingredient")
	ErrImageRequired         = errors.New("recipe image is required")
	ErrInvalidImagePayload   = errors.New("image payload is not a supported data URI")
	ErrInvalidAmount         = errors.New("ingredient amount must be a positive number")
	ErrShoppingCartEmpty     = errors.New("shopping cart is empty")
	ErrRelationAlreadyExists = errors.New("relation already exists")
	ErrRelationNotFound      = errors.New("relation does not exist")
	ErrSelfSubscription      = errors.New("cannot subscribe to yourself")
)

// DuplicateIngredientError names the ingredient id that appears twice in one
// recipe's ingredient list.
type DuplicateIngredientError struct {
	IngredientID uuid.UUID
}

func (e *DuplicateIngredientError) Error() string {
	return fmt.Sprintf("duplicate ingredient %s in recipe", e.IngredientID)
}

// UnknownIngredientError names the ingredient id that is absent from the
// catalog.
type UnknownIngredientError struct {
	IngredientID uuid.UUID
}

func (e *UnknownIngredientError) Error() string {
	return fmt.Sprintf("ingredient %s does not exist", e.IngredientID)
}

type (
	RecipeIngredientRequest struct {
		IngredientID string `json:"ingredient_id" validate:"required,uuid"`
		Amount       int    `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Name               string                    `json:"name" validate:"required,max=256"`
		Image              string                    `json:"image" validate:"required"`
		Description        string                    `json:"description"`
		CookingTimeMinutes int                       `json:"cooking_time_minutes" validate:"required,min=1"`
		Ingredients        []RecipeIngredientRequest `json:"ingredients" validate:"required,dive"`
	}

	// UpdateRecipeRequest patches a recipe. Zero-valued fields are left
	// unchanged; a present Ingredients slice replaces the full line set.
	UpdateRecipeRequest struct {
		Name               string                     `json:"name" validate:"max=256"`
		Image              string                     `json:"image"`
		Description        string                     `json:"description"`
		CookingTimeMinutes int                        `json:"cooking_time_minutes"`
		Ingredients        *[]RecipeIngredientRequest `json:"ingredients"`
	}

	// RecipeFilter narrows the recipe listing. Relation criteria only apply
	// when ViewerID is set; for anonymous viewers they are ignored.
	RecipeFilter struct {
		AuthorID         *uuid.UUID
		IsFavorited      *bool
		IsInShoppingCart *bool
		ViewerID         *uuid.UUID
	}

	RecipeIngredientResponse struct {
		IngredientID    string `json:"ingredient_id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID                 string    `json:"id"`
		AuthorID           string    `json:"author_id"`
		Name               string    `json:"name"`
		ImageURL           string    `json:"image_url"`
		Description        string    `json:"description"`
		CookingTimeMinutes int       `json:"cooking_time_minutes"`
		CreatedAt          time.Time `json:"created_at"`
	}

	RecipeDetailResponse struct {
		RecipeResponse
		AuthorUsername   string                     `json:"author_username"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	}

	RecipePreview struct {
		ID                 string `json:"id"`
		Name               string `json:"name"`
		ImageURL           string `json:"image_url"`
		CookingTimeMinutes int    `json:"cooking_time_minutes"`
	}

	// ShoppingListItem is one consolidated line of the aggregated shopping
	// list: amounts of the same (name, unit) summed across all cart recipes.
	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int    `json:"total_amount"`
	}
)
