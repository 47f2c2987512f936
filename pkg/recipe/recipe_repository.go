package recipe

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
)

type (
	RecipeRepository interface {
		CreateRecipeWithIngredients(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		ReplaceRecipeIngredients(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient) error
		DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipeIngredients(ctx context.Context, recipeID uuid.UUID) ([]*entities.RecipeIngredient, error)
		GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipeWithIngredients writes the recipe and its ingredient lines in
// one transaction so a concurrent reader never sees a recipe without lines.
func (r *recipeRepository) CreateRecipeWithIngredients(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// ReplaceRecipeIngredients saves the recipe and swaps its full line set in
// one transaction: existing lines are deleted, the new set inserted. Lines
// are never merged with the prior set.
func (r *recipeRepository) ReplaceRecipeIngredients(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
}

// DeleteRecipe removes the recipe together with its ingredient lines and any
// favorite or shopping-cart rows pointing at it.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.UserRecipeRelation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", recipeID).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetRecipes lists recipes newest first (ties broken by id descending) after
// narrowing by the filter. Relation criteria are only applied for an
// authenticated viewer; for anonymous viewers they are treated as unset.
func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	if filter.ViewerID != nil {
		if filter.IsFavorited != nil {
			sub := r.db.Model(&entities.UserRecipeRelation{}).
				Select("recipe_id").
				Where("user_id = ? AND kind = ?", *filter.ViewerID, entities.RelationFavorite)
			if *filter.IsFavorited {
				query = query.Where("id IN (?)", sub)
			} else {
				query = query.Where("id NOT IN (?)", sub)
			}
		}
		if filter.IsInShoppingCart != nil {
			sub := r.db.Model(&entities.UserRecipeRelation{}).
				Select("recipe_id").
				Where("user_id = ? AND kind = ?", *filter.ViewerID, entities.RelationShoppingCart)
			if *filter.IsInShoppingCart {
				query = query.Where("id IN (?)", sub)
			} else {
				query = query.Where("id NOT IN (?)", sub)
			}
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at desc, id desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// GetRecipeIngredients returns the recipe's lines ordered by ingredient id
// so the listing is stable for identical input.
func (r *recipeRepository) GetRecipeIngredients(ctx context.Context, recipeID uuid.UUID) ([]*entities.RecipeIngredient, error) {
	var lines []*entities.RecipeIngredient
	if err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipeID).
		Order("ingredient_id asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
