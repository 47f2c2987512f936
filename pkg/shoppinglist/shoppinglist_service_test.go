package shoppinglist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.UserRecipeRelation{},
		&entities.Subscription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) uuid.UUID {
	t.Helper()
	ing := entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	assert.NoError(t, db.Create(&ing).Error)
	return ing.ID
}

func seedRecipe(t *testing.T, db *gorm.DB, author uuid.UUID, name string, lines map[uuid.UUID]int) uuid.UUID {
	t.Helper()
	rec := entities.Recipe{
		ID:                 uuid.New(),
		AuthorID:           author,
		Name:               name,
		ImageURL:           "https://cdn.test/recipes/" + name + ".png",
		CookingTimeMinutes: 10,
		CreatedAt:          time.Now(),
	}
	assert.NoError(t, db.Create(&rec).Error)
	for ingID, amount := range lines {
		line := entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     rec.ID,
			IngredientID: ingID,
			Amount:       amount,
		}
		assert.NoError(t, db.Create(&line).Error)
	}
	return rec.ID
}

func TestBuildShoppingList(t *testing.T) {
	db := setupTestDB(t)
	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	service := NewShoppingListService(relationService, recipe.NewRecipeRepository(db))
	ctx := context.Background()

	author := uuid.New()
	salt := seedIngredient(t, db, "salt", "g")
	oil := seedIngredient(t, db, "oil", "ml")

	r1 := seedRecipe(t, db, author, "r1", map[uuid.UUID]int{salt: 100})
	r2 := seedRecipe(t, db, author, "r2", map[uuid.UUID]int{salt: 50, oil: 30})

	userID := uuid.New()
	assert.NoError(t, relationService.Add(ctx, entities.RelationShoppingCart, userID, r1))
	assert.NoError(t, relationService.Add(ctx, entities.RelationShoppingCart, userID, r2))

	items, err := service.BuildShoppingList(ctx, userID.String())
	assert.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "oil", MeasurementUnit: "ml", TotalAmount: 30},
		{Name: "salt", MeasurementUnit: "g", TotalAmount: 150},
	}, items)
}

func TestBuildShoppingListOrderIndependent(t *testing.T) {
	db := setupTestDB(t)
	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	service := NewShoppingListService(relationService, recipe.NewRecipeRepository(db))
	ctx := context.Background()

	author := uuid.New()
	salt := seedIngredient(t, db, "salt", "g")
	oil := seedIngredient(t, db, "oil", "ml")
	flour := seedIngredient(t, db, "flour", "g")

	r1 := seedRecipe(t, db, author, "r1", map[uuid.UUID]int{salt: 10, flour: 200})
	r2 := seedRecipe(t, db, author, "r2", map[uuid.UUID]int{salt: 5, oil: 15})

	alice := uuid.New()
	bob := uuid.New()
	assert.NoError(t, relationService.Add(ctx, entities.RelationShoppingCart, alice, r1))
	assert.NoError(t, relationService.Add(ctx, entities.RelationShoppingCart, alice, r2))
	assert.NoError(t, relationService.Add(ctx, entities.RelationShoppingCart, bob, r2))
	assert.NoError(t, relationService.Add(ctx, entities.RelationShoppingCart, bob, r1))

	aliceItems, err := service.BuildShoppingList(ctx, alice.String())
	assert.NoError(t, err)
	bobItems, err := service.BuildShoppingList(ctx, bob.String())
	assert.NoError(t, err)
	assert.Equal(t, aliceItems, bobItems)
}

func TestBuildShoppingListEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	service := NewShoppingListService(relationService, recipe.NewRecipeRepository(db))

	items, err := service.BuildShoppingList(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)
	assert.Nil(t, items)
}

func TestBuildShoppingListSameNameDifferentUnit(t *testing.T) {
	db := setupTestDB(t)
	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	service := NewShoppingListService(relationService, recipe.NewRecipeRepository(db))
	ctx := context.Background()

	author := uuid.New()
	saltG := seedIngredient(t, db, "salt", "g")
	saltKg := seedIngredient(t, db, "salt", "kg")

	r1 := seedRecipe(t, db, author, "r1", map[uuid.UUID]int{saltG: 100, saltKg: 2})

	userID := uuid.New()
	assert.NoError(t, relationService.Add(ctx, entities.RelationShoppingCart, userID, r1))

	items, err := service.BuildShoppingList(ctx, userID.String())
	assert.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "salt", MeasurementUnit: "g", TotalAmount: 100},
		{Name: "salt", MeasurementUnit: "kg", TotalAmount: 2},
	}, items)
}

func TestRenderShoppingList(t *testing.T) {
	service := NewShoppingListService(nil, nil)

	out := service.RenderShoppingList([]domain.ShoppingListItem{
		{Name: "oil", MeasurementUnit: "ml", TotalAmount: 30},
		{Name: "salt", MeasurementUnit: "g", TotalAmount: 150},
	})
	assert.Equal(t, "Shopping list:\noil (ml) — 30\nsalt (g) — 150\n", out)
}
