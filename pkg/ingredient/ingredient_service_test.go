package ingredient

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
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

func TestSearchIngredients(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(NewIngredientRepository(db))
	ctx := context.Background()

	seedIngredient(t, db, "salt", "g")
	seedIngredient(t, db, "salad dressing", "ml")
	seedIngredient(t, db, "pepper", "g")

	t.Run("prefix match returns alphabetical results", func(t *testing.T) {
		res, err := service.SearchIngredients(ctx, "sal")
		assert.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, "salad dressing", res[0].Name)
		assert.Equal(t, "salt", res[1].Name)
	})

	t.Run("prefix match is case-insensitive", func(t *testing.T) {
		res, err := service.SearchIngredients(ctx, "SAL")
		assert.NoError(t, err)
		assert.Len(t, res, 2)
	})

	t.Run("substring in the middle does not match", func(t *testing.T) {
		res, err := service.SearchIngredients(ctx, "alt")
		assert.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("empty prefix lists everything", func(t *testing.T) {
		res, err := service.SearchIngredients(ctx, "")
		assert.NoError(t, err)
		assert.Len(t, res, 3)
	})
}

func TestGetIngredientByID(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(NewIngredientRepository(db))
	ctx := context.Background()

	saltID := seedIngredient(t, db, "salt", "g")

	t.Run("existing ingredient", func(t *testing.T) {
		res, err := service.GetIngredientByID(ctx, saltID.String())
		assert.NoError(t, err)
		assert.Equal(t, "salt", res.Name)
		assert.Equal(t, "g", res.MeasurementUnit)
	})

	t.Run("missing ingredient reports not found", func(t *testing.T) {
		_, err := service.GetIngredientByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
	})
}
