package shoppinglist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
)

type (
	// ShoppingListService consolidates the recipes in a user's shopping
	// cart into one deduplicated ingredient list.
	ShoppingListService interface {
		BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		RenderShoppingList(items []domain.ShoppingListItem) string
	}

	shoppingListService struct {
		relationService  relation.RelationService
		recipeRepository recipe.RecipeRepository
	}

	groupKey struct {
		name string
		unit string
	}
)

func NewShoppingListService(relationService relation.RelationService, recipeRepository recipe.RecipeRepository) ShoppingListService {
	return &shoppingListService{
		relationService:  relationService,
		recipeRepository: recipeRepository,
	}
}

// BuildShoppingList walks the user's cart recipes, groups their ingredient
// lines by (name, measurement unit) and sums the amounts per group. Relation
// uniqueness guarantees each recipe contributes at most once, so the result
// does not depend on the order recipes entered the cart. Groups come out
// sorted by ingredient name (then unit) ascending.
func (s *shoppingListService) BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	recipeIDs, err := s.relationService.ListTargets(ctx, entities.RelationShoppingCart, actorID)
	if err != nil {
		return nil, err
	}
	if len(recipeIDs) == 0 {
		return nil, domain.ErrShoppingCartEmpty
	}

	totals := make(map[groupKey]int)
	for _, recipeID := range recipeIDs {
		lines, err := s.recipeRepository.GetRecipeIngredients(ctx, recipeID)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if line.Ingredient == nil {
				continue
			}
			key := groupKey{name: line.Ingredient.Name, unit: line.Ingredient.MeasurementUnit}
			totals[key] += line.Amount
		}
	}

	items := make([]domain.ShoppingListItem, 0, len(totals))
	for key, total := range totals {
		items = append(items, domain.ShoppingListItem{
			Name:            key.name,
			MeasurementUnit: key.unit,
			TotalAmount:     total,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})

	return items, nil
}

// RenderShoppingList formats the aggregate as the plain-text file served by
// the download endpoint.
func (s *shoppingListService) RenderShoppingList(items []domain.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) — %d\n", item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}
