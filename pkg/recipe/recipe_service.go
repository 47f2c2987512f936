package recipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/relation"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeDetailResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeDetailResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeDetailResponse, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		ingredientRepository ingredient.IngredientRepository
		relationService      relation.RelationService
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientRepository ingredient.IngredientRepository,
	relationService relation.RelationService,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		ingredientRepository: ingredientRepository,
		relationService:      relationService,
		s3:                   s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeDetailResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeDetailResponse{}, domain.ErrParseUUID
	}

	if req.CookingTimeMinutes < utils.MinCookingTime() {
		return domain.RecipeDetailResponse{}, domain.ErrCookingTimeTooShort
	}
	if req.Image == "" {
		return domain.RecipeDetailResponse{}, domain.ErrImageRequired
	}

	lines, err := s.buildIngredientLines(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeDetailResponse{}, err
	}

	imageURL, err := s.uploadImage(req.Image)
	if err != nil {
		return domain.RecipeDetailResponse{}, err
	}

	rec := &entities.Recipe{
		ID:                 uuid.New(),
		AuthorID:           authorID,
		Name:               req.Name,
		ImageURL:           imageURL,
		Description:        req.Description,
		CookingTimeMinutes: req.CookingTimeMinutes,
		CreatedAt:          time.Now(),
	}

	if err := s.recipeRepository.CreateRecipeWithIngredients(ctx, rec, lines); err != nil {
		return domain.RecipeDetailResponse{}, err
	}

	return s.GetRecipeDetail(ctx, rec.ID.String(), userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeDetailResponse, error) {
	rec, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeDetailResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeDetailResponse{}, err
	}

	if rec.AuthorID.String() != userID {
		return domain.RecipeDetailResponse{}, domain.ErrNotRecipeAuthor
	}

	// Validate the whole patch before mutating anything, so a rejected
	// update leaves the recipe and its lines untouched.
	if req.CookingTimeMinutes != 0 && req.CookingTimeMinutes < utils.MinCookingTime() {
		return domain.RecipeDetailResponse{}, domain.ErrCookingTimeTooShort
	}

	var lines []entities.RecipeIngredient
	if req.Ingredients != nil {
		lines, err = s.buildIngredientLines(ctx, *req.Ingredients)
		if err != nil {
			return domain.RecipeDetailResponse{}, err
		}
	}

	if req.Name != "" {
		rec.Name = req.Name
	}
	if req.Description != "" {
		rec.Description = req.Description
	}
	if req.CookingTimeMinutes != 0 {
		rec.CookingTimeMinutes = req.CookingTimeMinutes
	}
	if req.Image != "" {
		oldKey := s.s3.GetObjectKeyFromLink(rec.ImageURL)
		imageURL, err := s.uploadImage(req.Image)
		if err != nil {
			return domain.RecipeDetailResponse{}, err
		}
		rec.ImageURL = imageURL
		if oldKey != "" {
			_ = s.s3.DeleteFile(oldKey)
		}
	}

	if req.Ingredients != nil {
		err = s.recipeRepository.ReplaceRecipeIngredients(ctx, rec, lines)
	} else {
		err = s.recipeRepository.UpdateRecipe(ctx, rec)
	}
	if err != nil {
		return domain.RecipeDetailResponse{}, err
	}

	return s.GetRecipeDetail(ctx, rec.ID.String(), userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	rec, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if rec.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, rec.ID); err != nil {
		return err
	}

	if key := s.s3.GetObjectKeyFromLink(rec.ImageURL); key != "" {
		_ = s.s3.DeleteFile(key)
	}
	return nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, rec := range recipes {
		res = append(res, toRecipeResponse(rec))
	}
	return res, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeDetailResponse, error) {
	rec, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeDetailResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeDetailResponse{}, err
	}

	lines, err := s.recipeRepository.GetRecipeIngredients(ctx, rec.ID)
	if err != nil {
		return domain.RecipeDetailResponse{}, err
	}

	detail := domain.RecipeDetailResponse{
		RecipeResponse: toRecipeResponse(rec),
		Ingredients:    make([]domain.RecipeIngredientResponse, 0, len(lines)),
	}
	if rec.Author != nil {
		detail.AuthorUsername = rec.Author.Username
	}

	for _, line := range lines {
		ingRes := domain.RecipeIngredientResponse{
			IngredientID: line.IngredientID.String(),
			Amount:       line.Amount,
		}
		if line.Ingredient != nil {
			ingRes.Name = line.Ingredient.Name
			ingRes.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		detail.Ingredients = append(detail.Ingredients, ingRes)
	}

	if viewerID != "" {
		viewer, err := uuid.Parse(viewerID)
		if err == nil {
			if fav, err := s.relationService.Exists(ctx, entities.RelationFavorite, viewer, rec.ID); err == nil {
				detail.IsFavorited = fav
			}
			if cart, err := s.relationService.Exists(ctx, entities.RelationShoppingCart, viewer, rec.ID); err == nil {
				detail.IsInShoppingCart = cart
			}
		}
	}

	return detail, nil
}

// buildIngredientLines validates the requested ingredient list and turns it
// into entity rows. The list must be non-empty, amounts positive, ids unique
// within the recipe and present in the catalog.
func (s *recipeService) buildIngredientLines(ctx context.Context, reqs []domain.RecipeIngredientRequest) ([]entities.RecipeIngredient, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrEmptyIngredientList
	}

	seen := make(map[uuid.UUID]bool, len(reqs))
	ids := make([]string, 0, len(reqs))
	lines := make([]entities.RecipeIngredient, 0, len(reqs))

	for _, item := range reqs {
		ingID, err := uuid.Parse(item.IngredientID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		if item.Amount < 1 {
			return nil, domain.ErrInvalidAmount
		}
		if seen[ingID] {
			return nil, &domain.DuplicateIngredientError{IngredientID: ingID}
		}
		seen[ingID] = true
		ids = append(ids, ingID.String())
		lines = append(lines, entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: ingID,
			Amount:       item.Amount,
		})
	}

	known, err := s.ingredientRepository.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	knownSet := make(map[uuid.UUID]bool, len(known))
	for _, ing := range known {
		knownSet[ing.ID] = true
	}
	for _, line := range lines {
		if !knownSet[line.IngredientID] {
			return nil, &domain.UnknownIngredientError{IngredientID: line.IngredientID}
		}
	}

	return lines, nil
}

func (s *recipeService) uploadImage(payload string) (string, error) {
	data, ext, err := utils.DecodeImageData(payload)
	if err != nil {
		return "", domain.ErrInvalidImagePayload
	}

	fileName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	objectKey, err := s.s3.UploadFile(fileName, data, "recipes", storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func toRecipeResponse(rec *entities.Recipe) domain.RecipeResponse {
	return domain.RecipeResponse{
		ID:                 rec.ID.String(),
		AuthorID:           rec.AuthorID.String(),
		Name:               rec.Name,
		ImageURL:           rec.ImageURL,
		Description:        rec.Description,
		CookingTimeMinutes: rec.CookingTimeMinutes,
		CreatedAt:          rec.CreatedAt,
	}
}
