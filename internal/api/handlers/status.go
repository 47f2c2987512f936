package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"Foodgram-Backend/domain"
)

// statusForError maps each domain error kind to its one stable HTTP status.
func statusForError(err error) int {
	var dup *domain.DuplicateIngredientError
	var unknown *domain.UnknownIngredientError

	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrRelationNotFound),
		errors.Is(err, domain.ErrShoppingCartEmpty):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotRecipeAuthor):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRelationAlreadyExists),
		errors.Is(err, domain.ErrEmailAlreadyUsed),
		errors.Is(err, domain.ErrUsernameAlreadyUsed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrCredentialsInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrSelfSubscription):
		return fiber.StatusBadRequest
	case errors.As(err, &dup), errors.As(err, &unknown):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusBadRequest
	}
}
