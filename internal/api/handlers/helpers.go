package handlers

import (
	"errors"

	"Foodgram-Backend/domain"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to client-facing status codes. Anything
// unrecognized falls back to a bad request.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotRecipeAuthor):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrShortLinkNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadRequest
	}
}
