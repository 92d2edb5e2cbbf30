package handlers

import (
	"strconv"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/ledger"

	"github.com/gofiber/fiber/v2"
)

type (
	LedgerHandler interface {
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
	}

	ledgerHandler struct {
		ledgerService ledger.LedgerService
	}
)

func NewLedgerHandler(ledgerService ledger.LedgerService) LedgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

func (h *ledgerHandler) addMembership(c *fiber.Ctx, kind ledger.MembershipKind) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	res, err := h.ledgerService.AddMembership(c.Context(), kind, userID, recipeID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddToList, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddToList)
}

func (h *ledgerHandler) removeMembership(c *fiber.Ctx, kind ledger.MembershipKind) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	if err := h.ledgerService.RemoveMembership(c.Context(), kind, userID, recipeID); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRemoveFromList, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessRemoveFromList)
}

func (h *ledgerHandler) AddFavorite(c *fiber.Ctx) error {
	return h.addMembership(c, ledger.KindFavorite)
}

func (h *ledgerHandler) RemoveFavorite(c *fiber.Ctx) error {
	return h.removeMembership(c, ledger.KindFavorite)
}

func (h *ledgerHandler) AddToCart(c *fiber.Ctx) error {
	return h.addMembership(c, ledger.KindCart)
}

func (h *ledgerHandler) RemoveFromCart(c *fiber.Ctx) error {
	return h.removeMembership(c, ledger.KindCart)
}

func (h *ledgerHandler) Subscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	followedID := c.Params("id")

	if err := h.ledgerService.Subscribe(c.Context(), userID, followedID); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSubscribe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *ledgerHandler) Unsubscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	followedID := c.Params("id")

	if err := h.ledgerService.Unsubscribe(c.Context(), userID, followedID); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUnsubscribe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessUnsubscribe)
}

func (h *ledgerHandler) GetSubscriptions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "0"))
	page, limit = utils.NormalizePagination(page, limit)

	// recipes_limit <= 0 or absent means unlimited
	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit", "0"))

	res, count, err := h.ledgerService.GetSubscriptions(c.Context(), userID, recipesLimit, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSubscriptions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"subscriptions": res,
		"total":         count,
		"page":          page,
		"limit":         limit,
	}, fiber.StatusOK, domain.MessageSuccessSubscriptions)
}
