package handlers

import (
	"errors"

	"github.com/asset-exchange/backend/internal/engine"
	"github.com/asset-exchange/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
)

// engineError maps the engine's failure conditions onto HTTP statuses. Every
// engine failure is a clean abort, so the body is just the condition itself.
func engineError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(dto.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, engine.ErrAssetNotFound),
		errors.Is(err, engine.ErrNotListed):
		return fiber.StatusNotFound
	case errors.Is(err, engine.ErrAlreadyListed),
		errors.Is(err, engine.ErrAlreadySettled),
		errors.Is(err, engine.ErrAuctionExists),
		errors.Is(err, engine.ErrSellerNoLongerOwner),
		errors.Is(err, engine.ErrReentrantCall):
		return fiber.StatusConflict
	case errors.Is(err, engine.ErrInsufficientBalance),
		errors.Is(err, engine.ErrNoFunds):
		return fiber.StatusPaymentRequired
	case errors.Is(err, engine.ErrTransferFailed):
		return fiber.StatusBadGateway
	default:
		// validation failures: invalid price/window/start, bid too low,
		// auction not open, not yet ended
		return fiber.StatusBadRequest
	}
}
