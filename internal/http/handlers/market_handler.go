package handlers

import (
	"github.com/asset-exchange/backend/internal/engine"
	"github.com/asset-exchange/backend/internal/http/dto"
	"github.com/asset-exchange/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MarketHandler exposes minting and the fixed-price sale flow.
type MarketHandler struct {
	engine *engine.Engine
	log    *zap.Logger
}

func NewMarketHandler(eng *engine.Engine, log *zap.Logger) *MarketHandler {
	return &MarketHandler{engine: eng, log: log}
}

// Mint registers a new asset owned by the caller.
// POST /assets
func (h *MarketHandler) Mint(c *fiber.Ctx) error {
	var req dto.MintAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "name is required"})
	}

	caller := middleware.GetAddress(c)
	id, err := h.engine.Mint(c.Context(), caller, req.Name, req.Description, req.Category)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.MintAssetResponse{AssetID: id}})
}

// List puts the caller's asset up for fixed-price sale.
// POST /assets/:id/list
func (h *MarketHandler) List(c *fiber.Ctx) error {
	assetID, err := c.ParamsInt("id")
	if err != nil || assetID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid asset id"})
	}

	var req dto.ListAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid price"})
	}

	caller := middleware.GetAddress(c)
	if err := h.engine.List(c.Context(), caller, uint64(assetID), price); err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Buy settles an active listing for the caller.
// POST /assets/:id/buy
func (h *MarketHandler) Buy(c *fiber.Ctx) error {
	assetID, err := c.ParamsInt("id")
	if err != nil || assetID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid asset id"})
	}

	caller := middleware.GetAddress(c)
	if err := h.engine.Buy(c.Context(), caller, uint64(assetID)); err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Listed returns the historical ever-listed index in insertion order, with
// each entry's current active flag so callers can filter stale ids.
// GET /assets/listed
func (h *MarketHandler) Listed(c *fiber.Ctx) error {
	ids := h.engine.Listed()
	entries := make([]dto.ListedEntry, 0, len(ids))
	for _, id := range ids {
		entry := dto.ListedEntry{AssetID: id}
		if listing, err := h.engine.GetListing(id); err == nil {
			entry.Active = listing.Active
			if listing.Active {
				entry.Price = listing.Price.String()
			}
		}
		entries = append(entries, entry)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}

// GetAsset returns the asset record plus its current owner.
// GET /assets/:id
func (h *MarketHandler) GetAsset(c *fiber.Ctx) error {
	assetID, err := c.ParamsInt("id")
	if err != nil || assetID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid asset id"})
	}

	asset, err := h.engine.GetDetails(uint64(assetID))
	if err != nil {
		return engineError(c, err)
	}
	owner, err := h.engine.OwnerOf(uint64(assetID))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"asset": asset,
		"owner": owner,
	}})
}
