package handlers

import (
	"github.com/asset-exchange/backend/internal/engine"
	"github.com/asset-exchange/backend/internal/http/dto"
	"github.com/asset-exchange/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AuctionHandler exposes the auction life cycle and escrow withdrawal.
type AuctionHandler struct {
	engine *engine.Engine
	log    *zap.Logger
}

func NewAuctionHandler(eng *engine.Engine, log *zap.Logger) *AuctionHandler {
	return &AuctionHandler{engine: eng, log: log}
}

// Create schedules an auction on the caller's asset.
// POST /assets/:id/auction
func (h *AuctionHandler) Create(c *fiber.Ctx) error {
	assetID, err := c.ParamsInt("id")
	if err != nil || assetID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid asset id"})
	}

	var req dto.CreateAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	minBid, err := decimal.NewFromString(req.MinBid)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid min_bid"})
	}

	caller := middleware.GetAddress(c)
	if err := h.engine.CreateAuction(c.Context(), caller, uint64(assetID), req.Start, req.End, minBid); err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Bid places the caller's bid on an open auction.
// POST /assets/:id/bids
func (h *AuctionHandler) Bid(c *fiber.Ctx) error {
	assetID, err := c.ParamsInt("id")
	if err != nil || assetID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid asset id"})
	}

	var req dto.PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid amount"})
	}

	caller := middleware.GetAddress(c)
	if err := h.engine.PlaceBid(c.Context(), caller, uint64(assetID), amount); err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Get returns the auction record with its derived status and bid history.
// GET /assets/:id/auction
func (h *AuctionHandler) Get(c *fiber.Ctx) error {
	assetID, err := c.ParamsInt("id")
	if err != nil || assetID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid asset id"})
	}

	auction, err := h.engine.GetAuction(uint64(assetID))
	if err != nil {
		return engineError(c, err)
	}
	status, err := h.engine.AuctionStatus(uint64(assetID))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"auction": auction,
		"status":  status,
	}})
}

// End settles a closed auction.
// POST /assets/:id/auction/end
func (h *AuctionHandler) End(c *fiber.Ctx) error {
	assetID, err := c.ParamsInt("id")
	if err != nil || assetID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid asset id"})
	}

	if err := h.engine.EndAuction(c.Context(), uint64(assetID)); err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Withdraw pays out the caller's pending return.
// POST /withdrawals
func (h *AuctionHandler) Withdraw(c *fiber.Ctx) error {
	caller := middleware.GetAddress(c)
	amount, err := h.engine.Withdraw(c.Context(), caller)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.WithdrawResponse{Amount: amount.String()}})
}

// EscrowBalance reports the caller's withdrawable balance.
// GET /escrow/balance
func (h *AuctionHandler) EscrowBalance(c *fiber.Ctx) error {
	caller := middleware.GetAddress(c)
	pending := h.engine.PendingReturn(caller)
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.EscrowBalanceResponse{
		Address: string(caller),
		Pending: pending.String(),
	}})
}

// EscrowLiability reports the total escrow owed across all bidders.
// GET /escrow/liability (admin only)
func (h *AuctionHandler) EscrowLiability(c *fiber.Ctx) error {
	total := h.engine.EscrowLiability()
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"total": total.String()}})
}
