package handlers

import (
	"crypto/subtle"

	"github.com/asset-exchange/backend/internal/auth"
	"github.com/asset-exchange/backend/internal/config"
	"github.com/asset-exchange/backend/internal/http/dto"
	"github.com/asset-exchange/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

// IssueToken mints a JWT bound to a ledger address. When ISSUER_SECRET is
// configured the request must present it; signature-based proof of address
// ownership is out of scope here and belongs to the execution environment.
// POST /auth/token
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.IssueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "address is required"})
	}
	if h.cfg.IssuerSecret != "" &&
		subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.cfg.IssuerSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid issuer secret"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, models.Address(req.Address), h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.AuthResponse{
		Token:   token,
		Address: req.Address,
	})
}
