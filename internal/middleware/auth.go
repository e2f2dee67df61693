package middleware

import (
	"strings"

	"github.com/asset-exchange/backend/internal/auth"
	"github.com/asset-exchange/backend/internal/config"
	"github.com/asset-exchange/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const CtxAddress = "address"

// AuthMiddleware binds the request to a ledger address via a bearer JWT.
func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		if claims.Address == models.ZeroAddress {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token carries no address"})
		}

		c.Locals(CtxAddress, claims.Address)
		return c.Next()
	}
}

// GetAddress returns the authenticated caller address for the request.
func GetAddress(c *fiber.Ctx) models.Address {
	addr, _ := c.Locals(CtxAddress).(models.Address)
	return addr
}

// AdminMiddleware restricts a route to configured admin addresses.
func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.IsAdmin(string(GetAddress(c))) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}
