package http

import (
	"time"

	"github.com/asset-exchange/backend/internal/config"
	"github.com/asset-exchange/backend/internal/http/handlers"
	"github.com/asset-exchange/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	marketHandler *handlers.MarketHandler,
	auctionHandler *handlers.AuctionHandler,
	eventsHandler *handlers.EventsHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/token", authHandler.IssueToken)

	// Rate-limited public endpoints
	if rdb != nil {
		api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))
	}

	// Meta (public, no auth required)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/categories", metaHandler.GetCategories)

	// Event archive feed for indexers (public)
	api.Get("/events", eventsHandler.List)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Assets & fixed-price sale
	protected.Post("/assets", marketHandler.Mint)
	protected.Get("/assets/listed", marketHandler.Listed)
	protected.Get("/assets/:id", marketHandler.GetAsset)
	protected.Post("/assets/:id/list", marketHandler.List)
	protected.Post("/assets/:id/buy", marketHandler.Buy)

	// Auctions & escrow
	protected.Post("/assets/:id/auction", auctionHandler.Create)
	protected.Get("/assets/:id/auction", auctionHandler.Get)
	protected.Post("/assets/:id/auction/end", auctionHandler.End)
	protected.Post("/assets/:id/bids", auctionHandler.Bid)
	protected.Post("/withdrawals", auctionHandler.Withdraw)
	protected.Get("/escrow/balance", auctionHandler.EscrowBalance)
	protected.Get("/escrow/liability", middleware.AdminMiddleware(cfg), auctionHandler.EscrowLiability)

	// WebSocket
	if wsHub != nil {
		app.Use("/ws", handlers.WSUpgradeMiddleware())
		app.Get("/ws", websocket.New(wsHub.HandleWS))
	}
}
