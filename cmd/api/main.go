package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asset-exchange/backend/internal/config"
	"github.com/asset-exchange/backend/internal/db"
	"github.com/asset-exchange/backend/internal/engine"
	"github.com/asset-exchange/backend/internal/escrow"
	"github.com/asset-exchange/backend/internal/events"
	apphttp "github.com/asset-exchange/backend/internal/http"
	"github.com/asset-exchange/backend/internal/http/handlers"
	"github.com/asset-exchange/backend/internal/ledger"
	"github.com/asset-exchange/backend/internal/models"
	"github.com/asset-exchange/backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database (event archive)
	var eventRepo *repositories.EventRepo
	if cfg.EventArchiveEnabled {
		pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		eventRepo = repositories.NewEventRepo(pool)
	}

	// Redis (live events + rate limiting)
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	var archiver events.Archiver
	if eventRepo != nil {
		archiver = eventRepo
	}
	sink := events.NewFanout(archiver, publisher, log)

	// Engine with in-memory collaborators. Production deployments replace
	// these with clients of the real registry and payment ledger.
	custody := models.Address(cfg.CustodyAddress)
	registry := ledger.NewRegistry()
	payments := ledger.NewPayments(custody)
	eng := engine.New(registry, payments, escrow.NewLedger(), sink, custody, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, log)
	marketHandler := handlers.NewMarketHandler(eng, log)
	auctionHandler := handlers.NewAuctionHandler(eng, log)
	eventsHandler := handlers.NewEventsHandler(eventRepo, cfg.EventPageSize, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, marketHandler, auctionHandler, eventsHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
