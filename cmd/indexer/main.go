// Command indexer is a reference external consumer of the engine's event
// stream: it subscribes to the live redis feed and archives every event into
// postgres. The engine itself never reads the archive; this process exists on
// the observer side of the event-log contract.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/asset-exchange/backend/internal/config"
	"github.com/asset-exchange/backend/internal/db"
	"github.com/asset-exchange/backend/internal/events"
	"github.com/asset-exchange/backend/internal/repositories"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	eventRepo := repositories.NewEventRepo(pool)
	subscriber := events.NewRedisSubscriber(rdb, log)

	err = subscriber.Subscribe(ctx, events.Stream, func(event events.Event) {
		// Append is idempotent on event id, so redelivery is harmless.
		if err := eventRepo.Append(ctx, event); err != nil {
			log.Error("failed to archive event",
				zap.String("type", event.Type),
				zap.String("id", event.ID.String()),
				zap.Error(err))
			return
		}
		log.Info("event archived",
			zap.String("type", event.Type),
			zap.String("id", event.ID.String()))
	})
	if err != nil {
		log.Fatal("failed to subscribe", zap.Error(err))
	}

	log.Info("indexer started", zap.String("stream", events.Stream))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down indexer")
	cancel()
}
