package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/adapters/event"
	"github.com/khoahotran/devfolio/adapters/persistence"
	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/application/usecase/search"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/pkg/logger"
)

const consumerGroup = "devfolio-cache-warmer"

// The worker consumes owner events and refills the first listing page and
// the feed, so the first reader after a write does not pay for a cold cache.
func main() {
	fmt.Println("Starting Devfolio Worker...")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot load config: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env).With(zap.String("component", "worker"))
	defer appLogger.Sync()

	if cfg.Redis.Addr == "" {
		appLogger.Fatal("Worker needs Redis to warm", nil)
	}
	if cfg.Store.Driver == config.StoreMemory {
		appLogger.Fatal("Worker cannot share an in-memory store with the API", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ownerRepo, closeStore, err := persistence.OpenOwnerRepo(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open owner store", err)
	}
	defer closeStore()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()
	cache := persistence.NewRedisCache(redisClient)

	lister := search.NewListProjectsUseCase(ownerRepo, cache, cfg.Cache.TTL, appLogger)
	feed := search.NewFeedUseCase(lister, cfg.Feed.BaseURL, appLogger)

	consumer, err := event.NewKafkaConsumer(cfg, consumerGroup, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka consumer", err)
	}
	defer consumer.Close()

	err = consumer.Run(ctx, func(ctx context.Context, evt service.OwnerEvent) error {
		if _, err := lister.Execute(ctx, search.ListProjectsInput{Page: search.DefaultPage, Limit: search.DefaultLimit}); err != nil {
			return err
		}
		_, err := feed.Execute(ctx, "")
		return err
	})
	if err != nil {
		appLogger.Error("Worker stopped", err)
	}
	appLogger.Info("Worker exited")
}
