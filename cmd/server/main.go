package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/adapters/event"
	httpAdapter "github.com/khoahotran/devfolio/adapters/http"
	"github.com/khoahotran/devfolio/adapters/persistence"
	"github.com/khoahotran/devfolio/internal/application/service"
	authUC "github.com/khoahotran/devfolio/internal/application/usecase/auth"
	"github.com/khoahotran/devfolio/internal/application/usecase/collection"
	profileUC "github.com/khoahotran/devfolio/internal/application/usecase/profile"
	searchUC "github.com/khoahotran/devfolio/internal/application/usecase/search"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/pkg/auth"
	"github.com/khoahotran/devfolio/pkg/logger"
	"github.com/khoahotran/devfolio/pkg/ratelimit"
	"github.com/khoahotran/devfolio/pkg/tracing"
)

const serviceName = "devfolio-api"

func main() {
	fmt.Println("Start Devfolio API Server...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.NewTracerProvider(cfg, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			appLogger.Error("Tracer provider shutdown failed", err)
		}
	}()

	// Store
	ownerRepo, closeStore, err := persistence.OpenOwnerRepo(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open owner store", err, zap.String("driver", cfg.Store.Driver))
	}
	defer closeStore()

	// Cache
	var cache service.Cache = persistence.NoopCache{}
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		cache = persistence.NewRedisCache(redisClient)
	} else {
		appLogger.Info("Redis not configured, listing cache disabled")
	}

	// Events
	var publisher service.EventPublisher = event.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Info("Kafka not configured, owner events are dropped")
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	if err := jwtSvc.Ready(); err != nil {
		appLogger.Warn("JWT secret is not set, authenticated routes will fail", zap.Error(err))
	}
	writer := service.NewOwnerWriter(ownerRepo, appLogger, service.DefaultWriteAttempts)
	notifier := service.NewNotifier(cache, publisher, appLogger)
	authLimiter := ratelimit.New(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst)
	defer authLimiter.Stop()

	// Use Cases
	signupUseCase := authUC.NewSignupUseCase(ownerRepo, jwtSvc, notifier, appLogger)
	loginUseCase := authUC.NewLoginUseCase(ownerRepo, jwtSvc, appLogger)
	meUseCase := authUC.NewMeUseCase(ownerRepo)
	profileUseCase := profileUC.NewProfileUseCase(ownerRepo, writer, notifier, appLogger)
	projectEngine := collection.NewEngine(collection.Projects, writer, notifier, appLogger)
	workEngine := collection.NewEngine(collection.Work, writer, notifier, appLogger)
	listProjectsUseCase := searchUC.NewListProjectsUseCase(ownerRepo, cache, cfg.Cache.TTL, appLogger)
	searchUseCase := searchUC.NewSearchUseCase(ownerRepo, cache, cfg.Cache.TTL, appLogger)
	feedUseCase := searchUC.NewFeedUseCase(listProjectsUseCase, cfg.Feed.BaseURL, appLogger)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Logger:      appLogger,
		Verifier:    auth.NewDefaultVerifier(jwtSvc),
		AuthLimiter: authLimiter,
		Auth: httpAdapter.NewAuthHandler(signupUseCase, loginUseCase, meUseCase,
			httpAdapter.CookieSettings{Production: cfg.IsProduction(), MaxAge: jwtSvc.TokenLifespan()},
			appLogger),
		Profile:  httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		Projects: httpAdapter.NewProjectHandler(projectEngine, listProjectsUseCase, appLogger),
		Work:     httpAdapter.NewWorkHandler(workEngine, appLogger),
		Search:   httpAdapter.NewSearchHandler(searchUseCase, appLogger),
		RSS:      httpAdapter.NewRSSHandler(feedUseCase, appLogger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Cannot run server", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	appLogger.Info("Server exited")
}
