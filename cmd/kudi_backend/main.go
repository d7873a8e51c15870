package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/adapters/paystack"
	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	"github.com/SscSPs/kudi_commerce/internal/core/services"
	"github.com/SscSPs/kudi_commerce/internal/handlers"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/SscSPs/kudi_commerce/internal/platform/config"
	"github.com/SscSPs/kudi_commerce/internal/platform/telemetry"
	"github.com/SscSPs/kudi_commerce/internal/repositories/cache"
	"github.com/SscSPs/kudi_commerce/internal/repositories/database/pgsql"
	"github.com/SscSPs/kudi_commerce/internal/utils"
	"github.com/SscSPs/kudi_commerce/internal/worker"
	"github.com/SscSPs/kudi_commerce/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:generate swag init -g cmd/kudi_backend/main.go -o cmd/docs --parseInternal -d ../../

const shutdownTimeout = 15 * time.Second

// @title Kudi Commerce API
// @version 1.0
// @description Digital subscription storefront: exchange rates, plan pricing, orders, carts and Paystack payments.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := telemetry.NewLogger(os.Stdout, slog.LevelInfo)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	environment := "development"
	if cfg.IsProduction {
		environment = "production"
	}
	shutdownTracer, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: environment,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)

	logger.Info("Running database migrations...")
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		return err
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	var redisClient *redis.Client
	var rateCache gateways.RateSnapshotCache
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		rateCache = cache.NewRedisRateCache(redisClient)
		logger.Info("Using redis for rate snapshots and rate limiting")
	} else {
		rateCache = cache.NewMemoryRateCache()
		logger.Warn("REDIS_URL not set, rate snapshots and rate limits are per instance")
	}

	rateLimiter, err := middleware.NewLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	var cipher *utils.CredentialCipher
	if cfg.CredentialEncryptionKey != "" {
		cipher, err = utils.NewCredentialCipher(cfg.CredentialEncryptionKey)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("CREDENTIAL_ENCRYPTION_KEY not set, orders cannot carry account credentials")
	}

	webhookQueue := worker.NewWebhookQueue(worker.QueueConfig{
		Workers:     cfg.WebhookWorkers,
		QueueSize:   cfg.WebhookQueueSize,
		MaxAttempts: cfg.WebhookMaxAttempts,
	})

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), services.ServiceDeps{
		PaymentGateway:    paystack.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.PaystackTimeout),
		WebhookDispatcher: webhookQueue,
		RateCache:         rateCache,
		EventTracker:      posthogClient,
		CredentialCipher:  cipher,
	})

	// Workers outlive the signal context so queued webhooks drain after the server stops.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		if err := webhookQueue.Start(workerCtx, container.Payment.ProcessWebhook); err != nil {
			logger.Error("Webhook workers stopped", slog.String("error", err.Error()))
		}
	}()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	if err := handlers.RegisterRoutes(r, cfg, container,
		middleware.RateLimit(rateLimiter),
		middleware.PosthogMiddleware(posthogClient),
	); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}

	// No new webhooks can arrive once the server is down.
	webhookQueue.Close()
	select {
	case <-workersDone:
	case <-shutdownCtx.Done():
		logger.Warn("Timed out waiting for webhook workers")
		cancelWorkers()
		<-workersDone
	}
	logger.Info("Server stopped")
	return nil
}
