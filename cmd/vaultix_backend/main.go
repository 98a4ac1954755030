package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/vaultix_backend/internal/adapters/cache/redis"
	"github.com/SscSPs/vaultix_backend/internal/adapters/storage/file"
	"github.com/SscSPs/vaultix_backend/internal/adapters/storage/memory"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/SscSPs/vaultix_backend/internal/core/services"
	"github.com/SscSPs/vaultix_backend/internal/handlers"
	"github.com/SscSPs/vaultix_backend/internal/metrics"
	"github.com/SscSPs/vaultix_backend/internal/middleware"
	"github.com/SscSPs/vaultix_backend/internal/platform/config"
	redisclient "github.com/SscSPs/vaultix_backend/internal/platform/redis"
	"github.com/SscSPs/vaultix_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/vaultix_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

// @title Vaultix Account Opening API
// @version 1.0
// @description Account-opening workflow: customer registration, video KYC, manager review and staff administration.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	m := metrics.New()
	container := services.NewServiceContainer(cfg, repos, m)

	if err := container.Application.Load(ctx); err != nil {
		logger.Error("Failed to load application registry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := container.Employee.Load(ctx); err != nil {
		logger.Error("Failed to load employee directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SeedEmployees {
		if err := container.Employee.SeedDefaults(ctx, cfg.SeedPassword); err != nil {
			logger.Error("Failed to seed default employees", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		// cors.New panics on an empty origin list
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container, m); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories selects the snapshot and event stores for STORAGE_DRIVER and
// the OTP store for REDIS_URL. The returned cleanup closes whatever was opened.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var otpRepo portsrepo.OTPRepository = memory.NewOTPStore()
	client, err := redisclient.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, cleanup, err
	}
	if client != nil {
		closers = append(closers, func() {
			if cerr := client.Close(); cerr != nil {
				logger.Error("Error closing redis client", slog.String("error", cerr.Error()))
			}
		})
		otpRepo = redis.NewOTPRepository(client)
		logger.Info("OTP challenges stored in Redis.")
	}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; state is lost on restart.")
		return portsrepo.RepositoryProvider{
			SnapshotRepo: memory.NewSnapshotStore(),
			EventRepo:    memory.NewEventStore(),
			OTPRepo:      otpRepo,
		}, cleanup, nil

	case config.StorageFile:
		osFs := afero.NewOsFs()
		snapshots, err := file.NewSnapshotStore(osFs, cfg.SnapshotDir)
		if err != nil {
			return portsrepo.RepositoryProvider{}, cleanup, err
		}
		events, err := file.NewEventStore(osFs, cfg.SnapshotDir)
		if err != nil {
			return portsrepo.RepositoryProvider{}, cleanup, err
		}
		logger.Info("Using file storage.", slog.String("dir", cfg.SnapshotDir))
		return portsrepo.RepositoryProvider{
			SnapshotRepo: snapshots,
			EventRepo:    events,
			OTPRepo:      otpRepo,
		}, cleanup, nil

	case config.StoragePostgres:
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, cleanup, err
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, cleanup, err
		}
		closers = append(closers, func() { database.ClosePgxPool(dbPool) })
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool, otpRepo), cleanup, nil
	}

	return portsrepo.RepositoryProvider{}, cleanup, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
