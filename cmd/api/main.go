package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridianscan/sales-api/docs"
	"github.com/meridianscan/sales-api/internal/auth"
	"github.com/meridianscan/sales-api/internal/config"
	"github.com/meridianscan/sales-api/internal/database"
	"github.com/meridianscan/sales-api/internal/http/handler"
	"github.com/meridianscan/sales-api/internal/http/middleware"
	"github.com/meridianscan/sales-api/internal/http/router"
	"github.com/meridianscan/sales-api/internal/jobs"
	"github.com/meridianscan/sales-api/internal/logger"
	"github.com/meridianscan/sales-api/internal/repository"
	"github.com/meridianscan/sales-api/internal/service"
	"github.com/meridianscan/sales-api/internal/storage"
	"go.uber.org/zap"
)

// @title Meridian Sales API
// @version 1.0
// @description Configure-price-quote engine for scanning and documentation services

// @contact.name API Support
// @contact.email support@meridianscan.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "sales-api-staging.meridianscan.io"
	case "production":
		docs.SwaggerInfo.Host = "sales-api.meridianscan.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize manifest export storage
	manifestStore, err := storage.NewManifestStore(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	dealRepo := repository.NewDealRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	rateTableRepo := repository.NewRateTableRepository(db)
	quoteVersionRepo := repository.NewQuoteVersionRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, log)
	if err := catalogService.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	pricingService := service.NewPricingService(log)
	resolverService := service.NewSkuResolverService(catalogService, log)
	dealService := service.NewDealService(dealRepo, log)
	quoteVersionService := service.NewQuoteVersionService(
		dealRepo,
		quoteVersionRepo,
		rateTableRepo,
		pricingService,
		resolverService,
		log,
	)
	quoteVersionService.SetManifestStore(manifestStore)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	dealHandler := handler.NewDealHandler(dealService, log)
	quoteHandler := handler.NewQuoteHandler(quoteVersionService, resolverService, log)
	dealQuoteHandler := handler.NewDealQuoteHandler(quoteVersionService, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, rateTableRepo, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		dealHandler,
		quoteHandler,
		dealQuoteHandler,
		catalogHandler,
	)

	// Start scheduler with the periodic catalog refresh
	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterCatalogRefresh(scheduler, catalogService, cfg.Catalog.RefreshInterval, log); err != nil {
		log.Error("Failed to register catalog refresh job", zap.Error(err))
	} else {
		scheduler.Start()
		log.Info("Scheduler started with catalog refresh job",
			zap.String("cron_expr", cfg.Catalog.RefreshInterval),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
