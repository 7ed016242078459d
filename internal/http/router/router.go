package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meridianscan/sales-api/internal/auth"
	"github.com/meridianscan/sales-api/internal/config"
	"github.com/meridianscan/sales-api/internal/database"
	"github.com/meridianscan/sales-api/internal/http/handler"
	"github.com/meridianscan/sales-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/meridianscan/sales-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	dealHandler      *handler.DealHandler
	quoteHandler     *handler.QuoteHandler
	dealQuoteHandler *handler.DealQuoteHandler
	catalogHandler   *handler.CatalogHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	dealHandler *handler.DealHandler,
	quoteHandler *handler.QuoteHandler,
	dealQuoteHandler *handler.DealQuoteHandler,
	catalogHandler *handler.CatalogHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		dealHandler:      dealHandler,
		quoteHandler:     quoteHandler,
		dealQuoteHandler: dealQuoteHandler,
		catalogHandler:   catalogHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		overall := "healthy"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Stateless pricing operations
			r.Route("/quotes", func(r chi.Router) {
				r.Post("/areas/resolve-sku", rt.quoteHandler.ResolveSku)
				r.Post("/generate-skus", rt.quoteHandler.GenerateSkus)
				r.Post("/price", rt.quoteHandler.Price)
			})

			// Deals and their quote version history
			r.Route("/deals", func(r chi.Router) {
				r.Get("/", rt.dealHandler.List)
				r.Post("/", rt.dealHandler.Create)
				r.Get("/{id}", rt.dealHandler.GetByID)
				r.Put("/{id}", rt.dealHandler.Update)
				r.Delete("/{id}", rt.dealHandler.Delete)

				r.Route("/{id}/quotes", func(r chi.Router) {
					r.Get("/", rt.dealQuoteHandler.List)
					r.With(rt.authMiddleware.RequireQuoteWriter).Post("/", rt.dealQuoteHandler.Create)
					r.Get("/diff", rt.dealQuoteHandler.Diff)
					r.Get("/{sequence}", rt.dealQuoteHandler.GetBySequence)
					r.With(rt.authMiddleware.RequireQuoteWriter).Post("/{sequence}/restore", rt.dealQuoteHandler.Restore)
				})
			})

			// Catalog and rate tables (read-only)
			r.Route("/catalog", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.List)
				r.Get("/{code}", rt.catalogHandler.GetByCode)
			})
			r.Route("/rates", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListRateVersions)
				r.Get("/active", rt.catalogHandler.GetActiveRates)
			})
		})
	})

	return r
}
