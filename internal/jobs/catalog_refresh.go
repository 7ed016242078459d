package jobs

import (
	"context"
	"time"

	"github.com/meridianscan/sales-api/internal/service"
	"go.uber.org/zap"
)

// RegisterCatalogRefresh schedules periodic reloads of the in-memory
// catalog snapshot. Catalog rows are managed out of band, so a stale
// snapshot self-heals on the next tick rather than requiring explicit
// invalidation.
func RegisterCatalogRefresh(scheduler *Scheduler, catalog *service.CatalogService, cronExpr string, logger *zap.Logger) error {
	return scheduler.AddJob("catalog-refresh", cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := catalog.Refresh(ctx); err != nil {
			logger.Error("catalog refresh failed", zap.Error(err))
		}
	})
}
