package handlers

import (
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/internal/middleware"
	"github.com/fxrisk/fx_risk_app/internal/platform/scheduler"
	"github.com/fxrisk/fx_risk_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	limiter "github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	pool *pgxpool.Pool,
	sched *scheduler.Scheduler,
) {
	// Plain liveness probe outside the API group
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, pool, sched)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	pool *pgxpool.Pool,
	sched *scheduler.Scheduler,
) {
	v1 := r.Group("/api/v1")

	throttle := middleware.RefreshThrottle(limiter.Rate{
		Period: cfg.RefreshThrottle,
		Limit:  1,
	})

	registerHealthRoutes(v1, services.Orchestrator, pool, sched, cfg.EnableDBCheck)
	registerCurrencyRoutes(v1, services.Currency)
	registerPortfolioRoutes(v1, services.Portfolio, services.Position, services.Metrics)
	registerRatesRoutes(v1, services.Orchestrator, services.RateStore, services.Backfill, cfg.FxCanonicalBase, throttle)
}
