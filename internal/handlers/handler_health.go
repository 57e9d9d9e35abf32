package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/internal/dto"
	"github.com/fxrisk/fx_risk_app/internal/platform/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// healthHandler reports service and rate-pipeline liveness.
type healthHandler struct {
	orchestrator portssvc.RateOrchestratorSvc
	pool         *pgxpool.Pool
	sched        *scheduler.Scheduler
	enableDBPing bool
}

func newHealthHandler(orchestrator portssvc.RateOrchestratorSvc, pool *pgxpool.Pool, sched *scheduler.Scheduler, enableDBPing bool) *healthHandler {
	return &healthHandler{
		orchestrator: orchestrator,
		pool:         pool,
		sched:        sched,
		enableDBPing: enableDBPing,
	}
}

// registerHealthRoutes registers liveness endpoints. sched may be nil when
// the background refresh is disabled.
func registerHealthRoutes(rg *gin.RouterGroup, orchestrator portssvc.RateOrchestratorSvc, pool *pgxpool.Pool, sched *scheduler.Scheduler, enableDBPing bool) {
	h := newHealthHandler(orchestrator, pool, sched, enableDBPing)

	health := rg.Group("/health")
	{
		health.GET("", h.getHealth)
		health.GET("/rates", h.getRatesHealth)
	}
}

// getHealth reports overall service health, including a database ping when
// enabled.
func (h *healthHandler) getHealth(c *gin.Context) {
	status := gin.H{"status": "ok"}

	if h.enableDBPing && h.pool != nil {
		if err := h.pool.Ping(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	c.JSON(http.StatusOK, status)
}

// getRatesHealth reports the orchestrator's cached snapshot state and, when
// the background refresh is running, its last outcomes.
func (h *healthHandler) getRatesHealth(c *gin.Context) {
	body := gin.H{"status": "no_snapshot"}

	if record := h.orchestrator.GetSnapshotInfo(); record != nil {
		body["status"] = "ok"
		body["snapshot"] = dto.ToSnapshotInfoResponse(record)
	}

	if h.sched != nil {
		success, failure, lastError := h.sched.LastRun()
		schedState := gin.H{}
		if !success.IsZero() {
			schedState["lastSuccess"] = success.Format(time.RFC3339)
		}
		if !failure.IsZero() {
			schedState["lastFailure"] = failure.Format(time.RFC3339)
			schedState["lastError"] = lastError
		}
		body["scheduler"] = schedState
	}

	c.JSON(http.StatusOK, body)
}
