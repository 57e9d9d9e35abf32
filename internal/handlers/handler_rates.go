package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/internal/dto"
	"github.com/fxrisk/fx_risk_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ratesHandler handles rate refresh and backfill requests.
type ratesHandler struct {
	orchestrator portssvc.RateOrchestratorSvc
	rateStore    portssvc.RateStoreSvc
	backfill     portssvc.BackfillSvc
	baseCurrency string
}

func newRatesHandler(
	orchestrator portssvc.RateOrchestratorSvc,
	rateStore portssvc.RateStoreSvc,
	backfill portssvc.BackfillSvc,
	baseCurrency string,
) *ratesHandler {
	return &ratesHandler{
		orchestrator: orchestrator,
		rateStore:    rateStore,
		backfill:     backfill,
		baseCurrency: baseCurrency,
	}
}

// registerRatesRoutes registers rate acquisition routes. The refresh endpoint
// carries the shared throttle middleware.
func registerRatesRoutes(
	rg *gin.RouterGroup,
	orchestrator portssvc.RateOrchestratorSvc,
	rateStore portssvc.RateStoreSvc,
	backfill portssvc.BackfillSvc,
	baseCurrency string,
	throttle gin.HandlerFunc,
) {
	h := newRatesHandler(orchestrator, rateStore, backfill, baseCurrency)

	rates := rg.Group("/rates")
	{
		rates.POST("/refresh", throttle, h.refreshRates)
		rates.POST("/backfill", h.runBackfill)
	}
}

// refreshRates triggers a provider refresh and persists the snapshot.
func (h *ratesHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	snapshot, err := h.orchestrator.RefreshLatest(c.Request.Context(), h.baseCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrProviderUnavailable) {
			logger.Error("All rate providers exhausted", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rate providers are unavailable and no cached snapshot exists"})
			return
		}
		logger.Error("Failed to refresh rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh rates"})
		return
	}

	if err := h.rateStore.PersistSnapshot(c.Request.Context(), snapshot); err != nil {
		logger.Error("Failed to persist refreshed snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist refreshed rates"})
		return
	}

	record := h.orchestrator.GetSnapshotInfo()
	stale := record != nil && record.Stale

	c.JSON(http.StatusAccepted, dto.RefreshRatesResponse{
		Message:      "Rates refresh accepted",
		Source:       snapshot.Source,
		BaseCurrency: snapshot.BaseCurrency,
		AsOf:         snapshot.Timestamp,
		Stale:        stale,
	})
}

// runBackfill loads historical rates for the configured base currency.
func (h *ratesHandler) runBackfill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Backfill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.backfill.RunBackfill(c.Request.Context(), req.Days, h.baseCurrency); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrProviderUnavailable):
			logger.Error("Backfill providers exhausted", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rate providers are unavailable"})
		default:
			logger.Error("Failed to run backfill", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run backfill"})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Backfill completed", "days": req.Days})
}
