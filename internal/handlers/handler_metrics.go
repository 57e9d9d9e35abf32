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

// metricsHandler handles valuation and risk reporting requests.
type metricsHandler struct {
	metricsService portssvc.PortfolioMetricsSvc
}

func newMetricsHandler(ms portssvc.PortfolioMetricsSvc) *metricsHandler {
	return &metricsHandler{
		metricsService: ms,
	}
}

// registerMetricsRoutes registers valuation routes nested under a portfolio.
func registerMetricsRoutes(portfolios *gin.RouterGroup, metricsService portssvc.PortfolioMetricsSvc) {
	h := newMetricsHandler(metricsService)

	portfolios.GET("/:id/value", h.getPortfolioValue)
	portfolios.GET("/:id/exposure", h.getPortfolioExposure)
	portfolios.GET("/:id/pnl/daily", h.getDailyPnL)
	portfolios.GET("/:id/value/series", h.getValueSeries)
	portfolios.POST("/:id/whatif", h.simulateShock)
}

// getPortfolioValue returns the portfolio value in the requested view base.
func (h *metricsHandler) getPortfolioValue(c *gin.Context) {
	portfolioID := c.Param("id")

	var query dto.MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	result, err := h.metricsService.CalculatePortfolioValue(c.Request.Context(), portfolioID, query.Base)
	if err != nil {
		h.respondError(c, err, "Failed to calculate portfolio value")
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioValueResponse(result))
}

// getPortfolioExposure returns the per-currency exposure breakdown.
func (h *metricsHandler) getPortfolioExposure(c *gin.Context) {
	portfolioID := c.Param("id")

	var query dto.ExposureQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	result, err := h.metricsService.CalculateCurrencyExposure(c.Request.Context(), portfolioID, query.TopN, query.Base)
	if err != nil {
		h.respondError(c, err, "Failed to calculate currency exposure")
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioExposureResponse(result))
}

// getDailyPnL returns the day-over-day P&L report.
func (h *metricsHandler) getDailyPnL(c *gin.Context) {
	portfolioID := c.Param("id")

	var query dto.MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	result, err := h.metricsService.CalculateDailyPnL(c.Request.Context(), portfolioID, query.Base)
	if err != nil {
		h.respondError(c, err, "Failed to calculate daily PnL")
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioDailyPnLResponse(result))
}

// getValueSeries returns a per-day value series over the requested window.
func (h *metricsHandler) getValueSeries(c *gin.Context) {
	portfolioID := c.Param("id")

	var query dto.ValueSeriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	result, err := h.metricsService.CalculatePortfolioValueSeries(c.Request.Context(), portfolioID, query.Base, query.Days)
	if err != nil {
		h.respondError(c, err, "Failed to calculate value series")
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioValueSeriesResponse(result))
}

// simulateShock runs a single-currency shock simulation.
func (h *metricsHandler) simulateShock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("id")

	var req dto.WhatIfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for WhatIf", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.metricsService.SimulateCurrencyShock(c.Request.Context(), portfolioID, req.Currency, req.ShockPct, req.Base)
	if err != nil {
		h.respondError(c, err, "Failed to simulate currency shock")
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioWhatIfResponse(result))
}

func (h *metricsHandler) respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
