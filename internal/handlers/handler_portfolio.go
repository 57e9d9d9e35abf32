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

// portfolioHandler handles HTTP requests related to portfolios.
type portfolioHandler struct {
	portfolioService portssvc.PortfolioSvcFacade
}

func newPortfolioHandler(ps portssvc.PortfolioSvcFacade) *portfolioHandler {
	return &portfolioHandler{
		portfolioService: ps,
	}
}

// registerPortfolioRoutes registers portfolio CRUD and nested position and
// metric routes.
func registerPortfolioRoutes(
	rg *gin.RouterGroup,
	portfolioService portssvc.PortfolioSvcFacade,
	positionService portssvc.PositionSvcFacade,
	metricsService portssvc.PortfolioMetricsSvc,
) {
	h := newPortfolioHandler(portfolioService)

	portfolios := rg.Group("/portfolios")
	{
		portfolios.POST("", h.createPortfolio)
		portfolios.GET("", h.listPortfolios)
		portfolios.GET("/:id", h.getPortfolioByID)
		portfolios.DELETE("/:id", h.deletePortfolio)
	}

	registerPositionRoutes(portfolios, positionService)
	registerMetricsRoutes(portfolios, metricsService)
}

// createPortfolio creates a new portfolio.
func (h *portfolioHandler) createPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePortfolio", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	createdPortfolio, err := h.portfolioService.CreatePortfolio(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating portfolio", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create portfolio in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create portfolio"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPortfolioResponse(createdPortfolio))
}

// listPortfolios returns all portfolios.
func (h *portfolioHandler) listPortfolios(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	portfolios, err := h.portfolioService.ListPortfolios(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list portfolios", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list portfolios"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPortfolioResponse(portfolios))
}

// getPortfolioByID returns one portfolio.
func (h *portfolioHandler) getPortfolioByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("id")

	portfolio, err := h.portfolioService.GetPortfolioByID(c.Request.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		} else {
			logger.Error("Failed to get portfolio", slog.String("error", err.Error()), slog.String("portfolio_id", portfolioID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get portfolio"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioResponse(portfolio))
}

// deletePortfolio removes a portfolio and its positions.
func (h *portfolioHandler) deletePortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("id")

	if err := h.portfolioService.DeletePortfolio(c.Request.Context(), portfolioID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		} else {
			logger.Error("Failed to delete portfolio", slog.String("error", err.Error()), slog.String("portfolio_id", portfolioID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete portfolio"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
