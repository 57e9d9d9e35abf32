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

// positionHandler handles HTTP requests for positions within a portfolio.
type positionHandler struct {
	positionService portssvc.PositionSvcFacade
}

func newPositionHandler(ps portssvc.PositionSvcFacade) *positionHandler {
	return &positionHandler{
		positionService: ps,
	}
}

// registerPositionRoutes registers position routes nested under a portfolio.
func registerPositionRoutes(portfolios *gin.RouterGroup, positionService portssvc.PositionSvcFacade) {
	h := newPositionHandler(positionService)

	positions := portfolios.Group("/:id/positions")
	{
		positions.POST("", h.createPosition)
		positions.GET("", h.listPositions)
		positions.PUT("/:positionID", h.updatePosition)
		positions.DELETE("/:positionID", h.deletePosition)
	}
}

// createPosition opens a new position in a portfolio.
func (h *positionHandler) createPosition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("id")

	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePosition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	createdPosition, err := h.positionService.CreatePosition(c.Request.Context(), portfolioID, req)
	if err != nil {
		h.respondError(c, err, "Failed to create position")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPositionResponse(createdPosition))
}

// listPositions returns all positions of a portfolio.
func (h *positionHandler) listPositions(c *gin.Context) {
	portfolioID := c.Param("id")

	positions, err := h.positionService.ListPositions(c.Request.Context(), portfolioID)
	if err != nil {
		h.respondError(c, err, "Failed to list positions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPositionResponse(positions))
}

// updatePosition applies partial updates to a position.
func (h *positionHandler) updatePosition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("id")
	positionID := c.Param("positionID")

	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePosition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updatedPosition, err := h.positionService.UpdatePosition(c.Request.Context(), portfolioID, positionID, req)
	if err != nil {
		h.respondError(c, err, "Failed to update position")
		return
	}

	c.JSON(http.StatusOK, dto.ToPositionResponse(updatedPosition))
}

// deletePosition removes a position.
func (h *positionHandler) deletePosition(c *gin.Context) {
	portfolioID := c.Param("id")
	positionID := c.Param("positionID")

	if err := h.positionService.DeletePosition(c.Request.Context(), portfolioID, positionID); err != nil {
		h.respondError(c, err, "Failed to delete position")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *positionHandler) respondError(c *gin.Context, err error, fallback string) {
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
