package dto

import (
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePositionRequest defines the data needed to open a position.
// Amount is a non-negative magnitude; Side carries the sign.
type CreatePositionRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,currencycode"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Side         string          `json:"side" binding:"required,oneof=LONG SHORT"`
}

// UpdatePositionRequest defines the mutable fields of a position.
type UpdatePositionRequest struct {
	CurrencyCode *string          `json:"currencyCode" binding:"omitempty,currencycode"`
	Amount       *decimal.Decimal `json:"amount" binding:"omitempty"`
	Side         *string          `json:"side" binding:"omitempty,oneof=LONG SHORT"`
}

// PositionResponse defines the data returned for a position.
type PositionResponse struct {
	PositionID   string          `json:"positionID"`
	PortfolioID  string          `json:"portfolioID"`
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
	Side         string          `json:"side"`
}

// ToPositionResponse converts a domain.Position to a PositionResponse DTO.
func ToPositionResponse(p *domain.Position) PositionResponse {
	return PositionResponse{
		PositionID:   p.PositionID,
		PortfolioID:  p.PortfolioID,
		CurrencyCode: p.CurrencyCode,
		Amount:       p.Amount,
		Side:         string(p.Side),
	}
}

// ToListPositionResponse converts a slice of domain.Position to response DTOs.
func ToListPositionResponse(positions []domain.Position) []PositionResponse {
	res := make([]PositionResponse, len(positions))
	for i, p := range positions {
		res[i] = ToPositionResponse(&p)
	}
	return res
}
