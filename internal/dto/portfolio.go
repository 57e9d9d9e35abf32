package dto

import (
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
)

// CreatePortfolioRequest defines the data needed to create a new portfolio.
type CreatePortfolioRequest struct {
	Name             string `json:"name" binding:"required,max=100"`
	BaseCurrencyCode string `json:"baseCurrencyCode" binding:"required,currencycode"`
}

// PortfolioResponse defines the data returned for a portfolio.
type PortfolioResponse struct {
	PortfolioID      string `json:"portfolioID"`
	Name             string `json:"name"`
	BaseCurrencyCode string `json:"baseCurrencyCode"`
}

// ToPortfolioResponse converts a domain.Portfolio to a PortfolioResponse DTO.
func ToPortfolioResponse(p *domain.Portfolio) PortfolioResponse {
	return PortfolioResponse{
		PortfolioID:      p.PortfolioID,
		Name:             p.Name,
		BaseCurrencyCode: p.BaseCurrencyCode,
	}
}

// ToListPortfolioResponse converts a slice of domain.Portfolio to response DTOs.
func ToListPortfolioResponse(portfolios []domain.Portfolio) []PortfolioResponse {
	res := make([]PortfolioResponse, len(portfolios))
	for i, p := range portfolios {
		res[i] = ToPortfolioResponse(&p)
	}
	return res
}
