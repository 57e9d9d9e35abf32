package services

import (
	"context"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/dto"
)

// PortfolioReaderSvc defines read operations for portfolio data.
type PortfolioReaderSvc interface {
	// GetPortfolioByID retrieves a specific portfolio.
	GetPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error)

	// ListPortfolios retrieves all portfolios.
	ListPortfolios(ctx context.Context) ([]domain.Portfolio, error)
}

// PortfolioWriterSvc defines write operations for portfolio data.
type PortfolioWriterSvc interface {
	// CreatePortfolio persists a new portfolio.
	CreatePortfolio(ctx context.Context, req dto.CreatePortfolioRequest) (*domain.Portfolio, error)

	// DeletePortfolio removes a portfolio and cascades to its positions.
	DeletePortfolio(ctx context.Context, portfolioID string) error
}

// PortfolioSvcFacade combines all portfolio-related service interfaces.
type PortfolioSvcFacade interface {
	PortfolioReaderSvc
	PortfolioWriterSvc
}

// PositionReaderSvc defines read operations for position data.
type PositionReaderSvc interface {
	// ListPositions retrieves all positions of a portfolio.
	ListPositions(ctx context.Context, portfolioID string) ([]domain.Position, error)
}

// PositionWriterSvc defines write operations for position data.
type PositionWriterSvc interface {
	// CreatePosition persists a new position under a portfolio.
	CreatePosition(ctx context.Context, portfolioID string, req dto.CreatePositionRequest) (*domain.Position, error)

	// UpdatePosition updates an existing position.
	UpdatePosition(ctx context.Context, portfolioID, positionID string, req dto.UpdatePositionRequest) (*domain.Position, error)

	// DeletePosition removes a position from a portfolio.
	DeletePosition(ctx context.Context, portfolioID, positionID string) error
}

// PositionSvcFacade combines all position-related service interfaces.
type PositionSvcFacade interface {
	PositionReaderSvc
	PositionWriterSvc
}
