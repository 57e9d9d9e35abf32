package repositories

import (
	"context"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
)

// PortfolioReader defines read operations for portfolio data.
type PortfolioReader interface {
	// FindPortfolioByID retrieves a portfolio by its unique identifier.
	FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error)

	// ListPortfolios retrieves all portfolios.
	ListPortfolios(ctx context.Context) ([]domain.Portfolio, error)
}

// PortfolioWriter defines write operations for portfolio data.
type PortfolioWriter interface {
	// SavePortfolio persists a new portfolio.
	SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error

	// DeletePortfolio removes a portfolio; its positions cascade.
	DeletePortfolio(ctx context.Context, portfolioID string) error
}

// PortfolioRepositoryFacade combines all portfolio repository interfaces.
type PortfolioRepositoryFacade interface {
	PortfolioReader
	PortfolioWriter
}

// PositionReader defines read operations for position data.
type PositionReader interface {
	// FindPositionByID retrieves a position by its unique identifier.
	FindPositionByID(ctx context.Context, positionID string) (*domain.Position, error)

	// ListPositionsByPortfolioID retrieves every position owned by a portfolio.
	ListPositionsByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Position, error)
}

// PositionWriter defines write operations for position data.
type PositionWriter interface {
	// SavePosition persists a new position.
	SavePosition(ctx context.Context, position domain.Position) error

	// UpdatePosition updates an existing position's amount, currency and side.
	UpdatePosition(ctx context.Context, position domain.Position) error

	// DeletePosition removes a position.
	DeletePosition(ctx context.Context, positionID string) error
}

// PositionRepositoryFacade combines all position repository interfaces.
type PositionRepositoryFacade interface {
	PositionReader
	PositionWriter
}
