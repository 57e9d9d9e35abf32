package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPortfolioRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPortfolioRepository creates a new repository for portfolio data.
func NewPgxPortfolioRepository(pool *pgxpool.Pool) portsrepo.PortfolioRepositoryFacade {
	return &PgxPortfolioRepository{pool: pool}
}

// SavePortfolio persists a new portfolio.
func (r *PgxPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (portfolio_id, name, base_currency_code, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`

	_, err := r.pool.Exec(ctx, query,
		portfolio.PortfolioID,
		portfolio.Name,
		portfolio.BaseCurrencyCode,
		portfolio.CreatedAt,
		portfolio.LastUpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save portfolio %s: %w", portfolio.PortfolioID, err)
	}
	return nil
}

// FindPortfolioByID retrieves a portfolio by its unique identifier.
func (r *PgxPortfolioRepository) FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error) {
	query := `
		SELECT portfolio_id, name, base_currency_code, created_at, last_updated_at
		FROM portfolios
		WHERE portfolio_id = $1;
	`
	var portfolio domain.Portfolio
	err := r.pool.QueryRow(ctx, query, portfolioID).Scan(
		&portfolio.PortfolioID,
		&portfolio.Name,
		&portfolio.BaseCurrencyCode,
		&portfolio.CreatedAt,
		&portfolio.LastUpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find portfolio by id %s: %w", portfolioID, err)
	}

	return &portfolio, nil
}

// ListPortfolios retrieves all portfolios.
func (r *PgxPortfolioRepository) ListPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	query := `
		SELECT portfolio_id, name, base_currency_code, created_at, last_updated_at
		FROM portfolios
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	portfolios, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Portfolio, error) {
		var portfolio domain.Portfolio
		err := row.Scan(
			&portfolio.PortfolioID,
			&portfolio.Name,
			&portfolio.BaseCurrencyCode,
			&portfolio.CreatedAt,
			&portfolio.LastUpdatedAt,
		)
		return portfolio, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect portfolios: %w", err)
	}

	return portfolios, nil
}

// DeletePortfolio removes a portfolio; the positions FK cascades.
func (r *PgxPortfolioRepository) DeletePortfolio(ctx context.Context, portfolioID string) error {
	query := `DELETE FROM portfolios WHERE portfolio_id = $1;`

	tag, err := r.pool.Exec(ctx, query, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio %s: %w", portfolioID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
