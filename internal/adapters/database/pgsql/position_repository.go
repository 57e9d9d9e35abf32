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

type PgxPositionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPositionRepository creates a new repository for position data.
func NewPgxPositionRepository(pool *pgxpool.Pool) portsrepo.PositionRepositoryFacade {
	return &PgxPositionRepository{pool: pool}
}

// SavePosition persists a new position.
func (r *PgxPositionRepository) SavePosition(ctx context.Context, position domain.Position) error {
	query := `
		INSERT INTO positions (position_id, portfolio_id, currency_code, amount, side, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	_, err := r.pool.Exec(ctx, query,
		position.PositionID,
		position.PortfolioID,
		position.CurrencyCode,
		position.Amount,
		string(position.Side),
		position.CreatedAt,
		position.LastUpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save position %s: %w", position.PositionID, err)
	}
	return nil
}

// FindPositionByID retrieves a position by its unique identifier.
func (r *PgxPositionRepository) FindPositionByID(ctx context.Context, positionID string) (*domain.Position, error) {
	query := `
		SELECT position_id, portfolio_id, currency_code, amount, side, created_at, last_updated_at
		FROM positions
		WHERE position_id = $1;
	`
	var position domain.Position
	var side string
	err := r.pool.QueryRow(ctx, query, positionID).Scan(
		&position.PositionID,
		&position.PortfolioID,
		&position.CurrencyCode,
		&position.Amount,
		&side,
		&position.CreatedAt,
		&position.LastUpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find position by id %s: %w", positionID, err)
	}

	position.Side = domain.PositionSide(side)
	return &position, nil
}

// ListPositionsByPortfolioID retrieves every position owned by a portfolio.
func (r *PgxPositionRepository) ListPositionsByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Position, error) {
	query := `
		SELECT position_id, portfolio_id, currency_code, amount, side, created_at, last_updated_at
		FROM positions
		WHERE portfolio_id = $1
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions for portfolio %s: %w", portfolioID, err)
	}
	defer rows.Close()

	positions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Position, error) {
		var position domain.Position
		var side string
		err := row.Scan(
			&position.PositionID,
			&position.PortfolioID,
			&position.CurrencyCode,
			&position.Amount,
			&side,
			&position.CreatedAt,
			&position.LastUpdatedAt,
		)
		position.Side = domain.PositionSide(side)
		return position, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect positions: %w", err)
	}

	return positions, nil
}

// UpdatePosition updates an existing position's currency, amount and side.
func (r *PgxPositionRepository) UpdatePosition(ctx context.Context, position domain.Position) error {
	query := `
		UPDATE positions
		SET currency_code = $2, amount = $3, side = $4, last_updated_at = $5
		WHERE position_id = $1;
	`

	tag, err := r.pool.Exec(ctx, query,
		position.PositionID,
		position.CurrencyCode,
		position.Amount,
		string(position.Side),
		position.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update position %s: %w", position.PositionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeletePosition removes a position.
func (r *PgxPositionRepository) DeletePosition(ctx context.Context, positionID string) error {
	query := `DELETE FROM positions WHERE position_id = $1;`

	tag, err := r.pool.Exec(ctx, query, positionID)
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", positionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
