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

type PgxCurrencyRepository struct {
	pool *pgxpool.Pool
}

// NewPgxCurrencyRepository creates a new repository for currency data.
func NewPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{pool: pool}
}

// SaveCurrency inserts or updates a currency keyed by its code.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	query := `
		INSERT INTO currencies (currency_code, name, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (currency_code) DO UPDATE SET
			name = EXCLUDED.name,
			last_updated_at = EXCLUDED.last_updated_at;
	`

	_, err := r.pool.Exec(ctx, query,
		currency.CurrencyCode,
		currency.Name,
		currency.CreatedAt,
		currency.LastUpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save currency %s: %w", currency.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, name, created_at, last_updated_at
		FROM currencies
		WHERE currency_code = $1;
	`
	var currency domain.Currency
	err := r.pool.QueryRow(ctx, query, currencyCode).Scan(
		&currency.CurrencyCode,
		&currency.Name,
		&currency.CreatedAt,
		&currency.LastUpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}

	return &currency, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, name, created_at, last_updated_at
		FROM currencies
		ORDER BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Currency, error) {
		var currency domain.Currency
		err := row.Scan(
			&currency.CurrencyCode,
			&currency.Name,
			&currency.CreatedAt,
			&currency.LastUpdatedAt,
		)
		return currency, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect currencies: %w", err)
	}

	return currencies, nil
}

// ListCurrencyCodes retrieves all registered currency codes.
func (r *PgxCurrencyRepository) ListCurrencyCodes(ctx context.Context) ([]string, error) {
	query := `SELECT currency_code FROM currencies ORDER BY currency_code;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency codes: %w", err)
	}
	defer rows.Close()

	codes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var code string
		err := row.Scan(&code)
		return code, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect currency codes: %w", err)
	}

	return codes, nil
}
