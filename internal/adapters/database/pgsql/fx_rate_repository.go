package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxFxRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgxFxRateRepository creates a new repository for FX rate data.
func NewPgxFxRateRepository(pool *pgxpool.Pool) portsrepo.FxRateRepositoryFacade {
	return &PgxFxRateRepository{pool: pool}
}

// UpsertRate inserts a rate row, updating the stored value when the
// (base, target, timestamp, source) key already exists.
func (r *PgxFxRateRepository) UpsertRate(ctx context.Context, rate domain.FxRate) error {
	query := `
		INSERT INTO fx_rates (fx_rate_id, base_currency_code, target_currency_code, rate, timestamp, source, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (base_currency_code, target_currency_code, timestamp, source) DO UPDATE SET
			rate = EXCLUDED.rate,
			last_updated_at = EXCLUDED.last_updated_at;
	`

	_, err := r.pool.Exec(ctx, query,
		rate.FxRateID,
		rate.BaseCurrencyCode,
		rate.TargetCurrencyCode,
		rate.Rate,
		rate.Timestamp,
		rate.Source,
		rate.CreatedAt,
		rate.LastUpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert rate %s/%s: %w", rate.BaseCurrencyCode, rate.TargetCurrencyCode, err)
	}
	return nil
}

// FindLatestRates returns the rate table at the most recent timestamp for the
// base, or a nil timestamp when no rates exist.
func (r *PgxFxRateRepository) FindLatestRates(ctx context.Context, base string) (map[string]decimal.Decimal, *time.Time, error) {
	// MAX over an empty set yields a NULL row, hence the pointer scan.
	var latest *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT MAX(timestamp) FROM fx_rates WHERE base_currency_code = $1;`, base,
	).Scan(&latest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return map[string]decimal.Decimal{}, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to query latest rate timestamp: %w", err)
	}
	if latest == nil {
		return map[string]decimal.Decimal{}, nil, nil
	}

	rates, err := r.FindRatesForTimestamp(ctx, base, *latest)
	if err != nil {
		return nil, nil, err
	}
	return rates, latest, nil
}

// FindRatesForTimestamp returns the rate table at an exact timestamp.
func (r *PgxFxRateRepository) FindRatesForTimestamp(ctx context.Context, base string, timestamp time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT target_currency_code, rate
		FROM fx_rates
		WHERE base_currency_code = $1 AND timestamp = $2
		ORDER BY last_updated_at;
	`
	rows, err := r.pool.Query(ctx, query, base, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for timestamp: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]decimal.Decimal)
	for rows.Next() {
		var code string
		var rate decimal.Decimal
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate row: %w", err)
		}
		rates[code] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rate rows: %w", err)
	}

	return rates, nil
}

// FindLatestTwoTimestamps returns the two most recent distinct rate
// timestamps for the base. Either value may be nil.
func (r *PgxFxRateRepository) FindLatestTwoTimestamps(ctx context.Context, base string) (*time.Time, *time.Time, error) {
	timestamps, err := r.FindRecentTimestamps(ctx, base, 2)
	if err != nil {
		return nil, nil, err
	}

	var latest, previous *time.Time
	if len(timestamps) > 0 {
		latest = &timestamps[0]
	}
	if len(timestamps) > 1 {
		previous = &timestamps[1]
	}
	return latest, previous, nil
}

// FindRecentTimestamps returns up to limit distinct timestamps for the base,
// newest first.
func (r *PgxFxRateRepository) FindRecentTimestamps(ctx context.Context, base string, limit int) ([]time.Time, error) {
	query := `
		SELECT DISTINCT timestamp
		FROM fx_rates
		WHERE base_currency_code = $1
		ORDER BY timestamp DESC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, base, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate timestamps: %w", err)
	}
	defer rows.Close()

	timestamps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (time.Time, error) {
		var timestamp time.Time
		err := row.Scan(&timestamp)
		return timestamp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect rate timestamps: %w", err)
	}

	return timestamps, nil
}
