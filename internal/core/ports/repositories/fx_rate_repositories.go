package repositories

import (
	"context"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FxRateReader defines the rate queries the valuation engine depends on.
type FxRateReader interface {
	// FindLatestRates returns the rate row set sharing the most recent
	// timestamp for the canonical base, as a target-code -> rate mapping,
	// along with that timestamp. A nil timestamp means no rates exist.
	FindLatestRates(ctx context.Context, canonicalBase string) (map[string]decimal.Decimal, *time.Time, error)

	// FindLatestTwoTimestamps returns the two most recent distinct rate
	// timestamps for the canonical base, newest first. Either may be nil.
	FindLatestTwoTimestamps(ctx context.Context, canonicalBase string) (*time.Time, *time.Time, error)

	// FindRatesForTimestamp returns the target-code -> rate mapping recorded
	// at exactly the given timestamp for the canonical base.
	FindRatesForTimestamp(ctx context.Context, canonicalBase string, timestamp time.Time) (map[string]decimal.Decimal, error)

	// FindRecentTimestamps returns up to limit most recent rate timestamps
	// for the canonical base, newest first.
	FindRecentTimestamps(ctx context.Context, canonicalBase string, limit int) ([]time.Time, error)
}

// FxRateWriter defines write operations for rate rows.
type FxRateWriter interface {
	// UpsertRate inserts a rate row, replacing any existing row with the same
	// (base, target, timestamp, source) key.
	UpsertRate(ctx context.Context, rate domain.FxRate) error
}

// FxRateRepositoryFacade combines all rate repository interfaces.
type FxRateRepositoryFacade interface {
	FxRateReader
	FxRateWriter
}
