package services

import (
	"context"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PortfolioMetricsSvc computes valuation metrics for a portfolio. All
// operations are read-only and safe to run concurrently.
type PortfolioMetricsSvc interface {
	// CalculatePortfolioValue sums all priced positions' signed converted
	// amounts in the requested view base (portfolio base when empty).
	CalculatePortfolioValue(ctx context.Context, portfolioID string, viewBase string) (*domain.PortfolioValueResult, error)

	// CalculateCurrencyExposure groups priced positions by currency. When
	// topN > 0 and more currencies remain, the tail collapses into a
	// synthetic OTHER bucket.
	CalculateCurrencyExposure(ctx context.Context, portfolioID string, topN int, viewBase string) (*domain.PortfolioExposureResult, error)

	// CalculateDailyPnL diffs portfolio value under the two most recent
	// distinct rate timestamps.
	CalculateDailyPnL(ctx context.Context, portfolioID string, viewBase string) (*domain.PortfolioDailyPnLResult, error)

	// CalculatePortfolioValueSeries values the portfolio once per distinct
	// calendar day over the requested window (1..365 days).
	CalculatePortfolioValueSeries(ctx context.Context, portfolioID string, viewBase string, days int) (*domain.PortfolioValueSeriesResult, error)

	// SimulateCurrencyShock perturbs one currency's effective rate by
	// shockPct percent (within ±10) and recomputes portfolio value.
	SimulateCurrencyShock(ctx context.Context, portfolioID string, currency string, shockPct decimal.Decimal, viewBase string) (*domain.PortfolioWhatIfResult, error)
}
