package providers

import (
	"context"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
)

// RateProvider is the interface every upstream FX rate source implements.
// The orchestrator and backfill logic depend only on this abstraction.
type RateProvider interface {
	// Name identifies the provider in snapshots and logs.
	Name() string

	// GetLatest retrieves the most recent rates for the given base currency.
	// Failures are reported wrapped in apperrors.ErrProvider.
	GetLatest(ctx context.Context, base string) (domain.RateSnapshot, error)

	// GetHistory retrieves a timeseries for the given pair spanning days.
	GetHistory(ctx context.Context, base, symbol string, days int) (domain.RateHistorySeries, error)
}
