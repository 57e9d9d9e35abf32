package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	portsprov "github.com/fxrisk/fx_risk_app/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// ProviderMock is the registered name of the deterministic mock provider.
const ProviderMock = "mock"

// mockProvider returns synthetic FX data for local development and testing.
type mockProvider struct{}

// NewMockProvider creates a deterministic provider with fixed rates.
func NewMockProvider() portsprov.RateProvider {
	return &mockProvider{}
}

var _ portsprov.RateProvider = (*mockProvider)(nil)

func (p *mockProvider) Name() string {
	return ProviderMock
}

// GetLatest returns a fixed snapshot against the given base.
func (p *mockProvider) GetLatest(_ context.Context, base string) (domain.RateSnapshot, error) {
	return domain.RateSnapshot{
		BaseCurrency: strings.ToUpper(strings.TrimSpace(base)),
		Source:       ProviderMock,
		Timestamp:    time.Now().UTC(),
		Rates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("0.90"),
			"GBP": decimal.RequireFromString("0.78"),
			"JPY": decimal.RequireFromString("150.12"),
		},
	}, nil
}

// GetHistory returns a linear series walking 0.01 per day back in time.
func (p *mockProvider) GetHistory(_ context.Context, base, symbol string, days int) (domain.RateHistorySeries, error) {
	if days <= 0 {
		return domain.RateHistorySeries{}, fmt.Errorf("%w: 'days' must be a positive integer", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	step := decimal.RequireFromString("0.01")
	points := make([]domain.RatePoint, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		points = append(points, domain.RatePoint{
			Timestamp: now.AddDate(0, 0, -offset),
			Rate:      decimal.NewFromInt(1).Add(step.Mul(decimal.NewFromInt(int64(offset)))),
		})
	}

	return domain.RateHistorySeries{
		BaseCurrency:  strings.ToUpper(strings.TrimSpace(base)),
		QuoteCurrency: strings.ToUpper(strings.TrimSpace(symbol)),
		Source:        ProviderMock,
		Points:        points,
	}, nil
}
