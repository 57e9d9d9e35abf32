package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock FxRateWriter ---
type MockFxRateWriter struct {
	mock.Mock
}

func (m *MockFxRateWriter) UpsertRate(ctx context.Context, rate domain.FxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func TestRateStoreService_PersistSnapshot(t *testing.T) {
	ctx := context.Background()
	writer := new(MockFxRateWriter)

	rows := make([]domain.FxRate, 0)
	writer.On("UpsertRate", ctx, mock.AnythingOfType("domain.FxRate")).
		Run(func(args mock.Arguments) {
			rows = append(rows, args.Get(1).(domain.FxRate))
		}).Return(nil)

	snapshot := domain.RateSnapshot{
		BaseCurrency: "USD",
		Source:       "exchange",
		Timestamp:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Rates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("0.9"),
			"GBP": decimal.RequireFromString("0.78"),
		},
	}

	svc := services.NewRateStoreService(writer)
	require.NoError(t, svc.PersistSnapshot(ctx, snapshot))

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "USD", row.BaseCurrencyCode)
		assert.Equal(t, "exchange", row.Source)
		assert.Equal(t, snapshot.Timestamp, row.Timestamp)
		assert.NotEmpty(t, row.FxRateID)
	}
}

func TestRateStoreService_PersistSnapshot_WriteFailure(t *testing.T) {
	ctx := context.Background()
	writer := new(MockFxRateWriter)
	writer.On("UpsertRate", ctx, mock.AnythingOfType("domain.FxRate")).Return(assert.AnError)

	snapshot := domain.RateSnapshot{
		BaseCurrency: "USD",
		Source:       "exchange",
		Timestamp:    time.Now().UTC(),
		Rates:        map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")},
	}

	svc := services.NewRateStoreService(writer)
	err := svc.PersistSnapshot(ctx, snapshot)
	require.Error(t, err)
}
