package providers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fxrisk/fx_risk_app/internal/adapters/providers"
	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrankfurter_GetLatest_CanonicalBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/latest", r.URL.Path)
		require.Equal(t, "USD", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"date":"2026-08-30","rates":{"EUR":0.9,"GBP":0.78}}`))
	}))
	defer server.Close()

	provider := providers.NewFrankfurterProvider(fastClientConfig(server.URL), newTestRegistry(), "USD")

	snapshot, err := provider.GetLatest(context.Background(), "USD")
	require.NoError(t, err)

	assert.Equal(t, "USD", snapshot.BaseCurrency)
	assert.Equal(t, "ecb", snapshot.Source)
	assert.Equal(t, "0.9", snapshot.Rates["EUR"].String())
	// The canonical base's own entry is dropped from the snapshot.
	_, hasUSD := snapshot.Rates["USD"]
	assert.False(t, hasUSD)
}

func TestFrankfurter_GetLatest_RebasesToRequestedBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"date":"2026-08-30","rates":{"EUR":0.8,"GBP":0.5}}`))
	}))
	defer server.Close()

	provider := providers.NewFrankfurterProvider(fastClientConfig(server.URL), newTestRegistry(), "USD")

	snapshot, err := provider.GetLatest(context.Background(), "EUR")
	require.NoError(t, err)

	assert.Equal(t, "EUR", snapshot.BaseCurrency)
	assert.Equal(t, "1.25", snapshot.Rates["USD"].String())
	assert.Equal(t, "0.625", snapshot.Rates["GBP"].String())
	_, hasEUR := snapshot.Rates["EUR"]
	assert.False(t, hasEUR)
}

func TestFrankfurter_GetHistory_RebasesEachDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "USD", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates":{
			"2026-08-29":{"EUR":0.8,"GBP":0.5},
			"2026-08-30":{"EUR":0.9,"GBP":0.6}
		}}`))
	}))
	defer server.Close()

	provider := providers.NewFrankfurterProvider(fastClientConfig(server.URL), newTestRegistry(), "USD")

	series, err := provider.GetHistory(context.Background(), "EUR", "GBP", 2)
	require.NoError(t, err)

	require.Len(t, series.Points, 2)
	assert.Equal(t, "EUR", series.BaseCurrency)
	assert.Equal(t, "GBP", series.QuoteCurrency)
	// Day one: GBP per EUR = 0.5 / 0.8 = 0.625
	assert.Equal(t, "0.625", series.Points[0].Rate.String())
	assert.True(t, series.Points[0].Timestamp.Before(series.Points[1].Timestamp))
}

func TestFrankfurter_GetLatest_UnsupportedBase(t *testing.T) {
	provider := providers.NewFrankfurterProvider(fastClientConfig("http://127.0.0.1:0"), newTestRegistry(), "USD")

	_, err := provider.GetLatest(context.Background(), "XXX")
	assert.ErrorIs(t, err, apperrors.ErrProvider)
}
