package providers_test

import (
	"testing"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/adapters/providers"
	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factoryTestConfig() *config.Config {
	return &config.Config{
		RatesAPIBaseURL:    "http://rates.test",
		FrankfurterBaseURL: "http://ecb.test",
		RequestTimeout:     time.Second,
		FxCanonicalBase:    "USD",
	}
}

func TestNewProvider_BlankNameMeansNoProvider(t *testing.T) {
	provider, err := providers.NewProvider("   ", factoryTestConfig(), newTestRegistry())
	require.NoError(t, err)
	assert.Nil(t, provider)
}

func TestNewProvider_ResolvesNamesAndAliases(t *testing.T) {
	cfg := factoryTestConfig()
	registry := newTestRegistry()

	for _, name := range []string{
		providers.ProviderMock,
		providers.ProviderExchange,
		providers.ProviderECB,
		"exchangerate_host",
		"frankfurter_ecb",
		"  Mock  ",
	} {
		provider, err := providers.NewProvider(name, cfg, registry)
		require.NoError(t, err, name)
		assert.NotNil(t, provider, name)
	}
}

func TestNewProvider_UnknownName(t *testing.T) {
	_, err := providers.NewProvider("bloomberg", factoryTestConfig(), newTestRegistry())
	require.ErrorIs(t, err, apperrors.ErrProvider)
	assert.Contains(t, err.Error(), "bloomberg")
}
