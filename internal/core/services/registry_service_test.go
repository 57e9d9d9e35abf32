package services_test

import (
	"context"
	"testing"

	"github.com/fxrisk/fx_risk_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryService_UpdateAndIsAllowed(t *testing.T) {
	registry := services.NewRegistryService(nil)

	registry.Update("usd", " eur ", "")

	assert.True(t, registry.IsAllowed("USD"))
	assert.True(t, registry.IsAllowed("eur"))
	assert.False(t, registry.IsAllowed("GBP"))
	assert.False(t, registry.IsAllowed(""))
	assert.Equal(t, []string{"EUR", "USD"}, registry.Codes())
}

func TestRegistryService_ReloadReplacesContents(t *testing.T) {
	repo := new(MockCurrencyRepository)
	repo.On("ListCurrencyCodes", context.Background()).Return([]string{"gbp", "JPY"}, nil).Once()

	registry := services.NewRegistryService(repo)
	registry.Update("USD")

	require.NoError(t, registry.Reload(context.Background()))

	assert.False(t, registry.IsAllowed("USD"))
	assert.Equal(t, []string{"GBP", "JPY"}, registry.Codes())
}
