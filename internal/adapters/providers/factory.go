package providers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	portsprov "github.com/fxrisk/fx_risk_app/internal/core/ports/providers"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/pkg/config"
)

// Legacy configuration values accepted for the current provider names.
var providerAliases = map[string]string{
	"exchangerate_host": ProviderExchange,
	"frankfurter_ecb":   ProviderECB,
}

// NewProvider instantiates a rate provider by name. A blank name means no
// provider is configured and yields a nil provider without error, so the
// fallback slot can be left empty. Unknown names list the available providers
// in the error.
func NewProvider(name string, cfg *config.Config, registry portssvc.CurrencyRegistrySvc) (portsprov.RateProvider, error) {
	resolved := strings.ToLower(strings.TrimSpace(name))
	if resolved == "" {
		return nil, nil
	}
	if alias, ok := providerAliases[resolved]; ok {
		resolved = alias
	}

	switch resolved {
	case ProviderMock:
		return NewMockProvider(), nil
	case ProviderExchange:
		return NewExchangeRateHostProvider(ClientConfig{
			BaseURL:       cfg.RatesAPIBaseURL,
			Timeout:       cfg.RequestTimeout,
			MaxRetries:    cfg.RatesAPIMaxRetries,
			Backoff:       cfg.RatesAPIBackoff,
			BackoffJitter: cfg.ProviderBackoffJitter,
		}, registry), nil
	case ProviderECB:
		return NewFrankfurterProvider(ClientConfig{
			BaseURL:       cfg.FrankfurterBaseURL,
			Timeout:       cfg.RequestTimeout,
			MaxRetries:    cfg.FrankfurterRetries,
			Backoff:       cfg.FrankfurterBackoff,
			BackoffJitter: cfg.ProviderBackoffJitter,
		}, registry, cfg.FxCanonicalBase), nil
	}

	available := []string{ProviderECB, ProviderExchange, ProviderMock}
	sort.Strings(available)
	return nil, fmt.Errorf("%w: unknown provider %q, available providers: %s",
		apperrors.ErrProvider, name, strings.Join(available, ", "))
}
