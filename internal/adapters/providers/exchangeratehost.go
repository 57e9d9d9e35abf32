package providers

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/fx"
	portsprov "github.com/fxrisk/fx_risk_app/internal/core/ports/providers"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ProviderExchange is the registered name of the ExchangeRate.host provider.
const ProviderExchange = "exchange"

// exchangeRateHostProvider fetches rates from the ExchangeRate.host API.
// Latest rates come from /latest quoted directly against the requested base;
// history comes from /timeseries keyed by date.
type exchangeRateHostProvider struct {
	client   *apiClient
	registry portssvc.CurrencyRegistrySvc
}

// NewExchangeRateHostProvider creates an ExchangeRate.host backed provider.
func NewExchangeRateHostProvider(config ClientConfig, registry portssvc.CurrencyRegistrySvc) portsprov.RateProvider {
	return &exchangeRateHostProvider{
		client:   newAPIClient(config),
		registry: registry,
	}
}

var _ portsprov.RateProvider = (*exchangeRateHostProvider)(nil)

func (p *exchangeRateHostProvider) Name() string {
	return ProviderExchange
}

type exchangeRateLatestPayload struct {
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type exchangeRateTimeseriesPayload struct {
	Rates map[string]map[string]decimal.Decimal `json:"rates"`
}

// GetLatest fetches the latest rates for base, restricted to the registry's
// allowed symbols.
func (p *exchangeRateHostProvider) GetLatest(ctx context.Context, base string) (domain.RateSnapshot, error) {
	baseCurrency, err := p.normalizeBase(base)
	if err != nil {
		return domain.RateSnapshot{}, err
	}

	query := url.Values{}
	query.Set("base", baseCurrency)
	query.Set("symbols", p.allowedSymbols(baseCurrency))

	var payload exchangeRateLatestPayload
	if err := p.client.getJSON(ctx, "/latest", query, &payload); err != nil {
		return domain.RateSnapshot{}, err
	}

	timestamp, err := parseProviderDate(payload.Date)
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("%w: unexpected response payload from ExchangeRate.host: %v", apperrors.ErrProvider, err)
	}

	snapshot, err := fx.NewSnapshot(baseCurrency, ProviderExchange, timestamp, payload.Rates)
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
	}
	return snapshot, nil
}

// GetHistory fetches a per-day rate series for base/symbol covering the last
// days days.
func (p *exchangeRateHostProvider) GetHistory(ctx context.Context, base, symbol string, days int) (domain.RateHistorySeries, error) {
	if days <= 0 {
		return domain.RateHistorySeries{}, fmt.Errorf("%w: 'days' must be a positive integer", apperrors.ErrValidation)
	}

	baseCurrency, err := p.normalizeBase(base)
	if err != nil {
		return domain.RateHistorySeries{}, err
	}
	quoteCurrency, err := fx.NormalizeCurrency(symbol)
	if err != nil {
		return domain.RateHistorySeries{}, fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
	}

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -(days - 1))

	query := url.Values{}
	query.Set("base", baseCurrency)
	query.Set("symbols", quoteCurrency)
	query.Set("start_date", startDate.Format("2006-01-02"))
	query.Set("end_date", endDate.Format("2006-01-02"))

	var payload exchangeRateTimeseriesPayload
	if err := p.client.getJSON(ctx, "/timeseries", query, &payload); err != nil {
		return domain.RateHistorySeries{}, err
	}

	points := make([]domain.RatePoint, 0, len(payload.Rates))
	for dateStr, rateMap := range payload.Rates {
		timestamp, err := parseProviderDate(dateStr)
		if err != nil {
			continue
		}
		rate, ok := rateMap[quoteCurrency]
		if !ok {
			continue
		}
		points = append(points, domain.RatePoint{Timestamp: timestamp, Rate: rate})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })

	return domain.RateHistorySeries{
		BaseCurrency:  baseCurrency,
		QuoteCurrency: quoteCurrency,
		Source:        ProviderExchange,
		Points:        points,
	}, nil
}

func (p *exchangeRateHostProvider) normalizeBase(base string) (string, error) {
	normalized, err := fx.NormalizeCurrency(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
	}
	if !p.registry.IsAllowed(normalized) {
		return "", fmt.Errorf("%w: base currency %q is not in the allowed currency registry", apperrors.ErrProvider, normalized)
	}
	return normalized, nil
}

func (p *exchangeRateHostProvider) allowedSymbols(exclude string) string {
	codes := p.registry.Codes()
	filtered := make([]string, 0, len(codes))
	for _, code := range codes {
		if code != exclude {
			filtered = append(filtered, code)
		}
	}
	return strings.Join(filtered, ",")
}

// parseProviderDate accepts either a bare date or a full RFC 3339 timestamp,
// normalizing to UTC.
func parseProviderDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
