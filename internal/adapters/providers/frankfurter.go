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

// ProviderECB is the registered name of the Frankfurter (ECB) provider.
const ProviderECB = "ecb"

// frankfurterProvider fetches ECB reference rates via the Frankfurter API.
// Frankfurter always quotes against the canonical base, so snapshots for a
// different base are rebased locally before being returned.
type frankfurterProvider struct {
	client        *apiClient
	registry      portssvc.CurrencyRegistrySvc
	canonicalBase string
}

// NewFrankfurterProvider creates a Frankfurter backed provider quoting
// against canonicalBase upstream.
func NewFrankfurterProvider(config ClientConfig, registry portssvc.CurrencyRegistrySvc, canonicalBase string) portsprov.RateProvider {
	return &frankfurterProvider{
		client:        newAPIClient(config),
		registry:      registry,
		canonicalBase: strings.ToUpper(strings.TrimSpace(canonicalBase)),
	}
}

var _ portsprov.RateProvider = (*frankfurterProvider)(nil)

func (p *frankfurterProvider) Name() string {
	return ProviderECB
}

type frankfurterLatestPayload struct {
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type frankfurterRangePayload struct {
	Rates map[string]map[string]decimal.Decimal `json:"rates"`
}

// GetLatest fetches the latest ECB rates and re-expresses them against the
// requested base.
func (p *frankfurterProvider) GetLatest(ctx context.Context, base string) (domain.RateSnapshot, error) {
	targetBase, err := p.ensureSupported(base)
	if err != nil {
		return domain.RateSnapshot{}, err
	}

	query := url.Values{}
	query.Set("from", p.canonicalBase)
	if targets := p.allowedSymbols(p.canonicalBase); targets != "" {
		query.Set("to", targets)
	}

	var payload frankfurterLatestPayload
	if err := p.client.getJSON(ctx, "/latest", query, &payload); err != nil {
		return domain.RateSnapshot{}, err
	}

	timestamp, err := parseProviderDate(payload.Date)
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("%w: unexpected response payload from Frankfurter: %v", apperrors.ErrProvider, err)
	}

	rates := normalizeRateMap(payload.Rates)
	rates[p.canonicalBase] = decimal.NewFromInt(1)

	snapshotRates, err := p.transformRates(rates, targetBase, false)
	if err != nil {
		return domain.RateSnapshot{}, err
	}

	snapshot, err := fx.NewSnapshot(targetBase, ProviderECB, timestamp, snapshotRates)
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
	}
	return snapshot, nil
}

// GetHistory fetches a date-range series for base/symbol, rebasing each day's
// ECB table to the requested base.
func (p *frankfurterProvider) GetHistory(ctx context.Context, base, symbol string, days int) (domain.RateHistorySeries, error) {
	if days <= 0 {
		return domain.RateHistorySeries{}, fmt.Errorf("%w: 'days' must be a positive integer", apperrors.ErrValidation)
	}

	baseCurrency, err := p.ensureSupported(base)
	if err != nil {
		return domain.RateHistorySeries{}, err
	}
	quoteCurrency, err := p.ensureSupported(symbol)
	if err != nil {
		return domain.RateHistorySeries{}, err
	}

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -(days - 1))

	targets := make([]string, 0, 2)
	for _, code := range []string{baseCurrency, quoteCurrency} {
		if code != p.canonicalBase {
			targets = append(targets, code)
		}
	}
	sort.Strings(targets)

	query := url.Values{}
	query.Set("from", p.canonicalBase)
	if len(targets) > 0 {
		query.Set("to", strings.Join(dedupe(targets), ","))
	}

	path := startDate.Format("2006-01-02") + ".." + endDate.Format("2006-01-02")
	var payload frankfurterRangePayload
	if err := p.client.getJSON(ctx, path, query, &payload); err != nil {
		return domain.RateHistorySeries{}, err
	}

	points := make([]domain.RatePoint, 0, len(payload.Rates))
	for dateStr, rateMap := range payload.Rates {
		dayRates := normalizeRateMap(rateMap)
		dayRates[p.canonicalBase] = decimal.NewFromInt(1)

		rebased, err := p.transformRates(dayRates, baseCurrency, true)
		if err != nil {
			continue
		}
		rate, ok := rebased[quoteCurrency]
		if !ok {
			continue
		}
		timestamp, err := parseProviderDate(dateStr)
		if err != nil {
			continue
		}
		points = append(points, domain.RatePoint{Timestamp: timestamp, Rate: rate})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })

	return domain.RateHistorySeries{
		BaseCurrency:  baseCurrency,
		QuoteCurrency: quoteCurrency,
		Source:        ProviderECB,
		Points:        points,
	}, nil
}

// transformRates re-expresses a canonical-base rate table against targetBase.
// The target base's own entry is dropped unless includeBase is set.
func (p *frankfurterProvider) transformRates(rates map[string]decimal.Decimal, targetBase string, includeBase bool) (map[string]decimal.Decimal, error) {
	if targetBase == p.canonicalBase {
		result := make(map[string]decimal.Decimal, len(rates))
		for code, value := range rates {
			if code == p.canonicalBase && !includeBase {
				continue
			}
			result[code] = value
		}
		return result, nil
	}

	rebased, err := fx.RebaseRates(rates, targetBase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
	}
	if !includeBase {
		delete(rebased, targetBase)
	}
	return rebased, nil
}

func (p *frankfurterProvider) ensureSupported(code string) (string, error) {
	normalized, err := fx.NormalizeCurrency(code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
	}
	if normalized == p.canonicalBase {
		return normalized, nil
	}
	if !p.registry.IsAllowed(normalized) {
		return "", fmt.Errorf("%w: currency %q is not supported by the registry", apperrors.ErrProvider, normalized)
	}
	return normalized, nil
}

func (p *frankfurterProvider) allowedSymbols(exclude string) string {
	codes := p.registry.Codes()
	filtered := make([]string, 0, len(codes))
	for _, code := range codes {
		if code != exclude {
			filtered = append(filtered, code)
		}
	}
	return strings.Join(filtered, ",")
}

func normalizeRateMap(rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, value := range rates {
		normalized[strings.ToUpper(code)] = value
	}
	return normalized
}

func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
