package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/fx"
	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	// Display precision for view-base amounts and native position aggregates.
	amountPlaces = 2
	nativePlaces = 4

	maxSeriesDays = 365
)

var (
	shockPctMin = decimal.NewFromInt(-10)
	shockPctMax = decimal.NewFromInt(10)
)

// metricsService is the portfolio valuation engine. Every operation shares
// one rate-resolution pipeline: load the latest persisted snapshot for the
// canonical base, build an effective "view-base units per unit of currency"
// table, then price each position through the fx kernel while tracking what
// could not be priced and why.
type metricsService struct {
	BaseService
	portfolioRepo portsrepo.PortfolioReader
	positionRepo  portsrepo.PositionReader
	fxRateRepo    portsrepo.FxRateReader
	registry      portssvc.CurrencyRegistrySvc
	canonicalBase string
}

// NewMetricsService creates the valuation engine. canonicalBase is the
// currency all persisted rates are quoted against.
func NewMetricsService(
	portfolioRepo portsrepo.PortfolioReader,
	positionRepo portsrepo.PositionReader,
	fxRateRepo portsrepo.FxRateReader,
	registry portssvc.CurrencyRegistrySvc,
	canonicalBase string,
) portssvc.PortfolioMetricsSvc {
	return &metricsService{
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
		fxRateRepo:    fxRateRepo,
		registry:      registry,
		canonicalBase: canonicalBase,
	}
}

var _ portssvc.PortfolioMetricsSvc = (*metricsService)(nil)

// positionOutcome is the result of pricing one position: either a priced
// signed amount pair, or a reason+currency for the unpriced map. Outcomes are
// folded into totals by the callers, keeping accumulation free of shared
// mutable state.
type positionOutcome struct {
	Priced       bool
	Currency     string
	Reason       string
	BaseAmount   decimal.Decimal // signed, view base
	NativeAmount decimal.Decimal // signed, native currency
}

// reasonAccumulator collects unpriced currencies per reason code.
type reasonAccumulator map[string]map[string]struct{}

func newReasonAccumulator() reasonAccumulator {
	return make(reasonAccumulator)
}

func (r reasonAccumulator) add(reason, currencyCode string) {
	if currencyCode == "" {
		return
	}
	set, ok := r[reason]
	if !ok {
		set = make(map[string]struct{})
		r[reason] = set
	}
	set[currencyCode] = struct{}{}
}

func (r reasonAccumulator) serialize() domain.UnpricedReasons {
	out := make(domain.UnpricedReasons, len(r))
	for reason, set := range r {
		if len(set) == 0 {
			continue
		}
		codes := make([]string, 0, len(set))
		for code := range set {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		out[reason] = codes
	}
	return out
}

// CalculatePortfolioValue computes the aggregate portfolio value in the
// requested view base currency.
func (s *metricsService) CalculatePortfolioValue(ctx context.Context, portfolioID string, viewBase string) (*domain.PortfolioValueResult, error) {
	portfolio, portfolioBase, resolvedViewBase, positions, err := s.loadPortfolioContext(ctx, portfolioID, viewBase)
	if err != nil {
		return nil, err
	}

	result := &domain.PortfolioValueResult{
		PortfolioID:     portfolio.PortfolioID,
		PortfolioBase:   portfolioBase,
		ViewBase:        resolvedViewBase,
		Value:           fx.QuantizeAmount(decimal.Zero, amountPlaces),
		UnpricedReasons: domain.UnpricedReasons{},
	}

	if len(positions) == 0 {
		return result, nil
	}

	ratesMap, asOf, err := s.fxRateRepo.FindLatestRates(ctx, s.canonicalBase)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest rates: %w", err)
	}

	if asOf == nil || len(ratesMap) == 0 {
		result.Unpriced = len(positions)
		result.UnpricedReasons = allMissingRate(positions)
		return result, nil
	}

	effectiveRates, err := s.ratesInViewBase(ratesMap, resolvedViewBase, asOf)
	if err != nil {
		return nil, err
	}

	outcomes, err := s.pricePositions(positions, resolvedViewBase, effectiveRates)
	if err != nil {
		return nil, err
	}
	total, priced, unpriced, reasons := foldValue(outcomes)

	result.Value = fx.QuantizeAmount(total, amountPlaces)
	result.Priced = priced
	result.Unpriced = unpriced
	result.UnpricedReasons = reasons.serialize()
	asOfUTC := asOf.UTC()
	result.AsOf = &asOfUTC
	return result, nil
}

// CalculateCurrencyExposure groups priced positions by currency, tracking
// native-signed and view-base-converted totals per currency. Exposures sort
// descending by absolute view-base magnitude; a topN head collapses the tail
// into a synthetic OTHER bucket.
func (s *metricsService) CalculateCurrencyExposure(ctx context.Context, portfolioID string, topN int, viewBase string) (*domain.PortfolioExposureResult, error) {
	portfolio, portfolioBase, resolvedViewBase, positions, err := s.loadPortfolioContext(ctx, portfolioID, viewBase)
	if err != nil {
		return nil, err
	}

	result := &domain.PortfolioExposureResult{
		PortfolioID:     portfolio.PortfolioID,
		PortfolioBase:   portfolioBase,
		ViewBase:        resolvedViewBase,
		Exposures:       []domain.CurrencyExposure{},
		UnpricedReasons: domain.UnpricedReasons{},
	}

	if len(positions) == 0 {
		return result, nil
	}

	ratesMap, asOf, err := s.fxRateRepo.FindLatestRates(ctx, s.canonicalBase)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest rates: %w", err)
	}

	if asOf == nil || len(ratesMap) == 0 {
		result.Unpriced = len(positions)
		result.UnpricedReasons = allMissingRate(positions)
		return result, nil
	}

	effectiveRates, err := s.ratesInViewBase(ratesMap, resolvedViewBase, asOf)
	if err != nil {
		return nil, err
	}

	outcomes, err := s.pricePositions(positions, resolvedViewBase, effectiveRates)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		native decimal.Decimal
		base   decimal.Decimal
	}
	totals := make(map[string]*bucket)
	order := make([]string, 0)
	priced := 0
	unpriced := 0
	reasons := newReasonAccumulator()

	for _, outcome := range outcomes {
		if !outcome.Priced {
			unpriced++
			reasons.add(outcome.Reason, outcome.Currency)
			continue
		}
		priced++
		b, ok := totals[outcome.Currency]
		if !ok {
			b = &bucket{native: decimal.Zero, base: decimal.Zero}
			totals[outcome.Currency] = b
			order = append(order, outcome.Currency)
		}
		b.native = b.native.Add(outcome.NativeAmount)
		b.base = b.base.Add(outcome.BaseAmount)
	}

	exposures := make([]domain.CurrencyExposure, 0, len(order))
	for _, code := range order {
		exposures = append(exposures, domain.CurrencyExposure{
			CurrencyCode:   code,
			NetNative:      fx.QuantizeAmount(totals[code].native, nativePlaces),
			BaseEquivalent: fx.QuantizeAmount(totals[code].base, amountPlaces),
		})
	}
	sort.SliceStable(exposures, func(i, j int) bool {
		return exposures[i].BaseEquivalent.Abs().GreaterThan(exposures[j].BaseEquivalent.Abs())
	})

	if topN > 0 && len(exposures) > topN {
		head := exposures[:topN]
		tail := exposures[topN:]
		otherNative := decimal.Zero
		otherBase := decimal.Zero
		for _, item := range tail {
			otherNative = otherNative.Add(item.NetNative)
			otherBase = otherBase.Add(item.BaseEquivalent)
		}
		// OTHER's native total mixes currencies; display convenience only.
		head = append(head, domain.CurrencyExposure{
			CurrencyCode:   "OTHER",
			NetNative:      fx.QuantizeAmount(otherNative, nativePlaces),
			BaseEquivalent: fx.QuantizeAmount(otherBase, amountPlaces),
		})
		exposures = head
	}

	result.Exposures = exposures
	result.Priced = priced
	result.Unpriced = unpriced
	result.UnpricedReasons = reasons.serialize()
	asOfUTC := asOf.UTC()
	result.AsOf = &asOfUTC
	return result, nil
}

// CalculateDailyPnL computes portfolio value under the two most recent
// distinct rate timestamps independently and diffs them. With only one
// timestamp available, value_previous is nil and pnl equals value_current.
func (s *metricsService) CalculateDailyPnL(ctx context.Context, portfolioID string, viewBase string) (*domain.PortfolioDailyPnLResult, error) {
	portfolio, portfolioBase, resolvedViewBase, positions, err := s.loadPortfolioContext(ctx, portfolioID, viewBase)
	if err != nil {
		return nil, err
	}

	zero := fx.QuantizeAmount(decimal.Zero, amountPlaces)
	result := &domain.PortfolioDailyPnLResult{
		PortfolioID:             portfolio.PortfolioID,
		PortfolioBase:           portfolioBase,
		ViewBase:                resolvedViewBase,
		PnL:                     zero,
		ValueCurrent:            zero,
		UnpricedReasonsCurrent:  domain.UnpricedReasons{},
		UnpricedReasonsPrevious: domain.UnpricedReasons{},
	}

	if len(positions) == 0 {
		return result, nil
	}

	latestTS, previousTS, err := s.fxRateRepo.FindLatestTwoTimestamps(ctx, s.canonicalBase)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate timestamps: %w", err)
	}

	if latestTS == nil {
		result.UnpricedCurrent = len(positions)
		result.UnpricedPrevious = len(positions)
		result.UnpricedReasonsCurrent = allMissingRate(positions)
		result.UnpricedReasonsPrevious = allMissingRate(positions)
		return result, nil
	}

	latestRates, err := s.fxRateRepo.FindRatesForTimestamp(ctx, s.canonicalBase, *latestTS)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates for latest timestamp: %w", err)
	}

	latestUTC := latestTS.UTC()
	result.AsOf = &latestUTC

	if len(latestRates) == 0 {
		result.UnpricedCurrent = len(positions)
		result.UnpricedPrevious = len(positions)
		result.UnpricedReasonsCurrent = allMissingRate(positions)
		result.UnpricedReasonsPrevious = allMissingRate(positions)
		return result, nil
	}

	effectiveLatest, err := s.ratesInViewBase(latestRates, resolvedViewBase, latestTS)
	if err != nil {
		return nil, err
	}
	currentOutcomes, err := s.pricePositions(positions, resolvedViewBase, effectiveLatest)
	if err != nil {
		return nil, err
	}
	valueCurrent, pricedCurrent, unpricedCurrent, reasonsCurrent := foldValue(currentOutcomes)

	result.ValueCurrent = fx.QuantizeAmount(valueCurrent, amountPlaces)
	result.PricedCurrent = pricedCurrent
	result.UnpricedCurrent = unpricedCurrent
	result.UnpricedReasonsCurrent = reasonsCurrent.serialize()

	if previousTS == nil {
		// No prior to diff against.
		result.PnL = result.ValueCurrent
		result.UnpricedPrevious = len(positions)
		result.UnpricedReasonsPrevious = allMissingRate(positions)
		return result, nil
	}

	previousRates, err := s.fxRateRepo.FindRatesForTimestamp(ctx, s.canonicalBase, *previousTS)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates for previous timestamp: %w", err)
	}

	previousUTC := previousTS.UTC()
	result.PrevDate = &previousUTC

	if len(previousRates) == 0 {
		result.PnL = result.ValueCurrent
		result.UnpricedPrevious = len(positions)
		result.UnpricedReasonsPrevious = allMissingRate(positions)
		return result, nil
	}

	effectivePrevious, err := s.ratesInViewBase(previousRates, resolvedViewBase, previousTS)
	if err != nil {
		return nil, err
	}
	previousOutcomes, err := s.pricePositions(positions, resolvedViewBase, effectivePrevious)
	if err != nil {
		return nil, err
	}
	valuePrevious, pricedPrevious, unpricedPrevious, reasonsPrevious := foldValue(previousOutcomes)

	quantizedPrevious := fx.QuantizeAmount(valuePrevious, amountPlaces)
	result.ValuePrevious = &quantizedPrevious
	result.PricedPrevious = pricedPrevious
	result.UnpricedPrevious = unpricedPrevious
	result.UnpricedReasonsPrevious = reasonsPrevious.serialize()
	result.PnL = fx.QuantizeAmount(result.ValueCurrent.Sub(quantizedPrevious), amountPlaces)

	return result, nil
}

// CalculatePortfolioValueSeries values the portfolio once per distinct
// calendar day over the requested window, favoring the latest timestamp
// within each day and skipping days where nothing was priced.
func (s *metricsService) CalculatePortfolioValueSeries(ctx context.Context, portfolioID string, viewBase string, days int) (*domain.PortfolioValueSeriesResult, error) {
	if days < 1 || days > maxSeriesDays {
		return nil, fmt.Errorf("%w: 'days' must be between 1 and %d", apperrors.ErrValidation, maxSeriesDays)
	}

	portfolio, portfolioBase, resolvedViewBase, positions, err := s.loadPortfolioContext(ctx, portfolioID, viewBase)
	if err != nil {
		return nil, err
	}

	result := &domain.PortfolioValueSeriesResult{
		PortfolioID:   portfolio.PortfolioID,
		PortfolioBase: portfolioBase,
		ViewBase:      resolvedViewBase,
		Series:        []domain.PortfolioValueSeriesPoint{},
	}

	if len(positions) == 0 {
		return result, nil
	}

	timestamps, err := s.recentDailyTimestamps(ctx, days)
	if err != nil {
		return nil, err
	}
	if len(timestamps) == 0 {
		return result, nil
	}

	for _, timestamp := range timestamps {
		ratesMap, err := s.fxRateRepo.FindRatesForTimestamp(ctx, s.canonicalBase, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to load rates for %s: %w", timestamp.Format(time.RFC3339), err)
		}
		if len(ratesMap) == 0 {
			continue
		}

		effectiveRates, err := s.ratesInViewBase(ratesMap, resolvedViewBase, &timestamp)
		if err != nil {
			return nil, err
		}
		outcomes, err := s.pricePositions(positions, resolvedViewBase, effectiveRates)
		if err != nil {
			return nil, err
		}
		value, priced, _, _ := foldValue(outcomes)
		if priced == 0 {
			continue
		}

		day := timestamp.UTC().Truncate(24 * time.Hour)
		result.Series = append(result.Series, domain.PortfolioValueSeriesPoint{
			Date:  day,
			Value: fx.QuantizeAmount(value, amountPlaces),
		})
	}

	return result, nil
}

// SimulateCurrencyShock evaluates the impact of a single-currency shock on
// portfolio value. The book must be fully priced both before and after the
// shock; partial pricing fails the simulation.
func (s *metricsService) SimulateCurrencyShock(ctx context.Context, portfolioID string, currency string, shockPct decimal.Decimal, viewBase string) (*domain.PortfolioWhatIfResult, error) {
	portfolio, portfolioBase, resolvedViewBase, positions, err := s.loadPortfolioContext(ctx, portfolioID, viewBase)
	if err != nil {
		return nil, err
	}

	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: portfolio has no positions to simulate", apperrors.ErrValidation)
	}

	shockedCurrency, err := fx.NormalizeCurrency(currency)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid shock currency %q", apperrors.ErrValidation, currency)
	}

	if shockPct.LessThan(shockPctMin) || shockPct.GreaterThan(shockPctMax) {
		return nil, fmt.Errorf("%w: 'shock_pct' must be between -10 and 10", apperrors.ErrValidation)
	}
	shockFactor := decimal.NewFromInt(1).Add(shockPct.Div(decimal.NewFromInt(100)))

	ratesMap, asOf, err := s.fxRateRepo.FindLatestRates(ctx, s.canonicalBase)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest rates: %w", err)
	}
	if asOf == nil || len(ratesMap) == 0 {
		return nil, fmt.Errorf("%w: FX rates are unavailable for simulation", apperrors.ErrValidation)
	}

	effectiveRates, err := s.ratesInViewBase(ratesMap, resolvedViewBase, asOf)
	if err != nil {
		return nil, err
	}

	baselineOutcomes, err := s.pricePositions(positions, resolvedViewBase, effectiveRates)
	if err != nil {
		return nil, err
	}
	currentValue, _, unpriced, reasons := foldValue(baselineOutcomes)
	if unpriced > 0 {
		return nil, fmt.Errorf("%w: unable to price all positions with current FX rates (%d unpriced: %v)", apperrors.ErrValidation, unpriced, reasons.serialize())
	}

	if _, ok := effectiveRates[shockedCurrency]; !ok {
		return nil, fmt.Errorf("%w: missing FX rate for currency %q", apperrors.ErrValidation, shockedCurrency)
	}

	shockedRates := make(map[string]decimal.Decimal, len(effectiveRates))
	for code, value := range effectiveRates {
		if code == shockedCurrency {
			shockedRates[code] = value.Mul(shockFactor)
		} else {
			shockedRates[code] = value
		}
	}

	shockedOutcomes, err := s.pricePositions(positions, resolvedViewBase, shockedRates)
	if err != nil {
		return nil, err
	}
	newValue, _, unpricedNew, reasonsNew := foldValue(shockedOutcomes)
	if unpricedNew > 0 {
		return nil, fmt.Errorf("%w: unable to price all positions with shocked FX rates (%d unpriced: %v)", apperrors.ErrValidation, unpricedNew, reasonsNew.serialize())
	}

	s.LogInfo(ctx, "Currency shock simulated",
		slog.String("portfolio_id", portfolio.PortfolioID),
		slog.String("currency", shockedCurrency),
		slog.String("shock_pct", shockPct.String()))

	asOfUTC := asOf.UTC()
	return &domain.PortfolioWhatIfResult{
		PortfolioID:     portfolio.PortfolioID,
		PortfolioBase:   portfolioBase,
		ViewBase:        resolvedViewBase,
		ShockedCurrency: shockedCurrency,
		ShockPct:        shockPct,
		CurrentValue:    fx.QuantizeAmount(currentValue, amountPlaces),
		NewValue:        fx.QuantizeAmount(newValue, amountPlaces),
		DeltaValue:      fx.QuantizeAmount(newValue.Sub(currentValue), amountPlaces),
		AsOf:            &asOfUTC,
	}, nil
}

// loadPortfolioContext resolves the portfolio, its normalized base, the
// requested view base (portfolio base when empty), and its positions.
func (s *metricsService) loadPortfolioContext(ctx context.Context, portfolioID string, viewBase string) (*domain.Portfolio, string, string, []domain.Position, error) {
	portfolio, err := s.portfolioRepo.FindPortfolioByID(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", "", nil, fmt.Errorf("%w: portfolio %q", apperrors.ErrNotFound, portfolioID)
		}
		return nil, "", "", nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	portfolioBase, err := fx.NormalizeCurrency(portfolio.BaseCurrencyCode)
	if err != nil {
		return nil, "", "", nil, fmt.Errorf("%w: portfolio base currency %q", apperrors.ErrValidation, portfolio.BaseCurrencyCode)
	}

	resolvedViewBase := portfolioBase
	if viewBase != "" {
		resolvedViewBase, err = fx.NormalizeCurrency(viewBase)
		if err != nil {
			return nil, "", "", nil, fmt.Errorf("%w: invalid view base %q", apperrors.ErrValidation, viewBase)
		}
	}

	positions, err := s.positionRepo.ListPositionsByPortfolioID(ctx, portfolio.PortfolioID)
	if err != nil {
		return nil, "", "", nil, fmt.Errorf("failed to load positions: %w", err)
	}

	return portfolio, portfolioBase, resolvedViewBase, positions, nil
}

// ratesInViewBase builds the request-scoped effective rate table: "units of
// view base per unit of currency". Stored rates are "target units per one
// canonical unit", so the table is rebased when the view base differs from
// the canonical base, then inverted entry by entry.
func (s *metricsService) ratesInViewBase(ratesMap map[string]decimal.Decimal, viewBase string, asOf *time.Time) (map[string]decimal.Decimal, error) {
	canonicalNorm, err := fx.NormalizeCurrency(s.canonicalBase)
	if err != nil {
		return nil, err
	}
	viewNorm, err := fx.NormalizeCurrency(viewBase)
	if err != nil {
		return nil, err
	}

	normalized := make(map[string]decimal.Decimal, len(ratesMap)+1)
	for code, value := range ratesMap {
		normCode, err := fx.NormalizeCurrency(code)
		if err != nil {
			return nil, err
		}
		normalized[normCode] = value
	}
	if _, ok := normalized[canonicalNorm]; !ok {
		normalized[canonicalNorm] = decimal.NewFromInt(1)
	}

	if viewNorm != canonicalNorm {
		if _, ok := normalized[viewNorm]; !ok {
			return nil, missingViewBaseError(viewNorm, asOf)
		}
	}

	sourceRates := normalized
	if viewNorm != canonicalNorm {
		sourceRates, err = fx.RebaseRates(normalized, viewNorm)
		if err != nil {
			return nil, missingViewBaseError(viewNorm, asOf)
		}
	}

	basePerUnit := make(map[string]decimal.Decimal, len(sourceRates))
	for code, quote := range sourceRates {
		if code == viewNorm {
			basePerUnit[code] = decimal.NewFromInt(1)
			continue
		}
		if quote.IsZero() {
			continue
		}
		basePerUnit[code] = fx.Invert(quote)
	}

	return basePerUnit, nil
}

func missingViewBaseError(viewBase string, asOf *time.Time) error {
	if asOf != nil {
		return fmt.Errorf("%w: FX rates are unavailable for base %q as of %s", apperrors.ErrValidation, viewBase, asOf.UTC().Format(time.RFC3339))
	}
	return fmt.Errorf("%w: FX rates are unavailable for base %q", apperrors.ErrValidation, viewBase)
}

// pricePositions maps every position to an outcome. Positions never abort
// the batch: invalid or unknown currencies and missing rates become unpriced
// outcomes. Only an illegal side is a hard error.
func (s *metricsService) pricePositions(positions []domain.Position, viewBase string, rateLookup map[string]decimal.Decimal) ([]positionOutcome, error) {
	outcomes := make([]positionOutcome, 0, len(positions))

	for _, position := range positions {
		currency, err := fx.NormalizeCurrency(position.CurrencyCode)
		if err != nil {
			outcomes = append(outcomes, positionOutcome{
				Currency: bestEffortUpper(position.CurrencyCode),
				Reason:   domain.UnpricedReasonUnknownCurrency,
			})
			continue
		}

		if !s.registry.IsAllowed(currency) {
			outcomes = append(outcomes, positionOutcome{
				Currency: currency,
				Reason:   domain.UnpricedReasonUnknownCurrency,
			})
			continue
		}

		baseAmount, err := fx.ConvertPositionAmount(position.Amount, currency, viewBase, rateLookup, position.Side)
		if err != nil {
			if errors.Is(err, fx.ErrRebase) {
				outcomes = append(outcomes, positionOutcome{
					Currency: currency,
					Reason:   domain.UnpricedReasonMissingRate,
				})
				continue
			}
			return nil, fmt.Errorf("failed to convert position %s: %w", position.PositionID, err)
		}

		nativeAmount, err := fx.ConvertAmount(position.Amount, decimal.NewFromInt(1), position.Side)
		if err != nil {
			return nil, fmt.Errorf("failed to sign position %s: %w", position.PositionID, err)
		}

		outcomes = append(outcomes, positionOutcome{
			Priced:       true,
			Currency:     currency,
			BaseAmount:   baseAmount,
			NativeAmount: nativeAmount,
		})
	}

	return outcomes, nil
}

// foldValue reduces outcomes into a total, priced/unpriced counts, and the
// reason accumulator.
func foldValue(outcomes []positionOutcome) (decimal.Decimal, int, int, reasonAccumulator) {
	total := decimal.Zero
	priced := 0
	unpriced := 0
	reasons := newReasonAccumulator()

	for _, outcome := range outcomes {
		if !outcome.Priced {
			unpriced++
			reasons.add(outcome.Reason, outcome.Currency)
			continue
		}
		priced++
		total = total.Add(outcome.BaseAmount)
	}

	return total, priced, unpriced, reasons
}

// recentDailyTimestamps returns the most recent rate timestamp per distinct
// UTC calendar day, ascending, capped at days entries. The scan window is a
// bounded multiple of days to tolerate gaps in the rate history.
func (s *metricsService) recentDailyTimestamps(ctx context.Context, days int) ([]time.Time, error) {
	multiplier := days
	if multiplier < 3 {
		multiplier = 3
	}
	if multiplier > 10 {
		multiplier = 10
	}

	rows, err := s.fxRateRepo.FindRecentTimestamps(ctx, s.canonicalBase, days*multiplier)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent rate timestamps: %w", err)
	}

	seenDays := make(map[string]struct{})
	timestamps := make([]time.Time, 0, days)

	for _, raw := range rows {
		normalized := raw.UTC()
		dayKey := normalized.Format("2006-01-02")
		if _, ok := seenDays[dayKey]; ok {
			continue
		}
		seenDays[dayKey] = struct{}{}
		timestamps = append(timestamps, normalized)
		if len(timestamps) >= days {
			break
		}
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
	return timestamps, nil
}

// allMissingRate marks every position currency as unpriced for missing_rate.
func allMissingRate(positions []domain.Position) domain.UnpricedReasons {
	reasons := newReasonAccumulator()
	for _, position := range positions {
		reasons.add(domain.UnpricedReasonMissingRate, bestEffortUpper(position.CurrencyCode))
	}
	return reasons.serialize()
}

// bestEffortUpper reports the code as stored, uppercased, for unpriced
// reason maps even when normalization rejects it.
func bestEffortUpper(code string) string {
	normalized, err := fx.NormalizeCurrency(code)
	if err == nil {
		return normalized
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
