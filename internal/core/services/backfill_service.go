package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/fx"
	portsprov "github.com/fxrisk/fx_risk_app/internal/core/ports/providers"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	maxBackfillDays = 365
	syntheticSource = "synthetic"
)

// backfillService loads historical rates through the configured providers,
// currency by currency. Providers that cannot serve a pair fall through to a
// synthetic flat series derived from the latest live rate, so a fresh install
// always ends up with enough history to chart.
type backfillService struct {
	BaseService
	orchestrator portssvc.RateOrchestratorSvc
	rateStore    portssvc.RateStoreSvc
	providers    []portsprov.RateProvider
}

// NewBackfillService creates a backfill service. providers are tried in order
// for each currency pair.
func NewBackfillService(
	orchestrator portssvc.RateOrchestratorSvc,
	rateStore portssvc.RateStoreSvc,
	providers ...portsprov.RateProvider,
) portssvc.BackfillSvc {
	active := make([]portsprov.RateProvider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			active = append(active, p)
		}
	}
	return &backfillService{
		orchestrator: orchestrator,
		rateStore:    rateStore,
		providers:    active,
	}
}

var _ portssvc.BackfillSvc = (*backfillService)(nil)

// RunBackfill fetches and persists up to days days of history for every
// currency present in a fresh snapshot of the base.
func (s *backfillService) RunBackfill(ctx context.Context, days int, baseCurrency string) error {
	if days < 1 || days > maxBackfillDays {
		return fmt.Errorf("%w: 'days' must be between 1 and %d", apperrors.ErrValidation, maxBackfillDays)
	}

	base, err := fx.NormalizeCurrency(baseCurrency)
	if err != nil {
		return fmt.Errorf("%w: invalid base currency %q", apperrors.ErrValidation, baseCurrency)
	}

	latest, err := s.orchestrator.RefreshLatest(ctx, base)
	if err != nil {
		return fmt.Errorf("failed to fetch reference snapshot for backfill: %w", err)
	}

	if err := s.rateStore.PersistSnapshot(ctx, latest); err != nil {
		return fmt.Errorf("failed to persist reference snapshot: %w", err)
	}

	for code, latestRate := range latest.Rates {
		if code == base {
			continue
		}

		series, ok := s.fetchHistory(ctx, base, code, days)
		if !ok {
			series = syntheticHistory(base, code, latestRate, days)
			s.LogWarn(ctx, "Using synthetic history",
				slog.String("base", base),
				slog.String("currency", code),
				slog.Int("days", days))
		}

		if err := s.persistSeries(ctx, series); err != nil {
			return fmt.Errorf("failed to persist history for %s/%s: %w", base, code, err)
		}
	}

	s.LogInfo(ctx, "Backfill completed",
		slog.String("base", base),
		slog.Int("days", days),
		slog.Int("currencies", len(latest.Rates)))
	return nil
}

func (s *backfillService) fetchHistory(ctx context.Context, base, symbol string, days int) (domain.RateHistorySeries, bool) {
	for _, provider := range s.providers {
		series, err := provider.GetHistory(ctx, base, symbol, days)
		if err != nil {
			s.LogWarn(ctx, "History provider failure",
				slog.String("provider", provider.Name()),
				slog.String("base", base),
				slog.String("currency", symbol),
				slog.String("error", err.Error()))
			continue
		}
		if len(series.Points) == 0 {
			continue
		}
		return series, true
	}
	return domain.RateHistorySeries{}, false
}

// persistSeries stores each history point as a one-rate snapshot so the
// (base, target, timestamp, source) upsert key applies uniformly.
func (s *backfillService) persistSeries(ctx context.Context, series domain.RateHistorySeries) error {
	for _, point := range series.Points {
		snapshot, err := fx.NewSnapshot(
			series.BaseCurrency,
			series.Source,
			point.Timestamp,
			map[string]decimal.Decimal{series.QuoteCurrency: point.Rate},
		)
		if err != nil {
			return err
		}
		if err := s.rateStore.PersistSnapshot(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// syntheticHistory repeats the latest observed rate once per day back in
// time, stamped at UTC midnight.
func syntheticHistory(base, symbol string, latestRate decimal.Decimal, days int) domain.RateHistorySeries {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]domain.RatePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		points = append(points, domain.RatePoint{
			Timestamp: today.AddDate(0, 0, -i),
			Rate:      latestRate,
		})
	}
	return domain.RateHistorySeries{
		BaseCurrency:  base,
		QuoteCurrency: symbol,
		Source:        syntheticSource,
		Points:        points,
	}
}
