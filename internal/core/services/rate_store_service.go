package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// rateStoreService persists provider snapshots into the fx_rates table.
type rateStoreService struct {
	BaseService
	fxRateRepo portsrepo.FxRateWriter
}

// NewRateStoreService creates a new rate store service.
func NewRateStoreService(fxRateRepo portsrepo.FxRateWriter) portssvc.RateStoreSvc {
	return &rateStoreService{fxRateRepo: fxRateRepo}
}

var _ portssvc.RateStoreSvc = (*rateStoreService)(nil)

// PersistSnapshot writes one row per snapshot entry, upserting on the
// (base, target, timestamp, source) key.
func (s *rateStoreService) PersistSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error {
	now := time.Now().UTC()
	timestamp := snapshot.Timestamp.UTC()

	for targetCode, rate := range snapshot.Rates {
		row := domain.FxRate{
			FxRateID:           uuid.NewString(),
			BaseCurrencyCode:   snapshot.BaseCurrency,
			TargetCurrencyCode: targetCode,
			Rate:               rate,
			Timestamp:          timestamp,
			Source:             snapshot.Source,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		if err := s.fxRateRepo.UpsertRate(ctx, row); err != nil {
			return fmt.Errorf("failed to persist rate %s/%s: %w", snapshot.BaseCurrency, targetCode, err)
		}
	}

	s.LogDebug(ctx, "Snapshot persisted",
		slog.String("base", snapshot.BaseCurrency),
		slog.String("source", snapshot.Source),
		slog.Int("rates", len(snapshot.Rates)))
	return nil
}
