package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	portsprov "github.com/fxrisk/fx_risk_app/internal/core/ports/providers"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
)

// orchestratorService coordinates a primary and an optional fallback rate
// provider, keeping the last-known-good snapshot as a stale-serving cache.
// The cached record is owned by the instance and guarded by a mutex, so
// multiple orchestrators can coexist without cross-contamination.
type orchestratorService struct {
	BaseService
	primary  portsprov.RateProvider
	fallback portsprov.RateProvider

	mu           sync.Mutex
	lastSnapshot *domain.SnapshotRecord
}

// NewOrchestratorService creates a rate orchestrator. fallback may be nil.
func NewOrchestratorService(primary portsprov.RateProvider, fallback portsprov.RateProvider) portssvc.RateOrchestratorSvc {
	return &orchestratorService{
		primary:  primary,
		fallback: fallback,
	}
}

var _ portssvc.RateOrchestratorSvc = (*orchestratorService)(nil)

// RefreshLatest refreshes the latest rates using primary, fallback, or the
// cached snapshot. Providers are tried strictly in sequence. Only total
// exhaustion with an empty cache is a hard failure.
func (s *orchestratorService) RefreshLatest(ctx context.Context, base string) (domain.RateSnapshot, error) {
	snapshot, err := s.primary.GetLatest(ctx, base)
	if err == nil {
		s.storeSnapshot(snapshot, false)
		return snapshot, nil
	}
	s.LogWarn(ctx, "Primary provider failure",
		slog.String("provider", s.primary.Name()),
		slog.String("error", err.Error()))

	if s.fallback != nil {
		snapshot, err = s.fallback.GetLatest(ctx, base)
		if err == nil {
			s.storeSnapshot(snapshot, false)
			return snapshot, nil
		}
		s.LogError(ctx, err, "Fallback provider failure",
			slog.String("provider", s.fallback.Name()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastSnapshot == nil {
		return domain.RateSnapshot{}, fmt.Errorf("%w: unable to refresh rates from any provider and no cached snapshot available", apperrors.ErrProviderUnavailable)
	}

	cached := s.lastSnapshot.Snapshot
	s.LogWarn(ctx, "Returning stale snapshot",
		slog.String("source", cached.Source),
		slog.Time("captured_at", cached.Timestamp))
	s.lastSnapshot = &domain.SnapshotRecord{Snapshot: cached, Stale: true}
	return cached, nil
}

// GetSnapshotInfo returns a copy of the last stored snapshot record, or nil
// before any orchestrator activity.
func (s *orchestratorService) GetSnapshotInfo() *domain.SnapshotRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSnapshot == nil {
		return nil
	}
	record := *s.lastSnapshot
	return &record
}

func (s *orchestratorService) storeSnapshot(snapshot domain.RateSnapshot, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSnapshot = &domain.SnapshotRecord{Snapshot: snapshot, Stale: stale}
}
