package services

import (
	"context"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
)

// RateOrchestratorSvc coordinates primary and fallback providers around a
// cached last-known-good snapshot.
type RateOrchestratorSvc interface {
	// RefreshLatest fetches a fresh snapshot from the first provider that
	// answers, falling back to the cached snapshot marked stale when every
	// provider fails. With no cache it fails with ErrProviderUnavailable.
	RefreshLatest(ctx context.Context, base string) (domain.RateSnapshot, error)

	// GetSnapshotInfo returns the last stored snapshot record, or nil before
	// any orchestrator activity.
	GetSnapshotInfo() *domain.SnapshotRecord
}

// RateStoreSvc persists provider snapshots into the rates table.
type RateStoreSvc interface {
	// PersistSnapshot writes one rate row per snapshot entry.
	PersistSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error
}

// BackfillSvc loads historical rates through history-capable providers.
type BackfillSvc interface {
	// RunBackfill fetches and persists per-currency history for up to days
	// days against the given base currency.
	RunBackfill(ctx context.Context, days int, baseCurrency string) error
}

// CurrencyRegistrySvc is the in-memory allowed-currency membership check.
type CurrencyRegistrySvc interface {
	// IsAllowed reports whether the code is registered.
	IsAllowed(code string) bool

	// Codes returns a snapshot of all registered codes.
	Codes() []string

	// Update merges additional codes into the registry.
	Update(codes ...string)

	// Reload replaces the registry contents from persistence.
	Reload(ctx context.Context) error
}
