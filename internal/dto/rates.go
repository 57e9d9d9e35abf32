package dto

import (
	"time"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
)

// RefreshRatesResponse acknowledges a triggered refresh.
type RefreshRatesResponse struct {
	Message      string    `json:"message"`
	Source       string    `json:"source"`
	BaseCurrency string    `json:"baseCurrency"`
	AsOf         time.Time `json:"asOf"`
	Stale        bool      `json:"stale"`
}

// BackfillRequest defines a history backfill trigger.
type BackfillRequest struct {
	Days int `json:"days" binding:"required,min=1,max=365"`
}

// SnapshotInfoResponse describes the orchestrator's cached snapshot for
// health reporting.
type SnapshotInfoResponse struct {
	Source       string    `json:"source"`
	BaseCurrency string    `json:"baseCurrency"`
	AsOf         time.Time `json:"asOf"`
	Stale        bool      `json:"stale"`
	RateCount    int       `json:"rateCount"`
}

// ToSnapshotInfoResponse converts a SnapshotRecord into its health DTO.
func ToSnapshotInfoResponse(rec *domain.SnapshotRecord) *SnapshotInfoResponse {
	if rec == nil {
		return nil
	}
	return &SnapshotInfoResponse{
		Source:       rec.Snapshot.Source,
		BaseCurrency: rec.Snapshot.BaseCurrency,
		AsOf:         rec.Snapshot.Timestamp,
		Stale:        rec.Stale,
		RateCount:    len(rec.Snapshot.Rates),
	}
}
