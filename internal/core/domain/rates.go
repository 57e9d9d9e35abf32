package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxRate is one persisted exchange rate row: units of TargetCurrencyCode per
// one unit of BaseCurrencyCode at Timestamp, as reported by Source.
type FxRate struct {
	FxRateID           string          `json:"fxRateID"` // Primary Key (UUID)
	BaseCurrencyCode   string          `json:"baseCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	Rate               decimal.Decimal `json:"rate"`
	Timestamp          time.Time       `json:"timestamp"`
	Source             string          `json:"source"`
	AuditFields
}

// RateSnapshot is a normalized provider payload: the latest rates for a base
// currency. Codes are ASCII-uppercase and the timestamp is UTC; construct via
// fx.NewSnapshot to enforce both. Immutable once constructed.
type RateSnapshot struct {
	BaseCurrency string
	Source       string
	Timestamp    time.Time
	Rates        map[string]decimal.Decimal
}

// RatePoint is a single historical rate observation.
type RatePoint struct {
	Timestamp time.Time
	Rate      decimal.Decimal
}

// RateHistorySeries is a normalized timeseries for a currency pair, sorted
// ascending by timestamp. Used only for backfill, never for valuation.
type RateHistorySeries struct {
	BaseCurrency  string
	QuoteCurrency string
	Source        string
	Points        []RatePoint
}

// SnapshotRecord pairs the orchestrator's last-known snapshot with a flag
// marking whether it was served stale (no provider could supply fresher data).
type SnapshotRecord struct {
	Snapshot RateSnapshot
	Stale    bool
}
