package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reason codes attached to positions that could not be priced.
const (
	UnpricedReasonMissingRate     = "missing_rate"
	UnpricedReasonUnknownCurrency = "unknown_currency"
)

// UnpricedReasons maps a reason code to the sorted set of currency codes
// responsible for it.
type UnpricedReasons map[string][]string

// PortfolioValueResult is the aggregate portfolio value expressed in the
// requested view base currency.
type PortfolioValueResult struct {
	PortfolioID     string          `json:"portfolioID"`
	PortfolioBase   string          `json:"portfolioBase"`
	ViewBase        string          `json:"viewBase"`
	Value           decimal.Decimal `json:"value"`
	Priced          int             `json:"priced"`
	Unpriced        int             `json:"unpriced"`
	UnpricedReasons UnpricedReasons `json:"unpricedReasons"`
	AsOf            *time.Time      `json:"asOf"`
}

// CurrencyExposure is the net exposure for one currency, tracked both in the
// position's native currency and converted into the view base.
type CurrencyExposure struct {
	CurrencyCode   string          `json:"currencyCode"`
	NetNative      decimal.Decimal `json:"netNative"`
	BaseEquivalent decimal.Decimal `json:"baseEquivalent"`
}

// PortfolioExposureResult groups priced positions by currency, sorted
// descending by absolute view-base magnitude.
type PortfolioExposureResult struct {
	PortfolioID     string             `json:"portfolioID"`
	PortfolioBase   string             `json:"portfolioBase"`
	ViewBase        string             `json:"viewBase"`
	Exposures       []CurrencyExposure `json:"exposures"`
	Priced          int                `json:"priced"`
	Unpriced        int                `json:"unpriced"`
	AsOf            *time.Time         `json:"asOf"`
	UnpricedReasons UnpricedReasons    `json:"unpricedReasons"`
}

// PortfolioDailyPnLResult is the day-over-day change in portfolio value,
// computed under the two most recent distinct rate timestamps.
type PortfolioDailyPnLResult struct {
	PortfolioID             string           `json:"portfolioID"`
	PortfolioBase           string           `json:"portfolioBase"`
	ViewBase                string           `json:"viewBase"`
	PnL                     decimal.Decimal  `json:"pnl"`
	ValueCurrent            decimal.Decimal  `json:"valueCurrent"`
	ValuePrevious           *decimal.Decimal `json:"valuePrevious"`
	AsOf                    *time.Time       `json:"asOf"`
	PrevDate                *time.Time       `json:"prevDate"`
	PositionsChanged        bool             `json:"positionsChanged"`
	PricedCurrent           int              `json:"pricedCurrent"`
	UnpricedCurrent         int              `json:"unpricedCurrent"`
	PricedPrevious          int              `json:"pricedPrevious"`
	UnpricedPrevious        int              `json:"unpricedPrevious"`
	UnpricedReasonsCurrent  UnpricedReasons  `json:"unpricedReasonsCurrent"`
	UnpricedReasonsPrevious UnpricedReasons  `json:"unpricedReasonsPrevious"`
}

// PortfolioValueSeriesPoint is one dated value observation in a series.
type PortfolioValueSeriesPoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// PortfolioValueSeriesResult is a chronological series of portfolio values,
// one point per calendar day that had usable rates.
type PortfolioValueSeriesResult struct {
	PortfolioID   string                      `json:"portfolioID"`
	PortfolioBase string                      `json:"portfolioBase"`
	ViewBase      string                      `json:"viewBase"`
	Series        []PortfolioValueSeriesPoint `json:"series"`
}

// PortfolioWhatIfResult compares portfolio value before and after shocking a
// single currency's effective rate by a percentage.
type PortfolioWhatIfResult struct {
	PortfolioID     string          `json:"portfolioID"`
	PortfolioBase   string          `json:"portfolioBase"`
	ViewBase        string          `json:"viewBase"`
	ShockedCurrency string          `json:"shockedCurrency"`
	ShockPct        decimal.Decimal `json:"shockPct"`
	CurrentValue    decimal.Decimal `json:"currentValue"`
	NewValue        decimal.Decimal `json:"newValue"`
	DeltaValue      decimal.Decimal `json:"deltaValue"`
	AsOf            *time.Time      `json:"asOf"`
}
