package dto

import (
	"time"

	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MetricsQuery carries the optional view base shared by all metric endpoints.
type MetricsQuery struct {
	Base string `form:"base" binding:"omitempty,currencycode"`
}

// ExposureQuery adds the optional head size for exposure grouping.
type ExposureQuery struct {
	Base string `form:"base" binding:"omitempty,currencycode"`
	TopN int    `form:"topN" binding:"omitempty,min=1"`
}

// ValueSeriesQuery selects the series window in days.
type ValueSeriesQuery struct {
	Base string `form:"base" binding:"omitempty,currencycode"`
	Days int    `form:"days,default=30" binding:"min=1,max=365"`
}

// WhatIfRequest defines a single-currency shock simulation.
type WhatIfRequest struct {
	Currency string          `json:"currency" binding:"required,currencycode"`
	ShockPct decimal.Decimal `json:"shockPct" binding:"required"`
	Base     string          `json:"base" binding:"omitempty,currencycode"`
}

// PortfolioValueResponse is the aggregate value of a portfolio.
type PortfolioValueResponse struct {
	PortfolioID     string                 `json:"portfolioID"`
	PortfolioBase   string                 `json:"portfolioBase"`
	ViewBase        string                 `json:"viewBase"`
	Value           decimal.Decimal        `json:"value"`
	Priced          int                    `json:"priced"`
	Unpriced        int                    `json:"unpriced"`
	UnpricedReasons domain.UnpricedReasons `json:"unpricedReasons"`
	AsOf            *time.Time             `json:"asOf"`
}

// ToPortfolioValueResponse converts a domain result to its response DTO.
func ToPortfolioValueResponse(r *domain.PortfolioValueResult) PortfolioValueResponse {
	return PortfolioValueResponse{
		PortfolioID:     r.PortfolioID,
		PortfolioBase:   r.PortfolioBase,
		ViewBase:        r.ViewBase,
		Value:           r.Value,
		Priced:          r.Priced,
		Unpriced:        r.Unpriced,
		UnpricedReasons: r.UnpricedReasons,
		AsOf:            r.AsOf,
	}
}

// CurrencyExposureEntry is one currency bucket of an exposure report.
// NetNative of the synthetic OTHER bucket sums raw native amounts across the
// collapsed currencies; it is reported for display only and carries no
// economic meaning.
type CurrencyExposureEntry struct {
	CurrencyCode   string          `json:"currencyCode"`
	NetNative      decimal.Decimal `json:"netNative"`
	BaseEquivalent decimal.Decimal `json:"baseEquivalent"`
}

// PortfolioExposureResponse is the per-currency exposure breakdown.
type PortfolioExposureResponse struct {
	PortfolioID     string                  `json:"portfolioID"`
	PortfolioBase   string                  `json:"portfolioBase"`
	ViewBase        string                  `json:"viewBase"`
	Exposures       []CurrencyExposureEntry `json:"exposures"`
	Priced          int                     `json:"priced"`
	Unpriced        int                     `json:"unpriced"`
	UnpricedReasons domain.UnpricedReasons  `json:"unpricedReasons"`
	AsOf            *time.Time              `json:"asOf"`
}

// ToPortfolioExposureResponse converts a domain result to its response DTO.
func ToPortfolioExposureResponse(r *domain.PortfolioExposureResult) PortfolioExposureResponse {
	exposures := make([]CurrencyExposureEntry, len(r.Exposures))
	for i, e := range r.Exposures {
		exposures[i] = CurrencyExposureEntry{
			CurrencyCode:   e.CurrencyCode,
			NetNative:      e.NetNative,
			BaseEquivalent: e.BaseEquivalent,
		}
	}
	return PortfolioExposureResponse{
		PortfolioID:     r.PortfolioID,
		PortfolioBase:   r.PortfolioBase,
		ViewBase:        r.ViewBase,
		Exposures:       exposures,
		Priced:          r.Priced,
		Unpriced:        r.Unpriced,
		UnpricedReasons: r.UnpricedReasons,
		AsOf:            r.AsOf,
	}
}

// PortfolioDailyPnLResponse is the day-over-day P&L report.
type PortfolioDailyPnLResponse struct {
	PortfolioID             string                 `json:"portfolioID"`
	PortfolioBase           string                 `json:"portfolioBase"`
	ViewBase                string                 `json:"viewBase"`
	PnL                     decimal.Decimal        `json:"pnl"`
	ValueCurrent            decimal.Decimal        `json:"valueCurrent"`
	ValuePrevious           *decimal.Decimal       `json:"valuePrevious"`
	AsOf                    *time.Time             `json:"asOf"`
	PrevDate                *time.Time             `json:"prevDate"`
	PositionsChanged        bool                   `json:"positionsChanged"`
	PricedCurrent           int                    `json:"pricedCurrent"`
	UnpricedCurrent         int                    `json:"unpricedCurrent"`
	PricedPrevious          int                    `json:"pricedPrevious"`
	UnpricedPrevious        int                    `json:"unpricedPrevious"`
	UnpricedReasonsCurrent  domain.UnpricedReasons `json:"unpricedReasonsCurrent"`
	UnpricedReasonsPrevious domain.UnpricedReasons `json:"unpricedReasonsPrevious"`
}

// ToPortfolioDailyPnLResponse converts a domain result to its response DTO.
func ToPortfolioDailyPnLResponse(r *domain.PortfolioDailyPnLResult) PortfolioDailyPnLResponse {
	return PortfolioDailyPnLResponse{
		PortfolioID:             r.PortfolioID,
		PortfolioBase:           r.PortfolioBase,
		ViewBase:                r.ViewBase,
		PnL:                     r.PnL,
		ValueCurrent:            r.ValueCurrent,
		ValuePrevious:           r.ValuePrevious,
		AsOf:                    r.AsOf,
		PrevDate:                r.PrevDate,
		PositionsChanged:        r.PositionsChanged,
		PricedCurrent:           r.PricedCurrent,
		UnpricedCurrent:         r.UnpricedCurrent,
		PricedPrevious:          r.PricedPrevious,
		UnpricedPrevious:        r.UnpricedPrevious,
		UnpricedReasonsCurrent:  r.UnpricedReasonsCurrent,
		UnpricedReasonsPrevious: r.UnpricedReasonsPrevious,
	}
}

// ValueSeriesPoint is one dated value in a series response.
type ValueSeriesPoint struct {
	Date  string          `json:"date"` // ISO calendar date
	Value decimal.Decimal `json:"value"`
}

// PortfolioValueSeriesResponse is the bundled time series of values.
type PortfolioValueSeriesResponse struct {
	PortfolioID   string             `json:"portfolioID"`
	PortfolioBase string             `json:"portfolioBase"`
	ViewBase      string             `json:"viewBase"`
	Series        []ValueSeriesPoint `json:"series"`
}

// ToPortfolioValueSeriesResponse converts a domain result to its response DTO.
func ToPortfolioValueSeriesResponse(r *domain.PortfolioValueSeriesResult) PortfolioValueSeriesResponse {
	series := make([]ValueSeriesPoint, len(r.Series))
	for i, p := range r.Series {
		series[i] = ValueSeriesPoint{
			Date:  p.Date.Format("2006-01-02"),
			Value: p.Value,
		}
	}
	return PortfolioValueSeriesResponse{
		PortfolioID:   r.PortfolioID,
		PortfolioBase: r.PortfolioBase,
		ViewBase:      r.ViewBase,
		Series:        series,
	}
}

// PortfolioWhatIfResponse is the shock simulation outcome.
type PortfolioWhatIfResponse struct {
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

// ToPortfolioWhatIfResponse converts a domain result to its response DTO.
func ToPortfolioWhatIfResponse(r *domain.PortfolioWhatIfResult) PortfolioWhatIfResponse {
	return PortfolioWhatIfResponse{
		PortfolioID:     r.PortfolioID,
		PortfolioBase:   r.PortfolioBase,
		ViewBase:        r.ViewBase,
		ShockedCurrency: r.ShockedCurrency,
		ShockPct:        r.ShockPct,
		CurrentValue:    r.CurrentValue,
		NewValue:        r.NewValue,
		DeltaValue:      r.DeltaValue,
		AsOf:            r.AsOf,
	}
}
