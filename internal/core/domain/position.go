package domain

import (
	"github.com/shopspring/decimal"
)

// PositionSide indicates whether a position contributes positively or
// negatively to portfolio value. LONG and SHORT are the only legal values.
type PositionSide string

const (
	SideLong  PositionSide = "LONG"
	SideShort PositionSide = "SHORT"
)

// IsValid reports whether the side is one of the two legal variants.
func (s PositionSide) IsValid() bool {
	return s == SideLong || s == SideShort
}

// Position represents holdings in a particular currency for a portfolio.
// Amount is a non-negative magnitude; Side determines the sign once the
// position is expressed in a common currency.
type Position struct {
	PositionID   string          `json:"positionID"` // Primary Key (UUID)
	PortfolioID  string          `json:"portfolioID"`
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
	Side         PositionSide    `json:"side"`
	AuditFields
}
