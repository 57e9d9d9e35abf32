// Package fx contains the pure currency-conversion kernel: normalizing
// currency codes, rebasing rate tables between base currencies, and
// converting signed position amounts. All routines are deterministic and
// side-effect free.
package fx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrInvalidCurrencyCode indicates a blank or non-ASCII currency code.
var ErrInvalidCurrencyCode = errors.New("invalid currency code")

// ErrRebase indicates a rate table could not be re-expressed against the
// requested base (missing or zero rate).
var ErrRebase = errors.New("rebase error")

// ErrInvalidSide indicates a position side other than LONG or SHORT.
var ErrInvalidSide = errors.New("invalid position side")

// divisionPrecision is the number of significant digits carried through
// rate division so that repeated rebasing never introduces directional bias.
const divisionPrecision = 28

// NormalizeCurrency trims and uppercases a currency code, rejecting blank or
// non-ASCII input.
func NormalizeCurrency(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", fmt.Errorf("%w: currency code cannot be blank", ErrInvalidCurrencyCode)
	}
	for _, r := range normalized {
		if r > 127 {
			return "", fmt.Errorf("%w: currency code must be ASCII: %q", ErrInvalidCurrencyCode, code)
		}
	}
	return normalized, nil
}

// RebaseRates re-expresses a rate table quoted against some canonical base as
// "units of newBase per unit of code". The input must contain newBase with a
// non-zero rate. The result includes a 1 entry for newBase itself.
func RebaseRates(rates map[string]decimal.Decimal, newBase string) (map[string]decimal.Decimal, error) {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, value := range rates {
		normCode, err := NormalizeCurrency(code)
		if err != nil {
			return nil, err
		}
		normalized[normCode] = value
	}

	targetBase, err := NormalizeCurrency(newBase)
	if err != nil {
		return nil, err
	}

	baseRate, ok := normalized[targetBase]
	if !ok {
		return nil, fmt.Errorf("%w: missing rate for %s when rebasing snapshot", ErrRebase, targetBase)
	}
	if baseRate.IsZero() {
		return nil, fmt.Errorf("%w: cannot rebase using %s with zero rate", ErrRebase, targetBase)
	}

	rebased := make(map[string]decimal.Decimal, len(normalized))
	for code, value := range normalized {
		rebased[code] = value.DivRound(baseRate, divisionPrecision)
	}
	rebased[targetBase] = decimal.NewFromInt(1)

	return rebased, nil
}

// ConvertAmount converts a native amount using the given rate, negating the
// result for SHORT positions.
func ConvertAmount(amount, rate decimal.Decimal, side domain.PositionSide) (decimal.Decimal, error) {
	if !side.IsValid() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q, expected LONG or SHORT", ErrInvalidSide, side)
	}
	converted := amount.Mul(rate)
	if side == domain.SideShort {
		converted = converted.Neg()
	}
	return converted, nil
}

// ConvertPositionAmount converts a position's native amount into the
// portfolio base currency. rateLookup maps currency code to "portfolio base
// units per unit of currency". Matching currencies short-circuit to a rate
// of 1; a missing lookup entry is a rebase failure.
func ConvertPositionAmount(nativeAmount decimal.Decimal, positionCurrency, portfolioBase string, rateLookup map[string]decimal.Decimal, side domain.PositionSide) (decimal.Decimal, error) {
	positionNorm, err := NormalizeCurrency(positionCurrency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	baseNorm, err := NormalizeCurrency(portfolioBase)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if positionNorm == baseNorm {
		return ConvertAmount(nativeAmount, decimal.NewFromInt(1), side)
	}

	rate, ok := rateLookup[positionNorm]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: missing rate for currency %q when converting position", ErrRebase, positionNorm)
	}

	return ConvertAmount(nativeAmount, rate, side)
}

// Invert returns 1/rate carried at the kernel's division precision.
func Invert(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).DivRound(rate, divisionPrecision)
}

// QuantizeAmount rounds an amount to the given number of decimal places using
// half-to-even rounding. Applied only to externally visible totals, never
// mid-computation.
func QuantizeAmount(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.RoundBank(places)
}

// NewSnapshot builds a normalized RateSnapshot: ASCII-uppercase codes, UTC
// timestamp, non-blank source.
func NewSnapshot(baseCurrency, source string, timestamp time.Time, rates map[string]decimal.Decimal) (domain.RateSnapshot, error) {
	baseNorm, err := NormalizeCurrency(baseCurrency)
	if err != nil {
		return domain.RateSnapshot{}, err
	}
	if strings.TrimSpace(source) == "" {
		return domain.RateSnapshot{}, fmt.Errorf("%w: snapshot source cannot be blank", apperrors.ErrValidation)
	}

	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, value := range rates {
		normCode, err := NormalizeCurrency(code)
		if err != nil {
			return domain.RateSnapshot{}, err
		}
		normalized[normCode] = value
	}

	return domain.RateSnapshot{
		BaseCurrency: baseNorm,
		Source:       source,
		Timestamp:    timestamp.UTC(),
		Rates:        normalized,
	}, nil
}
