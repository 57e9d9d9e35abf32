package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/fx"
	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/internal/dto"
)

// currencyService handles currency registration and lookup.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
	registry     portssvc.CurrencyRegistrySvc
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, registry portssvc.CurrencyRegistrySvc) portssvc.CurrencySvcFacade {
	return &currencyService{
		currencyRepo: currencyRepo,
		registry:     registry,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// isoCurrencyCode reports whether a normalized code is exactly three ASCII
// letters, matching the currencycode binding rule and the currencies schema.
func isoCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// GetCurrencyByCode retrieves a specific currency by its code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code, err := fx.NormalizeCurrency(currencyCode)
	if err != nil || !isoCurrencyCode(code) {
		return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, currencyCode)
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %q", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return currency, nil
}

// ListCurrencies retrieves all available currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

// CreateCurrency persists a new currency and registers its code for pricing.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	code, err := fx.NormalizeCurrency(req.CurrencyCode)
	if err != nil || !isoCurrencyCode(code) {
		return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, req.CurrencyCode)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: currency name cannot be blank", apperrors.ErrValidation)
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("%w: currency %q already exists", apperrors.ErrDuplicate, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency existence: %w", err)
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: code,
		Name:         name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to save currency: %w", err)
	}

	s.registry.Update(code)
	s.LogInfo(ctx, "Currency created", slog.String("currency_code", code))
	return &currency, nil
}
