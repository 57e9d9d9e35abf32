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
	"github.com/google/uuid"
)

// portfolioService handles portfolio lifecycle operations.
type portfolioService struct {
	BaseService
	portfolioRepo portsrepo.PortfolioRepositoryFacade
	registry      portssvc.CurrencyRegistrySvc
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(portfolioRepo portsrepo.PortfolioRepositoryFacade, registry portssvc.CurrencyRegistrySvc) portssvc.PortfolioSvcFacade {
	return &portfolioService{
		portfolioRepo: portfolioRepo,
		registry:      registry,
	}
}

var _ portssvc.PortfolioSvcFacade = (*portfolioService)(nil)

// GetPortfolioByID retrieves a specific portfolio.
func (s *portfolioService) GetPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindPortfolioByID(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: portfolio %q", apperrors.ErrNotFound, portfolioID)
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return portfolio, nil
}

// ListPortfolios retrieves all portfolios.
func (s *portfolioService) ListPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	portfolios, err := s.portfolioRepo.ListPortfolios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	return portfolios, nil
}

// CreatePortfolio persists a new portfolio after validating its base currency
// against the registry.
func (s *portfolioService) CreatePortfolio(ctx context.Context, req dto.CreatePortfolioRequest) (*domain.Portfolio, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: portfolio name cannot be blank", apperrors.ErrValidation)
	}

	baseCurrency, err := fx.NormalizeCurrency(req.BaseCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base currency %q", apperrors.ErrValidation, req.BaseCurrencyCode)
	}
	if !s.registry.IsAllowed(baseCurrency) {
		return nil, fmt.Errorf("%w: unknown base currency %q", apperrors.ErrValidation, baseCurrency)
	}

	now := time.Now().UTC()
	portfolio := domain.Portfolio{
		PortfolioID:      uuid.NewString(),
		Name:             name,
		BaseCurrencyCode: baseCurrency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.portfolioRepo.SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.LogInfo(ctx, "Portfolio created",
		slog.String("portfolio_id", portfolio.PortfolioID),
		slog.String("base_currency", baseCurrency))
	return &portfolio, nil
}

// DeletePortfolio removes a portfolio and cascades to its positions.
func (s *portfolioService) DeletePortfolio(ctx context.Context, portfolioID string) error {
	if _, err := s.portfolioRepo.FindPortfolioByID(ctx, portfolioID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: portfolio %q", apperrors.ErrNotFound, portfolioID)
		}
		return fmt.Errorf("failed to get portfolio: %w", err)
	}

	if err := s.portfolioRepo.DeletePortfolio(ctx, portfolioID); err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	s.LogInfo(ctx, "Portfolio deleted", slog.String("portfolio_id", portfolioID))
	return nil
}
