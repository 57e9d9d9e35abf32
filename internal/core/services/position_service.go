package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/fx"
	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/internal/dto"
	"github.com/google/uuid"
)

// positionService handles position lifecycle operations within a portfolio.
type positionService struct {
	BaseService
	portfolioRepo portsrepo.PortfolioReader
	positionRepo  portsrepo.PositionRepositoryFacade
}

// NewPositionService creates a new position service.
func NewPositionService(portfolioRepo portsrepo.PortfolioReader, positionRepo portsrepo.PositionRepositoryFacade) portssvc.PositionSvcFacade {
	return &positionService{
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
	}
}

var _ portssvc.PositionSvcFacade = (*positionService)(nil)

// ListPositions retrieves all positions of a portfolio.
func (s *positionService) ListPositions(ctx context.Context, portfolioID string) ([]domain.Position, error) {
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	positions, err := s.positionRepo.ListPositionsByPortfolioID(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// CreatePosition persists a new position under a portfolio. Amount is a
// magnitude; the side carries the sign during valuation.
func (s *positionService) CreatePosition(ctx context.Context, portfolioID string, req dto.CreatePositionRequest) (*domain.Position, error) {
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	currency, err := fx.NormalizeCurrency(req.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, req.CurrencyCode)
	}

	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: 'amount' must not be negative", apperrors.ErrValidation)
	}

	side := domain.PositionSide(req.Side)
	if !side.IsValid() {
		return nil, fmt.Errorf("%w: 'side' must be LONG or SHORT", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	position := domain.Position{
		PositionID:   uuid.NewString(),
		PortfolioID:  portfolioID,
		CurrencyCode: currency,
		Amount:       req.Amount,
		Side:         side,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.positionRepo.SavePosition(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to save position: %w", err)
	}

	s.LogInfo(ctx, "Position created",
		slog.String("position_id", position.PositionID),
		slog.String("portfolio_id", portfolioID),
		slog.String("currency_code", currency))
	return &position, nil
}

// UpdatePosition applies the provided fields to an existing position.
func (s *positionService) UpdatePosition(ctx context.Context, portfolioID, positionID string, req dto.UpdatePositionRequest) (*domain.Position, error) {
	position, err := s.requirePosition(ctx, portfolioID, positionID)
	if err != nil {
		return nil, err
	}

	if req.CurrencyCode != nil {
		currency, err := fx.NormalizeCurrency(*req.CurrencyCode)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, *req.CurrencyCode)
		}
		position.CurrencyCode = currency
	}

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: 'amount' must not be negative", apperrors.ErrValidation)
		}
		position.Amount = *req.Amount
	}

	if req.Side != nil {
		side := domain.PositionSide(*req.Side)
		if !side.IsValid() {
			return nil, fmt.Errorf("%w: 'side' must be LONG or SHORT", apperrors.ErrValidation)
		}
		position.Side = side
	}

	position.LastUpdatedAt = time.Now().UTC()

	if err := s.positionRepo.UpdatePosition(ctx, *position); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}

	s.LogInfo(ctx, "Position updated",
		slog.String("position_id", positionID),
		slog.String("portfolio_id", portfolioID))
	return position, nil
}

// DeletePosition removes a position from a portfolio.
func (s *positionService) DeletePosition(ctx context.Context, portfolioID, positionID string) error {
	if _, err := s.requirePosition(ctx, portfolioID, positionID); err != nil {
		return err
	}

	if err := s.positionRepo.DeletePosition(ctx, positionID); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	s.LogInfo(ctx, "Position deleted",
		slog.String("position_id", positionID),
		slog.String("portfolio_id", portfolioID))
	return nil
}

func (s *positionService) requirePortfolio(ctx context.Context, portfolioID string) error {
	if _, err := s.portfolioRepo.FindPortfolioByID(ctx, portfolioID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: portfolio %q", apperrors.ErrNotFound, portfolioID)
		}
		return fmt.Errorf("failed to get portfolio: %w", err)
	}
	return nil
}

// requirePosition loads the position and verifies ownership, hiding positions
// of other portfolios behind a not-found error.
func (s *positionService) requirePosition(ctx context.Context, portfolioID, positionID string) (*domain.Position, error) {
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	position, err := s.positionRepo.FindPositionByID(ctx, positionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: position %q", apperrors.ErrNotFound, positionID)
		}
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	if position.PortfolioID != portfolioID {
		return nil, fmt.Errorf("%w: position %q", apperrors.ErrNotFound, positionID)
	}
	return position, nil
}
