package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/fx"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/internal/dto"
	"github.com/shopspring/decimal"
)

// SeedDemoData populates a fresh database with a small demo book: the common
// currencies, one portfolio, a few positions, and one rate snapshot so the
// valuation endpoints answer immediately. Safe to call repeatedly; existing
// currencies are skipped and an existing demo portfolio short-circuits.
func SeedDemoData(ctx context.Context, container *portssvc.ServiceContainer) error {
	logger := slog.Default()

	currencies := []dto.CreateCurrencyRequest{
		{CurrencyCode: "USD", Name: "US Dollar"},
		{CurrencyCode: "EUR", Name: "Euro"},
		{CurrencyCode: "GBP", Name: "Pound Sterling"},
		{CurrencyCode: "JPY", Name: "Japanese Yen"},
	}
	for _, req := range currencies {
		if _, err := container.Currency.CreateCurrency(ctx, req); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("failed to seed currency %s: %w", req.CurrencyCode, err)
		}
	}

	const demoName = "Demo Portfolio"
	existing, err := container.Portfolio.ListPortfolios(ctx)
	if err != nil {
		return fmt.Errorf("failed to list portfolios during seed: %w", err)
	}
	for _, p := range existing {
		if p.Name == demoName {
			logger.Info("Demo data already present", slog.String("portfolio_id", p.PortfolioID))
			return nil
		}
	}

	portfolio, err := container.Portfolio.CreatePortfolio(ctx, dto.CreatePortfolioRequest{
		Name:             demoName,
		BaseCurrencyCode: "USD",
	})
	if err != nil {
		return fmt.Errorf("failed to seed portfolio: %w", err)
	}

	positions := []dto.CreatePositionRequest{
		{CurrencyCode: "USD", Amount: decimal.NewFromInt(100), Side: "LONG"},
		{CurrencyCode: "EUR", Amount: decimal.NewFromInt(200), Side: "LONG"},
		{CurrencyCode: "GBP", Amount: decimal.NewFromInt(50), Side: "SHORT"},
	}
	for _, req := range positions {
		if _, err := container.Position.CreatePosition(ctx, portfolio.PortfolioID, req); err != nil {
			return fmt.Errorf("failed to seed position %s: %w", req.CurrencyCode, err)
		}
	}

	snapshot, err := fx.NewSnapshot("USD", "seed", time.Now().UTC(), map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.90"),
		"GBP": decimal.RequireFromString("0.78"),
		"JPY": decimal.RequireFromString("150.12"),
	})
	if err != nil {
		return fmt.Errorf("failed to build seed snapshot: %w", err)
	}
	if err := container.RateStore.PersistSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to seed rates: %w", err)
	}

	logger.Info("Demo data seeded", slog.String("portfolio_id", portfolio.PortfolioID))
	return nil
}
