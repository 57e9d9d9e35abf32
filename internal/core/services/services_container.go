package services

import (
	portsprov "github.com/fxrisk/fx_risk_app/internal/core/ports/providers"
	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The registry is injected rather than built here because the providers need
// it before the container exists.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, registry portssvc.CurrencyRegistrySvc, primary, fallback portsprov.RateProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Registry = registry

	container.Currency = NewCurrencyService(repos.CurrencyRepo, container.Registry)
	container.Portfolio = NewPortfolioService(repos.PortfolioRepo, container.Registry)
	container.Position = NewPositionService(repos.PortfolioRepo, repos.PositionRepo)

	container.Orchestrator = NewOrchestratorService(primary, fallback)
	container.RateStore = NewRateStoreService(repos.FxRateRepo)
	container.Backfill = NewBackfillService(container.Orchestrator, container.RateStore, primary, fallback)

	container.Metrics = NewMetricsService(
		repos.PortfolioRepo,
		repos.PositionRepo,
		repos.FxRateRepo,
		container.Registry,
		cfg.FxCanonicalBase,
	)

	return container
}
