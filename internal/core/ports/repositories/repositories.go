package repositories

// RepositoryProvider groups every repository the service container needs.
type RepositoryProvider struct {
	CurrencyRepo  CurrencyRepositoryFacade
	PortfolioRepo PortfolioRepositoryFacade
	PositionRepo  PositionRepositoryFacade
	FxRateRepo    FxRateRepositoryFacade
}
