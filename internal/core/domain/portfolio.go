package domain

// Portfolio is a named collection of positions valued against a base currency.
// Deleting a portfolio cascades to its positions.
type Portfolio struct {
	PortfolioID      string `json:"portfolioID"` // Primary Key (UUID)
	Name             string `json:"name"`
	BaseCurrencyCode string `json:"baseCurrencyCode"`
	AuditFields
}
