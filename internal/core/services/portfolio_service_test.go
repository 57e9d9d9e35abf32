package services_test

import (
	"context"
	"testing"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/services"
	"github.com/fxrisk/fx_risk_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PortfolioRepository ---
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioRepository) FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) ListPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) DeletePortfolio(ctx context.Context, portfolioID string) error {
	args := m.Called(ctx, portfolioID)
	return args.Error(0)
}

// --- Test Suite ---
type PortfolioServiceTestSuite struct {
	suite.Suite
	portfolioRepo *MockPortfolioRepository
}

func (suite *PortfolioServiceTestSuite) SetupTest() {
	suite.portfolioRepo = new(MockPortfolioRepository)
}

func (suite *PortfolioServiceTestSuite) TestCreatePortfolio_Success() {
	ctx := context.Background()
	suite.portfolioRepo.On("SavePortfolio", ctx, mock.AnythingOfType("domain.Portfolio")).Return(nil).Once()

	registry := services.NewRegistryService(nil)
	registry.Update("USD", "EUR")
	svc := services.NewPortfolioService(suite.portfolioRepo, registry)

	portfolio, err := svc.CreatePortfolio(ctx, dto.CreatePortfolioRequest{
		Name:             "Global Book",
		BaseCurrencyCode: "usd",
	})

	suite.Require().NoError(err)
	suite.Equal("Global Book", portfolio.Name)
	suite.Equal("USD", portfolio.BaseCurrencyCode)
	suite.NotEmpty(portfolio.PortfolioID)
	suite.portfolioRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestCreatePortfolio_UnknownBaseCurrency() {
	registry := services.NewRegistryService(nil)
	registry.Update("USD")
	svc := services.NewPortfolioService(suite.portfolioRepo, registry)

	_, err := svc.CreatePortfolio(context.Background(), dto.CreatePortfolioRequest{
		Name:             "Global Book",
		BaseCurrencyCode: "CHF",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.portfolioRepo.AssertNotCalled(suite.T(), "SavePortfolio", mock.Anything, mock.Anything)
}

func (suite *PortfolioServiceTestSuite) TestCreatePortfolio_BlankName() {
	registry := services.NewRegistryService(nil)
	registry.Update("USD")
	svc := services.NewPortfolioService(suite.portfolioRepo, registry)

	_, err := svc.CreatePortfolio(context.Background(), dto.CreatePortfolioRequest{
		Name:             "   ",
		BaseCurrencyCode: "USD",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PortfolioServiceTestSuite) TestDeletePortfolio_Success() {
	ctx := context.Background()
	existing := &domain.Portfolio{PortfolioID: "p-1", Name: "Global Book", BaseCurrencyCode: "USD"}
	suite.portfolioRepo.On("FindPortfolioByID", ctx, "p-1").Return(existing, nil).Once()
	suite.portfolioRepo.On("DeletePortfolio", ctx, "p-1").Return(nil).Once()

	registry := services.NewRegistryService(nil)
	svc := services.NewPortfolioService(suite.portfolioRepo, registry)

	err := svc.DeletePortfolio(ctx, "p-1")

	suite.Require().NoError(err)
	suite.portfolioRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestDeletePortfolio_NotFound() {
	ctx := context.Background()
	suite.portfolioRepo.On("FindPortfolioByID", ctx, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	registry := services.NewRegistryService(nil)
	svc := services.NewPortfolioService(suite.portfolioRepo, registry)

	err := svc.DeletePortfolio(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.portfolioRepo.AssertNotCalled(suite.T(), "DeletePortfolio", mock.Anything, mock.Anything)
}

func TestPortfolioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PortfolioServiceTestSuite))
}
