package services_test

import (
	"context"
	"testing"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/services"
	"github.com/fxrisk/fx_risk_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PositionRepository ---
type MockPositionRepository struct {
	mock.Mock
}

func (m *MockPositionRepository) SavePosition(ctx context.Context, position domain.Position) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockPositionRepository) FindPositionByID(ctx context.Context, positionID string) (*domain.Position, error) {
	args := m.Called(ctx, positionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Position), args.Error(1)
}

func (m *MockPositionRepository) ListPositionsByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Position, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Position), args.Error(1)
}

func (m *MockPositionRepository) UpdatePosition(ctx context.Context, position domain.Position) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockPositionRepository) DeletePosition(ctx context.Context, positionID string) error {
	args := m.Called(ctx, positionID)
	return args.Error(0)
}

// --- Test Suite ---
type PositionServiceTestSuite struct {
	suite.Suite
	portfolioRepo *MockPortfolioReader
	positionRepo  *MockPositionRepository
}

func (suite *PositionServiceTestSuite) SetupTest() {
	suite.portfolioRepo = new(MockPortfolioReader)
	suite.positionRepo = new(MockPositionRepository)
}

func (suite *PositionServiceTestSuite) expectPortfolio(portfolioID string) {
	portfolio := &domain.Portfolio{
		PortfolioID:      portfolioID,
		Name:             "Test Portfolio",
		BaseCurrencyCode: "USD",
	}
	suite.portfolioRepo.On("FindPortfolioByID", mock.Anything, portfolioID).Return(portfolio, nil)
}

func (suite *PositionServiceTestSuite) TestCreatePosition_Success() {
	ctx := context.Background()
	suite.expectPortfolio("p-1")
	suite.positionRepo.On("SavePosition", ctx, mock.AnythingOfType("domain.Position")).Return(nil).Once()

	svc := services.NewPositionService(suite.portfolioRepo, suite.positionRepo)
	position, err := svc.CreatePosition(ctx, "p-1", dto.CreatePositionRequest{
		CurrencyCode: "eur",
		Amount:       decimal.RequireFromString("200"),
		Side:         "LONG",
	})

	suite.Require().NoError(err)
	suite.Equal("p-1", position.PortfolioID)
	suite.Equal("EUR", position.CurrencyCode)
	suite.Equal(domain.SideLong, position.Side)
	suite.NotEmpty(position.PositionID)
	suite.positionRepo.AssertExpectations(suite.T())
}

func (suite *PositionServiceTestSuite) TestCreatePosition_PortfolioNotFound() {
	ctx := context.Background()
	suite.portfolioRepo.On("FindPortfolioByID", mock.Anything, "missing").
		Return(nil, apperrors.ErrNotFound)

	svc := services.NewPositionService(suite.portfolioRepo, suite.positionRepo)
	_, err := svc.CreatePosition(ctx, "missing", dto.CreatePositionRequest{
		CurrencyCode: "EUR",
		Amount:       decimal.NewFromInt(1),
		Side:         "LONG",
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.positionRepo.AssertNotCalled(suite.T(), "SavePosition", mock.Anything, mock.Anything)
}

func (suite *PositionServiceTestSuite) TestCreatePosition_Invalid() {
	ctx := context.Background()
	suite.expectPortfolio("p-1")

	svc := services.NewPositionService(suite.portfolioRepo, suite.positionRepo)

	_, err := svc.CreatePosition(ctx, "p-1", dto.CreatePositionRequest{
		CurrencyCode: "EUR",
		Amount:       decimal.NewFromInt(-5),
		Side:         "LONG",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = svc.CreatePosition(ctx, "p-1", dto.CreatePositionRequest{
		CurrencyCode: "EUR",
		Amount:       decimal.NewFromInt(5),
		Side:         "FLAT",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PositionServiceTestSuite) TestUpdatePosition_AppliesProvidedFields() {
	ctx := context.Background()
	suite.expectPortfolio("p-1")
	existing := &domain.Position{
		PositionID:   "pos-1",
		PortfolioID:  "p-1",
		CurrencyCode: "EUR",
		Amount:       decimal.NewFromInt(200),
		Side:         domain.SideLong,
	}
	suite.positionRepo.On("FindPositionByID", ctx, "pos-1").Return(existing, nil).Once()
	suite.positionRepo.On("UpdatePosition", ctx, mock.AnythingOfType("domain.Position")).Return(nil).Once()

	newAmount := decimal.NewFromInt(350)
	newSide := "SHORT"

	svc := services.NewPositionService(suite.portfolioRepo, suite.positionRepo)
	position, err := svc.UpdatePosition(ctx, "p-1", "pos-1", dto.UpdatePositionRequest{
		Amount: &newAmount,
		Side:   &newSide,
	})

	suite.Require().NoError(err)
	suite.True(position.Amount.Equal(newAmount))
	suite.Equal(domain.SideShort, position.Side)
	// Currency stays untouched when omitted from the request.
	suite.Equal("EUR", position.CurrencyCode)
}

func (suite *PositionServiceTestSuite) TestUpdatePosition_WrongPortfolio() {
	ctx := context.Background()
	suite.expectPortfolio("p-1")
	other := &domain.Position{
		PositionID:  "pos-9",
		PortfolioID: "p-2",
		Side:        domain.SideLong,
	}
	suite.positionRepo.On("FindPositionByID", ctx, "pos-9").Return(other, nil).Once()

	svc := services.NewPositionService(suite.portfolioRepo, suite.positionRepo)
	_, err := svc.UpdatePosition(ctx, "p-1", "pos-9", dto.UpdatePositionRequest{})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.positionRepo.AssertNotCalled(suite.T(), "UpdatePosition", mock.Anything, mock.Anything)
}

func (suite *PositionServiceTestSuite) TestDeletePosition_Success() {
	ctx := context.Background()
	suite.expectPortfolio("p-1")
	existing := &domain.Position{PositionID: "pos-1", PortfolioID: "p-1", Side: domain.SideLong}
	suite.positionRepo.On("FindPositionByID", ctx, "pos-1").Return(existing, nil).Once()
	suite.positionRepo.On("DeletePosition", ctx, "pos-1").Return(nil).Once()

	svc := services.NewPositionService(suite.portfolioRepo, suite.positionRepo)
	err := svc.DeletePosition(ctx, "p-1", "pos-1")

	suite.Require().NoError(err)
	suite.positionRepo.AssertExpectations(suite.T())
}

func TestPositionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PositionServiceTestSuite))
}
