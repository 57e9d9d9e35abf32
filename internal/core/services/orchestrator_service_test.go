package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	"github.com/fxrisk/fx_risk_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
	name string
}

func (m *MockRateProvider) Name() string {
	return m.name
}

func (m *MockRateProvider) GetLatest(ctx context.Context, base string) (domain.RateSnapshot, error) {
	args := m.Called(ctx, base)
	return args.Get(0).(domain.RateSnapshot), args.Error(1)
}

func (m *MockRateProvider) GetHistory(ctx context.Context, base, symbol string, days int) (domain.RateHistorySeries, error) {
	args := m.Called(ctx, base, symbol, days)
	return args.Get(0).(domain.RateHistorySeries), args.Error(1)
}

func snapshotFixture(source string) domain.RateSnapshot {
	return domain.RateSnapshot{
		BaseCurrency: "USD",
		Source:       source,
		Timestamp:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Rates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("0.90"),
		},
	}
}

// --- Test Suite ---
type OrchestratorServiceTestSuite struct {
	suite.Suite
	primary  *MockRateProvider
	fallback *MockRateProvider
}

func (suite *OrchestratorServiceTestSuite) SetupTest() {
	suite.primary = &MockRateProvider{name: "exchange"}
	suite.fallback = &MockRateProvider{name: "ecb"}
}

func (suite *OrchestratorServiceTestSuite) TestRefreshLatest_PrimarySucceeds() {
	ctx := context.Background()
	expected := snapshotFixture("exchange")
	suite.primary.On("GetLatest", ctx, "USD").Return(expected, nil).Once()

	svc := services.NewOrchestratorService(suite.primary, suite.fallback)
	snapshot, err := svc.RefreshLatest(ctx, "USD")

	suite.Require().NoError(err)
	suite.Equal("exchange", snapshot.Source)

	record := svc.GetSnapshotInfo()
	suite.Require().NotNil(record)
	suite.False(record.Stale)
	suite.primary.AssertExpectations(suite.T())
	suite.fallback.AssertNotCalled(suite.T(), "GetLatest", mock.Anything, mock.Anything)
}

func (suite *OrchestratorServiceTestSuite) TestRefreshLatest_FallbackAfterPrimaryFailure() {
	ctx := context.Background()
	suite.primary.On("GetLatest", ctx, "USD").Return(domain.RateSnapshot{}, assert.AnError).Once()
	expected := snapshotFixture("ecb")
	suite.fallback.On("GetLatest", ctx, "USD").Return(expected, nil).Once()

	svc := services.NewOrchestratorService(suite.primary, suite.fallback)
	snapshot, err := svc.RefreshLatest(ctx, "USD")

	suite.Require().NoError(err)
	suite.Equal("ecb", snapshot.Source)

	record := svc.GetSnapshotInfo()
	suite.Require().NotNil(record)
	suite.False(record.Stale)
	suite.primary.AssertExpectations(suite.T())
	suite.fallback.AssertExpectations(suite.T())
}

func (suite *OrchestratorServiceTestSuite) TestRefreshLatest_StaleCacheWhenAllProvidersFail() {
	ctx := context.Background()
	expected := snapshotFixture("exchange")
	suite.primary.On("GetLatest", ctx, "USD").Return(expected, nil).Once()
	suite.primary.On("GetLatest", ctx, "USD").Return(domain.RateSnapshot{}, assert.AnError).Once()
	suite.fallback.On("GetLatest", ctx, "USD").Return(domain.RateSnapshot{}, assert.AnError).Once()

	svc := services.NewOrchestratorService(suite.primary, suite.fallback)

	first, err := svc.RefreshLatest(ctx, "USD")
	suite.Require().NoError(err)

	second, err := svc.RefreshLatest(ctx, "USD")
	suite.Require().NoError(err)
	suite.Equal(first, second)

	record := svc.GetSnapshotInfo()
	suite.Require().NotNil(record)
	suite.True(record.Stale)
	suite.primary.AssertExpectations(suite.T())
	suite.fallback.AssertExpectations(suite.T())
}

func (suite *OrchestratorServiceTestSuite) TestRefreshLatest_UnavailableWithEmptyCache() {
	ctx := context.Background()
	suite.primary.On("GetLatest", ctx, "USD").Return(domain.RateSnapshot{}, assert.AnError).Once()
	suite.fallback.On("GetLatest", ctx, "USD").Return(domain.RateSnapshot{}, assert.AnError).Once()

	svc := services.NewOrchestratorService(suite.primary, suite.fallback)
	_, err := svc.RefreshLatest(ctx, "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProviderUnavailable)
	suite.Nil(svc.GetSnapshotInfo())
}

func (suite *OrchestratorServiceTestSuite) TestRefreshLatest_NilFallback() {
	ctx := context.Background()
	suite.primary.On("GetLatest", ctx, "USD").Return(domain.RateSnapshot{}, assert.AnError).Once()

	svc := services.NewOrchestratorService(suite.primary, nil)
	_, err := svc.RefreshLatest(ctx, "USD")

	suite.ErrorIs(err, apperrors.ErrProviderUnavailable)
}

func (suite *OrchestratorServiceTestSuite) TestGetSnapshotInfo_ReturnsCopy() {
	ctx := context.Background()
	suite.primary.On("GetLatest", ctx, "USD").Return(snapshotFixture("exchange"), nil).Once()

	svc := services.NewOrchestratorService(suite.primary, nil)
	_, err := svc.RefreshLatest(ctx, "USD")
	suite.Require().NoError(err)

	record := svc.GetSnapshotInfo()
	record.Stale = true

	fresh := svc.GetSnapshotInfo()
	suite.False(fresh.Stale)
}

func TestOrchestratorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorServiceTestSuite))
}
