package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fxrisk/fx_risk_app/internal/apperrors"
	"github.com/fxrisk/fx_risk_app/internal/core/domain"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/fxrisk/fx_risk_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PortfolioRepository (reader) ---
type MockPortfolioReader struct {
	mock.Mock
}

func (m *MockPortfolioReader) FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioReader) ListPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Portfolio), args.Error(1)
}

// --- Mock PositionRepository (reader) ---
type MockPositionReader struct {
	mock.Mock
}

func (m *MockPositionReader) FindPositionByID(ctx context.Context, positionID string) (*domain.Position, error) {
	args := m.Called(ctx, positionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Position), args.Error(1)
}

func (m *MockPositionReader) ListPositionsByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Position, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Position), args.Error(1)
}

// --- Mock FxRateRepository (reader) ---
type MockFxRateReader struct {
	mock.Mock
}

func (m *MockFxRateReader) FindLatestRates(ctx context.Context, base string) (map[string]decimal.Decimal, *time.Time, error) {
	args := m.Called(ctx, base)
	var rates map[string]decimal.Decimal
	if args.Get(0) != nil {
		rates = args.Get(0).(map[string]decimal.Decimal)
	}
	var timestamp *time.Time
	if args.Get(1) != nil {
		timestamp = args.Get(1).(*time.Time)
	}
	return rates, timestamp, args.Error(2)
}

func (m *MockFxRateReader) FindLatestTwoTimestamps(ctx context.Context, base string) (*time.Time, *time.Time, error) {
	args := m.Called(ctx, base)
	var latest, previous *time.Time
	if args.Get(0) != nil {
		latest = args.Get(0).(*time.Time)
	}
	if args.Get(1) != nil {
		previous = args.Get(1).(*time.Time)
	}
	return latest, previous, args.Error(2)
}

func (m *MockFxRateReader) FindRatesForTimestamp(ctx context.Context, base string, timestamp time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, base, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockFxRateReader) FindRecentTimestamps(ctx context.Context, base string, limit int) ([]time.Time, error) {
	args := m.Called(ctx, base, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// --- Test Suite ---
type MetricsServiceTestSuite struct {
	suite.Suite
	portfolioRepo *MockPortfolioReader
	positionRepo  *MockPositionReader
	fxRateRepo    *MockFxRateReader
	registry      portssvc.CurrencyRegistrySvc
	service       portssvc.PortfolioMetricsSvc

	portfolioID string
	asOf        time.Time
}

func (suite *MetricsServiceTestSuite) SetupTest() {
	suite.portfolioRepo = new(MockPortfolioReader)
	suite.positionRepo = new(MockPositionReader)
	suite.fxRateRepo = new(MockFxRateReader)
	suite.registry = services.NewRegistryService(nil)
	suite.registry.Update("USD", "EUR", "GBP", "JPY", "CHF")
	suite.service = services.NewMetricsService(
		suite.portfolioRepo,
		suite.positionRepo,
		suite.fxRateRepo,
		suite.registry,
		"USD",
	)

	suite.portfolioID = uuid.NewString()
	suite.asOf = time.Date(2026, 8, 30, 16, 0, 0, 0, time.UTC)
}

func (suite *MetricsServiceTestSuite) givenPortfolio(base string) {
	suite.portfolioRepo.On("FindPortfolioByID", mock.Anything, suite.portfolioID).Return(&domain.Portfolio{
		PortfolioID:      suite.portfolioID,
		Name:             "Test Portfolio",
		BaseCurrencyCode: base,
	}, nil)
}

func (suite *MetricsServiceTestSuite) givenPositions(positions []domain.Position) {
	suite.positionRepo.On("ListPositionsByPortfolioID", mock.Anything, suite.portfolioID).Return(positions, nil)
}

func (suite *MetricsServiceTestSuite) givenLatestRates(rates map[string]decimal.Decimal) {
	suite.fxRateRepo.On("FindLatestRates", mock.Anything, "USD").Return(rates, &suite.asOf, nil)
}

func standardBook(portfolioID string) []domain.Position {
	return []domain.Position{
		{PositionID: uuid.NewString(), PortfolioID: portfolioID, CurrencyCode: "USD", Amount: decimal.NewFromInt(100), Side: domain.SideLong},
		{PositionID: uuid.NewString(), PortfolioID: portfolioID, CurrencyCode: "EUR", Amount: decimal.NewFromInt(200), Side: domain.SideLong},
		{PositionID: uuid.NewString(), PortfolioID: portfolioID, CurrencyCode: "GBP", Amount: decimal.NewFromInt(50), Side: domain.SideShort},
	}
}

func standardRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.8"),
		"GBP": decimal.RequireFromString("0.5"),
	}
}

// --- Value ---

func (suite *MetricsServiceTestSuite) TestCalculatePortfolioValue_USDView() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.givenLatestRates(standardRates())

	result, err := suite.service.CalculatePortfolioValue(context.Background(), suite.portfolioID, "")

	suite.Require().NoError(err)
	suite.Equal("250.00", result.Value.StringFixed(2))
	suite.Equal(3, result.Priced)
	suite.Equal(0, result.Unpriced)
	suite.Empty(result.UnpricedReasons)
	suite.Require().NotNil(result.AsOf)
	suite.Equal(suite.asOf, *result.AsOf)
}

func (suite *MetricsServiceTestSuite) TestCalculatePortfolioValue_EURView() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.givenLatestRates(standardRates())

	result, err := suite.service.CalculatePortfolioValue(context.Background(), suite.portfolioID, "eur")

	suite.Require().NoError(err)
	suite.Equal("EUR", result.ViewBase)
	suite.Equal("200.00", result.Value.StringFixed(2))
	suite.Equal(3, result.Priced)
}

func (suite *MetricsServiceTestSuite) TestCalculatePortfolioValue_NoPositions() {
	suite.givenPortfolio("USD")
	suite.givenPositions([]domain.Position{})

	result, err := suite.service.CalculatePortfolioValue(context.Background(), suite.portfolioID, "")

	suite.Require().NoError(err)
	suite.Equal("0.00", result.Value.StringFixed(2))
	suite.Equal(0, result.Priced)
	suite.Nil(result.AsOf)
	suite.fxRateRepo.AssertNotCalled(suite.T(), "FindLatestRates", mock.Anything, mock.Anything)
}

func (suite *MetricsServiceTestSuite) TestCalculatePortfolioValue_NoRates() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.fxRateRepo.On("FindLatestRates", mock.Anything, "USD").Return(map[string]decimal.Decimal{}, nil, nil)

	result, err := suite.service.CalculatePortfolioValue(context.Background(), suite.portfolioID, "")

	suite.Require().NoError(err)
	suite.Equal(0, result.Priced)
	suite.Equal(3, result.Unpriced)
	suite.ElementsMatch([]string{"EUR", "GBP", "USD"}, result.UnpricedReasons[domain.UnpricedReasonMissingRate])
}

func (suite *MetricsServiceTestSuite) TestCalculatePortfolioValue_MixedReasons() {
	positions := standardBook(suite.portfolioID)
	positions = append(positions,
		domain.Position{PositionID: uuid.NewString(), PortfolioID: suite.portfolioID, CurrencyCode: "XXX", Amount: decimal.NewFromInt(10), Side: domain.SideLong},
		domain.Position{PositionID: uuid.NewString(), PortfolioID: suite.portfolioID, CurrencyCode: "CHF", Amount: decimal.NewFromInt(20), Side: domain.SideLong},
	)
	suite.givenPortfolio("USD")
	suite.givenPositions(positions)
	suite.givenLatestRates(standardRates())

	result, err := suite.service.CalculatePortfolioValue(context.Background(), suite.portfolioID, "")

	suite.Require().NoError(err)
	suite.Equal(3, result.Priced)
	suite.Equal(2, result.Unpriced)
	suite.Equal([]string{"XXX"}, result.UnpricedReasons[domain.UnpricedReasonUnknownCurrency])
	suite.Equal([]string{"CHF"}, result.UnpricedReasons[domain.UnpricedReasonMissingRate])
	suite.Equal("250.00", result.Value.StringFixed(2))
}

func (suite *MetricsServiceTestSuite) TestCalculatePortfolioValue_UnknownViewBase() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.givenLatestRates(standardRates())

	_, err := suite.service.CalculatePortfolioValue(context.Background(), suite.portfolioID, "CHF")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MetricsServiceTestSuite) TestCalculatePortfolioValue_PortfolioNotFound() {
	suite.portfolioRepo.On("FindPortfolioByID", mock.Anything, suite.portfolioID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.CalculatePortfolioValue(context.Background(), suite.portfolioID, "")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Exposure ---

func (suite *MetricsServiceTestSuite) TestCalculateCurrencyExposure_SortedByMagnitude() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.givenLatestRates(standardRates())

	result, err := suite.service.CalculateCurrencyExposure(context.Background(), suite.portfolioID, 0, "")

	suite.Require().NoError(err)
	suite.Require().Len(result.Exposures, 3)

	// EUR 250 > USD 100 = GBP |-100|; the tie keeps grouping order.
	suite.Equal("EUR", result.Exposures[0].CurrencyCode)
	suite.Equal("250.00", result.Exposures[0].BaseEquivalent.StringFixed(2))
	suite.Equal("200.0000", result.Exposures[0].NetNative.StringFixed(4))

	codes := []string{result.Exposures[1].CurrencyCode, result.Exposures[2].CurrencyCode}
	suite.ElementsMatch([]string{"USD", "GBP"}, codes)
}

func (suite *MetricsServiceTestSuite) TestCalculateCurrencyExposure_TopNCollapsesToOther() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.givenLatestRates(standardRates())

	result, err := suite.service.CalculateCurrencyExposure(context.Background(), suite.portfolioID, 1, "")

	suite.Require().NoError(err)
	suite.Require().Len(result.Exposures, 2)
	suite.Equal("EUR", result.Exposures[0].CurrencyCode)
	suite.Equal("OTHER", result.Exposures[1].CurrencyCode)
	// USD 100 + GBP -100 in view base; native sum is display only.
	suite.Equal("0.00", result.Exposures[1].BaseEquivalent.StringFixed(2))
	suite.Equal("50.0000", result.Exposures[1].NetNative.StringFixed(4))
}

func (suite *MetricsServiceTestSuite) TestCalculateCurrencyExposure_NetsSameCurrency() {
	positions := []domain.Position{
		{PositionID: uuid.NewString(), PortfolioID: suite.portfolioID, CurrencyCode: "EUR", Amount: decimal.NewFromInt(300), Side: domain.SideLong},
		{PositionID: uuid.NewString(), PortfolioID: suite.portfolioID, CurrencyCode: "EUR", Amount: decimal.NewFromInt(100), Side: domain.SideShort},
	}
	suite.givenPortfolio("USD")
	suite.givenPositions(positions)
	suite.givenLatestRates(standardRates())

	result, err := suite.service.CalculateCurrencyExposure(context.Background(), suite.portfolioID, 0, "")

	suite.Require().NoError(err)
	suite.Require().Len(result.Exposures, 1)
	suite.Equal("200.0000", result.Exposures[0].NetNative.StringFixed(4))
	suite.Equal("250.00", result.Exposures[0].BaseEquivalent.StringFixed(2))
}

// --- Daily PnL ---

func (suite *MetricsServiceTestSuite) TestCalculateDailyPnL_TwoTimestamps() {
	previous := suite.asOf.Add(-24 * time.Hour)
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.fxRateRepo.On("FindLatestTwoTimestamps", mock.Anything, "USD").Return(&suite.asOf, &previous, nil)
	suite.fxRateRepo.On("FindRatesForTimestamp", mock.Anything, "USD", suite.asOf).Return(standardRates(), nil)
	suite.fxRateRepo.On("FindRatesForTimestamp", mock.Anything, "USD", previous).Return(map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("1"),
		"GBP": decimal.RequireFromString("0.5"),
	}, nil)

	result, err := suite.service.CalculateDailyPnL(context.Background(), suite.portfolioID, "")

	suite.Require().NoError(err)
	suite.Equal("250.00", result.ValueCurrent.StringFixed(2))
	suite.Require().NotNil(result.ValuePrevious)
	// Previous: 100 + 200*1 - 50*2 = 200
	suite.Equal("200.00", result.ValuePrevious.StringFixed(2))
	suite.Equal("50.00", result.PnL.StringFixed(2))
	suite.False(result.PositionsChanged)
}

func (suite *MetricsServiceTestSuite) TestCalculateDailyPnL_SingleTimestamp() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.fxRateRepo.On("FindLatestTwoTimestamps", mock.Anything, "USD").Return(&suite.asOf, nil, nil)
	suite.fxRateRepo.On("FindRatesForTimestamp", mock.Anything, "USD", suite.asOf).Return(standardRates(), nil)

	result, err := suite.service.CalculateDailyPnL(context.Background(), suite.portfolioID, "")

	suite.Require().NoError(err)
	suite.Equal("250.00", result.ValueCurrent.StringFixed(2))
	suite.Nil(result.ValuePrevious)
	suite.Equal("250.00", result.PnL.StringFixed(2))
	suite.Equal(3, result.UnpricedPrevious)
}

func (suite *MetricsServiceTestSuite) TestCalculateDailyPnL_NoTimestamps() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.fxRateRepo.On("FindLatestTwoTimestamps", mock.Anything, "USD").Return(nil, nil, nil)

	result, err := suite.service.CalculateDailyPnL(context.Background(), suite.portfolioID, "")

	suite.Require().NoError(err)
	suite.Equal("0.00", result.PnL.StringFixed(2))
	suite.Equal(3, result.UnpricedCurrent)
	suite.Equal(3, result.UnpricedPrevious)
	suite.Nil(result.AsOf)
}

// --- Value series ---

func (suite *MetricsServiceTestSuite) TestCalculateValueSeries_OnePointPerDayAscending() {
	day1 := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	day2Early := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	day2Late := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)

	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	// Newest first; the later intraday timestamp wins its calendar day.
	suite.fxRateRepo.On("FindRecentTimestamps", mock.Anything, "USD", 3*3).Return(
		[]time.Time{day2Late, day2Early, day1}, nil)
	suite.fxRateRepo.On("FindRatesForTimestamp", mock.Anything, "USD", day2Late).Return(standardRates(), nil)
	suite.fxRateRepo.On("FindRatesForTimestamp", mock.Anything, "USD", day1).Return(map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("1"),
		"GBP": decimal.RequireFromString("0.5"),
	}, nil)

	result, err := suite.service.CalculatePortfolioValueSeries(context.Background(), suite.portfolioID, "", 3)

	suite.Require().NoError(err)
	suite.Require().Len(result.Series, 2)
	suite.True(result.Series[0].Date.Before(result.Series[1].Date))
	suite.Equal("200.00", result.Series[0].Value.StringFixed(2))
	suite.Equal("250.00", result.Series[1].Value.StringFixed(2))
	suite.fxRateRepo.AssertNotCalled(suite.T(), "FindRatesForTimestamp", mock.Anything, "USD", day2Early)
}

func (suite *MetricsServiceTestSuite) TestCalculateValueSeries_DaysOutOfRange() {
	_, err := suite.service.CalculatePortfolioValueSeries(context.Background(), suite.portfolioID, "", 0)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CalculatePortfolioValueSeries(context.Background(), suite.portfolioID, "", 366)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- What-if shock ---

func (suite *MetricsServiceTestSuite) TestSimulateCurrencyShock_EURUpFivePercent() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.givenLatestRates(standardRates())

	result, err := suite.service.SimulateCurrencyShock(
		context.Background(), suite.portfolioID, "EUR", decimal.NewFromInt(5), "")

	suite.Require().NoError(err)
	suite.Equal("250.00", result.CurrentValue.StringFixed(2))
	suite.Equal("262.50", result.NewValue.StringFixed(2))
	suite.Equal("12.50", result.DeltaValue.StringFixed(2))
	suite.Equal("EUR", result.ShockedCurrency)
}

func (suite *MetricsServiceTestSuite) TestSimulateCurrencyShock_OutOfRange() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))

	_, err := suite.service.SimulateCurrencyShock(
		context.Background(), suite.portfolioID, "EUR", decimal.NewFromInt(11), "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.SimulateCurrencyShock(
		context.Background(), suite.portfolioID, "EUR", decimal.NewFromInt(-11), "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MetricsServiceTestSuite) TestSimulateCurrencyShock_UnpricedPositionFails() {
	positions := append(standardBook(suite.portfolioID), domain.Position{
		PositionID: uuid.NewString(), PortfolioID: suite.portfolioID,
		CurrencyCode: "CHF", Amount: decimal.NewFromInt(10), Side: domain.SideLong,
	})
	suite.givenPortfolio("USD")
	suite.givenPositions(positions)
	suite.givenLatestRates(standardRates())

	_, err := suite.service.SimulateCurrencyShock(
		context.Background(), suite.portfolioID, "EUR", decimal.NewFromInt(5), "")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MetricsServiceTestSuite) TestSimulateCurrencyShock_MissingShockCurrency() {
	suite.givenPortfolio("USD")
	suite.givenPositions(standardBook(suite.portfolioID))
	suite.givenLatestRates(standardRates())

	_, err := suite.service.SimulateCurrencyShock(
		context.Background(), suite.portfolioID, "CHF", decimal.NewFromInt(5), "")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MetricsServiceTestSuite) TestSimulateCurrencyShock_NoPositions() {
	suite.givenPortfolio("USD")
	suite.givenPositions([]domain.Position{})

	_, err := suite.service.SimulateCurrencyShock(
		context.Background(), suite.portfolioID, "EUR", decimal.NewFromInt(5), "")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestMetricsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MetricsServiceTestSuite))
}
