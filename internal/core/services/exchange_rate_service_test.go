package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/core/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockExchangeRateRepository is a mock implementation of ExchangeRateRepositoryFacade
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindLatestEffectiveRate(ctx context.Context, from, to domain.CurrencyCode, at time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListEffectiveRates(ctx context.Context, at time.Time) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) UpdateExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) DeactivateExchangeRate(ctx context.Context, rateID string, userID string, now time.Time) error {
	args := m.Called(ctx, rateID, userID, now)
	return args.Error(0)
}

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockExchangeRateRepository
	mockCache *MockRateCache
	service   portssvc.ExchangeRateSvcFacade
	ctx       context.Context
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExchangeRateRepository)
	suite.mockCache = new(MockRateCache)
	suite.service = services.NewExchangeRateService(suite.mockRepo, suite.mockCache, services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

func validRateRequest() dto.CreateExchangeRateRequest {
	return dto.CreateExchangeRateRequest{
		FromCurrency:  "usd",
		ToCurrency:    "NGN",
		Rate:          dec("1500.1234567"),
		EffectiveDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	req := validRateRequest()
	suite.mockRepo.On("SaveExchangeRate", suite.ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.FromCurrency == domain.CurrencyUSD &&
			r.ToCurrency == domain.CurrencyNGN &&
			r.Rate.Equal(dec("1500.123457")) &&
			r.IsActive &&
			r.Source == services.DefaultRateSource &&
			r.CreatedBy == "admin-1" &&
			r.CreatedAt.Equal(fixedNow)
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", suite.ctx, "USD_TO_NGN").Return(nil).Once()

	rate, err := suite.service.CreateExchangeRate(suite.ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.NotEmpty(rate.ExchangeRateID)
	suite.Equal("1500.123457", rate.Rate.String())
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_ValidationErrors() {
	expiry := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	inactive := false
	tests := []struct {
		name   string
		modify func(r *dto.CreateExchangeRateRequest)
	}{
		{"unsupported from currency", func(r *dto.CreateExchangeRateRequest) { r.FromCurrency = "JPY" }},
		{"unsupported to currency", func(r *dto.CreateExchangeRateRequest) { r.ToCurrency = "XXX" }},
		{"same currencies", func(r *dto.CreateExchangeRateRequest) { r.ToCurrency = "USD" }},
		{"zero rate", func(r *dto.CreateExchangeRateRequest) { r.Rate = decimal.Zero }},
		{"negative rate", func(r *dto.CreateExchangeRateRequest) { r.Rate = dec("-1") }},
		{"missing effective date", func(r *dto.CreateExchangeRateRequest) { r.EffectiveDate = time.Time{} }},
		{"expiry before effective", func(r *dto.CreateExchangeRateRequest) {
			r.ExpiryDate = &expiry
			r.IsActive = &inactive
		}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := validRateRequest()
			tt.modify(&req)

			rate, err := suite.service.CreateExchangeRate(suite.ctx, req, "admin-1")

			suite.Nil(rate)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Duplicate() {
	suite.mockRepo.On("SaveExchangeRate", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	rate, err := suite.service.CreateExchangeRate(suite.ctx, validRateRequest(), "admin-1")

	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockCache.AssertNotCalled(suite.T(), "Invalidate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateExchangeRate_InvalidatesOldAndNewPair() {
	existing := &domain.ExchangeRate{
		ExchangeRateID: "rate-1",
		FromCurrency:   domain.CurrencyEUR,
		ToCurrency:     domain.CurrencyNGN,
		Rate:           dec("1600"),
		EffectiveDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	suite.mockRepo.On("FindExchangeRateByID", suite.ctx, "rate-1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateExchangeRate", suite.ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.FromCurrency == domain.CurrencyUSD && r.LastUpdatedBy == "admin-2" && r.LastUpdatedAt.Equal(fixedNow)
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", suite.ctx, "EUR_TO_NGN").Return(nil).Once()
	suite.mockCache.On("Invalidate", suite.ctx, "USD_TO_NGN").Return(errors.New("redis down")).Once()

	rate, err := suite.service.UpdateExchangeRate(suite.ctx, "rate-1", dto.UpdateExchangeRateRequest(validRateRequest()), "admin-2")

	suite.Require().NoError(err)
	suite.Equal(domain.CurrencyUSD, rate.FromCurrency)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestDeleteExchangeRate_Deactivates() {
	existing := &domain.ExchangeRate{ExchangeRateID: "rate-1", FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyNGN}
	suite.mockRepo.On("FindExchangeRateByID", suite.ctx, "rate-1").Return(existing, nil).Once()
	suite.mockRepo.On("DeactivateExchangeRate", suite.ctx, "rate-1", "admin-1", fixedNow).Return(nil).Once()
	suite.mockCache.On("Invalidate", suite.ctx, "USD_TO_NGN").Return(nil).Once()

	err := suite.service.DeleteExchangeRate(suite.ctx, "rate-1", "admin-1")

	suite.NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestDeleteExchangeRate_NotFound() {
	suite.mockRepo.On("FindExchangeRateByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteExchangeRate(suite.ctx, "missing", "admin-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateExchangeRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetConversionRate_SameCurrencyIsOne() {
	rate, err := suite.service.GetConversionRate(suite.ctx, domain.CurrencyNGN, domain.CurrencyNGN)

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.mockRepo.AssertNotCalled(suite.T(), "FindLatestEffectiveRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetConversionRate_UsesLatestEffective() {
	suite.mockRepo.On("FindLatestEffectiveRate", suite.ctx, domain.CurrencyUSD, domain.CurrencyNGN, fixedNow).
		Return(&domain.ExchangeRate{Rate: dec("1500")}, nil).Once()

	rate, err := suite.service.GetConversionRate(suite.ctx, domain.CurrencyUSD, domain.CurrencyNGN)

	suite.Require().NoError(err)
	suite.Equal("1500", rate.String())
}

func (suite *ExchangeRateServiceTestSuite) TestGetConversionRate_NotFound() {
	suite.mockRepo.On("FindLatestEffectiveRate", suite.ctx, domain.CurrencyGBP, domain.CurrencyNGN, fixedNow).
		Return(nil, apperrors.ErrRateNotFound).Once()

	_, err := suite.service.GetConversionRate(suite.ctx, domain.CurrencyGBP, domain.CurrencyNGN)

	suite.ErrorIs(err, apperrors.ErrRateNotFound)
}

func (suite *ExchangeRateServiceTestSuite) TestGetLatestEffectiveRate_RejectsUnsupportedCurrency() {
	_, err := suite.service.GetLatestEffectiveRate(suite.ctx, domain.CurrencyCode("JPY"), domain.CurrencyNGN)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestListEffectiveRates_OnePerPairLatestWins() {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	candidates := []domain.ExchangeRate{
		{ExchangeRateID: "old", FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyNGN, Rate: dec("1400"), EffectiveDate: jan, IsActive: true},
		{ExchangeRateID: "eur", FromCurrency: domain.CurrencyEUR, ToCurrency: domain.CurrencyNGN, Rate: dec("1650"), EffectiveDate: jan, IsActive: true},
		{ExchangeRateID: "new", FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyNGN, Rate: dec("1500"), EffectiveDate: feb, IsActive: true},
	}
	suite.mockRepo.On("ListEffectiveRates", suite.ctx, fixedNow).Return(candidates, nil).Once()

	rates, err := suite.service.ListEffectiveRates(suite.ctx)

	suite.Require().NoError(err)
	suite.Require().Len(rates, 2)
	suite.Equal("eur", rates[0].ExchangeRateID)
	suite.Equal("new", rates[1].ExchangeRateID)
}
