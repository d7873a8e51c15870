package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRateSource tags rates entered through the admin API.
const DefaultRateSource = "MANUAL"

type exchangeRateService struct {
	BaseService
	rateRepo  portsrepo.ExchangeRateRepositoryFacade
	rateCache gateways.RateSnapshotCache
}

// NewExchangeRateService creates the exchange rate service. rateCache may be nil; when
// set, writes invalidate the cached snapshot of the affected pair.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, rateCache gateways.RateSnapshotCache, options ...ServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo:  rateRepo,
		rateCache: rateCache,
	}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

type rateInput struct {
	from, to domain.CurrencyCode
	rate     decimal.Decimal
	isActive bool
	source   string
	provider string
}

func validateRateRequest(req dto.CreateExchangeRateRequest) (*rateInput, error) {
	from, ok := domain.ParseCurrencyCode(req.FromCurrency)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported currency '%s'", apperrors.ErrValidation, req.FromCurrency)
	}
	to, ok := domain.ParseCurrencyCode(req.ToCurrency)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported currency '%s'", apperrors.ErrValidation, req.ToCurrency)
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currencies cannot be the same", apperrors.ErrValidation)
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.EffectiveDate.IsZero() {
		return nil, fmt.Errorf("%w: effective date is required", apperrors.ErrValidation)
	}
	if req.ExpiryDate != nil && req.ExpiryDate.Before(req.EffectiveDate) {
		return nil, fmt.Errorf("%w: effective date must not be after expiry date", apperrors.ErrValidation)
	}

	in := &rateInput{
		from:     from,
		to:       to,
		rate:     utils.RoundHalfUp(req.Rate, utils.RateScale),
		isActive: true,
		source:   req.Source,
		provider: req.Provider,
	}
	if req.IsActive != nil {
		in.isActive = *req.IsActive
	}
	if in.source == "" {
		in.source = DefaultRateSource
	}
	return in, nil
}

func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	in, err := validateRateRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		FromCurrency:   in.from,
		ToCurrency:     in.to,
		Rate:           in.rate,
		EffectiveDate:  req.EffectiveDate.UTC(),
		ExpiryDate:     utcPtr(req.ExpiryDate),
		IsActive:       in.isActive,
		Source:         in.source,
		Provider:       in.provider,
		AuditFields:    domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("pair", domain.PairKey(in.from, in.to)))
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	s.invalidate(ctx, in.from, in.to)
	s.LogInfo(ctx, "Exchange rate created",
		slog.String("exchange_rate_id", rate.ExchangeRateID),
		slog.String("pair", domain.PairKey(in.from, in.to)),
		slog.String("rate", rate.Rate.String()))
	return &rate, nil
}

func (s *exchangeRateService) UpdateExchangeRate(ctx context.Context, rateID string, req dto.UpdateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	in, err := validateRateRequest(dto.CreateExchangeRateRequest(req))
	if err != nil {
		return nil, err
	}

	rate, err := s.rateRepo.FindExchangeRateByID(ctx, rateID)
	if err != nil {
		return nil, err
	}
	oldFrom, oldTo := rate.FromCurrency, rate.ToCurrency

	rate.FromCurrency = in.from
	rate.ToCurrency = in.to
	rate.Rate = in.rate
	rate.EffectiveDate = req.EffectiveDate.UTC()
	rate.ExpiryDate = utcPtr(req.ExpiryDate)
	rate.IsActive = in.isActive
	rate.Source = in.source
	rate.Provider = in.provider
	rate.Touch(userID, s.Now())

	if err := s.rateRepo.UpdateExchangeRate(ctx, *rate); err != nil {
		s.LogError(ctx, err, "Failed to update exchange rate", slog.String("exchange_rate_id", rateID))
		return nil, fmt.Errorf("failed to update exchange rate: %w", err)
	}

	s.invalidate(ctx, oldFrom, oldTo)
	s.invalidate(ctx, in.from, in.to)
	return rate, nil
}

func (s *exchangeRateService) DeleteExchangeRate(ctx context.Context, rateID string, userID string) error {
	rate, err := s.rateRepo.FindExchangeRateByID(ctx, rateID)
	if err != nil {
		return err
	}
	if err := s.rateRepo.DeactivateExchangeRate(ctx, rateID, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate exchange rate", slog.String("exchange_rate_id", rateID))
		return fmt.Errorf("failed to delete exchange rate: %w", err)
	}
	s.invalidate(ctx, rate.FromCurrency, rate.ToCurrency)
	s.LogInfo(ctx, "Exchange rate deactivated", slog.String("exchange_rate_id", rateID))
	return nil
}

func (s *exchangeRateService) GetExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	return s.rateRepo.FindExchangeRateByID(ctx, rateID)
}

func (s *exchangeRateService) GetLatestEffectiveRate(ctx context.Context, from, to domain.CurrencyCode) (*domain.ExchangeRate, error) {
	if !from.IsValid() || !to.IsValid() {
		return nil, fmt.Errorf("%w: unsupported currency pair %s", apperrors.ErrValidation, domain.PairKey(from, to))
	}
	rate, err := s.rateRepo.FindLatestEffectiveRate(ctx, from, to, s.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrRateNotFound) {
			s.LogError(ctx, err, "Failed to look up effective rate", slog.String("pair", domain.PairKey(from, to)))
		}
		return nil, err
	}
	return rate, nil
}

func (s *exchangeRateService) ListEffectiveRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	now := s.Now()
	candidates, err := s.rateRepo.ListEffectiveRates(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list effective rates: %w", err)
	}

	byPair := make(map[string][]domain.ExchangeRate)
	for _, r := range candidates {
		key := domain.PairKey(r.FromCurrency, r.ToCurrency)
		byPair[key] = append(byPair[key], r)
	}

	keys := make([]string, 0, len(byPair))
	for k := range byPair {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rates := make([]domain.ExchangeRate, 0, len(keys))
	for _, k := range keys {
		if latest, ok := domain.LatestEffective(byPair[k], now); ok {
			rates = append(rates, *latest)
		}
	}
	return rates, nil
}

func (s *exchangeRateService) GetConversionRate(ctx context.Context, from, to domain.CurrencyCode) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, err := s.GetLatestEffectiveRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return rate.Rate, nil
}

func (s *exchangeRateService) invalidate(ctx context.Context, from, to domain.CurrencyCode) {
	if s.rateCache == nil {
		return
	}
	if err := s.rateCache.Invalidate(ctx, domain.PairKey(from, to)); err != nil {
		s.LogError(ctx, err, "Failed to invalidate cached rate", slog.String("pair", domain.PairKey(from, to)))
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
