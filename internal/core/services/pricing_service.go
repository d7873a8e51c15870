package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rate sources stamped on quotes.
const (
	RateSourceIdentity     = "IDENTITY"
	RateSourceExchangeRate = "EXCHANGE_RATE"
)

type pricingService struct {
	BaseService
	rates              portssvc.ExchangeRateReaderSvc
	priceRepo          portsrepo.PriceRepositoryFacade
	catalogRepo        portsrepo.CatalogReader
	settlementCurrency domain.CurrencyCode
	staleAfter         time.Duration
}

// PricingConfig holds the pricing knobs read from configuration.
type PricingConfig struct {
	SettlementCurrency domain.CurrencyCode
	RateStaleAfter     time.Duration
}

// NewPricingService creates the pricing engine and price management service.
func NewPricingService(
	rates portssvc.ExchangeRateReaderSvc,
	priceRepo portsrepo.PriceRepositoryFacade,
	catalogRepo portsrepo.CatalogReader,
	cfg PricingConfig,
	options ...ServiceOption,
) portssvc.PricingSvcFacade {
	svc := &pricingService{
		rates:              rates,
		priceRepo:          priceRepo,
		catalogRepo:        catalogRepo,
		settlementCurrency: cfg.SettlementCurrency,
		staleAfter:         cfg.RateStaleAfter,
	}
	if !svc.settlementCurrency.IsValid() {
		svc.settlementCurrency = domain.CurrencyNGN
	}
	if svc.staleAfter <= 0 {
		svc.staleAfter = domain.DefaultRateStaleAfter
	}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.PricingSvcFacade = (*pricingService)(nil)

func (s *pricingService) SettlementCurrency() domain.CurrencyCode {
	return s.settlementCurrency
}

func (s *pricingService) ComputeAmountToPay(ctx context.Context, defaultPrice decimal.Decimal, from, to domain.CurrencyCode) (*domain.PriceQuote, error) {
	if defaultPrice.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidation)
	}
	rate, err := s.rates.GetConversionRate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	source := RateSourceExchangeRate
	if from == to {
		source = RateSourceIdentity
	}
	return &domain.PriceQuote{
		Amount:        utils.RoundMoney(defaultPrice.Mul(rate)),
		Currency:      to,
		Rate:          rate,
		RateTimestamp: s.Now(),
		RateSource:    source,
	}, nil
}

func (s *pricingService) IsStale(price domain.ServiceProductPrice) bool {
	return price.IsRateStale(s.Now(), s.staleAfter)
}

func (s *pricingService) CreateOrUpdatePrice(ctx context.Context, req dto.UpsertPriceRequest, userID string) (*domain.ServiceProductPrice, bool, error) {
	if req.DefaultPrice.LessThanOrEqual(decimal.Zero) {
		return nil, false, fmt.Errorf("%w: default price must be positive", apperrors.ErrValidation)
	}
	defaultCurrency, ok := domain.ParseCurrencyCode(req.DefaultCurrency)
	if !ok {
		return nil, false, fmt.Errorf("%w: unsupported currency '%s'", apperrors.ErrValidation, req.DefaultCurrency)
	}
	amountCurrency := s.settlementCurrency
	if req.AmountCurrency != "" {
		if amountCurrency, ok = domain.ParseCurrencyCode(req.AmountCurrency); !ok {
			return nil, false, fmt.Errorf("%w: unsupported currency '%s'", apperrors.ErrValidation, req.AmountCurrency)
		}
	}

	if _, err := s.catalogRepo.FindServicePlanByID(ctx, req.ServicePlanID); err != nil {
		return nil, false, err
	}

	quote, err := s.ComputeAmountToPay(ctx, req.DefaultPrice, defaultCurrency, amountCurrency)
	if err != nil {
		s.LogError(ctx, err, "Failed to price plan", slog.String("plan_id", req.ServicePlanID))
		return nil, false, err
	}

	now := s.Now()
	created := false
	price, err := s.priceRepo.FindPriceByPlanID(ctx, req.ServicePlanID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		created = true
		price = &domain.ServiceProductPrice{
			PriceID:       uuid.NewString(),
			ServicePlanID: req.ServicePlanID,
			AuditFields:   domain.NewAuditFields(userID, now),
		}
	case err != nil:
		return nil, false, fmt.Errorf("failed to load price for plan %s: %w", req.ServicePlanID, err)
	default:
		price.Touch(userID, now)
	}

	price.DefaultPrice = req.DefaultPrice
	price.DefaultCurrency = defaultCurrency
	applyQuote(price, quote, req.RateSource)

	if err := s.priceRepo.SavePrice(ctx, *price); err != nil {
		s.LogError(ctx, err, "Failed to save price", slog.String("plan_id", req.ServicePlanID))
		return nil, false, fmt.Errorf("failed to save price: %w", err)
	}
	s.LogInfo(ctx, "Plan price saved",
		slog.String("plan_id", price.ServicePlanID),
		slog.String("amount_to_pay", price.AmountToPay.String()),
		slog.Bool("created", created))
	return price, created, nil
}

func (s *pricingService) GetPriceByPlanID(ctx context.Context, planID string) (*domain.ServiceProductPrice, error) {
	return s.priceRepo.FindPriceByPlanID(ctx, planID)
}

func (s *pricingService) RefreshRate(ctx context.Context, priceID string, userID string) (*domain.ServiceProductPrice, error) {
	price, err := s.priceRepo.FindPriceByID(ctx, priceID)
	if err != nil {
		return nil, err
	}
	wasStale := s.IsStale(*price)

	quote, err := s.ComputeAmountToPay(ctx, price.DefaultPrice, price.DefaultCurrency, price.AmountCurrency)
	if err != nil {
		s.LogError(ctx, err, "Failed to refresh price rate", slog.String("price_id", priceID))
		return nil, err
	}
	applyQuote(price, quote, price.RateSource)
	price.Touch(userID, s.Now())

	if err := s.priceRepo.SavePrice(ctx, *price); err != nil {
		return nil, fmt.Errorf("failed to save refreshed price: %w", err)
	}
	s.LogInfo(ctx, "Price rate refreshed",
		slog.String("price_id", priceID),
		slog.Bool("was_stale", wasStale),
		slog.String("rate", quote.Rate.String()))
	return price, nil
}

func (s *pricingService) DeletePrice(ctx context.Context, priceID string, userID string) error {
	if _, err := s.priceRepo.FindPriceByID(ctx, priceID); err != nil {
		return err
	}
	if err := s.priceRepo.DeletePrice(ctx, priceID); err != nil {
		return fmt.Errorf("failed to delete price: %w", err)
	}
	s.LogInfo(ctx, "Price deleted", slog.String("price_id", priceID), slog.String("user_id", userID))
	return nil
}

func applyQuote(price *domain.ServiceProductPrice, quote *domain.PriceQuote, rateSource string) {
	price.AmountToPay = quote.Amount
	price.AmountCurrency = quote.Currency
	price.ConversionRate = quote.Rate
	price.RateTimestamp = quote.RateTimestamp
	price.RateSource = quote.RateSource
	if rateSource != "" && quote.RateSource != RateSourceIdentity {
		price.RateSource = rateSource
	}
}
