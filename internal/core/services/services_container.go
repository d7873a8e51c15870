package services

import (
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/platform/config"
	"github.com/SscSPs/kudi_commerce/internal/utils"
)

// ServiceDeps bundles the adapters the services call out to.
type ServiceDeps struct {
	PaymentGateway    gateways.PaymentGateway
	WebhookDispatcher gateways.WebhookDispatcher
	RateCache         gateways.RateSnapshotCache
	EventTracker      gateways.EventTracker
	CredentialCipher  *utils.CredentialCipher
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps ServiceDeps, options ...ServiceOption) *portssvc.ServiceContainer {
	if deps.EventTracker != nil {
		options = append(options, WithEventTracker(deps.EventTracker))
	}
	settlement, _ := domain.ParseCurrencyCode(cfg.SettlementCurrency)

	container := &portssvc.ServiceContainer{}

	// Rates come first: pricing and the cart summary read through them.
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, deps.RateCache, options...)

	container.Pricing = NewPricingService(
		container.ExchangeRate,
		repos.PriceRepo,
		repos.CatalogRepo,
		PricingConfig{SettlementCurrency: settlement, RateStaleAfter: cfg.RateStaleAfter},
		options...,
	)

	container.Order = NewOrderService(
		repos,
		container.Pricing,
		deps.CredentialCipher,
		OrderConfig{ServiceFeePercent: cfg.ServiceFeePercent},
		options...,
	)

	container.Cart = NewCartService(
		repos,
		container.ExchangeRate,
		deps.RateCache,
		CartConfig{
			Currency:           settlement,
			Expiry:             cfg.CartExpiry,
			LiveRateCurrencies: parseCurrencies(cfg.LiveRateCurrencies),
			LiveRateCacheTTL:   cfg.LiveRateCacheTTL,
		},
		options...,
	)

	container.Payment = NewPaymentService(
		repos,
		deps.PaymentGateway,
		deps.WebhookDispatcher,
		PaymentConfig{CallbackURL: cfg.PaystackCallbackURL},
		options...,
	)

	return container
}

func parseCurrencies(codes []string) []domain.CurrencyCode {
	out := make([]domain.CurrencyCode, 0, len(codes))
	for _, code := range codes {
		if c, ok := domain.ParseCurrencyCode(code); ok {
			out = append(out, c)
		}
	}
	return out
}
