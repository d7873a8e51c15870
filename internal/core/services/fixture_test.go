package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/core/services"
	"github.com/SscSPs/kudi_commerce/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

var (
	customer      = domain.Actor{UserID: "user-1", Email: "ada@example.com", FullName: "Ada Obi", PhoneNumber: "+2348000000000"}
	otherCustomer = domain.Actor{UserID: "user-2", Email: "bola@example.com", FullName: "Bola Ade"}
	admin         = domain.Actor{UserID: "admin-1", Email: "ops@example.com", Roles: []string{domain.RoleAdmin}}
)

const (
	testProductID = "prod-1"
	testPlanID    = "plan-1"
)

// app wires every service against one memStore, the way the container does.
type app struct {
	store    *memStore
	tracker  *recordingTracker
	gateway  *MockPaymentGateway
	rates    portssvc.ExchangeRateSvcFacade
	pricing  portssvc.PricingSvcFacade
	orders   portssvc.OrderSvcFacade
	carts    portssvc.CartSvcFacade
	payments portssvc.PaymentSvcFacade
}

func newApp(t *testing.T) *app {
	t.Helper()
	store := newMemStore()
	tracker := &recordingTracker{}
	gateway := new(MockPaymentGateway)
	cipher, err := utils.NewCredentialCipher("test-credential-secret")
	require.NoError(t, err)

	opts := []services.ServiceOption{services.WithClock(fixedClock), services.WithEventTracker(tracker)}
	repos := store.provider()

	a := &app{store: store, tracker: tracker, gateway: gateway}
	a.rates = services.NewExchangeRateService(store, nil, opts...)
	a.pricing = services.NewPricingService(a.rates, store, store,
		services.PricingConfig{SettlementCurrency: domain.CurrencyNGN}, opts...)
	a.orders = services.NewOrderService(repos, a.pricing, cipher, services.OrderConfig{}, opts...)
	a.carts = services.NewCartService(repos, a.rates, nil, services.CartConfig{
		Currency:           domain.CurrencyNGN,
		LiveRateCurrencies: []domain.CurrencyCode{domain.CurrencyUSD, domain.CurrencyEUR},
	}, opts...)
	a.payments = services.NewPaymentService(repos, gateway, nil, services.PaymentConfig{CallbackURL: "https://kudi.test/callback"}, opts...)
	return a
}

// seedCatalog stores an ACTIVE product and plan priced at 50 USD, and a USD->NGN rate of 1500.
func (a *app) seedCatalog(t *testing.T) {
	t.Helper()
	audit := domain.NewAuditFields("seed", fixedNow.Add(-30*24*time.Hour))
	a.store.products[testProductID] = domain.ServiceProduct{
		ServiceProductID: testProductID, Title: "Netflix Premium", Status: domain.ProductActive, AuditFields: audit,
	}
	a.store.plans[testPlanID] = domain.ServicePlan{
		ServicePlanID: testPlanID, ServiceProductID: testProductID, PlanName: "Monthly",
		Amount: decimal.NewFromInt(50), Currency: domain.CurrencyUSD, Status: domain.PlanActive, AuditFields: audit,
	}
	a.store.rates["rate-usd-ngn"] = domain.ExchangeRate{
		ExchangeRateID: "rate-usd-ngn", FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyNGN,
		Rate: decimal.NewFromInt(1500), EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive: true, Source: "MANUAL", AuditFields: audit,
	}
	a.store.prices["price-1"] = domain.ServiceProductPrice{
		PriceID: "price-1", ServicePlanID: testPlanID, DefaultPrice: decimal.NewFromInt(50), DefaultCurrency: domain.CurrencyUSD,
		AmountToPay: decimal.NewFromInt(75000), AmountCurrency: domain.CurrencyNGN, ConversionRate: decimal.NewFromInt(1500),
		RateTimestamp: fixedNow.Add(-time.Hour), RateSource: services.RateSourceExchangeRate, AuditFields: audit,
	}
}

func (a *app) createOrder(t *testing.T, actor domain.Actor) *domain.Order {
	t.Helper()
	order, err := a.orders.CreateOrder(context.Background(), actor, createOrderRequest())
	require.NoError(t, err)
	return order
}

// checkedOutCart creates one order for customer, adds it to the cart and checks out.
func (a *app) checkedOutCart(t *testing.T) (*domain.Cart, *domain.Order) {
	t.Helper()
	ctx := context.Background()
	order := a.createOrder(t, customer)
	_, err := a.carts.AddOrder(ctx, customer, order.OrderID)
	require.NoError(t, err)
	cart, err := a.carts.ProceedToCheckout(ctx, customer)
	require.NoError(t, err)
	return cart, order
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// MockPaymentGateway is a mock implementation of gateways.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) InitializeTransaction(ctx context.Context, req domain.PaymentInitRequest) (*domain.PaymentAuthorization, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAuthorization), args.Error(1)
}

func (m *MockPaymentGateway) VerifyTransaction(ctx context.Context, reference string) (*domain.GatewayVerification, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayVerification), args.Error(1)
}

func (m *MockPaymentGateway) IsSignatureValid(rawBody []byte, signature string) bool {
	args := m.Called(rawBody, signature)
	return args.Bool(0)
}

func (m *MockPaymentGateway) ParseWebhookEvent(rawBody []byte) (*domain.WebhookEvent, error) {
	args := m.Called(rawBody)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookEvent), args.Error(1)
}

// MockRateCache is a mock implementation of gateways.RateSnapshotCache
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetRate(ctx context.Context, pairKey string) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, pairKey)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockRateCache) SetRate(ctx context.Context, pairKey string, rate decimal.Decimal, ttl time.Duration) error {
	args := m.Called(ctx, pairKey, rate, ttl)
	return args.Error(0)
}

func (m *MockRateCache) Invalidate(ctx context.Context, pairKey string) error {
	args := m.Called(ctx, pairKey)
	return args.Error(0)
}

// MockWebhookDispatcher is a mock implementation of gateways.WebhookDispatcher
type MockWebhookDispatcher struct {
	mock.Mock
}

func (m *MockWebhookDispatcher) Dispatch(ctx context.Context, rawBody []byte) error {
	args := m.Called(ctx, rawBody)
	return args.Error(0)
}
