package handlers_test

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}
func (m *MockExchangeRateService) GetLatestEffectiveRate(ctx context.Context, from, to domain.CurrencyCode) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}
func (m *MockExchangeRateService) ListEffectiveRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}
func (m *MockExchangeRateService) GetConversionRate(ctx context.Context, from, to domain.CurrencyCode) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}
func (m *MockExchangeRateService) UpdateExchangeRate(ctx context.Context, rateID string, req dto.UpdateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rateID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}
func (m *MockExchangeRateService) DeleteExchangeRate(ctx context.Context, rateID string, userID string) error {
	return m.Called(ctx, rateID, userID).Error(0)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock PricingService ---
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) ComputeAmountToPay(ctx context.Context, defaultPrice decimal.Decimal, from, to domain.CurrencyCode) (*domain.PriceQuote, error) {
	args := m.Called(ctx, defaultPrice, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceQuote), args.Error(1)
}
func (m *MockPricingService) IsStale(price domain.ServiceProductPrice) bool {
	return m.Called(price).Bool(0)
}
func (m *MockPricingService) SettlementCurrency() domain.CurrencyCode {
	return m.Called().Get(0).(domain.CurrencyCode)
}
func (m *MockPricingService) CreateOrUpdatePrice(ctx context.Context, req dto.UpsertPriceRequest, userID string) (*domain.ServiceProductPrice, bool, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.ServiceProductPrice), args.Bool(1), args.Error(2)
}
func (m *MockPricingService) GetPriceByPlanID(ctx context.Context, planID string) (*domain.ServiceProductPrice, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceProductPrice), args.Error(1)
}
func (m *MockPricingService) RefreshRate(ctx context.Context, priceID string, userID string) (*domain.ServiceProductPrice, error) {
	args := m.Called(ctx, priceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceProductPrice), args.Error(1)
}
func (m *MockPricingService) DeletePrice(ctx context.Context, priceID string, userID string) error {
	return m.Called(ctx, priceID, userID).Error(0)
}

var _ portssvc.PricingSvcFacade = (*MockPricingService)(nil)

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, actor domain.Actor, orderID string) (*domain.OrderDetails, error) {
	args := m.Called(ctx, actor, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderDetails), args.Error(1)
}
func (m *MockOrderService) GetOrderByReference(ctx context.Context, actor domain.Actor, reference string) (*domain.OrderDetails, error) {
	args := m.Called(ctx, actor, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderDetails), args.Error(1)
}
func (m *MockOrderService) ListMyOrders(ctx context.Context, actor domain.Actor, status *domain.OrderStatus) ([]domain.Order, error) {
	args := m.Called(ctx, actor, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderService) ListAllOrders(ctx context.Context, actor domain.Actor, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListOrdersResponse), args.Error(1)
}
func (m *MockOrderService) GetOrderStatistics(ctx context.Context, actor domain.Actor) (*domain.OrderStatistics, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderStatistics), args.Error(1)
}
func (m *MockOrderService) CreateOrder(ctx context.Context, actor domain.Actor, req dto.CreateOrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) UpdateOrderAction(ctx context.Context, actor domain.Actor, orderID string, req dto.UpdateOrderActionRequest) (*domain.Order, error) {
	args := m.Called(ctx, actor, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) CancelOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, actor, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error {
	return m.Called(ctx, actor, orderID).Error(0)
}

var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

// --- Mock CartService ---
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*domain.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartService) GetActiveCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	return m.cart(m.Called(ctx, actor))
}
func (m *MockCartService) GetCartSummary(ctx context.Context, actor domain.Actor) (*domain.CartSummary, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartSummary), args.Error(1)
}
func (m *MockCartService) ListCarts(ctx context.Context, actor domain.Actor) ([]domain.Cart, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Cart), args.Error(1)
}
func (m *MockCartService) GetOrCreateCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	return m.cart(m.Called(ctx, actor))
}
func (m *MockCartService) AddOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Cart, error) {
	return m.cart(m.Called(ctx, actor, orderID))
}
func (m *MockCartService) RemoveOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Cart, error) {
	return m.cart(m.Called(ctx, actor, orderID))
}
func (m *MockCartService) ClearCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	return m.cart(m.Called(ctx, actor))
}
func (m *MockCartService) ProceedToCheckout(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	return m.cart(m.Called(ctx, actor))
}

var _ portssvc.CartSvcFacade = (*MockCartService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) InitializePayment(ctx context.Context, actor domain.Actor, req dto.InitializePaymentRequest) (*domain.PaymentInitialization, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentInitialization), args.Error(1)
}
func (m *MockPaymentService) VerifyPayment(ctx context.Context, actor domain.Actor, reference string) (*domain.PaymentVerification, error) {
	args := m.Called(ctx, actor, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentVerification), args.Error(1)
}
func (m *MockPaymentService) IsSignatureValid(rawBody []byte, signature string) bool {
	return m.Called(rawBody, signature).Bool(0)
}
func (m *MockPaymentService) ProcessWebhookAsync(ctx context.Context, rawBody []byte) {
	m.Called(ctx, rawBody)
}
func (m *MockPaymentService) ProcessWebhook(ctx context.Context, rawBody []byte) error {
	return m.Called(ctx, rawBody).Error(0)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)
