package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/core/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	app *app
	ctx context.Context
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.app = newApp(suite.T())
	suite.app.seedCatalog(suite.T())
	suite.ctx = context.Background()
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (suite *PaymentServiceTestSuite) webhook(event, reference string) []byte {
	body := []byte(`{"event":"` + event + `","data":{"reference":"` + reference + `"}}`)
	suite.app.gateway.On("ParseWebhookEvent", body).
		Return(&domain.WebhookEvent{Event: event, Reference: reference}, nil)
	return body
}

func (suite *PaymentServiceTestSuite) TestFiftyDollarOrderSettledByWebhook() {
	order, err := suite.app.orders.CreateOrder(suite.ctx, customer, createOrderRequest())
	suite.Require().NoError(err)
	suite.Equal("75000.0000", order.Amount.StringFixed(4))
	suite.Equal("1500.0000", order.ServiceFee.StringFixed(4))
	suite.Equal("76500.0000", order.TotalAmount.StringFixed(4))

	_, err = suite.app.carts.AddOrder(suite.ctx, customer, order.OrderID)
	suite.Require().NoError(err)
	cart, err := suite.app.carts.ProceedToCheckout(suite.ctx, customer)
	suite.Require().NoError(err)
	suite.Equal(domain.CartCheckoutInitiated, cart.Status)
	suite.Equal("76500.0000", cart.TotalAmount.StringFixed(4))

	body := suite.webhook(domain.EventChargeSuccess, *cart.PaymentReference)
	suite.Require().NoError(suite.app.payments.ProcessWebhook(suite.ctx, body))

	settled := suite.app.store.cart(cart.CartID)
	suite.Equal(domain.CartCompleted, settled.Status)
	paid := suite.app.store.order(order.OrderID)
	suite.Equal(domain.OrderPaid, paid.Status)
	suite.Equal(domain.ActionPendingReview, paid.Action)
	suite.False(paid.IsInCart)
	suite.Require().NotNil(paid.PaymentReference)
	suite.Equal(*cart.PaymentReference, *paid.PaymentReference)
	suite.Equal(domain.SystemActorID, paid.LastUpdatedBy)
	suite.True(suite.app.tracker.has("payment_completed"))
}

func (suite *PaymentServiceTestSuite) TestProcessWebhook_SecondDeliveryIsIdempotent() {
	cart, order := suite.app.checkedOutCart(suite.T())
	body := suite.webhook(domain.EventChargeSuccess, *cart.PaymentReference)

	suite.Require().NoError(suite.app.payments.ProcessWebhook(suite.ctx, body))
	cartVersion := suite.app.store.cart(cart.CartID).Version
	orderVersion := suite.app.store.order(order.OrderID).Version

	suite.Require().NoError(suite.app.payments.ProcessWebhook(suite.ctx, body))
	suite.Equal(cartVersion, suite.app.store.cart(cart.CartID).Version)
	suite.Equal(orderVersion, suite.app.store.order(order.OrderID).Version)

	// A late failure for a completed cart changes nothing either.
	failed := suite.webhook(domain.EventChargeFailed, *cart.PaymentReference)
	suite.Require().NoError(suite.app.payments.ProcessWebhook(suite.ctx, failed))
	suite.Equal(domain.CartCompleted, suite.app.store.cart(cart.CartID).Status)
	suite.Equal(domain.OrderPaid, suite.app.store.order(order.OrderID).Status)
}

func (suite *PaymentServiceTestSuite) TestProcessWebhook_OrderCannotBeCancelledMidCheckout() {
	cart, order := suite.app.checkedOutCart(suite.T())
	_, err := suite.app.orders.CancelOrder(suite.ctx, customer, order.OrderID)
	suite.Require().ErrorIs(err, apperrors.ErrInvalidOperation)

	body := suite.webhook(domain.EventChargeSuccess, *cart.PaymentReference)
	suite.Require().NoError(suite.app.payments.ProcessWebhook(suite.ctx, body))

	// The customer paid for exactly the orders that were checked out.
	settled := suite.app.store.cart(cart.CartID)
	suite.Equal(domain.CartCompleted, settled.Status)
	suite.Equal(1, settled.ItemCount)
	suite.Equal(domain.OrderPaid, suite.app.store.order(order.OrderID).Status)

	// Once paid, cancellation is allowed again and the order stays terminal.
	cancelled, err := suite.app.orders.CancelOrder(suite.ctx, customer, order.OrderID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderCancelled, cancelled.Status)
}

func (suite *PaymentServiceTestSuite) TestProcessWebhook_ChargeFailed() {
	cart, order := suite.app.checkedOutCart(suite.T())
	body := suite.webhook(domain.EventChargeFailed, *cart.PaymentReference)

	suite.Require().NoError(suite.app.payments.ProcessWebhook(suite.ctx, body))

	suite.Equal(domain.CartFailed, suite.app.store.cart(cart.CartID).Status)
	failed := suite.app.store.order(order.OrderID)
	suite.Equal(domain.OrderFailed, failed.Status)
	suite.Require().NotNil(failed.PaymentReference)
	suite.True(suite.app.tracker.has("payment_failed"))
}

func (suite *PaymentServiceTestSuite) TestProcessWebhook_IgnoredAndUnknown() {
	cart, _ := suite.app.checkedOutCart(suite.T())

	transfer := suite.webhook("transfer.success", *cart.PaymentReference)
	suite.NoError(suite.app.payments.ProcessWebhook(suite.ctx, transfer))
	suite.Equal(domain.CartCheckoutInitiated, suite.app.store.cart(cart.CartID).Status)

	unknown := suite.webhook(domain.EventChargeSuccess, "KUDI-20250101000000-1234")
	suite.NoError(suite.app.payments.ProcessWebhook(suite.ctx, unknown))

	noRef := suite.webhook(domain.EventChargeSuccess, "")
	suite.ErrorIs(suite.app.payments.ProcessWebhook(suite.ctx, noRef), apperrors.ErrValidation)

	garbage := []byte("not json")
	suite.app.gateway.On("ParseWebhookEvent", garbage).Return(nil, errors.New("invalid character")).Once()
	suite.Error(suite.app.payments.ProcessWebhook(suite.ctx, garbage))
}

func (suite *PaymentServiceTestSuite) TestProcessWebhookAsync_UsesDispatcher() {
	dispatcher := new(MockWebhookDispatcher)
	payments := services.NewPaymentService(suite.app.store.provider(), suite.app.gateway, dispatcher, services.PaymentConfig{})
	raw := []byte(`{"event":"charge.success"}`)
	dispatcher.On("Dispatch", mock.Anything, raw).Return(nil).Once()

	payments.ProcessWebhookAsync(suite.ctx, raw)

	dispatcher.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestIsSignatureValid() {
	body := []byte(`{"event":"charge.success"}`)
	suite.app.gateway.On("IsSignatureValid", body, "good").Return(true).Once()
	suite.app.gateway.On("IsSignatureValid", body, "bad").Return(false).Once()

	suite.True(suite.app.payments.IsSignatureValid(body, "good"))
	suite.False(suite.app.payments.IsSignatureValid(body, "bad"))
	suite.False(suite.app.payments.IsSignatureValid(body, ""))
	suite.False(suite.app.payments.IsSignatureValid(nil, "good"))
	suite.app.gateway.AssertNumberOfCalls(suite.T(), "IsSignatureValid", 2)
}

func (suite *PaymentServiceTestSuite) TestInitializePayment() {
	cart, _ := suite.app.checkedOutCart(suite.T())
	suite.app.gateway.On("InitializeTransaction", mock.Anything, mock.MatchedBy(func(req domain.PaymentInitRequest) bool {
		return req.AmountMinor == 7650000 &&
			req.Currency == domain.CurrencyNGN &&
			req.Reference == *cart.PaymentReference &&
			req.Email == customer.Email &&
			req.CallbackURL == "https://kudi.test/callback" &&
			len(req.Channels) == 3 &&
			req.Metadata["cart_reference"] == cart.CartReference &&
			req.Metadata["item_count"] == 1 &&
			req.Metadata["source"] == "web"
	})).Return(&domain.PaymentAuthorization{
		AuthorizationURL: "https://checkout.paystack.com/abc",
		AccessCode:       "abc",
		Reference:        *cart.PaymentReference,
	}, nil).Once()

	initialized, err := suite.app.payments.InitializePayment(suite.ctx, customer, dto.InitializePaymentRequest{
		CartReference: cart.CartReference,
		Metadata:      map[string]any{"source": "web"},
	})

	suite.Require().NoError(err)
	suite.Equal("https://checkout.paystack.com/abc", initialized.AuthorizationURL)
	suite.Equal(int64(7650000), initialized.AmountMinor)
	stored := suite.app.store.cart(cart.CartID)
	suite.Require().NotNil(stored.AccessCode)
	suite.Equal("abc", *stored.AccessCode)
	suite.app.gateway.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestInitializePayment_Rules() {
	order := suite.app.createOrder(suite.T(), customer)
	active, err := suite.app.carts.AddOrder(suite.ctx, customer, order.OrderID)
	suite.Require().NoError(err)

	_, err = suite.app.payments.InitializePayment(suite.ctx, customer, dto.InitializePaymentRequest{CartReference: active.CartReference})
	suite.ErrorIs(err, apperrors.ErrPaymentState)

	cart, err := suite.app.carts.ProceedToCheckout(suite.ctx, customer)
	suite.Require().NoError(err)

	_, err = suite.app.payments.InitializePayment(suite.ctx, otherCustomer, dto.InitializePaymentRequest{CartReference: cart.CartReference})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.app.payments.InitializePayment(suite.ctx, domain.Actor{UserID: customer.UserID}, dto.InitializePaymentRequest{CartReference: cart.CartReference})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.app.payments.InitializePayment(suite.ctx, customer, dto.InitializePaymentRequest{CartReference: "CART-missing"})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.app.gateway.On("InitializeTransaction", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: timeout")).Once()
	_, err = suite.app.payments.InitializePayment(suite.ctx, customer, dto.InitializePaymentRequest{CartReference: cart.CartReference})
	suite.ErrorIs(err, apperrors.ErrPaymentGateway)
}

func (suite *PaymentServiceTestSuite) TestVerifyPayment_Success() {
	cart, order := suite.app.checkedOutCart(suite.T())
	ref := *cart.PaymentReference
	suite.app.gateway.On("VerifyTransaction", mock.Anything, ref).
		Return(&domain.GatewayVerification{Ok: true, Status: domain.GatewayStatusSuccess, Reference: ref, AmountMinor: 7650000}, nil).Once()

	result, err := suite.app.payments.VerifyPayment(suite.ctx, customer, ref)

	suite.Require().NoError(err)
	suite.Equal(domain.VerificationSucceeded, result.Outcome)
	suite.Equal(domain.CartCompleted, result.CartStatus)
	suite.Equal(domain.OrderPaid, suite.app.store.order(order.OrderID).Status)

	// Verified carts short-circuit without asking the gateway again.
	again, err := suite.app.payments.VerifyPayment(suite.ctx, customer, ref)
	suite.Require().NoError(err)
	suite.Equal(domain.VerificationSucceeded, again.Outcome)
	suite.Equal("Payment already verified", again.Message)
	suite.app.gateway.AssertNumberOfCalls(suite.T(), "VerifyTransaction", 1)
}

func (suite *PaymentServiceTestSuite) TestVerifyPayment_NonSettlingOutcomes() {
	tests := []struct {
		name         string
		verification *domain.GatewayVerification
		err          error
		wantOutcome  domain.VerificationOutcome
		wantErr      error
		wantCart     domain.CartStatus
	}{
		{
			name:         "gateway rejects call",
			verification: &domain.GatewayVerification{Ok: false, Message: "Transaction reference not found"},
			wantOutcome:  domain.VerificationFailed,
			wantCart:     domain.CartCheckoutInitiated,
		},
		{
			name:         "still pending",
			verification: &domain.GatewayVerification{Ok: true, Status: "ongoing"},
			wantOutcome:  domain.VerificationPending,
			wantCart:     domain.CartCheckoutInitiated,
		},
		{
			name:         "declined",
			verification: &domain.GatewayVerification{Ok: true, Status: domain.GatewayStatusFailed},
			wantOutcome:  domain.VerificationFailed,
			wantCart:     domain.CartFailed,
		},
		{
			name:     "transport error",
			err:      errors.New("context deadline exceeded"),
			wantErr:  apperrors.ErrPaymentGateway,
			wantCart: domain.CartCheckoutInitiated,
		},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			cart, _ := suite.app.checkedOutCart(suite.T())
			ref := *cart.PaymentReference
			if tt.verification != nil {
				suite.app.gateway.On("VerifyTransaction", mock.Anything, ref).Return(tt.verification, nil).Once()
			} else {
				suite.app.gateway.On("VerifyTransaction", mock.Anything, ref).Return(nil, tt.err).Once()
			}

			result, err := suite.app.payments.VerifyPayment(suite.ctx, customer, ref)

			if tt.wantErr != nil {
				suite.ErrorIs(err, tt.wantErr)
			} else {
				suite.Require().NoError(err)
				suite.Equal(tt.wantOutcome, result.Outcome)
			}
			suite.Equal(tt.wantCart, suite.app.store.cart(cart.CartID).Status)
		})
	}
}

func (suite *PaymentServiceTestSuite) TestVerifyPayment_OwnerOrAdmin() {
	cart, _ := suite.app.checkedOutCart(suite.T())

	_, err := suite.app.payments.VerifyPayment(suite.ctx, otherCustomer, *cart.PaymentReference)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.app.gateway.AssertNotCalled(suite.T(), "VerifyTransaction", mock.Anything, mock.Anything)
}
