package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/SscSPs/kudi_commerce/internal/utils"
)

// DefaultPaymentChannels are offered to the customer on the hosted checkout page.
var DefaultPaymentChannels = []string{"card", "bank", "bank_transfer"}

// PaymentConfig holds the payment knobs read from configuration.
type PaymentConfig struct {
	CallbackURL string
	Channels    []string
}

type paymentService struct {
	BaseService
	cartRepo   portsrepo.CartRepositoryFacade
	orderRepo  portsrepo.OrderRepositoryFacade
	txRunner   portsrepo.TxRunner
	gateway    gateways.PaymentGateway
	dispatcher gateways.WebhookDispatcher
	cfg        PaymentConfig
}

// NewPaymentService creates the payment reconciliation service. Webhook bodies are
// handed to dispatcher; with a nil dispatcher they are processed on a detached goroutine.
func NewPaymentService(
	repos portsrepo.RepositoryProvider,
	gateway gateways.PaymentGateway,
	dispatcher gateways.WebhookDispatcher,
	cfg PaymentConfig,
	options ...ServiceOption,
) portssvc.PaymentSvcFacade {
	if len(cfg.Channels) == 0 {
		cfg.Channels = DefaultPaymentChannels
	}
	svc := &paymentService{
		cartRepo:   repos.CartRepo,
		orderRepo:  repos.OrderRepo,
		txRunner:   repos.TxManager,
		gateway:    gateway,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) InitializePayment(ctx context.Context, actor domain.Actor, req dto.InitializePaymentRequest) (*domain.PaymentInitialization, error) {
	cart, err := s.cartRepo.FindCartByReference(ctx, req.CartReference)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, cart.UserID, "cart"); err != nil {
		return nil, err
	}
	if cart.Status != domain.CartCheckoutInitiated {
		return nil, fmt.Errorf("%w: cart %s is %s, checkout must be initiated before payment",
			apperrors.ErrPaymentState, cart.CartReference, cart.Status)
	}
	if cart.PaymentReference == nil || *cart.PaymentReference == "" {
		return nil, fmt.Errorf("%w: cart %s has no payment reference", apperrors.ErrPaymentState, cart.CartReference)
	}
	email := req.Email
	if email == "" {
		email = actor.Email
	}
	if email == "" {
		return nil, apperrors.NewValidationError("email is required to initialize payment")
	}

	amountMinor := utils.ToMinorUnits(cart.TotalAmount)
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: cart %s has nothing to pay", apperrors.ErrPaymentState, cart.CartReference)
	}

	metadata := make(map[string]any, len(req.Metadata)+4)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["cart_reference"] = cart.CartReference
	metadata["cart_id"] = cart.CartID
	metadata["user_id"] = cart.UserID
	metadata["item_count"] = cart.ItemCount

	auth, err := s.gateway.InitializeTransaction(ctx, domain.PaymentInitRequest{
		Email:       email,
		AmountMinor: amountMinor,
		Currency:    cart.Currency,
		Reference:   *cart.PaymentReference,
		CallbackURL: s.cfg.CallbackURL,
		Channels:    s.cfg.Channels,
		Metadata:    metadata,
	})
	if err != nil {
		s.LogError(ctx, err, "Gateway initialization failed", slog.String("payment_reference", *cart.PaymentReference))
		return nil, gatewayError(err)
	}

	cart.AuthorizationURL = &auth.AuthorizationURL
	cart.AccessCode = &auth.AccessCode
	cart.Touch(actor.UserID, s.Now())
	if err := updateCart(ctx, s.cartRepo, cart); err != nil {
		s.LogError(ctx, err, "Failed to store payment authorization", slog.String("cart_reference", cart.CartReference))
		return nil, err
	}

	s.LogInfo(ctx, "Payment initialized",
		slog.String("cart_reference", cart.CartReference),
		slog.String("payment_reference", auth.Reference),
		slog.Int64("amount_minor", amountMinor))
	s.Track(cart.UserID, "payment_initialized", map[string]any{
		"cart_reference":    cart.CartReference,
		"payment_reference": auth.Reference,
		"amount":            cart.TotalAmount.String(),
		"currency":          cart.Currency.String(),
	})
	return &domain.PaymentInitialization{
		PaymentAuthorization: *auth,
		CartReference:        cart.CartReference,
		Amount:               cart.TotalAmount,
		AmountMinor:          amountMinor,
		Currency:             cart.Currency,
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, actor domain.Actor, reference string) (*domain.PaymentVerification, error) {
	cart, err := s.cartRepo.FindCartByPaymentReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, cart.UserID, "payment"); err != nil {
		return nil, err
	}

	result := &domain.PaymentVerification{
		Reference:     reference,
		CartReference: cart.CartReference,
		CartStatus:    cart.Status,
	}
	if cart.Status == domain.CartCompleted {
		result.Outcome = domain.VerificationSucceeded
		result.GatewayStatus = domain.GatewayStatusSuccess
		result.Message = "Payment already verified"
		return result, nil
	}

	verification, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		s.LogError(ctx, err, "Gateway verification failed", slog.String("payment_reference", reference))
		return nil, gatewayError(err)
	}
	result.GatewayStatus = verification.Status
	if !verification.Ok {
		s.LogInfo(ctx, "Gateway rejected verification",
			slog.String("payment_reference", reference),
			slog.String("message", verification.Message))
		result.Outcome = domain.VerificationFailed
		result.Message = verification.Message
		return result, nil
	}

	var settled *domain.Cart
	switch verification.Status {
	case domain.GatewayStatusSuccess:
		settled, err = s.applyOutcome(ctx, reference, true)
	case domain.GatewayStatusFailed:
		settled, err = s.applyOutcome(ctx, reference, false)
	default:
		result.Outcome = domain.VerificationPending
		result.Message = fmt.Sprintf("Payment is %s", verification.Status)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.CartStatus = settled.Status
	switch settled.Status {
	case domain.CartCompleted:
		result.Outcome = domain.VerificationSucceeded
		result.Message = "Payment verified successfully"
	case domain.CartFailed:
		result.Outcome = domain.VerificationFailed
		result.Message = "Payment failed"
	default:
		result.Outcome = domain.VerificationPending
		result.Message = "Payment not settled"
	}
	return result, nil
}

func (s *paymentService) IsSignatureValid(rawBody []byte, signature string) bool {
	if signature == "" || len(rawBody) == 0 {
		return false
	}
	return s.gateway.IsSignatureValid(rawBody, signature)
}

func (s *paymentService) ProcessWebhookAsync(ctx context.Context, rawBody []byte) {
	body := make([]byte, len(rawBody))
	copy(body, rawBody)
	logger := s.GetLogger(ctx)

	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(context.WithoutCancel(ctx), body); err != nil {
			s.LogError(ctx, err, "Failed to queue webhook")
		}
		return
	}

	go func() {
		bgCtx := middleware.WithLogger(context.Background(), logger)
		if err := s.ProcessWebhook(bgCtx, body); err != nil {
			s.LogError(bgCtx, err, "Webhook processing failed")
		}
	}()
}

func (s *paymentService) ProcessWebhook(ctx context.Context, rawBody []byte) error {
	event, err := s.gateway.ParseWebhookEvent(rawBody)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	var success bool
	switch event.Event {
	case domain.EventChargeSuccess:
		success = true
	case domain.EventChargeFailed:
		success = false
	default:
		s.LogDebug(ctx, "Ignoring webhook event", slog.String("event", event.Event))
		return nil
	}
	if event.Reference == "" {
		return fmt.Errorf("%w: webhook %s carries no reference", apperrors.ErrValidation, event.Event)
	}

	cart, err := s.applyOutcome(ctx, event.Reference, success)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Not ours or already purged; retrying cannot help.
		s.LogInfo(ctx, "Webhook for unknown payment reference", slog.String("payment_reference", event.Reference))
		return nil
	}
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Webhook processed",
		slog.String("event", event.Event),
		slog.String("payment_reference", event.Reference),
		slog.String("cart_status", string(cart.Status)))
	return nil
}

// applyOutcome settles the cart behind paymentReference and all its members in one
// transaction. The status is re-read inside the transaction, so a cart that is
// already COMPLETED or FAILED is returned untouched.
func (s *paymentService) applyOutcome(ctx context.Context, paymentReference string, success bool) (*domain.Cart, error) {
	var (
		result  *domain.Cart
		applied bool
	)
	err := s.txRunner.WithinTx(ctx, func(txCtx context.Context) error {
		cart, err := s.cartRepo.FindCartByPaymentReference(txCtx, paymentReference)
		if err != nil {
			return err
		}
		members, err := s.orderRepo.ListOrdersByCartID(txCtx, cart.CartID)
		if err != nil {
			return fmt.Errorf("failed to load cart members: %w", err)
		}
		cart.Orders = members
		result = cart

		now := s.Now()
		if success {
			applied = cart.ApplySuccessfulPayment(domain.SystemActorID, now)
		} else {
			applied = cart.ApplyFailedPayment(domain.SystemActorID, now)
		}
		if !applied {
			return nil
		}

		if err := updateCart(txCtx, s.cartRepo, cart); err != nil {
			return err
		}
		for i := range cart.Orders {
			if err := updateOrder(txCtx, s.orderRepo, &cart.Orders[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		s.LogDebug(ctx, "Payment outcome already applied",
			slog.String("payment_reference", paymentReference),
			slog.String("cart_status", string(result.Status)))
		return result, nil
	}

	event := "payment_completed"
	if !success {
		event = "payment_failed"
	}
	s.LogInfo(ctx, "Payment outcome applied",
		slog.String("payment_reference", paymentReference),
		slog.String("cart_status", string(result.Status)),
		slog.Int("order_count", len(result.Orders)))
	s.Track(result.UserID, event, map[string]any{
		"cart_reference":    result.CartReference,
		"payment_reference": paymentReference,
		"amount":            result.TotalAmount.String(),
		"currency":          result.Currency.String(),
	})
	return result, nil
}

// gatewayError makes sure a gateway failure is reported as one.
func gatewayError(err error) error {
	if errors.Is(err, apperrors.ErrPayment) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrPaymentGateway, err)
}
