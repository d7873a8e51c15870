package handlers

import (
	"io"
	"net/http"

	"github.com/SscSPs/kudi_commerce/internal/adapters/paystack"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/gin-gonic/gin"
)

// WebhookPath is the public callback URL registered with the gateway.
const WebhookPath = "/api/v1/payments/webhook"

const maxWebhookBytes = 1 << 20

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}

	payments := rg.Group("/payments")
	payments.POST("/initialize", h.initialize)
	payments.GET("/verify/:reference", h.verify)
}

// registerWebhookRoute mounts the gateway callback outside the authenticated group.
func registerWebhookRoute(r *gin.Engine, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}
	r.POST(WebhookPath, h.webhook)
}

// initialize godoc
// @Summary Open a gateway transaction for a checked-out cart
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.InitializePaymentRequest true "Cart to pay"
// @Success 200 {object} domain.PaymentInitialization
// @Failure 404 {object} map[string]string "Cart not found"
// @Failure 409 {object} map[string]string "Cart is not awaiting payment"
// @Failure 502 {object} map[string]string "Gateway error"
// @Security BearerAuth
// @Router /payments/initialize [post]
func (h *paymentHandler) initialize(c *gin.Context) {
	var req dto.InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err, "initialize payment")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	initialized, err := h.paymentService.InitializePayment(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "initialize payment")
		return
	}
	c.JSON(http.StatusOK, initialized)
}

// verify godoc
// @Summary Reconcile a payment with the gateway
// @Tags payments
// @Produce  json
// @Param   reference path string true "Payment reference"
// @Success 200 {object} domain.PaymentVerification
// @Failure 404 {object} map[string]string "Unknown reference"
// @Failure 502 {object} map[string]string "Gateway error"
// @Security BearerAuth
// @Router /payments/verify/{reference} [get]
func (h *paymentHandler) verify(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	result, err := h.paymentService.VerifyPayment(c.Request.Context(), actor, c.Param("reference"))
	if err != nil {
		respondWithError(c, err, "verify payment")
		return
	}
	c.JSON(http.StatusOK, result)
}

// webhook godoc
// @Summary Gateway event callback
// @Description Signed with HMAC-SHA512 of the raw body. Processing happens in the background.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   x-paystack-signature header string true "Body signature"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Invalid signature"
// @Router /payments/webhook [post]
func (h *paymentHandler) webhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		logger.Warn("Failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	if !h.paymentService.IsSignatureValid(body, c.GetHeader(paystack.SignatureHeader)) {
		logger.Warn("Webhook signature rejected", "bytes", len(body))
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid signature"})
		return
	}

	h.paymentService.ProcessWebhookAsync(c.Request.Context(), body)
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
