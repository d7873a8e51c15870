package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/gin-gonic/gin"
)

type cartHandler struct {
	cartService portssvc.CartSvcFacade
}

func registerCartRoutes(rg *gin.RouterGroup, cartService portssvc.CartSvcFacade) {
	h := &cartHandler{cartService: cartService}

	cart := rg.Group("/cart")
	{
		cart.GET("", h.getOrCreateCart)
		cart.GET("/active", h.getActiveCart)
		cart.GET("/summary", h.getSummary)
		cart.GET("/history", h.listCarts)
		cart.POST("/add-order/:orderId", h.addOrder)
		cart.DELETE("/remove-order/:orderId", h.removeOrder)
		cart.DELETE("/clear", h.clearCart)
		cart.POST("/checkout", h.checkout)
	}
}

// getOrCreateCart godoc
// @Summary Get the caller's active cart, creating it if needed
// @Tags cart
// @Produce  json
// @Success 200 {object} dto.CartResponse
// @Security BearerAuth
// @Router /cart [get]
func (h *cartHandler) getOrCreateCart(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	cart, err := h.cartService.GetOrCreateCart(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "load cart")
		return
	}
	c.JSON(http.StatusOK, dto.ToCartResponse(cart))
}

// getActiveCart godoc
// @Summary Get the caller's active cart
// @Tags cart
// @Produce  json
// @Success 200 {object} dto.CartResponse
// @Failure 404 {object} map[string]string "No active cart"
// @Security BearerAuth
// @Router /cart/active [get]
func (h *cartHandler) getActiveCart(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	cart, err := h.cartService.GetActiveCart(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "load cart")
		return
	}
	c.JSON(http.StatusOK, dto.ToCartResponse(cart))
}

// getSummary godoc
// @Summary Cart with display-only live conversion rates
// @Tags cart
// @Produce  json
// @Success 200 {object} dto.CartSummaryResponse
// @Failure 404 {object} map[string]string "No active cart"
// @Security BearerAuth
// @Router /cart/summary [get]
func (h *cartHandler) getSummary(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	summary, err := h.cartService.GetCartSummary(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "summarise cart")
		return
	}
	c.JSON(http.StatusOK, dto.ToCartSummaryResponse(summary))
}

// listCarts godoc
// @Summary Every cart the caller ever had, newest first
// @Tags cart
// @Produce  json
// @Success 200 {array} dto.CartResponse
// @Security BearerAuth
// @Router /cart/history [get]
func (h *cartHandler) listCarts(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	carts, err := h.cartService.ListCarts(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "list carts")
		return
	}
	c.JSON(http.StatusOK, dto.ToCartResponses(carts))
}

// addOrder godoc
// @Summary Add a pending order to the active cart
// @Tags cart
// @Produce  json
// @Param   orderId path string true "Order ID"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} map[string]string "Order cannot be added"
// @Failure 403 {object} map[string]string "Not your order"
// @Security BearerAuth
// @Router /cart/add-order/{orderId} [post]
func (h *cartHandler) addOrder(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	cart, err := h.cartService.AddOrder(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		respondWithError(c, err, "add order to cart")
		return
	}
	c.JSON(http.StatusOK, dto.ToCartResponse(cart))
}

// removeOrder godoc
// @Summary Remove an order from the active cart
// @Tags cart
// @Produce  json
// @Param   orderId path string true "Order ID"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} map[string]string "Order is not in the cart"
// @Security BearerAuth
// @Router /cart/remove-order/{orderId} [delete]
func (h *cartHandler) removeOrder(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	cart, err := h.cartService.RemoveOrder(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		respondWithError(c, err, "remove order from cart")
		return
	}
	c.JSON(http.StatusOK, dto.ToCartResponse(cart))
}

// clearCart godoc
// @Summary Remove every order from the active cart
// @Tags cart
// @Produce  json
// @Success 200 {object} dto.CartResponse
// @Security BearerAuth
// @Router /cart/clear [delete]
func (h *cartHandler) clearCart(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	cart, err := h.cartService.ClearCart(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "clear cart")
		return
	}
	c.JSON(http.StatusOK, dto.ToCartResponse(cart))
}

// checkout godoc
// @Summary Freeze the active cart for payment
// @Description Assigns a payment reference. The caller gets a fresh cart on next access.
// @Tags cart
// @Produce  json
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} map[string]string "Cart is empty"
// @Failure 404 {object} map[string]string "No active cart"
// @Security BearerAuth
// @Router /cart/checkout [post]
func (h *cartHandler) checkout(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	cart, err := h.cartService.ProceedToCheckout(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "check out cart")
		return
	}
	reference := ""
	if cart.PaymentReference != nil {
		reference = *cart.PaymentReference
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Cart checked out",
		slog.String("cart_reference", cart.CartReference),
		slog.String("payment_reference", reference))
	c.JSON(http.StatusOK, dto.ToCartResponse(cart))
}
