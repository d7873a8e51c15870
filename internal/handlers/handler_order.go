package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/gin-gonic/gin"
)

// orderHandler serves customer orders and the admin fulfilment workflow.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
}

func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	h := &orderHandler{orderService: orderService}

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("/my-orders", h.listMyOrders)
		orders.GET("/reference/:reference", h.getOrderByReference)
		orders.GET("/:id", h.getOrder)
		orders.PATCH("/:id/cancel", h.cancelOrder)

		admin := orders.Group("", middleware.RequireAdmin())
		admin.GET("/admin/all", h.listAllOrders)
		admin.GET("/statistics", h.getStatistics)
		admin.PATCH("/:id/action", h.updateAction)
		admin.DELETE("/:id", h.deleteOrder)
	}
}

// createOrder godoc
// @Summary Place an order for a service plan
// @Description Prices the plan in the settlement currency and adds the service fee.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Validation error or inactive product"
// @Failure 404 {object} map[string]string "Product, plan or rate not found"
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err, "create order")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "create order")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Order created",
		slog.String("order_id", order.OrderID),
		slog.String("order_reference", order.OrderReference))
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// getOrder godoc
// @Summary Get an order
// @Description Owners and admins only. Admins also see the decrypted credential username.
// @Tags orders
// @Produce  json
// @Param   id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 403 {object} map[string]string "Not your order"
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	details, err := h.orderService.GetOrderByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "retrieve order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderDetailsResponse(details))
}

// getOrderByReference godoc
// @Summary Get an order by its reference
// @Tags orders
// @Produce  json
// @Param   reference path string true "Order reference"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /orders/reference/{reference} [get]
func (h *orderHandler) getOrderByReference(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	details, err := h.orderService.GetOrderByReference(c.Request.Context(), actor, c.Param("reference"))
	if err != nil {
		respondWithError(c, err, "retrieve order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderDetailsResponse(details))
}

// listMyOrders godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce  json
// @Param   status query string false "Filter by status"
// @Success 200 {array} dto.OrderResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Security BearerAuth
// @Router /orders/my-orders [get]
func (h *orderHandler) listMyOrders(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var status *domain.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.OrderStatus(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status '" + raw + "'"})
			return
		}
		status = &s
	}

	orders, err := h.orderService.ListMyOrders(c.Request.Context(), actor, status)
	if err != nil {
		respondWithError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponses(orders))
}

// listAllOrders godoc
// @Summary List every order
// @Description Newest first, paged with an opaque token. Admin only.
// @Tags orders
// @Produce  json
// @Param   status    query string false "Filter by status"
// @Param   action    query string false "Filter by admin action"
// @Param   limit     query int    false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} map[string]string "Invalid filter or token"
// @Security BearerAuth
// @Router /orders/admin/all [get]
func (h *orderHandler) listAllOrders(c *gin.Context) {
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, err, "list all orders")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	page, err := h.orderService.ListAllOrders(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, page)
}

// getStatistics godoc
// @Summary Order counts by status and action
// @Tags orders
// @Produce  json
// @Success 200 {object} domain.OrderStatistics
// @Security BearerAuth
// @Router /orders/statistics [get]
func (h *orderHandler) getStatistics(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	stats, err := h.orderService.GetOrderStatistics(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "compute order statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// updateAction godoc
// @Summary Move an order along the fulfilment workflow
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id     path string                       true "Order ID"
// @Param   action body dto.UpdateOrderActionRequest true "Next action"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Transition not allowed"
// @Failure 409 {object} map[string]string "Order was modified concurrently"
// @Security BearerAuth
// @Router /orders/{id}/action [patch]
func (h *orderHandler) updateAction(c *gin.Context) {
	var req dto.UpdateOrderActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err, "update order action")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	order, err := h.orderService.UpdateOrderAction(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "update order action")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// cancelOrder godoc
// @Summary Cancel an order
// @Description Pending or paid orders only. The order leaves its cart.
// @Tags orders
// @Produce  json
// @Param   id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Order cannot be cancelled"
// @Failure 403 {object} map[string]string "Not your order"
// @Security BearerAuth
// @Router /orders/{id}/cancel [patch]
func (h *orderHandler) cancelOrder(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	order, err := h.orderService.CancelOrder(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "cancel order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// deleteOrder godoc
// @Summary Delete an order
// @Tags orders
// @Param   id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Paid orders cannot be deleted"
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *orderHandler) deleteOrder(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, err, "delete order")
		return
	}
	c.Status(http.StatusNoContent)
}
