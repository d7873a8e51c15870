package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/gin-gonic/gin"
)

type priceHandler struct {
	pricingService portssvc.PricingSvcFacade
}

func registerPriceRoutes(rg *gin.RouterGroup, pricingService portssvc.PricingSvcFacade) {
	h := &priceHandler{pricingService: pricingService}

	prices := rg.Group("/product-prices")
	{
		prices.GET("/plan/:planId", h.getPriceByPlan)

		admin := prices.Group("", middleware.RequireAdmin())
		admin.POST("", h.upsertPrice)
		admin.PATCH("/:id/refresh-rate", h.refreshRate)
		admin.DELETE("/:id", h.deletePrice)
	}
}

// upsertPrice godoc
// @Summary Create or update the price of a plan
// @Description Converts the default price into the settlement currency at the latest rate. Admin only.
// @Tags product prices
// @Accept  json
// @Produce  json
// @Param   price body dto.UpsertPriceRequest true "Price details"
// @Success 201 {object} dto.PriceResponse "Created"
// @Success 200 {object} dto.PriceResponse "Updated"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Plan or rate not found"
// @Security BearerAuth
// @Router /product-prices [post]
func (h *priceHandler) upsertPrice(c *gin.Context) {
	var req dto.UpsertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err, "upsert price")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	price, created, err := h.pricingService.CreateOrUpdatePrice(c.Request.Context(), req, actor.UserID)
	if err != nil {
		respondWithError(c, err, "save price")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Price saved",
		slog.String("price_id", price.PriceID),
		slog.String("plan_id", price.ServicePlanID),
		slog.Bool("created", created))
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ToPriceResponse(price, h.pricingService.IsStale(*price)))
}

// getPriceByPlan godoc
// @Summary Get the price of a plan
// @Tags product prices
// @Produce  json
// @Param   planId path string true "Service plan ID"
// @Success 200 {object} dto.PriceResponse
// @Failure 404 {object} map[string]string "Price not found"
// @Security BearerAuth
// @Router /product-prices/plan/{planId} [get]
func (h *priceHandler) getPriceByPlan(c *gin.Context) {
	price, err := h.pricingService.GetPriceByPlanID(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondWithError(c, err, "retrieve price")
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceResponse(price, h.pricingService.IsStale(*price)))
}

// refreshRate godoc
// @Summary Recompute a stored price at the current rate
// @Tags product prices
// @Produce  json
// @Param   id path string true "Price ID"
// @Success 200 {object} dto.PriceResponse
// @Failure 404 {object} map[string]string "Price or rate not found"
// @Security BearerAuth
// @Router /product-prices/{id}/refresh-rate [patch]
func (h *priceHandler) refreshRate(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	price, err := h.pricingService.RefreshRate(c.Request.Context(), c.Param("id"), actor.UserID)
	if err != nil {
		respondWithError(c, err, "refresh price rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceResponse(price, h.pricingService.IsStale(*price)))
}

// deletePrice godoc
// @Summary Delete a stored price
// @Tags product prices
// @Param   id path string true "Price ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Price not found"
// @Security BearerAuth
// @Router /product-prices/{id} [delete]
func (h *priceHandler) deletePrice(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.pricingService.DeletePrice(c.Request.Context(), c.Param("id"), actor.UserID); err != nil {
		respondWithError(c, err, "delete price")
		return
	}
	c.Status(http.StatusNoContent)
}
