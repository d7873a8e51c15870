package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/dto"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("/latest", h.getLatestRate)
		exchangeRates.GET("/effective", h.listEffectiveRates)
		exchangeRates.GET("/convert", h.getConversionRate)
		exchangeRates.GET("/:id", h.getExchangeRate)

		admin := exchangeRates.Group("", middleware.RequireAdmin())
		admin.POST("", h.createExchangeRate)
		admin.PUT("/:id", h.updateExchangeRate)
		admin.DELETE("/:id", h.deleteExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Adds a rate between two currencies effective from a given date. Admin only.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 409 {object} map[string]string "A rate for this pair and date already exists"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err, "create exchange rate")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrency),
		slog.String("to", req.ToCurrency),
		slog.String("rate", req.Rate.String()),
		slog.Time("effective_date", req.EffectiveDate),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, actor.UserID)
	if err != nil {
		respondWithError(c, err, "create exchange rate")
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("rate_id", createdRate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// updateExchangeRate godoc
// @Summary Update an exchange rate
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   id path string true "Exchange rate ID"
// @Param   rate body dto.UpdateExchangeRateRequest true "Exchange Rate details"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Security BearerAuth
// @Router /exchange-rates/{id} [put]
func (h *exchangeRateHandler) updateExchangeRate(c *gin.Context) {
	var req dto.UpdateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err, "update exchange rate")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	rate, err := h.exchangeRateService.UpdateExchangeRate(c.Request.Context(), c.Param("id"), req, actor.UserID)
	if err != nil {
		respondWithError(c, err, "update exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// getExchangeRate godoc
// @Summary Get an exchange rate by ID
// @Tags exchange rates
// @Produce  json
// @Param   id path string true "Exchange rate ID"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Security BearerAuth
// @Router /exchange-rates/{id} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	rate, err := h.exchangeRateService.GetExchangeRateByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// deleteExchangeRate godoc
// @Summary Deactivate an exchange rate
// @Description The rate is kept for history but no longer used for pricing. Admin only.
// @Tags exchange rates
// @Param   id path string true "Exchange rate ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Security BearerAuth
// @Router /exchange-rates/{id} [delete]
func (h *exchangeRateHandler) deleteExchangeRate(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.exchangeRateService.DeleteExchangeRate(c.Request.Context(), c.Param("id"), actor.UserID); err != nil {
		respondWithError(c, err, "delete exchange rate")
		return
	}
	c.Status(http.StatusNoContent)
}

// getLatestRate godoc
// @Summary Get the latest effective rate for a pair
// @Tags exchange rates
// @Produce  json
// @Param   from query string true "From currency code"
// @Param   to   query string true "To currency code"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Unsupported currency"
// @Failure 404 {object} map[string]string "No effective rate"
// @Security BearerAuth
// @Router /exchange-rates/latest [get]
func (h *exchangeRateHandler) getLatestRate(c *gin.Context) {
	from, ok := currencyQuery(c, "from")
	if !ok {
		return
	}
	to, ok := currencyQuery(c, "to")
	if !ok {
		return
	}

	rate, err := h.exchangeRateService.GetLatestEffectiveRate(c.Request.Context(), from, to)
	if err != nil {
		respondWithError(c, err, "retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// listEffectiveRates godoc
// @Summary List the latest effective rate of every pair
// @Tags exchange rates
// @Produce  json
// @Success 200 {array} dto.ExchangeRateResponse
// @Security BearerAuth
// @Router /exchange-rates/effective [get]
func (h *exchangeRateHandler) listEffectiveRates(c *gin.Context) {
	rates, err := h.exchangeRateService.ListEffectiveRates(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// getConversionRate godoc
// @Summary Get the multiplier converting one currency into another
// @Tags exchange rates
// @Produce  json
// @Param   from query string true "From currency code"
// @Param   to   query string true "To currency code"
// @Success 200 {object} dto.ConversionRateResponse
// @Failure 404 {object} map[string]string "No effective rate"
// @Security BearerAuth
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) getConversionRate(c *gin.Context) {
	from, ok := currencyQuery(c, "from")
	if !ok {
		return
	}
	to, ok := currencyQuery(c, "to")
	if !ok {
		return
	}

	rate, err := h.exchangeRateService.GetConversionRate(c.Request.Context(), from, to)
	if err != nil {
		respondWithError(c, err, "convert currency")
		return
	}
	c.JSON(http.StatusOK, dto.ConversionRateResponse{
		FromCurrency: from.String(),
		ToCurrency:   to.String(),
		Rate:         rate,
	})
}
