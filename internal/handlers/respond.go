package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondWithError maps err onto a status code. Client errors echo the error text;
// server and gateway errors are logged and answered generically.
func respondWithError(c *gin.Context, err error, operation string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	switch {
	case status == http.StatusBadGateway:
		logger.Error(operation+" failed at payment gateway", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Payment gateway error, please try again"})
	case status >= http.StatusInternalServerError:
		logger.Error(operation+" failed", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + operation})
	default:
		logger.Warn(operation+" rejected", slog.Int("status", status), slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

// bindingError answers 400 for a request that failed to bind.
func bindingError(c *gin.Context, err error, operation string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request for "+operation, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// actorOrAbort returns the authenticated caller, answering 401 when there is none.
func actorOrAbort(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}

// currencyQuery reads a required currency code from the query string.
func currencyQuery(c *gin.Context, key string) (domain.CurrencyCode, bool) {
	code, ok := domain.ParseCurrencyCode(c.Query(key))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported or missing currency in '" + key + "'"})
		return "", false
	}
	return code, true
}
