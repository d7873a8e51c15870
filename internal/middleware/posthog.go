package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/kudi_commerce/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog.
// The webhook is called by the gateway, not by a user.
var pathsToSkip = map[string]bool{
	"/health":                  true,
	"/api/v1/payments/webhook": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks successful API calls with PostHog.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip if PostHog is not initialized or path is in skip list
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Process request first
		c.Next()

		// Only successful calls are tracked
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Set by the auth middleware
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			// Anonymous request, nothing to attribute the event to
			return
		}

		// "/api/v1/cart/add-order/:orderId" -> "api_v1_cart_add-order_:orderId"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")

		// No matched route (404)
		if eventName == "" {
			return
		}

		// Prepare event properties
		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"request_id":  GetRequestIDFromCtx(c.Request.Context()),
		}

		// Add route parameters if any
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		// Send event to PostHog
		posthogClient.Enqueue(userID, eventName, props)
	}
}
