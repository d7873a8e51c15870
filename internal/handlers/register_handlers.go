package handlers

import (
	"net/http"

	"github.com/SscSPs/kudi_commerce/cmd/docs"
	portssvc "github.com/SscSPs/kudi_commerce/internal/core/ports/services"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/SscSPs/kudi_commerce/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware ...gin.HandlerFunc,
) error {
	if err := RegisterValidators(); err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// The gateway signs its callbacks instead of sending a bearer token.
	registerWebhookRoute(r, services.Payment)

	setupAPIV1Routes(r, cfg, services, apiMiddleware)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	apiMiddleware []gin.HandlerFunc,
) {
	chain := append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret)}, apiMiddleware...)
	v1 := r.Group("/api/v1", chain...)

	registerExchangeRateRoutes(v1, service.ExchangeRate)
	registerPriceRoutes(v1, service.Pricing)
	registerOrderRoutes(v1, service.Order)
	registerCartRoutes(v1, service.Cart)
	registerPaymentRoutes(v1, service.Payment)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
