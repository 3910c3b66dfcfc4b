package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/infrastructure/auth"
	"github.com/shopmetrics/backend/internal/infrastructure/config"
	"github.com/shopmetrics/backend/internal/infrastructure/logger"
	"github.com/shopmetrics/backend/internal/interfaces/http/handler"
	"github.com/shopmetrics/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the route handlers wired by the router
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Tenant    *handler.TenantHandler
	Webhook   *handler.WebhookHandler
	Sync      *handler.SyncHandler
	Dashboard *handler.DashboardHandler
	Records   *handler.RecordsHandler
}

// New assembles the gin engine with middleware and all API routes.
// Webhook routes authenticate by HMAC signature, not by bearer token,
// so they sit outside the auth group.
func New(cfg config.HTTPConfig, tel config.TelemetryConfig, jwtService *auth.JWTService, h Handlers, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	if tel.Enabled {
		r.Use(middleware.Tracing(tel.ServiceName))
		r.Use(middleware.TraceAttributes())
	}
	r.Use(logger.GinMiddleware(log))
	r.Use(logger.Recovery(log))
	r.Use(middleware.CORS(cfg))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.RateLimitEnabled {
		r.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)))
	}

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/tenants", h.Tenant.Register)
		api.POST("/webhooks/*topic", h.Webhook.Receive)

		api.POST("/sync/:tenantId", h.Sync.TriggerFull)
		api.POST("/sync/:tenantId/incremental", h.Sync.TriggerIncremental)
		api.GET("/sync/:tenantId/status", h.Sync.Status)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(jwtService))
	{
		authed.GET("/auth/me", h.Auth.Me)
		authed.GET("/tenants/me", h.Tenant.Get)
		authed.POST("/tenants/me/store", h.Tenant.ConnectStore)

		authed.GET("/dashboard/metrics", h.Dashboard.Metrics)
		authed.GET("/dashboard/metrics/customers", h.Dashboard.CustomerMetrics)
		authed.GET("/dashboard/metrics/products", h.Dashboard.ProductMetrics)

		authed.GET("/customers", h.Records.ListCustomers)
		authed.GET("/customers/:id", h.Records.GetCustomer)
		authed.GET("/orders", h.Records.ListOrders)
		authed.GET("/orders/:id", h.Records.GetOrder)
		authed.GET("/products", h.Records.ListProducts)
		authed.GET("/products/:id", h.Records.GetProduct)
	}

	return r
}
