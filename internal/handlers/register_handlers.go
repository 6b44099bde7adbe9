package handlers

import (
	"log/slog"

	"github.com/SscSPs/homeos_backend/cmd/docs"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	"github.com/SscSPs/homeos_backend/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultLoginRate = "10-M"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	store portsrepo.VersionedDocumentStore,
	posthogClient *utils.PosthogClientWrapper,
) {
	api := r.Group("/api", middleware.PosthogMiddleware(posthogClient))

	// Public routes
	registerHomeRoutes(api, cfg, store, services.Seed)
	registerAuthRoutes(api, cfg, services.Auth)
	registerShopPublicRoutes(api, services.Inventory)

	// Routes that need a session
	authed := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret, cfg.SessionCookieName))
	registerBankRoutes(authed, services.Ledger)
	registerShopRoutes(authed, services.Inventory)
	registerMyWorkRoutes(authed, services.Shift)
	registerMyInfoRoutes(authed, services.Record)

	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func loginRateLimit(cfg *config.Config) gin.HandlerFunc {
	lim, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		slog.Warn("Invalid LOGIN_RATE_LIMIT, using default",
			slog.String("value", cfg.LoginRateLimit),
			slog.String("default", defaultLoginRate),
			slog.String("error", err.Error()),
		)
		lim, _ = middleware.NewMemoryLimiter(defaultLoginRate)
	}
	return middleware.RateLimit(lim)
}
