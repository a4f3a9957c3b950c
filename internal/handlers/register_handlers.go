package handlers

import (
	"github.com/SscSPs/bank_ledger/cmd/docs"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/SscSPs/bank_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := dto.RegisterValidations(); err != nil {
		return err
	}

	r.GET("/health", getHealth)

	// Register public authentication routes
	if err := registerAuthRoutes(r, cfg, services.Ledger); err != nil {
		return err
	}

	// Customer routes require a session token
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	registerAccountRoutes(v1, services.Ledger, cfg.BankName)

	// Admin routes require the API key instead
	admin := r.Group("/api/v1/admin", middleware.AdminKeyAuth(cfg.AdminAPIKey))
	registerAdminRoutes(admin, services.Ledger)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
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
