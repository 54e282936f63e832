package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/aqall/publisher/internal/api/handlers"
	"github.com/aqall/publisher/internal/api/middleware"
	"github.com/aqall/publisher/internal/api/models"
	"github.com/aqall/publisher/internal/auth"
	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/metrics"

	_ "github.com/aqall/publisher/internal/api/docs" // swagger docs
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config, verifier *auth.Verifier, m *metrics.Metrics, logger *slog.Logger) {
	// Swagger UI at /swagger/*
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/health", h.Health)

	limit := middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit))

	api := r.Group("/api")
	api.GET("/sites/:subdomain", h.ResolveSite)

	// Editor tooling. Optional API key protection.
	tools := api.Group("")
	if cfg.API.APIKey != "" {
		tools.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}
	tools.GET("/stats", h.Stats)

	dns := tools.Group("/dns")
	dns.GET("/records", h.ListRecords)
	dns.GET("/check/:subdomain", h.CheckSubdomain)
	dns.POST("/create", limit, h.CreateRecord)
	dns.DELETE("/:subdomain", limit, h.DeleteRecord)

	subdomains := api.Group("/subdomains", middleware.RequireOwner(verifier, logger))
	subdomains.POST("", limit, h.Publish)
	subdomains.GET("", h.ListSubdomains)
	subdomains.DELETE("/:subdomain", limit, h.Unpublish)
	subdomains.GET("/:subdomain/verify", h.Verify)

	r.NoRoute(routeNotFound)
}

func routeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Route not found"})
}
