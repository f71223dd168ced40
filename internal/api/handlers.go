package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/glucolink/backend/internal/database"
	"github.com/pageza/glucolink/backend/internal/middleware"
	"github.com/pageza/glucolink/backend/internal/service"
)

// Services groups the operations the handlers call.
type Services struct {
	Auth    service.IAuthService
	Profile service.IProfileService
	Links   service.ILinkService
	Scope   service.IScopeResolver
	Glucose service.IGlucoseService
	Reports service.IReportService
}

// HealthCheck reports whether the API and its database are reachable
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Database: "unreachable"})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Database: "ok"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services, linkLimiter *middleware.RateLimiter, db *gorm.DB) {
	router.GET("/health", HealthCheck(db))

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth).RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(svc.Auth))
	NewProfileHandler(svc.Profile).RegisterRoutes(authed)
	NewGlucoseHandler(svc.Glucose).RegisterRoutes(authed)
	NewLinkHandler(svc.Links, svc.Scope, linkLimiter).RegisterRoutes(authed)
	NewReportHandler(svc.Reports).RegisterRoutes(authed)
}
