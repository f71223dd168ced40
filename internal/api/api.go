package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/glucolink/backend/config"
	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/middleware"
	"github.com/pageza/glucolink/backend/internal/repository"
	"github.com/pageza/glucolink/backend/internal/service"
)

// Dependencies are the infrastructure handles the API is built on. Redis and
// Archive are optional.
type Dependencies struct {
	DB      *gorm.DB
	Config  *config.Config
	Redis   *redis.Client
	Archive service.ReportArchive
}

// SetupAPI wires services over the GORM store and registers every route on
// router, including the JSON error handler.
func SetupAPI(router *gin.Engine, deps Dependencies) Services {
	cfg := deps.Config
	store := repository.NewGormStore(deps.DB)
	access := service.NewAccessResolver(store)

	svc := Services{
		Auth:    service.NewAuthService(store, cfg.JWTSecret, cfg.JWTExpiry),
		Profile: service.NewProfileService(store, nil),
		Links:   service.NewLinkService(store, store),
		Scope:   access,
		Glucose: service.NewGlucoseService(store, access),
		Reports: service.NewReportService(store, store, access, deps.Archive, cfg.ReportURLExpiry),
	}
	limiter := middleware.NewLinkRedemptionRateLimiter(deps.Redis, cfg.LinkRateLimit, cfg.LinkRateWindow)

	router.Use(middleware.ErrorHandler(apperrors.NewHandler(logger.L(), logger.Security())))
	RegisterRoutes(router, svc, limiter, deps.DB)
	return svc
}
