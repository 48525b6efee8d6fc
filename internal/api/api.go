package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
)

// Services are the dependencies of the HTTP handlers.
type Services struct {
	Profile service.IProfileService
	Tracker service.ITracker
	Audit   service.IPlanAuditLog
	Tokens  middleware.TokenValidator
	// Limiter throttles plan regeneration. Nil disables the limit.
	Limiter *middleware.RateLimiter
	Health  *HealthHandler
	Log     logrus.FieldLogger
}

func SetupAPI(router *gin.Engine, s Services) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.ErrorHandler(s.Log))

	if s.Health != nil {
		s.Health.RegisterRoutes(v1)
	}

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(s.Tokens))
	{
		NewProfileHandler(s.Profile).RegisterRoutes(authed)
		NewPlanHandler(s.Tracker, s.Audit, s.Limiter).RegisterRoutes(authed)
		NewDailyHandler(s.Tracker).RegisterRoutes(authed)
	}
}
