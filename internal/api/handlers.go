package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/middleware"
	"github.com/seeek/portfolio/backend/internal/service"
)

// Deps carries everything the handlers need. Sessions and LoginLimiter are
// nil when Redis is unavailable.
type Deps struct {
	Users        service.IUserService
	Portfolios   service.IPortfolioService
	Pages        service.IProfilePageService
	Sessions     service.ISessionService
	LoginLimiter *middleware.LoginLimiter
	SessionTTL   time.Duration
	SecureCookie bool
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Portfolio API is running",
	})
}

// Root reports whether the document store answers
func Root(users service.IUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.Ping(c.Request.Context()); err != nil {
			_ = c.Error(apperr.Internal(err))
			return
		}
		c.String(http.StatusOK, "Connected to database!")
	}
}

// RegisterRoutes registers all API and web routes on router
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.GET("/", Root(deps.Users))
	router.GET("/health", HealthCheck)

	apiGroup := router.Group("/api")
	NewAuthHandler(deps).RegisterRoutes(apiGroup)
	NewProfileHandler(deps.Users).RegisterRoutes(apiGroup)
	NewPortfolioHandler(deps.Portfolios).RegisterRoutes(apiGroup)

	NewWebHandler(deps.Pages).RegisterRoutes(router.Group("/web"))
}
