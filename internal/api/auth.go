package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/middleware"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/types"
)

// AuthHandler serves registration, login and session routes
type AuthHandler struct {
	users        service.IUserService
	sessions     service.ISessionService
	limiter      *middleware.LoginLimiter
	sessionTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(deps Deps) *AuthHandler {
	return &AuthHandler{
		users:        deps.Users,
		sessions:     deps.Sessions,
		limiter:      deps.LoginLimiter,
		sessionTTL:   deps.SessionTTL,
		secureCookie: deps.SecureCookie,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	user.POST("/auth/register", h.Register)

	login := []gin.HandlerFunc{}
	if h.limiter != nil {
		login = append(login, h.limiter.Middleware())
	}
	user.POST("/login", append(login, h.Login)...)

	if h.sessions != nil {
		user.POST("/logout", middleware.RequireSession(h.sessions), h.Logout)
		user.GET("/auth/session", middleware.RequireSession(h.sessions), h.Session)
	}
}

func bindCredentials(c *gin.Context) (*types.CredentialsRequest, bool) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.BadRequest("Invalid request body"))
		return nil, false
	}
	return &req, true
}

// Register creates an account from an email and password
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login checks credentials and opens a session when sessions are available
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if h.sessions != nil {
		token, err := h.sessions.Create(c.Request.Context(), user.Email)
		if err != nil {
			slog.Warn("session not created", slog.String("email", user.Email), slog.Any("error", err))
		} else {
			h.setCookie(c, token, int(h.sessionTTL.Seconds()))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

// Logout destroys the caller's session
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		_ = c.Error(err)
		return
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Session returns the email bound to the caller's session
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"email": c.GetString(middleware.EmailKey)})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.secureCookie, true)
}
