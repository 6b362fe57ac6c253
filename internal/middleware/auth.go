package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/internal/apperr"
)

// SessionCookie names the cookie carrying the session token
const SessionCookie = "session"

// EmailKey is the gin context key holding the session email
const EmailKey = "email"

// SessionResolver maps a session token to its email
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// SessionToken reads the token from the session cookie or a Bearer header
func SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireSession rejects requests without a live session
func RequireSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			_ = c.Error(apperr.Unauthorized("Not logged in"))
			c.Abort()
			return
		}

		email, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(EmailKey, email)
		c.Next()
	}
}
