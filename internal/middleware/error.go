package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/internal/apperr"
)

const conflictStatusKey = "conflict_status"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler turns errors attached with c.Error into JSON error responses
// and recovered panics into a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic serving request",
					slog.String("path", c.Request.URL.Path),
					slog.Any("panic", rec),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: apperr.Message(fmt.Errorf("%v", rec)),
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		code := apperr.CodeOf(err)
		status := apperr.HTTPStatus(code)
		if code == apperr.CodeConflict {
			if override := c.GetInt(conflictStatusKey); override != 0 {
				status = override
			}
		}
		if code == apperr.CodeInternal {
			slog.Error("request failed",
				slog.String("method", c.Request.Method),
				slog.String("path", c.FullPath()),
				slog.Any("error", err),
			)
		}

		c.JSON(status, ErrorResponse{Error: apperr.Message(err)})
	}
}

// ConflictStatus makes the routes it wraps report conflicts with status instead of 409
func ConflictStatus(status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(conflictStatusKey, status)
		c.Next()
	}
}
