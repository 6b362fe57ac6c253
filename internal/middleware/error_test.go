package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	return r
}

func TestErrorHandler(t *testing.T) {
	r := newTestEngine()
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperr.NotFound("User not found")) })
	r.GET("/conflict", func(c *gin.Context) { _ = c.Error(apperr.Conflict("taken")) })
	r.GET("/legacy", ConflictStatus(http.StatusBadRequest), func(c *gin.Context) { _ = c.Error(apperr.Conflict("taken")) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("disk full")) })
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/missing", http.StatusNotFound, `{"error":"User not found"}`},
		{"/conflict", http.StatusConflict, `{"error":"taken"}`},
		{"/legacy", http.StatusBadRequest, `{"error":"taken"}`},
		{"/boom", http.StatusInternalServerError, `{"error":"An error occurred: disk full"}`},
		{"/panic", http.StatusInternalServerError, `{"error":"An error occurred: kaboom"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.JSONEq(t, tt.body, rr.Body.String())
		})
	}
}

func TestErrorHandlerKeepsWrittenResponses(t *testing.T) {
	r := newTestEngine()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}
