package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/service"
)

// WebHandler renders public profile pages. The engine must have the
// templates from package web loaded.
type WebHandler struct {
	pages service.IProfilePageService
}

func NewWebHandler(pages service.IProfilePageService) *WebHandler {
	return &WebHandler{pages: pages}
}

func (h *WebHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile/:pseudonym", h.Profile)
}

// Profile renders the page for a pseudonym, or the not-found page
func (h *WebHandler) Profile(c *gin.Context) {
	view, err := h.pages.Render(c.Request.Context(), c.Param("pseudonym"))
	if err != nil {
		status := http.StatusNotFound
		if !apperr.Is(err, apperr.CodeNotFound) {
			slog.Error("profile page failed", slog.String("pseudonym", c.Param("pseudonym")), slog.Any("error", err))
			status = http.StatusInternalServerError
		}
		c.HTML(status, "404.html", gin.H{"error": apperr.Message(err)})
		return
	}

	c.HTML(http.StatusOK, "profile.html", view)
}
