package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/types"
)

// fieldLabels names each field in response messages
var fieldLabels = map[models.Field]string{
	models.FieldSkills:         "Skills",
	models.FieldWorkExperience: "Work experience",
	models.FieldEducation:      "Education details",
	models.FieldLinks:          "Links",
}

// PortfolioHandler serves the per-field portfolio routes
type PortfolioHandler struct {
	portfolios service.IPortfolioService
}

func NewPortfolioHandler(portfolios service.IPortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios}
}

func (h *PortfolioHandler) RegisterRoutes(router *gin.RouterGroup) {
	portfolio := router.Group("/portfolio/:email")
	for _, field := range models.Fields {
		path := "/" + string(field)
		portfolio.GET(path, h.GetField(field))
		if field == models.FieldLinks {
			portfolio.POST(path, h.AddLink)
			portfolio.DELETE(path, h.RemoveLink)
		} else {
			portfolio.POST(path, h.ReplaceField(field))
			portfolio.DELETE(path, h.ClearField(field))
		}
		portfolio.PUT(path+"/items", h.ReplaceValue(field))
		portfolio.DELETE(path+"/items", h.RemoveValue(field))
	}
}

// GetField returns the raw sequence
func (h *PortfolioHandler) GetField(field models.Field) gin.HandlerFunc {
	return func(c *gin.Context) {
		seq, err := h.portfolios.GetField(c.Request.Context(), c.Param("email"), field)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, seq)
	}
}

// ReplaceField overwrites the sequence with the body key named after the field.
// A missing key stores an empty sequence.
func (h *PortfolioHandler) ReplaceField(field models.Field) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if err := bindNumbers(c, &body); err != nil {
			_ = c.Error(apperr.BadRequest("Invalid request body"))
			return
		}

		seq := []any{}
		if v, ok := body[string(field)]; ok && v != nil {
			items, ok := v.([]any)
			if !ok {
				_ = c.Error(apperr.BadRequest(fmt.Sprintf("%s must be a list", field)))
				return
			}
			seq = items
		}

		if err := h.portfolios.ReplaceField(c.Request.Context(), c.Param("email"), field, seq); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fieldLabels[field] + " updated successfully"})
	}
}

// bindNumbers decodes a JSON body keeping numbers as json.Number, so stored
// documents are not rounded through float64.
func bindNumbers(c *gin.Context, v any) error {
	if c.Request.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

func (h *PortfolioHandler) ClearField(field models.Field) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.portfolios.ClearField(c.Request.Context(), c.Param("email"), field); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fieldLabels[field] + " deleted successfully"})
	}
}

func (h *PortfolioHandler) AddLink(c *gin.Context) {
	var req types.LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Link == "" {
		_ = c.Error(apperr.BadRequest("Name and link are required"))
		return
	}

	if err := h.portfolios.AddLink(c.Request.Context(), c.Param("email"), req.Name, req.Link); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link added successfully"})
}

func (h *PortfolioHandler) RemoveLink(c *gin.Context) {
	var req types.LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		_ = c.Error(apperr.BadRequest("Name is required"))
		return
	}

	if err := h.portfolios.RemoveLink(c.Request.Context(), c.Param("email"), req.Name); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Link '%s' deleted successfully", req.Name)})
}

func bindItem(c *gin.Context) (*types.ItemRequest, bool) {
	var req types.ItemRequest
	if err := bindNumbers(c, &req); err != nil || req.Value == nil {
		_ = c.Error(apperr.BadRequest("value is required"))
		return nil, false
	}
	return &req, true
}

// ReplaceValue swaps the first element equal to value for new_value
func (h *PortfolioHandler) ReplaceValue(field models.Field) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindItem(c)
		if !ok {
			return
		}
		if req.New == nil {
			_ = c.Error(apperr.BadRequest("new_value is required"))
			return
		}

		changed, err := h.portfolios.ReplaceValue(c.Request.Context(), c.Param("email"), field, req.Value, req.New)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"changed": changed})
	}
}

// RemoveValue drops every element equal to value
func (h *PortfolioHandler) RemoveValue(field models.Field) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindItem(c)
		if !ok {
			return
		}

		changed, err := h.portfolios.RemoveValue(c.Request.Context(), c.Param("email"), field, req.Value)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"changed": changed})
	}
}
