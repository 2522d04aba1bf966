package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
)

type selectionRequest struct {
	View string   `json:"view" binding:"required,oneof=active bin"`
	ID   string   `json:"id"`
	IDs  []string `json:"ids"`
}

func (s *Server) GetSelection(c *gin.Context) {
	view, err := parseView(c.DefaultQuery("view", string(invoicedomain.ViewActive)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	info := s.invoiceSvc.Selection(c.Request.Context(), view, nil)
	c.JSON(http.StatusOK, gin.H{"selection": info})
}

func (s *Server) ToggleSelection(c *gin.Context) {
	var body selectionRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.ID == "" {
		AbortWithError(c, newValidationError("request", "invalid_request", "view and id are required"))
		return
	}

	info := s.invoiceSvc.ToggleSelect(c.Request.Context(), invoicedomain.View(body.View), body.ID)
	c.JSON(http.StatusOK, gin.H{"selection": info})
}

// SelectAll sets the selection to exactly the ids the client currently sees
// (post-filter); an empty list is "select none".
func (s *Server) SelectAll(c *gin.Context) {
	var body selectionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "view is required"))
		return
	}

	info := s.invoiceSvc.SelectAll(c.Request.Context(), invoicedomain.View(body.View), body.IDs)
	c.JSON(http.StatusOK, gin.H{"selection": info})
}

func (s *Server) ClearSelection(c *gin.Context) {
	s.invoiceSvc.ClearSelection(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func parseView(raw string) (invoicedomain.View, error) {
	switch invoicedomain.View(raw) {
	case invoicedomain.ViewActive, invoicedomain.ViewBin:
		return invoicedomain.View(raw), nil
	default:
		return "", newValidationError("view", "invalid_view", "view must be active or bin")
	}
}
