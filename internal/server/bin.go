package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
)

func (s *Server) ListBin(c *gin.Context) {
	invoices, err := s.invoiceSvc.ListDeleted(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	visible := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		visible = append(visible, inv.ID)
	}
	selection := s.invoiceSvc.Selection(c.Request.Context(), invoicedomain.ViewBin, visible)

	c.JSON(http.StatusOK, gin.H{
		"data":      viewsOf(invoices),
		"selection": selection,
	})
}

func (s *Server) RestoreInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.invoiceSvc.Restore(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

func (s *Server) PermanentDeleteInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.invoiceSvc.PermanentDelete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "purged"})
}

type purgeRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

// PurgeBin permanently deletes either the given ids or, with all=true, the
// entire recycle bin. Irreversible; the client owns the confirmation prompt.
func (s *Server) PurgeBin(c *gin.Context) {
	var body purgeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	if body.All {
		if err := s.invoiceSvc.PermanentDeleteAll(c.Request.Context()); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "purged"})
		return
	}

	if len(body.IDs) == 0 {
		AbortWithError(c, newValidationError("ids", "invalid_request", "ids are required unless all=true"))
		return
	}

	removed, err := s.invoiceSvc.PermanentDeleteBulk(c.Request.Context(), body.IDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "purged", "count": removed})
}
