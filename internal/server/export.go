package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
	"github.com/invoicify/invoicify/internal/providers/pdf"
)

const batchArchiveName = "Invoices_Batch.zip"

func (s *Server) ExportInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	inv, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.renderer.RenderInvoice(c.Request.Context(), inv)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.EntryName(inv)))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// ExportInvoices renders the requested invoices and streams them as one ZIP
// archive, entries in request order.
func (s *Server) ExportInvoices(c *gin.Context) {
	var body idsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, newValidationError("ids", "invalid_request", "ids are required"))
		return
	}

	invoices := make([]invoicedomain.Invoice, 0, len(body.IDs))
	for _, id := range body.IDs {
		inv, err := s.invoiceSvc.Get(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		invoices = append(invoices, inv)
	}

	archive, err := s.renderer.RenderBatch(c.Request.Context(), invoices)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", batchArchiveName))
	c.Data(http.StatusOK, "application/zip", archive)
}
