package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
)

var validate = validator.New()

// invoiceView is the list/read projection: the record plus its derived
// total, recomputed on every response.
type invoiceView struct {
	invoicedomain.Invoice
	Total float64 `json:"total"`
}

func viewOf(inv invoicedomain.Invoice) invoiceView {
	return invoiceView{Invoice: inv, Total: inv.TotalAmount()}
}

func viewsOf(invoices []invoicedomain.Invoice) []invoiceView {
	out := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, viewOf(inv))
	}
	return out
}

func (s *Server) ListInvoices(c *gin.Context) {
	req, err := parseListRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	visible := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		visible = append(visible, inv.ID)
	}
	selection := s.invoiceSvc.Selection(c.Request.Context(), invoicedomain.ViewActive, visible)

	c.JSON(http.StatusOK, gin.H{
		"data":      viewsOf(invoices),
		"selection": selection,
	})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var draft *invoicedomain.Invoice
	if c.Request.ContentLength > 0 {
		var body invoicedomain.Invoice
		if err := c.ShouldBindJSON(&body); err != nil {
			AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
			return
		}
		if err := validateStatus(body.Status, true); err != nil {
			AbortWithError(c, err)
			return
		}
		draft = &body
	}

	created, err := s.invoiceSvc.Create(c.Request.Context(), draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": viewOf(created)})
}

func (s *Server) GetInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	inv, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": viewOf(inv)})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var body invoicedomain.Invoice
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	if err := validateStatus(body.Status, true); err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := s.invoiceSvc.Update(c.Request.Context(), id, body)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": viewOf(updated)})
}

func (s *Server) SoftDeleteInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.invoiceSvc.SoftDelete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type idsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

func (s *Server) SoftDeleteInvoices(c *gin.Context) {
	var body idsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, newValidationError("ids", "invalid_request", "ids are required"))
		return
	}

	moved, err := s.invoiceSvc.SoftDeleteBulk(c.Request.Context(), body.IDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "count": moved})
}

func (s *Server) ToggleInvoiceStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	inv, err := s.invoiceSvc.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": viewOf(inv)})
}

func parseListRequest(c *gin.Context) (invoicedomain.ListRequest, error) {
	req := invoicedomain.ListRequest{
		Search: c.Query("search"),
		Status: invoicedomain.StatusFilter(c.DefaultQuery("status", string(invoicedomain.FilterAll))),
		SortBy: invoicedomain.SortField(c.DefaultQuery("sort", string(invoicedomain.SortByDate))),
		Order:  invoicedomain.SortOrder(c.DefaultQuery("order", string(invoicedomain.OrderDesc))),
	}

	if err := validate.Var(string(req.Status), "oneof=All Paid Unpaid"); err != nil {
		return req, newValidationError("status", "invalid_status", "status must be All, Paid or Unpaid")
	}
	if err := validate.Var(string(req.SortBy), "oneof=date clientName amount status"); err != nil {
		return req, newValidationError("sort", "invalid_sort", "unknown sort field")
	}
	if err := validate.Var(string(req.Order), "oneof=asc desc"); err != nil {
		return req, newValidationError("order", "invalid_order", "order must be asc or desc")
	}
	return req, nil
}

func validateStatus(status invoicedomain.Status, allowEmpty bool) error {
	if status == "" && allowEmpty {
		return nil
	}
	if err := validate.Var(string(status), "oneof=Paid Unpaid"); err != nil {
		return newValidationError("status", "invalid_status", "status must be Paid or Unpaid")
	}
	return nil
}
