package pdf

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleInvoice(id, number, client string) invoicedomain.Invoice {
	return invoicedomain.Invoice{
		ID:         id,
		Number:     number,
		ClientName: client,
		Date:       "2024-03-10",
		DueDate:    "2024-03-17",

		CurrencySymbol: "$",
		Status:         invoicedomain.StatusUnpaid,
		Items: []invoicedomain.InvoiceItem{
			{ID: "i1", Description: "Design work", Quantity: 2, Rate: 50},
			{ID: "i2", Description: "Hosting", Quantity: 1, Rate: 30},
		},
		DiscountRate: 10,
		Shipping:     5,
	}
}

func TestRenderInvoice(t *testing.T) {
	r := NewRenderer(zap.NewNop())

	doc, err := r.RenderInvoice(context.Background(), sampleInvoice("1", "INV-001", "Acme Corp"))
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "output is a PDF document")

	t.Run("sparse invoice still renders", func(t *testing.T) {
		doc, err := r.RenderInvoice(context.Background(), invoicedomain.Invoice{
			ID:    "2",
			Items: []invoicedomain.InvoiceItem{{Description: "One line", Quantity: 1, Rate: 1}},
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	})
}

func TestRenderBatch(t *testing.T) {
	r := NewRenderer(zap.NewNop())

	invoices := []invoicedomain.Invoice{
		sampleInvoice("1", "INV-001", "Acme Corp"),
		sampleInvoice("2", "INV-002", "Bravo Ltd"),
	}
	archive, err := r.RenderBatch(context.Background(), invoices)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "Invoice-INV-001.pdf", zr.File[0].Name, "entries keep input order")
	assert.Equal(t, "Invoice-INV-002.pdf", zr.File[1].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	head := make([]byte, 4)
	_, err = rc.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(head))
}

func TestEntryName(t *testing.T) {
	assert.Equal(t, "Invoice-INV-001.pdf", EntryName(invoicedomain.Invoice{Number: "INV-001"}))
	assert.Equal(t, "Invoice-abc.pdf", EntryName(invoicedomain.Invoice{ID: "abc"}), "falls back to the id")
	assert.Equal(t, "Invoice-A-B-C.pdf", EntryName(invoicedomain.Invoice{Number: `A/B\C`}), "path separators are sanitized")
}
