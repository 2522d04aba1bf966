// Package pdf renders invoices to paginated PDF documents and bundles them
// into ZIP archives. It only reads the record model, never mutates it.
package pdf

import (
	"context"

	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
	"go.uber.org/fx"
)

type Renderer interface {
	// RenderInvoice produces the PDF bytes for one invoice. Deterministic
	// for a given record.
	RenderInvoice(ctx context.Context, inv invoicedomain.Invoice) ([]byte, error)
	// RenderBatch renders every invoice independently and packs them into a
	// single ZIP, one entry per invoice, in input order.
	RenderBatch(ctx context.Context, invoices []invoicedomain.Invoice) ([]byte, error)
}

var Module = fx.Provide(NewRenderer)
