package pdf

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
	"go.uber.org/zap"
)

func (r *renderer) RenderBatch(ctx context.Context, invoices []invoicedomain.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, inv := range invoices {
		doc, err := r.RenderInvoice(ctx, inv)
		if err != nil {
			return nil, err
		}

		w, err := zw.Create(EntryName(inv))
		if err != nil {
			return nil, fmt.Errorf("archive entry for %s: %w", inv.Number, err)
		}
		if _, err := w.Write(doc); err != nil {
			return nil, fmt.Errorf("archive entry for %s: %w", inv.Number, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	r.log.Info("batch rendered", zap.Int("invoices", len(invoices)))
	return buf.Bytes(), nil
}

// EntryName names an archive entry after the invoice's display number,
// falling back to its id when the number is blank.
func EntryName(inv invoicedomain.Invoice) string {
	name := strings.TrimSpace(inv.Number)
	if name == "" {
		name = inv.ID
	}
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	return fmt.Sprintf("Invoice-%s.pdf", name)
}
