package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxDescriptionLen bounds a line description so a pathological value wraps
// the layout instead of breaking it.
const maxDescriptionLen = 300

type renderer struct {
	log *zap.Logger
}

func NewRenderer(log *zap.Logger) Renderer {
	return &renderer{log: log.Named("pdf.renderer")}
}

func (r *renderer) RenderInvoice(ctx context.Context, inv invoicedomain.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	r.addHeader(m, inv)
	r.addParties(m, inv)
	r.addItemsTable(m, inv)
	r.addTotals(m, inv)
	r.addFooter(m, inv)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice %s: %w", inv.Number, err)
	}
	return doc.GetBytes(), nil
}

func (r *renderer) addHeader(m core.Maroto, inv invoicedomain.Invoice) {
	seller := inv.SellerName
	if seller == "" {
		seller = "Seller Name"
	}

	m.AddRow(12,
		text.NewCol(8, truncate(seller, 80), props.Text{
			Size:  18,
			Style: fontstyle.Bold,
		}),
		text.NewCol(4, "INVOICE", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	sellerLines := nonEmpty(
		inv.SellerAddress,
		inv.SellerAddress2,
		prefixed("Contact: ", inv.SellerPhone),
		inv.SellerEmail,
	)
	m.AddRow(20, col.New(12).Add(textLines(sellerLines, 9)...))
}

func (r *renderer) addParties(m core.Maroto, inv invoicedomain.Invoice) {
	m.AddRow(8,
		text.NewCol(4, "ACCOUNT DETAILS", props.Text{Size: 8, Style: fontstyle.Bold}),
		text.NewCol(4, "BILLED TO", props.Text{Size: 8, Style: fontstyle.Bold}),
		col.New(4),
	)
	m.AddRow(2,
		line.NewCol(4),
		line.NewCol(4),
		col.New(4),
	)

	bank := nonEmpty(
		inv.BankDetails.AccountName,
		inv.BankDetails.BankName,
		prefixed("ACC NO: ", inv.BankDetails.AccountNumber),
		prefixed("Swift Code ", inv.BankDetails.SwiftCode),
	)

	client := inv.ClientName
	if client == "" {
		client = "Client Name"
	}
	billed := nonEmpty(
		client,
		prefixed("Contact: ", inv.ClientEmail),
		inv.ClientAddress,
		inv.ClientAddress2,
	)

	meta := []string{
		"Invoice No: " + inv.Number,
		"Invoice Date: " + inv.Date,
		"Due Date: " + inv.DueDate,
	}

	m.AddRow(28,
		col.New(4).Add(textLines(bank, 9)...),
		col.New(4).Add(textLines(billed, 9)...),
		col.New(4).Add(textLinesRight(meta, 9)...),
	)
}

func (r *renderer) addItemsTable(m core.Maroto, inv invoicedomain.Invoice) {
	m.AddRow(8,
		text.NewCol(6, "DESCRIPTION", props.Text{Size: 8, Style: fontstyle.Bold}),
		text.NewCol(2, "QTY", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center}),
		text.NewCol(2, "UNIT PRICE", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "TOTAL", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(1, line.NewCol(12))

	// One row per item. The row engine starts a new page when the next row
	// would cross the content-area bound, so long invoices paginate without
	// clipping a line.
	for _, item := range inv.Items {
		m.AddRows(row.New(7).Add(
			text.NewCol(6, truncate(item.Description, maxDescriptionLen), props.Text{Size: 9}),
			text.NewCol(2, formatQty(item.Quantity), props.Text{Size: 9, Align: align.Center}),
			text.NewCol(2, formatAmount(decimal.NewFromFloat(item.Rate)), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(item.Amount()), props.Text{Size: 9, Align: align.Right}),
		))
	}
	m.AddRow(1, line.NewCol(12))
}

func (r *renderer) addTotals(m core.Maroto, inv invoicedomain.Invoice) {
	subtotal := inv.Subtotal()
	discount := inv.DiscountAmount()
	shipping := decimal.NewFromFloat(inv.Shipping)
	total := inv.Total()

	totalRow := func(label string, amount decimal.Decimal) {
		m.AddRow(6,
			col.New(6),
			text.NewCol(4, label, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, formatAmount(amount), props.Text{Size: 8, Align: align.Right}),
		)
	}

	totalRow("SUBTOTAL", subtotal)
	totalRow("DISCOUNT", discount)
	totalRow("SUBTOTAL LESS DISCOUNT", subtotal.Sub(discount))
	totalRow("SHIPPING/HANDLING", shipping)

	m.AddRow(10,
		col.New(6),
		text.NewCol(4, "Total Amount", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, inv.CurrencySymbol+formatAmount(total), props.Text{
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
}

func (r *renderer) addFooter(m core.Maroto, inv invoicedomain.Invoice) {
	if inv.FooterNote != "" {
		m.AddRow(8, text.NewCol(12, truncate(inv.FooterNote, 200), props.Text{Size: 9}))
	}
	if inv.Terms != "" {
		m.AddRow(8, text.NewCol(12, truncate(inv.Terms, 400), props.Text{Size: 8}))
	}

	sig := nonEmpty(
		inv.Signature.SignatoryName,
		inv.Signature.Designation,
		inv.Signature.Date,
	)
	if len(sig) > 0 {
		m.AddRow(2, col.New(8), line.NewCol(4))
		m.AddRow(16, col.New(8), col.New(4).Add(textLines(sig, 8)...))
	}
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

func nonEmpty(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func textLines(lines []string, size float64) []core.Component {
	out := make([]core.Component, 0, len(lines))
	for i, l := range lines {
		out = append(out, text.New(l, props.Text{Size: size, Top: float64(i) * 4}))
	}
	return out
}

func textLinesRight(lines []string, size float64) []core.Component {
	out := make([]core.Component, 0, len(lines))
	for i, l := range lines {
		out = append(out, text.New(l, props.Text{Size: size, Top: float64(i) * 4, Align: align.Right}))
	}
	return out
}
