// Package domain contains the invoice record model and its derived values.
package domain

import (
	"github.com/shopspring/decimal"
)

// Status represents the payment state of an active invoice.
type Status string

const (
	StatusPaid   Status = "Paid"
	StatusUnpaid Status = "Unpaid"
)

// Toggle flips Paid to Unpaid and back.
func (s Status) Toggle() Status {
	if s == StatusPaid {
		return StatusUnpaid
	}
	return StatusPaid
}

// InvoiceItem is a single line on an invoice, owned by its parent.
type InvoiceItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// Amount is the line amount, quantity times rate.
func (i InvoiceItem) Amount() decimal.Decimal {
	return decimal.NewFromFloat(i.Quantity).Mul(decimal.NewFromFloat(i.Rate))
}

// SignatureData is embedded by value inside an invoice.
type SignatureData struct {
	SignatureText  string `json:"signatureText"`
	SignatoryName  string `json:"signatoryName"`
	Designation    string `json:"designation"`
	Date           string `json:"date"`
	SignatureImage string `json:"signatureImage,omitempty"`
}

// BankDetails is embedded by value inside an invoice.
type BankDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	SwiftCode     string `json:"swiftCode"`
}

// Invoice is the central record. JSON field names match the persisted
// collection layout, so records round-trip through storage unchanged.
type Invoice struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	Date           string `json:"date"`
	DueDate        string `json:"dueDate"`
	CurrencySymbol string `json:"currencySymbol"`

	SellerName     string `json:"sellerName"`
	SellerAddress  string `json:"sellerAddress"`
	SellerAddress2 string `json:"sellerAddress2"`
	SellerEmail    string `json:"sellerEmail"`
	SellerPhone    string `json:"sellerPhone"`

	ClientName     string `json:"clientName"`
	ClientAddress  string `json:"clientAddress"`
	ClientAddress2 string `json:"clientAddress2"`
	ClientEmail    string `json:"clientEmail"`

	Items []InvoiceItem `json:"items"`

	DiscountRate float64 `json:"discountRate"`
	Shipping     float64 `json:"shipping"`

	Terms      string `json:"terms"`
	FooterNote string `json:"footerNote"`
	Notes      string `json:"notes"`

	Status Status `json:"status"`

	Signature   SignatureData `json:"signature"`
	BankDetails BankDetails   `json:"bankDetails"`

	// Unix milliseconds. DeletedAt is present iff the invoice sits in the
	// recycle bin.
	CreatedAt int64  `json:"createdAt"`
	DeletedAt *int64 `json:"deletedAt,omitempty"`
}

// IsDeleted reports whether the invoice belongs to the recycle bin.
func (inv Invoice) IsDeleted() bool {
	return inv.DeletedAt != nil
}

// Subtotal sums the line amounts of all items.
func (inv Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.Amount())
	}
	return sum
}

// DiscountAmount is the discount applied to the subtotal.
func (inv Invoice) DiscountAmount() decimal.Decimal {
	rate := decimal.NewFromFloat(inv.DiscountRate).Div(decimal.NewFromInt(100))
	return inv.Subtotal().Mul(rate)
}

// Total is the derived grand total, never stored:
// subtotal minus discount plus shipping. Every reader recomputes it so
// item, discount and shipping edits can never leave a stale figure behind.
func (inv Invoice) Total() decimal.Decimal {
	return inv.Subtotal().
		Sub(inv.DiscountAmount()).
		Add(decimal.NewFromFloat(inv.Shipping))
}

// TotalAmount is Total as a float64, used for sort keys and JSON projections.
func (inv Invoice) TotalAmount() float64 {
	f, _ := inv.Total().Float64()
	return f
}

// AddItem appends a line item.
func (inv *Invoice) AddItem(item InvoiceItem) {
	inv.Items = append(inv.Items, item)
}

// RemoveItem deletes the item with the given id. The last remaining item
// cannot be removed; the call reports false and leaves the invoice untouched.
func (inv *Invoice) RemoveItem(itemID string) bool {
	if len(inv.Items) <= 1 {
		return false
	}
	for i, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so callers can hand records out without
// exposing the engine's backing slices.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.Items = make([]InvoiceItem, len(inv.Items))
	copy(out.Items, inv.Items)
	if inv.DeletedAt != nil {
		ts := *inv.DeletedAt
		out.DeletedAt = &ts
	}
	return out
}
