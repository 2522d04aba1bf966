package domain

import "time"

const dateLayout = "2006-01-02"

// Defaults are the seed values for a freshly created invoice. They come from
// the invoicing config; the zero value is usable in tests.
type Defaults struct {
	CurrencySymbol string
	NetDays        int
	Terms          string
	FooterNote     string
	SeedItem       string

	SellerName    string
	SellerAddress string
	SellerEmail   string
	SellerPhone   string
}

// NewDraft builds an unsaved invoice with the configured defaults: dated
// today, due after the configured net days, one seed item, Unpaid. Identity
// and number are assigned by the lifecycle engine on create.
func NewDraft(now time.Time, d Defaults) Invoice {
	symbol := d.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}
	return Invoice{
		Date:           now.Format(dateLayout),
		DueDate:        now.AddDate(0, 0, d.NetDays).Format(dateLayout),
		CurrencySymbol: symbol,
		SellerName:     d.SellerName,
		SellerAddress:  d.SellerAddress,
		SellerEmail:    d.SellerEmail,
		SellerPhone:    d.SellerPhone,
		Items:          nil, // seeded by Create when still empty
		Terms:          d.Terms,
		FooterNote:     d.FooterNote,
		Status:         StatusUnpaid,
		Signature: SignatureData{
			Date: now.Format(dateLayout),
		},
	}
}
