package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDerivedTotal(t *testing.T) {
	inv := Invoice{
		Items: []InvoiceItem{
			{ID: "a", Description: "Design", Quantity: 2, Rate: 50},
			{ID: "b", Description: "Hosting", Quantity: 3, Rate: 10},
		},
		DiscountRate: 10,
		Shipping:     5,
	}

	// (100 + 30) * 0.9 + 5
	assert.True(t, inv.Subtotal().Equal(decimal.NewFromInt(130)), "subtotal = %s", inv.Subtotal())
	assert.True(t, inv.DiscountAmount().Equal(decimal.NewFromInt(13)))
	assert.True(t, inv.Total().Equal(decimal.NewFromInt(122)), "total = %s", inv.Total())

	t.Run("recomputed after mutation", func(t *testing.T) {
		inv.Items[0].Rate = 100
		inv.Shipping = 0
		inv.DiscountRate = 0
		assert.True(t, inv.Total().Equal(decimal.NewFromInt(230)), "total = %s", inv.Total())
	})

	t.Run("empty invoice totals zero", func(t *testing.T) {
		var empty Invoice
		assert.True(t, empty.Total().IsZero())
	})
}

func TestRemoveItem(t *testing.T) {
	inv := Invoice{
		Items: []InvoiceItem{
			{ID: "a", Quantity: 1, Rate: 10},
			{ID: "b", Quantity: 1, Rate: 20},
		},
	}

	assert.True(t, inv.RemoveItem("a"))
	assert.Len(t, inv.Items, 1)
	assert.Equal(t, "b", inv.Items[0].ID)

	t.Run("last item cannot be removed", func(t *testing.T) {
		assert.False(t, inv.RemoveItem("b"))
		assert.Len(t, inv.Items, 1)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		inv.AddItem(InvoiceItem{ID: "c"})
		assert.False(t, inv.RemoveItem("missing"))
		assert.Len(t, inv.Items, 2)
	})
}

func TestStatusToggle(t *testing.T) {
	assert.Equal(t, StatusUnpaid, StatusPaid.Toggle())
	assert.Equal(t, StatusPaid, StatusUnpaid.Toggle())
}

func TestClone(t *testing.T) {
	ts := int64(42)
	inv := Invoice{
		ID:        "inv-1",
		Items:     []InvoiceItem{{ID: "a", Quantity: 1, Rate: 10}},
		DeletedAt: &ts,
	}

	clone := inv.Clone()
	clone.Items[0].Rate = 99
	*clone.DeletedAt = 7

	assert.Equal(t, float64(10), inv.Items[0].Rate)
	assert.Equal(t, int64(42), *inv.DeletedAt)
}

func TestNewDraft(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	draft := NewDraft(now, Defaults{
		NetDays:    7,
		Terms:      "Payment is due within 15 days.",
		FooterNote: "Thank you for your business",
	})

	assert.Equal(t, "2024-03-10", draft.Date)
	assert.Equal(t, "2024-03-17", draft.DueDate)
	assert.Equal(t, "$", draft.CurrencySymbol)
	assert.Equal(t, StatusUnpaid, draft.Status)
	assert.Nil(t, draft.DeletedAt)
	assert.Empty(t, draft.Items)
}
