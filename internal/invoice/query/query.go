// Package query derives filtered, sorted views over invoice collection
// snapshots. All functions are pure; they never mutate their input.
package query

import (
	"sort"
	"strings"

	"github.com/invoicify/invoicify/internal/invoice/domain"
)

// Filter keeps invoices whose client name or number contains term
// (case-insensitive) and whose status matches the filter. An empty term
// matches everything, as does FilterAll.
func Filter(invoices []domain.Invoice, term string, status domain.StatusFilter) []domain.Invoice {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if needle != "" &&
			!strings.Contains(strings.ToLower(inv.ClientName), needle) &&
			!strings.Contains(strings.ToLower(inv.Number), needle) {
			continue
		}
		if status != "" && status != domain.FilterAll && string(inv.Status) != string(status) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// Sort returns a sorted copy. The sort is stable: rows with equal keys keep
// their relative order, so repeated sorts are deterministic. Amount compares
// the derived total; date and the text fields compare lexicographically,
// which orders ISO dates correctly without calendar parsing.
func Sort(invoices []domain.Invoice, field domain.SortField, order domain.SortOrder) []domain.Invoice {
	out := make([]domain.Invoice, len(invoices))
	copy(out, invoices)

	less := lessFunc(field)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == domain.OrderDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(field domain.SortField) func(a, b domain.Invoice) bool {
	switch field {
	case domain.SortByDate:
		return func(a, b domain.Invoice) bool { return a.Date < b.Date }
	case domain.SortByClient:
		return func(a, b domain.Invoice) bool { return a.ClientName < b.ClientName }
	case domain.SortByStatus:
		return func(a, b domain.Invoice) bool { return a.Status < b.Status }
	case domain.SortByAmount:
		return func(a, b domain.Invoice) bool { return a.Total().LessThan(b.Total()) }
	default:
		return nil
	}
}

// NextOrder implements the sort control: picking the current field flips the
// direction, picking a new field resets to ascending.
func NextOrder(current domain.SortField, currentOrder domain.SortOrder, picked domain.SortField) domain.SortOrder {
	if picked == current && currentOrder == domain.OrderAsc {
		return domain.OrderDesc
	}
	return domain.OrderAsc
}
