package domain

import (
	"context"
	"errors"
)

// StatusFilter narrows a list to one payment status.
type StatusFilter string

const (
	FilterAll    StatusFilter = "All"
	FilterPaid   StatusFilter = "Paid"
	FilterUnpaid StatusFilter = "Unpaid"
)

// SortField designates a list sort key.
type SortField string

const (
	SortByDate   SortField = "date"
	SortByClient SortField = "clientName"
	SortByAmount SortField = "amount"
	SortByStatus SortField = "status"
)

// SortOrder designates a sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// View identifies which collection a caller is looking at. Selection state
// is scoped to a view and cleared when the view changes.
type View string

const (
	ViewActive View = "active"
	ViewBin    View = "bin"
)

// ListRequest carries the query parameters for the active list.
type ListRequest struct {
	Search string
	Status StatusFilter
	SortBy SortField
	Order  SortOrder
}

// SelectionInfo mirrors the current selection for a view, with the tri-state
// of a parent select-all control against the visible rows.
type SelectionInfo struct {
	IDs   []string       `json:"ids"`
	State SelectionState `json:"state"`
}

// SelectionState is the tri-state of a select-all control.
type SelectionState string

const (
	SelectionNone    SelectionState = "none"
	SelectionPartial SelectionState = "partial"
	SelectionAll     SelectionState = "all"
)

var (
	ErrInvoiceNotFound = errors.New("invoice_not_found")
	ErrNoItems         = errors.New("invoice_requires_item")
	ErrEmptyID         = errors.New("empty_invoice_id")
)

// Service is the lifecycle engine's boundary contract. Single-target
// mutations referencing an id absent from the expected collection fail with
// ErrInvoiceNotFound; bulk variants skip unmatched ids instead.
type Service interface {
	Create(ctx context.Context, draft *Invoice) (Invoice, error)
	Get(ctx context.Context, id string) (Invoice, error)
	Update(ctx context.Context, id string, inv Invoice) (Invoice, error)
	List(ctx context.Context, req ListRequest) ([]Invoice, error)
	ListDeleted(ctx context.Context) ([]Invoice, error)

	SoftDelete(ctx context.Context, id string) error
	SoftDeleteBulk(ctx context.Context, ids []string) (int, error)
	Restore(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	PermanentDeleteBulk(ctx context.Context, ids []string) (int, error)
	PermanentDeleteAll(ctx context.Context) error
	ToggleStatus(ctx context.Context, id string) (Invoice, error)

	ToggleSelect(ctx context.Context, view View, id string) SelectionInfo
	SelectAll(ctx context.Context, view View, ids []string) SelectionInfo
	ClearSelection(ctx context.Context)
	Selection(ctx context.Context, view View, visible []string) SelectionInfo
}
