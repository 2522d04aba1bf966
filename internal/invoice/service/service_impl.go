// Package service implements the invoice lifecycle engine: it owns the
// active and recycle-bin collections in memory and mirrors every mutation
// to the collection store.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/invoicify/invoicify/internal/clock"
	"github.com/invoicify/invoicify/internal/config"
	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
	"github.com/invoicify/invoicify/internal/invoice/query"
	"github.com/invoicify/invoicify/internal/invoice/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var numberSuffixRe = regexp.MustCompile(`(\d+)$`)

type ServiceParam struct {
	fx.In

	Repo      *repository.CollectionStore
	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
	Invoicing *config.InvoicingConfigHolder
}

type Service struct {
	// mu guards the (active, deleted) pair as a single unit; several
	// operations move a record between the two atomically.
	mu        sync.Mutex
	active    []invoicedomain.Invoice
	deleted   []invoicedomain.Invoice
	selection *query.Selection

	repo      *repository.CollectionStore
	log       *zap.Logger
	clock     clock.Clock
	genID     *snowflake.Node
	invoicing *config.InvoicingConfigHolder
}

func NewService(p ServiceParam) (invoicedomain.Service, error) {
	s := &Service{
		selection: query.NewSelection(),
		repo:      p.Repo,
		log:       p.Log.Named("invoice.service"),
		clock:     p.Clock,
		genID:     p.GenID,
		invoicing: p.Invoicing,
	}

	ctx := context.Background()
	active, err := p.Repo.Load(ctx, repository.KeyActive)
	if err != nil {
		return nil, err
	}
	deleted, err := p.Repo.Load(ctx, repository.KeyDeleted)
	if err != nil {
		return nil, err
	}
	s.active = active
	s.deleted = deleted

	s.log.Info("collections loaded",
		zap.Int("active", len(active)),
		zap.Int("deleted", len(deleted)),
	)
	return s, nil
}

func (s *Service) Create(ctx context.Context, draft *invoicedomain.Invoice) (invoicedomain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.invoicing.Get()
	now := s.clock.Now()

	var inv invoicedomain.Invoice
	if draft != nil {
		inv = draft.Clone()
	} else {
		inv = invoicedomain.NewDraft(now, defaultsFrom(cfg))
	}

	inv.ID = s.genID.Generate().String()
	inv.Number = s.nextNumber(cfg)
	inv.CreatedAt = now.UnixMilli()
	inv.DeletedAt = nil
	if inv.Status == "" {
		inv.Status = invoicedomain.StatusUnpaid
	}
	if len(inv.Items) == 0 {
		inv.Items = []invoicedomain.InvoiceItem{{
			ID:          uuid.NewString(),
			Description: cfg.SeedItem,
			Quantity:    1,
			Rate:        0,
		}}
	}
	ensureItemIDs(inv.Items)

	active := prepend(s.active, inv)
	if err := s.commit(ctx, active, s.deleted); err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.log.Info("invoice created",
		zap.String("id", inv.ID),
		zap.String("number", inv.Number),
	)
	return inv.Clone(), nil
}

func (s *Service) Get(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.active, id)
	if idx < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}
	return s.active[idx].Clone(), nil
}

func (s *Service) Update(ctx context.Context, id string, inv invoicedomain.Invoice) (invoicedomain.Invoice, error) {
	if id == "" {
		return invoicedomain.Invoice{}, invoicedomain.ErrEmptyID
	}
	if len(inv.Items) == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrNoItems
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.active, id)
	if idx < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	// Full replace, but identity and creation time are immutable.
	replacement := inv.Clone()
	replacement.ID = s.active[idx].ID
	replacement.CreatedAt = s.active[idx].CreatedAt
	replacement.DeletedAt = nil
	ensureItemIDs(replacement.Items)

	active := snapshot(s.active)
	active[idx] = replacement
	if err := s.commit(ctx, active, s.deleted); err != nil {
		return invoicedomain.Invoice{}, err
	}
	return replacement.Clone(), nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListRequest) ([]invoicedomain.Invoice, error) {
	s.mu.Lock()
	active := snapshot(s.active)
	s.mu.Unlock()

	status := req.Status
	if status == "" {
		status = invoicedomain.FilterAll
	}
	out := query.Filter(active, req.Search, status)

	field := req.SortBy
	order := req.Order
	if field == "" {
		field, order = invoicedomain.SortByDate, invoicedomain.OrderDesc
	}
	if order == "" {
		order = invoicedomain.OrderAsc
	}
	return query.Sort(out, field, order), nil
}

func (s *Service) ListDeleted(ctx context.Context) ([]invoicedomain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.deleted), nil
}

func (s *Service) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.active, id)
	if idx < 0 {
		return invoicedomain.ErrInvoiceNotFound
	}

	ts := s.clock.Now().UnixMilli()
	inv := s.active[idx].Clone()
	inv.DeletedAt = &ts

	active := remove(s.active, idx)
	deleted := prepend(s.deleted, inv)
	if err := s.commit(ctx, active, deleted); err != nil {
		return err
	}

	s.selection.Drop(id)
	s.log.Info("invoice moved to bin", zap.String("id", id))
	return nil
}

func (s *Service) SoftDeleteBulk(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := idSet(ids)
	ts := s.clock.Now().UnixMilli()

	// Matched records keep their relative order and move to the bin as a
	// block, all stamped with the same instant.
	moved := make([]invoicedomain.Invoice, 0, len(ids))
	active := make([]invoicedomain.Invoice, 0, len(s.active))
	for _, inv := range s.active {
		if _, ok := wanted[inv.ID]; ok {
			stamped := inv.Clone()
			stamped.DeletedAt = &ts
			moved = append(moved, stamped)
			continue
		}
		active = append(active, inv)
	}
	if len(moved) == 0 {
		return 0, nil
	}

	deleted := append(snapshot(moved), s.deleted...)
	if err := s.commit(ctx, active, deleted); err != nil {
		return 0, err
	}

	s.selection.Clear()
	s.log.Info("invoices moved to bin", zap.Int("count", len(moved)))
	return len(moved), nil
}

func (s *Service) Restore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.deleted, id)
	if idx < 0 {
		return invoicedomain.ErrInvoiceNotFound
	}

	inv := s.deleted[idx].Clone()
	inv.DeletedAt = nil

	deleted := remove(s.deleted, idx)
	active := prepend(s.active, inv)
	if err := s.commit(ctx, active, deleted); err != nil {
		return err
	}

	s.selection.Drop(id)
	s.log.Info("invoice restored", zap.String("id", id))
	return nil
}

func (s *Service) PermanentDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.deleted, id)
	if idx < 0 {
		return invoicedomain.ErrInvoiceNotFound
	}

	deleted := remove(s.deleted, idx)
	if err := s.commit(ctx, s.active, deleted); err != nil {
		return err
	}

	s.selection.Drop(id)
	s.log.Info("invoice permanently deleted", zap.String("id", id))
	return nil
}

func (s *Service) PermanentDeleteBulk(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := idSet(ids)
	deleted := make([]invoicedomain.Invoice, 0, len(s.deleted))
	removed := 0
	for _, inv := range s.deleted {
		if _, ok := wanted[inv.ID]; ok {
			removed++
			continue
		}
		deleted = append(deleted, inv)
	}
	if removed == 0 {
		return 0, nil
	}

	if err := s.commit(ctx, s.active, deleted); err != nil {
		return 0, err
	}

	s.selection.Clear()
	s.log.Info("invoices permanently deleted", zap.Int("count", removed))
	return removed, nil
}

func (s *Service) PermanentDeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := make([]string, 0, len(s.deleted))
	for _, inv := range s.deleted {
		purged = append(purged, inv.ID)
	}

	if err := s.commit(ctx, s.active, []invoicedomain.Invoice{}); err != nil {
		return err
	}

	s.selection.Drop(purged...)
	s.log.Info("recycle bin emptied", zap.Int("count", len(purged)))
	return nil
}

func (s *Service) ToggleStatus(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.active, id)
	if idx < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	active := snapshot(s.active)
	active[idx].Status = active[idx].Status.Toggle()
	if err := s.commit(ctx, active, s.deleted); err != nil {
		return invoicedomain.Invoice{}, err
	}
	return active[idx].Clone(), nil
}

func (s *Service) ToggleSelect(ctx context.Context, view invoicedomain.View, id string) invoicedomain.SelectionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.SetScope(view)
	s.selection.Toggle(id)
	return s.selectionInfoLocked(view, nil)
}

func (s *Service) SelectAll(ctx context.Context, view invoicedomain.View, ids []string) invoicedomain.SelectionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.SetScope(view)
	s.selection.SetAll(ids)
	return s.selectionInfoLocked(view, nil)
}

func (s *Service) ClearSelection(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

func (s *Service) Selection(ctx context.Context, view invoicedomain.View, visible []string) invoicedomain.SelectionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.SetScope(view)
	return s.selectionInfoLocked(view, visible)
}

func (s *Service) selectionInfoLocked(view invoicedomain.View, visible []string) invoicedomain.SelectionInfo {
	if visible == nil {
		collection := s.active
		if view == invoicedomain.ViewBin {
			collection = s.deleted
		}
		visible = make([]string, 0, len(collection))
		for _, inv := range collection {
			visible = append(visible, inv.ID)
		}
	}
	return invoicedomain.SelectionInfo{
		IDs:   s.selection.IDs(),
		State: s.selection.State(visible),
	}
}

// commit mirrors the collections to storage, then publishes them as the
// engine's state. A failed write leaves the in-memory state untouched.
func (s *Service) commit(ctx context.Context, active, deleted []invoicedomain.Invoice) error {
	if err := s.repo.SaveAll(ctx, active, deleted); err != nil {
		return fmt.Errorf("persist collections: %w", err)
	}
	s.active = active
	s.deleted = deleted
	return nil
}

// nextNumber scans the numeric suffix of every invoice number across both
// collections and formats max+1 with the configured prefix and padding.
// This is a pure function of current state, not a persisted counter, so
// numbers can be reissued after bulk permanent deletion.
func (s *Service) nextNumber(cfg config.InvoicingConfig) string {
	max := int64(0)
	scan := func(invoices []invoicedomain.Invoice) {
		for _, inv := range invoices {
			m := numberSuffixRe.FindStringSubmatch(inv.Number)
			if m == nil {
				continue
			}
			n, err := strconv.ParseInt(m[1], 10, 64)
			if err == nil && n > max {
				max = n
			}
		}
	}
	scan(s.active)
	scan(s.deleted)

	return fmt.Sprintf("%s%0*d", cfg.NumberPrefix, cfg.NumberPad, max+1)
}

func defaultsFrom(cfg config.InvoicingConfig) invoicedomain.Defaults {
	return invoicedomain.Defaults{
		CurrencySymbol: cfg.CurrencySymbol,
		NetDays:        cfg.NetDays,
		Terms:          cfg.DefaultTerms,
		FooterNote:     cfg.DefaultFooter,
		SeedItem:       cfg.SeedItem,
		SellerName:     cfg.SellerName,
		SellerAddress:  cfg.SellerAddress,
		SellerEmail:    cfg.SellerEmail,
		SellerPhone:    cfg.SellerPhone,
	}
}

func ensureItemIDs(items []invoicedomain.InvoiceItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
}

func indexOf(invoices []invoicedomain.Invoice, id string) int {
	for i, inv := range invoices {
		if inv.ID == id {
			return i
		}
	}
	return -1
}

func idSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func snapshot(invoices []invoicedomain.Invoice) []invoicedomain.Invoice {
	out := make([]invoicedomain.Invoice, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.Clone()
	}
	return out
}

func prepend(invoices []invoicedomain.Invoice, inv invoicedomain.Invoice) []invoicedomain.Invoice {
	out := make([]invoicedomain.Invoice, 0, len(invoices)+1)
	out = append(out, inv)
	return append(out, invoices...)
}

func remove(invoices []invoicedomain.Invoice, idx int) []invoicedomain.Invoice {
	out := make([]invoicedomain.Invoice, 0, len(invoices)-1)
	out = append(out, invoices[:idx]...)
	return append(out, invoices[idx+1:]...)
}
