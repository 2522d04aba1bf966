package query

import "github.com/invoicify/invoicify/internal/invoice/domain"

// Selection tracks the set of chosen invoice ids for one view at a time.
// Switching the scope to a different view drops the previous choice, the
// same way the list clears its checkboxes when the user moves between the
// active list and the bin.
type Selection struct {
	scope domain.View
	order []string
	ids   map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Scope returns the view the selection currently belongs to.
func (s *Selection) Scope() domain.View {
	return s.scope
}

// SetScope switches the selection to a view, clearing it when the view
// differs from the current scope.
func (s *Selection) SetScope(view domain.View) {
	if s.scope != view {
		s.Clear()
		s.scope = view
	}
}

// Toggle adds the id when absent and removes it when present.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		s.remove(id)
		return
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
}

// SetAll replaces the selection with exactly the given ids.
func (s *Selection) SetAll(ids []string) {
	s.Clear()
	for _, id := range ids {
		if _, ok := s.ids[id]; ok {
			continue
		}
		s.ids[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

// Drop removes the given ids if selected, keeping the rest intact. Used when
// records are permanently deleted out from under the selection.
func (s *Selection) Drop(ids ...string) {
	for _, id := range ids {
		s.remove(id)
	}
}

func (s *Selection) Clear() {
	s.order = s.order[:0]
	for id := range s.ids {
		delete(s.ids, id)
	}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// State reports the tri-state of a parent select-all control for the given
// visible rows: all visible rows selected, none, or a partial mix. Rows
// selected but no longer visible do not count toward "all".
func (s *Selection) State(visible []string) domain.SelectionState {
	if len(visible) == 0 || len(s.ids) == 0 {
		return domain.SelectionNone
	}
	selected := 0
	for _, id := range visible {
		if s.Has(id) {
			selected++
		}
	}
	switch selected {
	case 0:
		return domain.SelectionNone
	case len(visible):
		return domain.SelectionAll
	default:
		return domain.SelectionPartial
	}
}

func (s *Selection) remove(id string) {
	if _, ok := s.ids[id]; !ok {
		return
	}
	delete(s.ids, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
