package grid

// AggregateState summarizes the selection relative to the current
// derived view, for a header checkbox or status line.
type AggregateState int

const (
	// AggregateNone means no row of the current view is selected.
	AggregateNone AggregateState = iota
	// AggregateSome means at least one but not all view rows are
	// selected.
	AggregateSome
	// AggregateAll means every row of the current view is selected.
	AggregateAll
)

func (s AggregateState) String() string {
	switch s {
	case AggregateSome:
		return "some"
	case AggregateAll:
		return "all"
	default:
		return "none"
	}
}

// Selection tracks selected rows by identity, so a selected row stays
// selected while it is hidden by a filter and is still selected when
// the filter is lifted. Only the aggregate state and the copy
// operation consult the current view.
type Selection struct {
	ids map[int]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: map[int]struct{}{}}
}

// Toggle flips the selection state of a single row.
func (s *Selection) Toggle(identity int) {
	if _, ok := s.ids[identity]; ok {
		delete(s.ids, identity)
	} else {
		s.ids[identity] = struct{}{}
	}
}

// SelectAll adds every identity of the current view to the selection.
// Rows hidden by filters are untouched.
func (s *Selection) SelectAll(viewIdentities []int) {
	for _, id := range viewIdentities {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection and reports whether anything was
// cleared. Clearing an empty selection is a no-op.
func (s *Selection) Clear() bool {
	if len(s.ids) == 0 {
		return false
	}
	s.ids = map[int]struct{}{}
	return true
}

// IsSelected reports whether the row with the given identity is
// selected, whether or not it is currently visible.
func (s *Selection) IsSelected(identity int) bool {
	_, ok := s.ids[identity]
	return ok
}

// Count returns the number of selected rows, hidden ones included.
func (s *Selection) Count() int {
	return len(s.ids)
}

// Aggregate reports the selection state of the current view. Rows
// selected but hidden by filters do not count: an empty view or a
// view with no selected rows is AggregateNone, a fully selected view
// is AggregateAll, anything in between is AggregateSome.
func (s *Selection) Aggregate(viewIdentities []int) AggregateState {
	if len(viewIdentities) == 0 || len(s.ids) == 0 {
		return AggregateNone
	}
	selected := 0
	for _, id := range viewIdentities {
		if _, ok := s.ids[id]; ok {
			selected++
		}
	}
	switch selected {
	case 0:
		return AggregateNone
	case len(viewIdentities):
		return AggregateAll
	default:
		return AggregateSome
	}
}
