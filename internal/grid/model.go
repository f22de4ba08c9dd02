package grid

import (
	"sort"
	"strings"

	"github.com/querypad/querypad/pkg/core"
)

// SortDirection is the direction of the active sort, if any.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// String returns a short label suitable for status lines.
func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// Sort is the single active sort. At most one column is sorted at a
// time; the zero value means source order.
type Sort struct {
	Column    string
	Direction SortDirection
}

// Model derives a filtered and sorted view from a result snapshot.
//
// The view is recomputed lazily: state-changing calls only invalidate
// it and bump the generation counter, and the next View call pays for
// the derivation. Calls that do not change state (setting a filter to
// its current text, re-applying the active sort) are no-ops and leave
// the generation untouched, so observers keyed on Generation see no
// change.
//
// Model is not safe for concurrent use. The program's update loop is
// single-threaded, which is the only place a Model lives.
type Model struct {
	snap     *core.ResultSnapshot
	rows     []Row
	colIndex map[string]int

	filters map[string]string
	global  string
	sort    Sort

	generation uint64

	view      []Row
	viewIDs   []int
	viewValid bool
}

// NewModel returns a model with no snapshot. View on a fresh model is
// empty.
func NewModel() *Model {
	return &Model{
		colIndex: map[string]int{},
		filters:  map[string]string{},
	}
}

// SetSnapshot replaces the displayed snapshot. Filters, sorting and
// the derived view all reset: a new snapshot means a new result, and
// stale view state must not leak across results. Passing the snapshot
// already displayed is a no-op.
func (m *Model) SetSnapshot(snap *core.ResultSnapshot) {
	if snap == m.snap {
		return
	}
	m.snap = snap
	m.rows = AdaptRows(snap)
	m.colIndex = map[string]int{}
	if snap != nil {
		for i, name := range snap.Columns {
			m.colIndex[name] = i
		}
	}
	m.filters = map[string]string{}
	m.global = ""
	m.sort = Sort{}
	m.bump()
}

// SetFilter sets the per-column filter for column. Empty text clears
// the filter. Setting a filter to its current value is a no-op.
func (m *Model) SetFilter(column, text string) {
	if m.filters[column] == text {
		return
	}
	if text == "" {
		delete(m.filters, column)
	} else {
		m.filters[column] = text
	}
	m.bump()
}

// SetGlobalFilter sets the filter matched against every column. Empty
// text clears it.
func (m *Model) SetGlobalFilter(text string) {
	if m.global == text {
		return
	}
	m.global = text
	m.bump()
}

// SetSort sets the active sort. SortNone clears sorting regardless of
// column. Re-applying the active sort is a no-op.
func (m *Model) SetSort(column string, direction SortDirection) {
	next := Sort{Column: column, Direction: direction}
	if direction == SortNone {
		next = Sort{}
	}
	if m.sort == next {
		return
	}
	m.sort = next
	m.bump()
}

// View returns the derived rows: filtered, then sorted, in a stable
// order. The returned slice is shared and must not be modified.
func (m *Model) View() []Row {
	if !m.viewValid {
		m.derive()
	}
	return m.view
}

// ViewIdentities returns the identities of the derived rows in view
// order. The returned slice is shared and must not be modified.
func (m *Model) ViewIdentities() []int {
	if !m.viewValid {
		m.derive()
	}
	return m.viewIDs
}

// Generation increments on every state change that affects the view:
// new snapshot, filter change, sort change. Observers that cache
// scroll position reset it when the generation moves.
func (m *Model) Generation() uint64 {
	return m.generation
}

// Columns returns the snapshot's column names, nil when no result is
// displayed.
func (m *Model) Columns() []string {
	if m.snap == nil {
		return nil
	}
	return m.snap.Columns
}

// Snapshot returns the snapshot currently displayed, nil when no
// result has been produced yet.
func (m *Model) Snapshot() *core.ResultSnapshot {
	return m.snap
}

// TotalRows returns the number of rows in the source snapshot, before
// any filtering.
func (m *Model) TotalRows() int {
	return len(m.rows)
}

// Filter returns the per-column filter text for column, empty when
// none is set.
func (m *Model) Filter(column string) string {
	return m.filters[column]
}

// FilterCount returns the number of columns with an active filter.
func (m *Model) FilterCount() int {
	return len(m.filters)
}

// GlobalFilter returns the active global filter text.
func (m *Model) GlobalFilter() string {
	return m.global
}

// SortState returns the active sort.
func (m *Model) SortState() Sort {
	return m.sort
}

func (m *Model) bump() {
	m.generation++
	m.viewValid = false
	m.view = nil
	m.viewIDs = nil
}

// columnFilter is a per-column filter resolved against the snapshot's
// columns. A filter naming a column the snapshot does not have gets
// cell index -1 and excludes every row, the same way a null cell
// fails to match.
type columnFilter struct {
	cell int
	text string
}

func (m *Model) derive() {
	colFilters := make([]columnFilter, 0, len(m.filters))
	for column, text := range m.filters {
		cell, ok := m.colIndex[column]
		if !ok {
			cell = -1
		}
		colFilters = append(colFilters, columnFilter{cell: cell, text: strings.ToLower(text)})
	}
	global := strings.ToLower(m.global)

	view := make([]Row, 0, len(m.rows))
	for _, row := range m.rows {
		if matchesColumnFilters(row, colFilters) && matchesGlobal(row, global) {
			view = append(view, row)
		}
	}

	if m.sort.Direction != SortNone {
		if cell, ok := m.colIndex[m.sort.Column]; ok {
			desc := m.sort.Direction == SortDesc
			sort.SliceStable(view, func(i, j int) bool {
				c := view[i].Cells[cell].Compare(view[j].Cells[cell])
				if desc {
					return c > 0
				}
				return c < 0
			})
		}
	}

	ids := make([]int, len(view))
	for i, row := range view {
		ids[i] = row.Identity
	}

	m.view = view
	m.viewIDs = ids
	m.viewValid = true
}

// matchesColumnFilters reports whether row passes every per-column
// filter. A null cell never matches: filtering on a column hides the
// rows where that column has no value.
func matchesColumnFilters(row Row, filters []columnFilter) bool {
	for _, f := range filters {
		if f.cell < 0 || f.cell >= len(row.Cells) {
			return false
		}
		cell := row.Cells[f.cell]
		if cell.IsNull() {
			return false
		}
		if !strings.Contains(strings.ToLower(cell.Text()), f.text) {
			return false
		}
	}
	return true
}

// matchesGlobal reports whether any cell of row matches the global
// filter text. An empty filter matches everything.
func matchesGlobal(row Row, text string) bool {
	if text == "" {
		return true
	}
	for _, cell := range row.Cells {
		if cell.IsNull() {
			continue
		}
		if strings.Contains(strings.ToLower(cell.Text()), text) {
			return true
		}
	}
	return false
}
