package grid

import (
	"github.com/querypad/querypad/pkg/core"
)

// Row is a single result row with a stable identity. Identity is the
// row's index in the source snapshot and never changes while that
// snapshot is displayed, no matter how the view is filtered or
// sorted.
type Row struct {
	Identity int
	Cells    []core.Value
}

// AdaptRows converts a snapshot into ordered rows keyed by source
// index. A nil snapshot means no result has been produced yet and
// yields an empty, non-nil slice, same as a snapshot with zero rows.
func AdaptRows(snap *core.ResultSnapshot) []Row {
	if snap == nil {
		return []Row{}
	}
	rows := make([]Row, len(snap.Rows))
	for i, cells := range snap.Rows {
		rows[i] = Row{Identity: i, Cells: cells}
	}
	return rows
}
