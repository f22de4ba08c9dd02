package core

import "time"

// ResultSnapshot is the immutable result of one query execution: ordered
// column names plus row tuples of Value. A new execution always produces a
// new snapshot; viewers key their derived state on pointer identity, so a
// snapshot must never be mutated after construction.
//
// A nil *ResultSnapshot means "no result yet", which is distinct from a
// snapshot with zero rows.
type ResultSnapshot struct {
	Columns []string
	Rows    [][]Value

	// RowCount is len(Rows) for queries that return rows, and the number
	// of rows affected for statements that return none (Columns empty).
	RowCount int

	// Duration is how long the execution took.
	Duration time.Duration
}

// Empty reports whether the snapshot carries no rows.
func (s *ResultSnapshot) Empty() bool {
	return s == nil || len(s.Rows) == 0
}
