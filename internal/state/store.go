// Package state persists querypad's local state in SQLite: the query
// execution history and the saved query library.
//
// Note: Core types are defined in pkg/core. This package re-exports
// them via type aliases so callers can use state.Store without a
// second import. New code should import pkg/core directly.
package state

import (
	"github.com/querypad/querypad/pkg/core"
)

type (
	// Store is an alias for core.Store.
	Store = core.Store

	// HistoryEntry is an alias for core.HistoryEntry.
	HistoryEntry = core.HistoryEntry

	// SavedQuery is an alias for core.SavedQuery.
	SavedQuery = core.SavedQuery
)
