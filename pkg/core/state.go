package core

import "time"

// Store defines the interface for state management operations.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// History operations
	AddHistory(entry *HistoryEntry) error
	ListHistory(limit int) ([]*HistoryEntry, error)
	ClearHistory() error

	// Saved query operations
	SaveQuery(q *SavedQuery) error
	GetSavedQuery(id string) (*SavedQuery, error)
	GetSavedQueryByName(name string) (*SavedQuery, error)
	ListSavedQueries() ([]*SavedQuery, error)
	UpdateSavedQuery(q *SavedQuery) error
	DeleteSavedQuery(id string) error
	TogglePin(id string) (bool, error)
}

// HistoryEntry records one statement execution.
type HistoryEntry struct {
	ID          int64
	Query       string
	Connection  string
	ExecutionMS int64
	RowCount    int
	ExecutedAt  time.Time
}

// SavedQuery is a named query kept in the state database.
type SavedQuery struct {
	ID          string
	Name        string
	Query       string
	Description string
	Pinned      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
