package state

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection: sqlite has one writer, and a second pooled
	// connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema initializes the database schema.
func (s *SQLiteStore) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	_, err := s.db.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// --- History operations ---

// AddHistory records one executed statement. The entry's ID and, when
// zero, ExecutedAt are filled in.
func (s *SQLiteStore) AddHistory(entry *HistoryEntry) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now().UTC()
	}

	result, err := s.db.Exec(
		`INSERT INTO query_history (query, connection_name, execution_time_ms, row_count, executed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.Query, entry.Connection, entry.ExecutionMS, entry.RowCount, entry.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// ListHistory returns history entries, newest first. A non-positive
// limit returns everything.
func (s *SQLiteStore) ListHistory(limit int) ([]*HistoryEntry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	if limit <= 0 {
		limit = -1 // sqlite treats a negative LIMIT as unlimited
	}

	rows, err := s.db.Query(
		`SELECT id, query, connection_name, execution_time_ms, row_count, executed_at
		 FROM query_history ORDER BY executed_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		entry := &HistoryEntry{}
		err := rows.Scan(&entry.ID, &entry.Query, &entry.Connection, &entry.ExecutionMS, &entry.RowCount, &entry.ExecutedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// ClearHistory removes every history entry.
func (s *SQLiteStore) ClearHistory() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if _, err := s.db.Exec(`DELETE FROM query_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// --- Saved query operations ---

// SaveQuery inserts a saved query. A blank ID gets a fresh UUID and
// the timestamps are filled in. The name must be unique.
func (s *SQLiteStore) SaveQuery(q *SavedQuery) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if q.ID == "" {
		q.ID = generateID()
	}
	now := time.Now().UTC()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT INTO saved_queries (id, name, query, description, pinned, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Name, q.Query, q.Description, q.Pinned, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save query: %w", err)
	}
	return nil
}

// GetSavedQuery retrieves a saved query by ID.
func (s *SQLiteStore) GetSavedQuery(id string) (*SavedQuery, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	q := &SavedQuery{}
	err := s.db.QueryRow(
		`SELECT id, name, query, description, pinned, created_at, updated_at
		 FROM saved_queries WHERE id = ?`,
		id,
	).Scan(&q.ID, &q.Name, &q.Query, &q.Description, &q.Pinned, &q.CreatedAt, &q.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("saved query not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved query: %w", err)
	}

	return q, nil
}

// GetSavedQueryByName retrieves a saved query by its unique name.
func (s *SQLiteStore) GetSavedQueryByName(name string) (*SavedQuery, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	q := &SavedQuery{}
	err := s.db.QueryRow(
		`SELECT id, name, query, description, pinned, created_at, updated_at
		 FROM saved_queries WHERE name = ?`,
		name,
	).Scan(&q.ID, &q.Name, &q.Query, &q.Description, &q.Pinned, &q.CreatedAt, &q.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("saved query not found: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved query: %w", err)
	}

	return q, nil
}

// ListSavedQueries returns all saved queries, pinned ones first, then
// by name.
func (s *SQLiteStore) ListSavedQueries() ([]*SavedQuery, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, name, query, description, pinned, created_at, updated_at
		 FROM saved_queries ORDER BY pinned DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved queries: %w", err)
	}
	defer rows.Close()

	var queries []*SavedQuery
	for rows.Next() {
		q := &SavedQuery{}
		err := rows.Scan(&q.ID, &q.Name, &q.Query, &q.Description, &q.Pinned, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved query: %w", err)
		}
		queries = append(queries, q)
	}

	return queries, rows.Err()
}

// UpdateSavedQuery updates a saved query's name, text, description and
// pin state by ID.
func (s *SQLiteStore) UpdateSavedQuery(q *SavedQuery) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	q.UpdatedAt = time.Now().UTC()

	result, err := s.db.Exec(
		`UPDATE saved_queries SET name = ?, query = ?, description = ?, pinned = ?, updated_at = ? WHERE id = ?`,
		q.Name, q.Query, q.Description, q.Pinned, q.UpdatedAt, q.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update saved query: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("saved query not found: %s", q.ID)
	}

	return nil
}

// DeleteSavedQuery removes a saved query by ID.
func (s *SQLiteStore) DeleteSavedQuery(id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`DELETE FROM saved_queries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved query: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("saved query not found: %s", id)
	}

	return nil
}

// TogglePin flips a saved query's pin state and returns the new state.
func (s *SQLiteStore) TogglePin(id string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(
		`UPDATE saved_queries SET pinned = NOT pinned, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle pin: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return false, fmt.Errorf("saved query not found: %s", id)
	}

	var pinned bool
	if err := s.db.QueryRow(`SELECT pinned FROM saved_queries WHERE id = ?`, id).Scan(&pinned); err != nil {
		return false, fmt.Errorf("failed to read pin state: %w", err)
	}

	return pinned, nil
}
