// Package engine executes SQL against a connected database and records
// each execution in the state store. The database connection is lazy:
// nothing is dialed until the first statement or an explicit test.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/querypad/querypad/internal/state"
	"github.com/querypad/querypad/pkg/adapter"
	"github.com/querypad/querypad/pkg/core"
)

// Engine runs statements for one connection.
type Engine struct {
	// Database adapter (lazy initialized)
	db          adapter.Adapter
	dbConfig    adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	// Structured logger
	logger *slog.Logger

	store   core.Store
	timeout time.Duration
}

// Config holds engine configuration.
type Config struct {
	// Connection is the database to run against.
	Connection core.ConnectionConfig
	// StatePath is the path to the SQLite state database. Empty disables
	// history recording.
	StatePath string
	// QueryTimeout bounds each statement. Zero means no limit.
	QueryTimeout time.Duration
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine with lazy database connection.
// The database adapter is only connected when a statement runs.
func New(cfg Config) (*Engine, error) {
	// Initialize logger (use discard handler if nil)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "connection", cfg.Connection.Name, "type", cfg.Connection.Type)

	var store core.Store
	if cfg.StatePath != "" {
		s := state.NewSQLiteStore()
		if err := s.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := s.InitSchema(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to initialize state schema: %w", err)
		}
		store = s
	}

	return &Engine{
		db:          nil, // Lazy
		dbConfig:    cfg.Connection,
		dbConnected: false,
		logger:      logger,
		store:       store,
		timeout:     cfg.QueryTimeout,
	}, nil
}

// ensureConnected lazily connects to the database.
func (e *Engine) ensureConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	e.logger.Debug("connecting to database", "adapter_type", e.dbConfig.Type)

	// Use adapter registry to create the appropriate adapter
	db, err := adapter.NewAdapter(e.dbConfig, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create database adapter: %w", err)
	}

	if err := db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	e.db = db
	e.dbConnected = true

	e.logger.Debug("database connected", "dialect", db.Dialect())

	return nil
}

// Connection returns the connection config the engine runs against.
func (e *Engine) Connection() core.ConnectionConfig {
	return e.dbConfig
}

// Store returns the state store, or nil when history is disabled.
func (e *Engine) Store() core.Store {
	return e.store
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	var errs []error
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing engine: %v", errs)
	}
	return nil
}
