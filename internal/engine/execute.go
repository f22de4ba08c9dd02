package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/querypad/querypad/pkg/adapter"
	"github.com/querypad/querypad/pkg/core"
)

// Execute runs one statement and captures the result. Statements that
// return rows produce a snapshot with columns; everything else produces
// a snapshot with empty columns and RowCount set to the rows affected.
// Each successful execution is recorded in the history.
func (e *Engine) Execute(ctx context.Context, query string) (*core.ResultSnapshot, error) {
	if err := e.ensureConnected(ctx); err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()

	var snap *core.ResultSnapshot
	if ReturnsRows(query) {
		rows, err := e.db.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}
		snap, err = adapter.Snapshot(rows)
		if err != nil {
			return nil, err
		}
	} else {
		affected, err := e.db.Exec(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("statement failed: %w", err)
		}
		snap = &core.ResultSnapshot{Columns: nil, Rows: nil, RowCount: int(affected)}
	}

	snap.Duration = time.Since(start)

	e.logger.Debug("executed statement",
		"connection", e.dbConfig.Name,
		"rows", snap.RowCount,
		"duration_ms", snap.Duration.Milliseconds())

	e.recordHistory(query, snap)

	return snap, nil
}

// recordHistory appends the execution to the state store. Failures are
// logged, never surfaced: a full history is not worth failing a query.
func (e *Engine) recordHistory(query string, snap *core.ResultSnapshot) {
	if e.store == nil {
		return
	}

	entry := &core.HistoryEntry{
		Query:       query,
		Connection:  e.dbConfig.Name,
		ExecutionMS: snap.Duration.Milliseconds(),
		RowCount:    snap.RowCount,
	}
	if err := e.store.AddHistory(entry); err != nil {
		e.logger.Warn("failed to record history", "error", err)
	}
}

// TestConnection connects and reports where it landed.
func (e *Engine) TestConnection(ctx context.Context) (string, error) {
	if err := e.ensureConnected(ctx); err != nil {
		return "", err
	}

	cfg := e.dbConfig
	switch {
	case cfg.Host != "":
		return fmt.Sprintf("connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.Database), nil
	case cfg.Path != "":
		return fmt.Sprintf("connected to %s", cfg.Path), nil
	default:
		return fmt.Sprintf("connected to %s", cfg.Type), nil
	}
}
