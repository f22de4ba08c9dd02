package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/querypad/querypad/pkg/core"
)

// ListTables returns the table names visible to the connection.
func (e *Engine) ListTables(ctx context.Context) ([]string, error) {
	if err := e.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return e.db.ListTables(ctx)
}

// TableMetadata returns the column layout of one table.
func (e *Engine) TableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	if err := e.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return e.db.GetTableMetadata(ctx, table)
}

// SchemaOverview fetches metadata for every visible table, in table
// order, with the per-table lookups running concurrently.
func (e *Engine) SchemaOverview(ctx context.Context) ([]*core.TableMetadata, error) {
	tables, err := e.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	metas := make([]*core.TableMetadata, len(tables))
	eg, egctx := errgroup.WithContext(ctx)
	for i, table := range tables {
		eg.Go(func() error {
			meta, err := e.db.GetTableMetadata(egctx, table)
			if err != nil {
				return fmt.Errorf("failed to describe %s: %w", table, err)
			}
			metas[i] = meta
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return metas, nil
}
