package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/querypad/querypad/internal/config"
	"github.com/querypad/querypad/internal/state"
	"github.com/querypad/querypad/pkg/core"
)

// openStateStore opens the state database directly, without dialing a
// connection. Commands that only touch local state use this.
func openStateStore(cfg *config.Config) (*state.SQLiteStore, error) {
	if cfg.StatePath == "" {
		return nil, fmt.Errorf("no state database configured")
	}

	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show query execution history",
		Long: `Show the query execution history, newest first.

Every statement executed through querypad is recorded with its
connection, duration and row count.`,
		Example: `  # Most recent queries
  querypad history

  # Last five, as JSON
  querypad history -n 5 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum entries to show (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryClear(cmd)
		},
	})

	return cmd
}

func runHistoryList(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	store, err := openStateStore(cmdCtx.Cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	limit := opts.Limit
	if limit <= 0 {
		limit = cmdCtx.Cfg.HistoryLimit
	}

	entries, err := store.ListHistory(limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		r.Println("No history yet.")
		return nil
	}

	snap := &core.ResultSnapshot{Columns: []string{"id", "executed_at", "connection", "ms", "rows", "query"}}
	for _, e := range entries {
		snap.Rows = append(snap.Rows, []core.Value{
			core.NewInt(e.ID),
			core.NewString(e.ExecutedAt.Local().Format(time.DateTime)),
			core.NewString(e.Connection),
			core.NewInt(e.ExecutionMS),
			core.NewInt(int64(e.RowCount)),
			core.NewString(collapseQuery(e.Query)),
		})
	}
	snap.RowCount = len(snap.Rows)
	return r.Render(snap)
}

func runHistoryClear(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	store, err := openStateStore(cmdCtx.Cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.ClearHistory(); err != nil {
		return err
	}

	cmdCtx.Renderer.Success("History cleared")
	return nil
}

// collapseQuery flattens a statement to a single display line.
func collapseQuery(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	const maxLen = 80
	if len(flat) > maxLen {
		return flat[:maxLen-3] + "..."
	}
	return flat
}
