package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querypad/querypad/internal/state"
	"github.com/querypad/querypad/pkg/core"
)

// useTempState points the commands at a fresh state database and
// returns its path.
func useTempState(t *testing.T) string {
	t.Helper()
	statePath := filepath.Join(t.TempDir(), "state.db")
	t.Setenv("QUERYPAD_STATE_PATH", statePath)
	return statePath
}

func TestCollapseQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"flattens whitespace", "SELECT *\n  FROM users\n  WHERE id = 1", "SELECT * FROM users WHERE id = 1"},
		{"passes short through", "SELECT 1", "SELECT 1"},
		{"truncates long statements", "SELECT " + strings.Repeat("x", 100), "SELECT " + strings.Repeat("x", 70) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collapseQuery(tt.query)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 80)
		})
	}
}

func TestHistoryCommand(t *testing.T) {
	statePath := useTempState(t)

	// Seed one execution the way the engine records them.
	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(statePath))
	require.NoError(t, store.InitSchema())
	require.NoError(t, store.AddHistory(&core.HistoryEntry{
		Query:       "SELECT * FROM users",
		Connection:  "staging",
		ExecutionMS: 12,
		RowCount:    3,
	}))
	require.NoError(t, store.Close())

	cmd := NewHistoryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "SELECT * FROM users")
	assert.Contains(t, buf.String(), "staging")
}

func TestHistoryCommand_Empty(t *testing.T) {
	useTempState(t)

	cmd := NewHistoryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No history yet.")
}

func TestHistoryClear(t *testing.T) {
	statePath := useTempState(t)

	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(statePath))
	require.NoError(t, store.InitSchema())
	require.NoError(t, store.AddHistory(&core.HistoryEntry{Query: "SELECT 1", Connection: "local"}))
	require.NoError(t, store.Close())

	cmd := NewHistoryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"clear"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "History cleared")

	cmd = NewHistoryCommand()
	buf.Reset()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No history yet.")
}
