package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/querypad/querypad/pkg/core"
)

// queryResultMsg carries the outcome of an execution back into the
// update loop. Exactly one of snap and err is set.
type queryResultMsg struct {
	snap *core.ResultSnapshot
	err  error
}

// noticeExpiredMsg clears a transient notice. The id guards against a
// stale tick wiping a newer notice.
type noticeExpiredMsg struct {
	id int
}

// runQueryCmd executes sql off the update loop and reports back.
func runQueryCmd(ctx context.Context, runner QueryRunner, sql string) tea.Cmd {
	return func() tea.Msg {
		snap, err := runner.Execute(ctx, sql)
		return queryResultMsg{snap: snap, err: err}
	}
}
