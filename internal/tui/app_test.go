package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querypad/querypad/internal/grid"
	"github.com/querypad/querypad/pkg/core"
)

type download struct {
	data     []byte
	filename string
	mimeType string
}

type fakeOutput struct {
	downloads    []download
	clipboard    []string
	downloadErr  error
	clipboardErr error
}

func (f *fakeOutput) Download(data []byte, filename, mimeType string) error {
	if f.downloadErr != nil {
		return f.downloadErr
	}
	f.downloads = append(f.downloads, download{data: data, filename: filename, mimeType: mimeType})
	return nil
}

func (f *fakeOutput) WriteClipboard(text string) error {
	if f.clipboardErr != nil {
		return f.clipboardErr
	}
	f.clipboard = append(f.clipboard, text)
	return nil
}

type stubRunner struct {
	snap    *core.ResultSnapshot
	err     error
	queries []string
}

func (s *stubRunner) Execute(_ context.Context, query string) (*core.ResultSnapshot, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

// testSnapshot builds an id/name/score result with the given row count.
func testSnapshot(rows int) *core.ResultSnapshot {
	names := []string{"ada", "linus", "grace", "alan", "edsger"}
	snap := &core.ResultSnapshot{
		Columns:  []string{"id", "name", "score"},
		RowCount: rows,
		Duration: 12 * time.Millisecond,
	}
	for i := 0; i < rows; i++ {
		snap.Rows = append(snap.Rows, []core.Value{
			core.NewInt(int64(i + 1)),
			core.NewString(names[i%len(names)]),
			core.NewInt(int64(90 - i)),
		})
	}
	return snap
}

// newTestApp builds an app sized to an 80x20 terminal, which leaves
// room for eight grid rows.
func newTestApp(t *testing.T, rows int) (App, *stubRunner, *fakeOutput) {
	t.Helper()
	runner := &stubRunner{snap: testSnapshot(rows)}
	out := &fakeOutput{}
	app := newApp(context.Background(), Config{
		Runner:         runner,
		Output:         out,
		ConnectionName: "staging",
	})
	app = drive(app, tea.WindowSizeMsg{Width: 80, Height: 20})
	return app, runner, out
}

// loadedApp is a test app that already shows a result, with the
// arrival notice expired so the notice line is free.
func loadedApp(t *testing.T, rows int) (App, *fakeOutput) {
	t.Helper()
	app, runner, out := newTestApp(t, rows)
	return loadSnapshot(app, runner.snap), out
}

func loadSnapshot(app App, snap *core.ResultSnapshot) App {
	app = drive(app, queryResultMsg{snap: snap})
	return drive(app, noticeExpiredMsg{id: app.noticeID})
}

func drive(app App, msgs ...tea.Msg) App {
	for _, msg := range msgs {
		m, _ := app.Update(msg)
		app = m.(App)
	}
	return app
}

func press(app App, keys ...string) (App, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = app.Update(keyMsg(k))
		app = m.(App)
	}
	return app, cmd
}

func typeRunes(app App, text string) App {
	for _, r := range text {
		app = drive(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return app
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Defaults(t *testing.T) {
	app, _, _ := newTestApp(t, 0)

	assert.Equal(t, focusEditor, app.focus)
	assert.True(t, app.editor.Focused())
	assert.False(t, app.running)
	assert.Nil(t, app.model.Snapshot())
}

func TestNewApp_RunOnStart(t *testing.T) {
	runner := &stubRunner{snap: testSnapshot(1)}
	app := newApp(context.Background(), Config{
		Runner:       runner,
		Output:       &fakeOutput{},
		InitialQuery: "select * from people",
		RunOnStart:   true,
	})

	assert.Equal(t, "select * from people", app.editor.Value())
	assert.True(t, app.running)
	assert.NotNil(t, app.Init())
}

func TestRunQueryCmd(t *testing.T) {
	t.Run("delivers the snapshot", func(t *testing.T) {
		runner := &stubRunner{snap: testSnapshot(2)}

		msg := runQueryCmd(context.Background(), runner, "select 1")()

		result, ok := msg.(queryResultMsg)
		require.True(t, ok)
		assert.Same(t, runner.snap, result.snap)
		assert.NoError(t, result.err)
		assert.Equal(t, []string{"select 1"}, runner.queries)
	})

	t.Run("delivers the error", func(t *testing.T) {
		runner := &stubRunner{err: errors.New("syntax error")}

		msg := runQueryCmd(context.Background(), runner, "select")()

		result, ok := msg.(queryResultMsg)
		require.True(t, ok)
		assert.Nil(t, result.snap)
		assert.EqualError(t, result.err, "syntax error")
	})
}

func TestStartRun(t *testing.T) {
	t.Run("empty editor refuses", func(t *testing.T) {
		app, runner, _ := newTestApp(t, 1)

		app, _ = press(app, "ctrl+r")

		assert.False(t, app.running)
		assert.Equal(t, "nothing to run", app.notice)
		assert.True(t, app.noticeErr)
		assert.Empty(t, runner.queries)
	})

	t.Run("statement starts a run", func(t *testing.T) {
		app, _, _ := newTestApp(t, 1)
		app.editor.SetValue("select * from people")

		app, cmd := press(app, "ctrl+r")

		assert.True(t, app.running)
		assert.NotNil(t, cmd)
	})

	t.Run("a run in flight wins", func(t *testing.T) {
		app, _, _ := newTestApp(t, 1)
		app.editor.SetValue("select 1")
		app, _ = press(app, "ctrl+r")

		_, cmd := press(app, "ctrl+r")

		assert.Nil(t, cmd)
	})
}

func TestFinishRun_DisplaysResult(t *testing.T) {
	app, runner, _ := newTestApp(t, 3)

	app = drive(app, queryResultMsg{snap: runner.snap})

	assert.False(t, app.running)
	assert.Equal(t, focusResults, app.focus)
	assert.False(t, app.editor.Focused())
	assert.Equal(t, 3, app.model.TotalRows())
	assert.Equal(t, "3 rows in 12ms", app.notice)
	assert.False(t, app.noticeErr)
	assert.Contains(t, app.renderTopBar(), "querypad · staging")
	assert.Contains(t, app.renderTopBar(), "3 rows in 12ms")
}

func TestFinishRun_ErrorKeepsResult(t *testing.T) {
	app, _ := loadedApp(t, 3)

	app = drive(app, queryResultMsg{err: errors.New("relation missing")})

	assert.False(t, app.running)
	assert.Equal(t, "query failed: relation missing", app.notice)
	assert.True(t, app.noticeErr)
	assert.Equal(t, 3, app.model.TotalRows(), "previous result stays up")
	assert.Contains(t, app.renderTopBar(), "✗ relation missing")
}

func TestFinishRun_NoResultSet(t *testing.T) {
	app, _, _ := newTestApp(t, 0)

	app = drive(app, queryResultMsg{snap: &core.ResultSnapshot{RowCount: 3}})

	assert.Equal(t, "OK, 3 rows affected", app.notice)
	assert.Contains(t, app.renderResults(), "statement OK, no result set")
}

func TestFinishRun_ResetsViewerState(t *testing.T) {
	app, _ := loadedApp(t, 5)

	// Shape the current result every way the viewer allows.
	app, _ = press(app, "j", "space", "s", "v", "/")
	app = typeRunes(app, "a")
	app, _ = press(app, "enter")
	require.Equal(t, 1, app.selection.Count())
	require.Equal(t, 1, app.visibility.HiddenCount())
	require.Equal(t, "a", app.model.GlobalFilter())

	app = loadSnapshot(app, testSnapshot(2))

	assert.Equal(t, 2, app.model.TotalRows())
	assert.Equal(t, 0, app.selection.Count())
	assert.Equal(t, 0, app.visibility.HiddenCount())
	assert.Equal(t, "", app.model.GlobalFilter())
	assert.Equal(t, 0, app.model.FilterCount())
	assert.Equal(t, grid.SortNone, app.model.SortState().Direction)
	assert.Zero(t, app.cursor)
	assert.Zero(t, app.scroll)
	assert.Zero(t, app.colCursor)
	assert.Zero(t, app.colOffset)
}

func TestNavigation(t *testing.T) {
	app, _ := loadedApp(t, 40)
	require.Contains(t, app.renderStatusBar(), "[1-8 of 40]")

	app, _ = press(app, "j", "j")
	assert.Equal(t, 2, app.cursor)
	assert.Equal(t, 0, app.scroll)

	app, _ = press(app, "pgdown")
	assert.Equal(t, 10, app.cursor)
	assert.Contains(t, app.renderStatusBar(), "[4-11 of 40]")

	app, _ = press(app, "G")
	assert.Equal(t, 39, app.cursor)
	assert.Contains(t, app.renderStatusBar(), "[33-40 of 40]")

	app, _ = press(app, "j")
	assert.Equal(t, 39, app.cursor, "end of view clamps")

	app, _ = press(app, "g")
	assert.Equal(t, 0, app.cursor)
	assert.Contains(t, app.renderStatusBar(), "[1-8 of 40]")

	app, _ = press(app, "k", "pgup")
	assert.Equal(t, 0, app.cursor, "start of view clamps")
}

func TestColumnNavigation(t *testing.T) {
	app, _ := loadedApp(t, 3)

	app, _ = press(app, "l", "l", "l")
	assert.Equal(t, 2, app.colCursor, "right edge clamps")

	app, _ = press(app, "h", "h", "h")
	assert.Equal(t, 0, app.colCursor, "left edge clamps")
}

func TestSelection(t *testing.T) {
	app, _ := loadedApp(t, 3)

	app, _ = press(app, "space")
	assert.Equal(t, 1, app.selection.Count())
	assert.True(t, app.selection.IsSelected(0))
	assert.Contains(t, app.renderNoticeBar(), "a select all")

	app, _ = press(app, "space")
	assert.Equal(t, 0, app.selection.Count(), "space toggles off")

	app, _ = press(app, "a")
	assert.Equal(t, 3, app.selection.Count())
	assert.Contains(t, app.renderStatusBar(), "3 selected")
	assert.NotContains(t, app.renderNoticeBar(), "a select all", "everything is already selected")

	app, _ = press(app, "esc")
	assert.Equal(t, 0, app.selection.Count())
	assert.Equal(t, "", app.renderNoticeBar())
}

func TestCopySelection(t *testing.T) {
	t.Run("csv keeps view order", func(t *testing.T) {
		app, out := loadedApp(t, 3)

		app, _ = press(app, "space", "j", "space", "y")

		require.Len(t, out.clipboard, 1)
		assert.Equal(t, "id,name,score\n1,ada,90\n2,linus,89", out.clipboard[0])
		assert.Equal(t, "copied 2 rows as CSV", app.notice)
	})

	t.Run("json", func(t *testing.T) {
		app, out := loadedApp(t, 3)

		app, _ = press(app, "space", "Y")

		require.Len(t, out.clipboard, 1)
		assert.Contains(t, out.clipboard[0], "\"name\": \"ada\"")
		assert.Equal(t, "copied 1 row as JSON", app.notice)
	})

	t.Run("nothing selected writes nothing", func(t *testing.T) {
		app, out := loadedApp(t, 3)

		app, _ = press(app, "y")

		assert.Empty(t, out.clipboard)
		assert.Equal(t, "no rows selected", app.notice)
		assert.True(t, app.noticeErr)
	})

	t.Run("clipboard failure is reported, not fatal", func(t *testing.T) {
		app, out := loadedApp(t, 3)
		out.clipboardErr = errors.New("no display")

		app, _ = press(app, "space", "y")

		assert.Contains(t, app.notice, "no display")
		assert.True(t, app.noticeErr)

		app, _ = press(app, "j")
		assert.Equal(t, 1, app.cursor, "viewer keeps working")
	})

	t.Run("no result to copy", func(t *testing.T) {
		app, _, out := newTestApp(t, 0)
		app = loadSnapshot(app, &core.ResultSnapshot{RowCount: 1})

		app, _ = press(app, "y")

		assert.Empty(t, out.clipboard)
		assert.Equal(t, "no result to copy", app.notice)
	})
}

func TestExportView(t *testing.T) {
	t.Run("csv ignores selection", func(t *testing.T) {
		app, out := loadedApp(t, 3)

		app, _ = press(app, "space", "e")

		require.Len(t, out.downloads, 1)
		got := out.downloads[0]
		assert.Equal(t, "text/csv", got.mimeType)
		assert.True(t, strings.HasPrefix(got.filename, "query_results_"))
		assert.True(t, strings.HasSuffix(got.filename, ".csv"))
		assert.Len(t, strings.Split(string(got.data), "\n"), 4, "header plus all three rows")
		assert.Contains(t, app.notice, "exported query_results_")
	})

	t.Run("filtered view exports the view", func(t *testing.T) {
		app, out := loadedApp(t, 3)
		app, _ = press(app, "/")
		app = typeRunes(app, "ada")
		app, _ = press(app, "enter", "e")

		require.Len(t, out.downloads, 1)
		assert.Equal(t, "id,name,score\n1,ada,90", string(out.downloads[0].data))
	})

	t.Run("json and xlsx", func(t *testing.T) {
		app, out := loadedApp(t, 3)

		app, _ = press(app, "E", "x")

		require.Len(t, out.downloads, 2)
		assert.Equal(t, "application/json", out.downloads[0].mimeType)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out.downloads[1].mimeType)
	})

	t.Run("no result to export", func(t *testing.T) {
		app, _, out := newTestApp(t, 0)
		app = loadSnapshot(app, &core.ResultSnapshot{RowCount: 1})

		app, _ = press(app, "e")

		assert.Empty(t, out.downloads)
		assert.Equal(t, "no result to export", app.notice)
	})
}

func TestSortCycle(t *testing.T) {
	app, _ := loadedApp(t, 3)

	app, _ = press(app, "s")
	assert.Equal(t, grid.Sort{Column: "id", Direction: grid.SortAsc}, app.model.SortState())
	assert.Contains(t, app.renderStatusBar(), "sort id asc")

	app, _ = press(app, "s")
	assert.Equal(t, grid.Sort{Column: "id", Direction: grid.SortDesc}, app.model.SortState())

	app, _ = press(app, "s")
	assert.Equal(t, grid.SortNone, app.model.SortState().Direction)

	// Sorting another column starts over at ascending.
	app, _ = press(app, "s", "l", "s")
	assert.Equal(t, grid.Sort{Column: "name", Direction: grid.SortAsc}, app.model.SortState())
}

func TestGlobalFilter(t *testing.T) {
	app, _ := loadedApp(t, 40)
	app, _ = press(app, "G")
	require.Equal(t, 39, app.cursor)

	app, _ = press(app, "/")
	assert.Equal(t, promptGlobal, app.prompt)
	assert.Contains(t, app.renderStatusBar(), "filter all:")

	// The filter applies per keystroke, and the reshaped view snaps
	// the viewport back to the top.
	app = typeRunes(app, "1")
	assert.Equal(t, "1", app.model.GlobalFilter())
	assert.Less(t, len(app.model.View()), 40)
	assert.Zero(t, app.cursor)
	assert.Zero(t, app.scroll)

	app, _ = press(app, "enter")
	assert.Equal(t, promptNone, app.prompt)
	assert.Equal(t, "1", app.model.GlobalFilter())
	assert.Contains(t, app.renderStatusBar(), "/1")
	assert.Contains(t, app.renderStatusBar(), "rows match")

	// Cancelling a prompt restores the committed text.
	app, _ = press(app, "/")
	app = typeRunes(app, "z")
	assert.Empty(t, app.model.View())
	assert.Contains(t, app.renderResults(), "no rows match the active filters")

	app, _ = press(app, "esc")
	assert.Equal(t, promptNone, app.prompt)
	assert.Equal(t, "1", app.model.GlobalFilter())
}

func TestColumnFilter(t *testing.T) {
	app, _ := loadedApp(t, 3)

	app, _ = press(app, "l", "f")
	assert.Equal(t, promptColumn, app.prompt)
	assert.Equal(t, "name", app.promptCol)
	assert.Contains(t, app.renderStatusBar(), "filter name:")

	app = typeRunes(app, "li")
	app, _ = press(app, "enter")

	assert.Equal(t, "li", app.model.Filter("name"))
	assert.Equal(t, 1, app.model.FilterCount())
	require.Len(t, app.model.View(), 1)
	assert.Equal(t, "linus", app.model.View()[0].Cells[1].Text())
	assert.Contains(t, app.renderStatusBar(), "1 of 3 rows match")
	assert.Contains(t, app.renderStatusBar(), "1 column filter")
}

func TestHideColumns(t *testing.T) {
	app, _ := loadedApp(t, 3)

	app, _ = press(app, "v")
	assert.Equal(t, []string{"name", "score"}, app.visibleColumns())
	assert.Equal(t, "hid id, V restores", app.notice)

	app, _ = press(app, "v")
	assert.Equal(t, []string{"score"}, app.visibleColumns())

	app, _ = press(app, "v")
	assert.Equal(t, "cannot hide the last column", app.notice)
	assert.Equal(t, 2, app.visibility.HiddenCount())

	app, _ = press(app, "V")
	assert.Equal(t, 0, app.visibility.HiddenCount())
	assert.Equal(t, []string{"id", "name", "score"}, app.visibleColumns())
}

func TestFocusSwitch(t *testing.T) {
	t.Run("q types in the editor and quits in results", func(t *testing.T) {
		app, _, _ := newTestApp(t, 0)

		app, _ = press(app, "q")
		assert.Equal(t, "q", app.editor.Value())

		app, _ = press(app, "tab")
		assert.Equal(t, focusResults, app.focus)
		assert.False(t, app.editor.Focused())

		_, cmd := press(app, "q")
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	})

	t.Run("escape leaves the editor once a result is up", func(t *testing.T) {
		app, _ := loadedApp(t, 3)
		app, _ = press(app, "tab")
		require.Equal(t, focusEditor, app.focus)

		app, _ = press(app, "esc")

		assert.Equal(t, focusResults, app.focus)
		assert.False(t, app.editor.Focused())
	})

	t.Run("escape stays in the editor without a result", func(t *testing.T) {
		app, _, _ := newTestApp(t, 0)

		app, _ = press(app, "esc")

		assert.Equal(t, focusEditor, app.focus)
		assert.True(t, app.editor.Focused())
	})
}

func TestHelpOverlay(t *testing.T) {
	app, _ := loadedApp(t, 3)
	app, _ = press(app, "j")

	app, _ = press(app, "?")
	assert.True(t, app.showHelp)
	view := app.View()
	assert.Contains(t, view, "Navigate")
	assert.Contains(t, view, "Run & export")

	app, _ = press(app, "j")
	assert.Equal(t, 1, app.cursor, "grid keys are inert under the overlay")

	app, cmd := press(app, "q")
	assert.False(t, app.showHelp, "q closes the overlay instead of quitting")
	assert.Nil(t, cmd)
}

func TestForceQuit(t *testing.T) {
	app, _ := loadedApp(t, 3)
	app, _ = press(app, "/")
	require.Equal(t, promptGlobal, app.prompt)

	_, cmd := press(app, "ctrl+c")

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestNoticeLifecycle(t *testing.T) {
	app, _ := loadedApp(t, 3)
	app, _ = press(app, "v")
	stale := app.noticeID

	app, _ = press(app, "v")
	require.Equal(t, "hid name, V restores", app.notice)

	app = drive(app, noticeExpiredMsg{id: stale})
	assert.Equal(t, "hid name, V restores", app.notice, "a stale tick leaves the newer notice up")

	app = drive(app, noticeExpiredMsg{id: app.noticeID})
	assert.Empty(t, app.notice)
}

func TestWindowResize(t *testing.T) {
	app, _ := loadedApp(t, 40)
	app, _ = press(app, "G")
	require.Equal(t, 32, app.scroll)

	app = drive(app, tea.WindowSizeMsg{Width: 80, Height: 14})
	assert.Equal(t, 38, app.scroll, "a shorter terminal keeps the cursor visible")

	app = drive(app, tea.WindowSizeMsg{Width: 80, Height: 5})
	assert.Equal(t, 1, app.gridRowCapacity(), "capacity never drops below one row")
	assert.Equal(t, 39, app.scroll)
}

func TestView_BeforeFirstSize(t *testing.T) {
	app := newApp(context.Background(), Config{Runner: &stubRunner{}, Output: &fakeOutput{}})

	assert.Equal(t, "starting querypad...", app.View())
}

func TestView_HeightMatchesTerminal(t *testing.T) {
	app, _ := loadedApp(t, 40)
	assert.Equal(t, 20, lipgloss.Height(app.View()))

	app, _ = press(app, "?")
	assert.Equal(t, 20, lipgloss.Height(app.View()), "the help overlay keeps the chrome in place")
}

func TestRun_RequiresCollaborators(t *testing.T) {
	err := Run(context.Background(), Config{Output: &fakeOutput{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query runner is required")

	err = Run(context.Background(), Config{Runner: &stubRunner{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output service is required")
}
