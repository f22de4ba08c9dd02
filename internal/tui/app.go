package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/querypad/querypad/internal/grid"
)

// focusArea is the pane keyboard input routes to.
type focusArea int

const (
	focusEditor focusArea = iota
	focusResults
)

// promptKind is the filter prompt open in the status line, if any.
type promptKind int

const (
	promptNone promptKind = iota
	promptGlobal
	promptColumn
)

const (
	// editorLines is the height of the SQL editor in text lines.
	editorLines = 4
	// chromeHeight is every line that is not a grid row: top bar,
	// bordered editor, grid header and rule, status, notice and help
	// lines. Keeping it fixed keeps the grid capacity stable.
	chromeHeight = editorLines + 8
	// noticeTTL is how long a transient notice stays up.
	noticeTTL = 4 * time.Second
)

// App is the viewer's bubbletea model. All state lives here and is
// only touched from the update loop.
type App struct {
	ctx context.Context
	cfg Config

	keys   keyMap
	styles styles

	editor textarea.Model
	filter textinput.Model
	spin   spinner.Model
	help   help.Model

	model      *grid.Model
	selection  *grid.Selection
	visibility *grid.Visibility
	exporter   *grid.Exporter

	focus    focusArea
	prompt   promptKind
	showHelp bool
	running  bool

	// cursor and colCursor address the derived view and the visible
	// columns; scroll and colOffset are the render origins.
	cursor     int
	colCursor  int
	scroll     int
	colOffset  int
	generation uint64

	promptCol  string
	promptPrev string

	width  int
	height int

	notice    string
	noticeErr bool
	noticeID  int
	lastErr   string
}

func newApp(ctx context.Context, cfg Config) App {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	st := newStyles()

	ed := textarea.New()
	ed.Placeholder = "SELECT ..."
	ed.Prompt = ""
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.SetHeight(editorLines)
	if cfg.InitialQuery != "" {
		ed.SetValue(cfg.InitialQuery)
	}
	ed.Focus()

	fi := textinput.New()
	fi.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = st.Spinner

	app := App{
		ctx:        ctx,
		cfg:        cfg,
		keys:       defaultKeyMap(),
		styles:     st,
		editor:     ed,
		filter:     fi,
		spin:       sp,
		help:       help.New(),
		model:      grid.NewModel(),
		selection:  grid.NewSelection(),
		visibility: grid.NewVisibility(),
		exporter:   grid.NewExporter(cfg.Output, logger),
		focus:      focusEditor,
	}
	if cfg.RunOnStart && strings.TrimSpace(cfg.InitialQuery) != "" {
		app.running = true
	}
	return app
}

// Init starts cursor blinking, plus the initial statement when the
// caller asked for one.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if a.running {
		cmds = append(cmds, a.spin.Tick, runQueryCmd(a.ctx, a.cfg.Runner, strings.TrimSpace(a.cfg.InitialQuery)))
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.editor.SetWidth(msg.Width - 2)
		a.help.Width = msg.Width
		w := msg.Width - 4
		if w > 60 {
			w = 60
		}
		if w < 10 {
			w = 10
		}
		a.filter.Width = w
		a.ensureCursorVisible()
		a.ensureColumnVisible()
		return a, nil

	case queryResultMsg:
		return a.finishRun(msg)

	case noticeExpiredMsg:
		if msg.id == a.noticeID {
			a.notice = ""
		}
		return a, nil

	case spinner.TickMsg:
		if !a.running {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Cursor blink and other component housekeeping.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	cmds = append(cmds, cmd)
	a.filter, cmd = a.filter.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	if a.prompt != promptNone {
		return a.handlePromptKey(msg)
	}

	if a.showHelp {
		if key.Matches(msg, a.keys.Help, a.keys.Escape, a.keys.Quit) {
			a.showHelp = false
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Run):
		return a.startRun()
	case key.Matches(msg, a.keys.Focus):
		cmd := a.toggleFocus()
		return a, cmd
	}

	if a.focus == focusEditor {
		if key.Matches(msg, a.keys.Escape) && a.model.Snapshot() != nil {
			a.focus = focusResults
			a.editor.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd
	}

	return a.handleResultsKey(msg)
}

func (a App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.PageDown):
		a.moveCursor(a.gridRowCapacity())
	case key.Matches(msg, a.keys.PageUp):
		a.moveCursor(-a.gridRowCapacity())
	case key.Matches(msg, a.keys.Home):
		a.moveCursorTo(0)
	case key.Matches(msg, a.keys.End):
		a.moveCursorTo(len(a.model.View()) - 1)
	case key.Matches(msg, a.keys.Left):
		a.moveColumn(-1)
	case key.Matches(msg, a.keys.Right):
		a.moveColumn(1)
	case key.Matches(msg, a.keys.Select):
		a.toggleSelect()
	case key.Matches(msg, a.keys.SelectAll):
		a.selection.SelectAll(a.model.ViewIdentities())
	case key.Matches(msg, a.keys.Escape):
		a.selection.Clear()
	case key.Matches(msg, a.keys.Sort):
		a.cycleSort()
	case key.Matches(msg, a.keys.GlobalFilter):
		return a, a.openGlobalFilter()
	case key.Matches(msg, a.keys.ColumnFilter):
		return a, a.openColumnFilter()
	case key.Matches(msg, a.keys.HideColumn):
		return a, a.hideCursorColumn()
	case key.Matches(msg, a.keys.UnhideAll):
		a.visibility.Reset()
		a.clampColumnCursor()
	case key.Matches(msg, a.keys.CopyCSV):
		return a, a.copySelection(grid.FormatCSV)
	case key.Matches(msg, a.keys.CopyJSON):
		return a, a.copySelection(grid.FormatJSON)
	case key.Matches(msg, a.keys.ExportCSV):
		return a, a.exportView(grid.FormatCSV)
	case key.Matches(msg, a.keys.ExportJSON):
		return a, a.exportView(grid.FormatJSON)
	case key.Matches(msg, a.keys.ExportXLSX):
		return a, a.exportView(grid.FormatXLSX)
	}
	return a, nil
}

func (a App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		a.closePrompt(false)
		return a, nil
	case tea.KeyEscape:
		a.closePrompt(true)
		return a, nil
	}
	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	a.applyPromptFilter(a.filter.Value())
	return a, cmd
}

// startRun kicks off the editor's statement. A run already in flight
// wins; the keypress is dropped.
func (a App) startRun() (tea.Model, tea.Cmd) {
	if a.running {
		return a, nil
	}
	sql := strings.TrimSpace(a.editor.Value())
	if sql == "" {
		return a, a.notify("nothing to run", true)
	}
	a.running = true
	return a, tea.Batch(a.spin.Tick, runQueryCmd(a.ctx, a.cfg.Runner, sql))
}

// finishRun lands the result of an execution. A new snapshot resets
// every piece of viewer state: selection, visibility, sort, filters,
// cursor and scroll all belong to the previous result.
func (a App) finishRun(msg queryResultMsg) (tea.Model, tea.Cmd) {
	a.running = false
	if msg.err != nil {
		a.lastErr = msg.err.Error()
		return a, a.notify("query failed: "+msg.err.Error(), true)
	}
	a.lastErr = ""

	a.model.SetSnapshot(msg.snap)
	a.selection = grid.NewSelection()
	a.visibility = grid.NewVisibility()
	a.cursor, a.colCursor, a.scroll, a.colOffset = 0, 0, 0, 0
	a.generation = a.model.Generation()

	a.focus = focusResults
	a.editor.Blur()

	if len(msg.snap.Columns) == 0 {
		return a, a.notify(fmt.Sprintf("OK, %s affected", plural(msg.snap.RowCount, "row")), false)
	}
	return a, a.notify(fmt.Sprintf("%s in %s", plural(msg.snap.RowCount, "row"), msg.snap.Duration.Round(time.Millisecond)), false)
}

func (a *App) toggleFocus() tea.Cmd {
	if a.focus == focusEditor {
		a.focus = focusResults
		a.editor.Blur()
		return nil
	}
	a.focus = focusEditor
	return a.editor.Focus()
}

func (a *App) toggleSelect() {
	view := a.model.View()
	if a.cursor < len(view) {
		a.selection.Toggle(view[a.cursor].Identity)
	}
}

func (a *App) moveCursor(delta int) {
	a.moveCursorTo(a.cursor + delta)
}

func (a *App) moveCursorTo(idx int) {
	if n := len(a.model.View()); idx > n-1 {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	a.cursor = idx
	a.ensureCursorVisible()
}

func (a *App) moveColumn(delta int) {
	n := len(a.visibleColumns())
	if n == 0 {
		return
	}
	a.colCursor += delta
	if a.colCursor > n-1 {
		a.colCursor = n - 1
	}
	if a.colCursor < 0 {
		a.colCursor = 0
	}
	a.ensureColumnVisible()
}

// cycleSort advances the cursor column through asc, desc and off.
// Sorting a different column starts over at asc.
func (a *App) cycleSort() {
	visible := a.visibleColumns()
	if len(visible) == 0 {
		return
	}
	column := visible[a.colCursor]
	next := grid.SortAsc
	if s := a.model.SortState(); s.Column == column {
		switch s.Direction {
		case grid.SortAsc:
			next = grid.SortDesc
		case grid.SortDesc:
			next = grid.SortNone
		}
	}
	a.model.SetSort(column, next)
	a.syncView()
}

func (a *App) hideCursorColumn() tea.Cmd {
	visible := a.visibleColumns()
	if len(visible) == 0 {
		return nil
	}
	if len(visible) == 1 {
		return a.notify("cannot hide the last column", true)
	}
	column := visible[a.colCursor]
	a.visibility.Hide(column)
	a.clampColumnCursor()
	return a.notify("hid "+column+", V restores", false)
}

func (a *App) clampColumnCursor() {
	n := len(a.visibleColumns())
	if n == 0 {
		a.colCursor, a.colOffset = 0, 0
		return
	}
	if a.colCursor > n-1 {
		a.colCursor = n - 1
	}
	if a.colOffset > a.colCursor {
		a.colOffset = a.colCursor
	}
	a.ensureColumnVisible()
}

func (a *App) openGlobalFilter() tea.Cmd {
	a.prompt = promptGlobal
	a.promptCol = ""
	a.promptPrev = a.model.GlobalFilter()
	a.filter.Prompt = "filter all: "
	a.filter.SetValue(a.promptPrev)
	a.filter.CursorEnd()
	return a.filter.Focus()
}

func (a *App) openColumnFilter() tea.Cmd {
	visible := a.visibleColumns()
	if len(visible) == 0 {
		return a.notify("no columns to filter", true)
	}
	column := visible[a.colCursor]
	a.prompt = promptColumn
	a.promptCol = column
	a.promptPrev = a.model.Filter(column)
	a.filter.Prompt = "filter " + column + ": "
	a.filter.SetValue(a.promptPrev)
	a.filter.CursorEnd()
	return a.filter.Focus()
}

// applyPromptFilter applies the prompt's text live, per keystroke.
func (a *App) applyPromptFilter(text string) {
	if a.prompt == promptColumn {
		a.model.SetFilter(a.promptCol, text)
	} else {
		a.model.SetGlobalFilter(text)
	}
	a.syncView()
}

// closePrompt dismisses the filter prompt. Cancelling restores the
// filter text from before the prompt opened.
func (a *App) closePrompt(cancel bool) {
	if cancel {
		a.applyPromptFilter(a.promptPrev)
	}
	a.prompt = promptNone
	a.promptCol = ""
	a.filter.Blur()
	a.filter.SetValue("")
}

func (a *App) copySelection(format grid.Format) tea.Cmd {
	columns := a.model.Columns()
	if len(columns) == 0 {
		return a.notify("no result to copy", true)
	}
	n, err := a.exporter.CopySelected(columns, a.model.View(), a.selection, format)
	if err != nil {
		return a.notify(err.Error(), true)
	}
	if n == 0 {
		return a.notify("no rows selected", true)
	}
	return a.notify(fmt.Sprintf("copied %s as %s", plural(n, "row"), strings.ToUpper(string(format))), false)
}

func (a *App) exportView(format grid.Format) tea.Cmd {
	columns := a.model.Columns()
	if len(columns) == 0 {
		return a.notify("no result to export", true)
	}
	filename, err := a.exporter.ExportView(columns, a.model.View(), format)
	if err != nil {
		return a.notify(err.Error(), true)
	}
	return a.notify("exported "+filename, false)
}

// syncView reconciles cursor and scroll with the derived view after a
// model mutation. A generation change means the view was reshaped, so
// the viewport snaps back to the top.
func (a *App) syncView() {
	if g := a.model.Generation(); g != a.generation {
		a.generation = g
		a.cursor = 0
		a.scroll = 0
	}
	if n := len(a.model.View()); a.cursor > n-1 {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	a.clampColumnCursor()
	a.ensureCursorVisible()
}

func (a *App) ensureCursorVisible() {
	capacity := a.gridRowCapacity()
	if a.cursor < a.scroll {
		a.scroll = a.cursor
	}
	if a.cursor >= a.scroll+capacity {
		a.scroll = a.cursor - capacity + 1
	}
	if a.scroll < 0 {
		a.scroll = 0
	}
}

// gridRowCapacity is how many result rows fit the terminal.
func (a App) gridRowCapacity() int {
	capacity := a.height - chromeHeight
	if capacity < 1 {
		capacity = 1
	}
	return capacity
}

// notify shows a transient notice and schedules its expiry. The id
// keeps an old tick from clearing a notice that replaced it.
func (a *App) notify(text string, isErr bool) tea.Cmd {
	a.notice = text
	a.noticeErr = isErr
	a.noticeID++
	id := a.noticeID
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func (a App) View() string {
	if a.width == 0 {
		return "starting querypad..."
	}

	sections := []string{
		a.renderTopBar(),
		a.renderEditor(),
	}
	if a.showHelp {
		sections = append(sections, a.renderHelpPanel())
	} else {
		sections = append(sections, a.renderResults())
	}
	sections = append(sections,
		a.renderStatusBar(),
		a.renderNoticeBar(),
		a.help.View(a.keys),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderTopBar() string {
	left := "querypad"
	if a.cfg.ConnectionName != "" {
		left += " · " + a.cfg.ConnectionName
	}

	var right string
	switch {
	case a.running:
		right = a.spin.View() + " running"
	case a.lastErr != "":
		right = "✗ " + a.lastErr
	case a.model.Snapshot() != nil:
		snap := a.model.Snapshot()
		right = fmt.Sprintf("%s in %s", plural(snap.RowCount, "row"), snap.Duration.Round(time.Millisecond))
	}

	bar := left
	if right != "" {
		pad := a.width - lipgloss.Width(left) - lipgloss.Width(right)
		if pad < 1 {
			pad = 1
		}
		bar = left + strings.Repeat(" ", pad) + right
	}
	return a.styles.TopBar.MaxWidth(a.width).Render(bar)
}

func (a App) renderEditor() string {
	style := a.styles.Editor
	if a.focus == focusEditor {
		style = a.styles.EditorFocused
	}
	return style.Width(a.width - 2).Render(a.editor.View())
}

func (a App) renderStatusBar() string {
	if a.prompt != promptNone {
		return a.styles.StatusBar.MaxWidth(a.width).Render(a.filter.View())
	}

	view := a.model.View()
	win := grid.ComputeVisible(view, a.gridRowCapacity(), a.scroll, 1, 0)

	indicator := "[0-0 of 0]"
	if len(view) > 0 {
		indicator = fmt.Sprintf("[%d-%d of %d]", win.Start+1, win.End, len(view))
	}
	parts := []string{indicator}

	if total := a.model.TotalRows(); len(view) != total {
		parts = append(parts, fmt.Sprintf("%d of %d rows match", len(view), total))
	}
	if n := a.selection.Count(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if s := a.model.SortState(); s.Direction != grid.SortNone {
		parts = append(parts, fmt.Sprintf("sort %s %s", s.Column, s.Direction))
	}
	if g := a.model.GlobalFilter(); g != "" {
		parts = append(parts, "/"+g)
	}
	if n := a.model.FilterCount(); n > 0 {
		parts = append(parts, plural(n, "column filter"))
	}
	if n := a.visibility.HiddenCount(); n > 0 {
		parts = append(parts, plural(n, "hidden column"))
	}
	return a.styles.StatusBar.MaxWidth(a.width).Render(strings.Join(parts, " · "))
}

// renderNoticeBar renders the transient notice when one is up, the
// selection action bar while rows are selected, and an empty line
// otherwise so the layout never shifts.
func (a App) renderNoticeBar() string {
	switch {
	case a.notice != "":
		style := a.styles.NoticeOK
		if a.noticeErr {
			style = a.styles.NoticeErr
		}
		return style.MaxWidth(a.width).Render(a.notice)
	case a.selection.Count() > 0:
		hint := "y copy CSV · Y copy JSON · a select all · esc clear"
		if a.selection.Aggregate(a.model.ViewIdentities()) == grid.AggregateAll {
			hint = "y copy CSV · Y copy JSON · esc clear"
		}
		return a.styles.ActionBar.MaxWidth(a.width).Render(hint)
	default:
		return ""
	}
}

func (a App) renderHelpPanel() string {
	titles := []string{"Navigate", "Select", "Shape", "Run & export"}
	groups := a.keys.FullHelp()

	blocks := make([]string, 0, len(groups)*2)
	for i, group := range groups {
		lines := []string{a.styles.HelpTitle.Render(titles[i])}
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fit(h.Key, 8)+" "+h.Desc)
		}
		if i > 0 {
			blocks = append(blocks, "    ")
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	height := a.gridRowCapacity() + 2
	panel := a.styles.HelpPanel.Render(lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	panel = lipgloss.NewStyle().MaxHeight(height).Render(panel)
	return padToHeight(panel, height)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
