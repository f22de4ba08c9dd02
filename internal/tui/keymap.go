package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the viewer responds to. It satisfies
// help.KeyMap so the bubbles help component can render it.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Select    key.Binding
	SelectAll key.Binding
	CopyCSV   key.Binding
	CopyJSON  key.Binding

	Sort         key.Binding
	GlobalFilter key.Binding
	ColumnFilter key.Binding
	HideColumn   key.Binding
	UnhideAll    key.Binding

	ExportCSV  key.Binding
	ExportJSON key.Binding
	ExportXLSX key.Binding

	Run       key.Binding
	Focus     key.Binding
	Escape    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "row up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "row down")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		Home:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		End:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),

		Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle select")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select visible")),
		CopyCSV:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy as CSV")),
		CopyJSON:  key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy as JSON")),

		Sort:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		GlobalFilter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter all columns")),
		ColumnFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter column")),
		HideColumn:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "hide column")),
		UnhideAll:    key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "unhide all")),

		ExportCSV:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export CSV")),
		ExportJSON: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export JSON")),
		ExportXLSX: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export XLSX")),

		Run:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run query")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear / close")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp is the one-line hint under the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Focus, k.Select, k.Sort, k.GlobalFilter, k.Help, k.Quit}
}

// FullHelp groups the bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End, k.PageUp, k.PageDown},
		{k.Select, k.SelectAll, k.CopyCSV, k.CopyJSON, k.Escape},
		{k.Sort, k.GlobalFilter, k.ColumnFilter, k.HideColumn, k.UnhideAll},
		{k.ExportCSV, k.ExportJSON, k.ExportXLSX, k.Run, k.Focus, k.Help, k.Quit},
	}
}
