package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// styles holds the lipgloss styles for every surface of the viewer.
type styles struct {
	TopBar    lipgloss.Style
	TopBarErr lipgloss.Style

	Editor        lipgloss.Style
	EditorFocused lipgloss.Style

	GridHeader       lipgloss.Style
	GridHeaderCursor lipgloss.Style
	GridRule         lipgloss.Style
	GridCursor       lipgloss.Style
	GridSelected     lipgloss.Style
	GridNull         lipgloss.Style
	GridEmpty        lipgloss.Style

	StatusBar lipgloss.Style
	ActionBar lipgloss.Style
	NoticeOK  lipgloss.Style
	NoticeErr lipgloss.Style

	HelpPanel lipgloss.Style
	HelpTitle lipgloss.Style

	Spinner lipgloss.Style
}

// newStyles builds the style set for the detected color profile. On a
// colorless terminal everything degrades to text attributes, which
// keeps the cursor row and null cells distinguishable.
func newStyles() styles {
	s := styles{
		TopBar:    lipgloss.NewStyle().Bold(true),
		TopBarErr: lipgloss.NewStyle(),

		Editor:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
		EditorFocused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),

		GridHeader:       lipgloss.NewStyle().Bold(true),
		GridHeaderCursor: lipgloss.NewStyle().Bold(true).Underline(true),
		GridRule:         lipgloss.NewStyle(),
		GridCursor:       lipgloss.NewStyle().Reverse(true),
		GridSelected:     lipgloss.NewStyle().Bold(true),
		GridNull:         lipgloss.NewStyle().Faint(true),
		GridEmpty:        lipgloss.NewStyle().Faint(true),

		StatusBar: lipgloss.NewStyle(),
		ActionBar: lipgloss.NewStyle(),
		NoticeOK:  lipgloss.NewStyle(),
		NoticeErr: lipgloss.NewStyle().Bold(true),

		HelpPanel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
		HelpTitle: lipgloss.NewStyle().Bold(true),

		Spinner: lipgloss.NewStyle(),
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return s
	}

	s.TopBar = s.TopBar.Foreground(lipgloss.Color("12"))
	s.TopBarErr = s.TopBarErr.Foreground(lipgloss.Color("9"))
	s.Editor = s.Editor.BorderForeground(lipgloss.Color("8"))
	s.EditorFocused = s.EditorFocused.BorderForeground(lipgloss.Color("12"))
	s.GridHeader = s.GridHeader.Foreground(lipgloss.Color("14"))
	s.GridHeaderCursor = s.GridHeaderCursor.Foreground(lipgloss.Color("14"))
	s.GridRule = s.GridRule.Foreground(lipgloss.Color("8"))
	s.GridSelected = s.GridSelected.Foreground(lipgloss.Color("13"))
	s.GridNull = s.GridNull.Foreground(lipgloss.Color("8"))
	s.GridEmpty = s.GridEmpty.Foreground(lipgloss.Color("8"))
	s.StatusBar = s.StatusBar.Foreground(lipgloss.Color("12"))
	s.ActionBar = s.ActionBar.Foreground(lipgloss.Color("13"))
	s.NoticeOK = s.NoticeOK.Foreground(lipgloss.Color("10"))
	s.NoticeErr = s.NoticeErr.Foreground(lipgloss.Color("9"))
	s.HelpPanel = s.HelpPanel.BorderForeground(lipgloss.Color("8"))
	s.HelpTitle = s.HelpTitle.Foreground(lipgloss.Color("14"))
	s.Spinner = s.Spinner.Foreground(lipgloss.Color("12"))
	return s
}
