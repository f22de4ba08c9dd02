// Package output renders command results to the terminal.
//
// A Renderer wraps an output mode plus the writers to print to. Query
// results go through the same CSV and JSON encoders the result grid
// uses for exports, so piped output matches exported files exactly.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/querypad/querypad/internal/grid"
	"github.com/querypad/querypad/pkg/core"
)

// Mode selects how results are rendered.
type Mode string

const (
	// ModeAuto picks text on a terminal and markdown otherwise.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeMarkdown Mode = "markdown"
)

// Renderer writes command output in a fixed mode. Regular output goes
// to out, warnings and progress to errOut so piped stdout stays clean.
type Renderer struct {
	out       io.Writer
	errOut    io.Writer
	mode      Mode
	effective Mode
	styles    *Styles
}

// NewRenderer creates a renderer for the given mode. ModeAuto resolves
// against out at construction time.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "md" {
		mode = ModeMarkdown
	}
	return &Renderer{
		out:       out,
		errOut:    errOut,
		mode:      mode,
		effective: resolveMode(out, mode),
		styles:    NewStyles(),
	}
}

func resolveMode(out io.Writer, mode Mode) Mode {
	if mode != ModeAuto && mode != "" {
		return mode
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeMarkdown
}

// EffectiveMode returns the resolved mode, never ModeAuto.
func (r *Renderer) EffectiveMode() Mode {
	return r.effective
}

// Writer returns the destination for regular output.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the destination for warnings and progress.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Styles returns the lipgloss styles for text mode rendering.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line to the output writer.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Printf writes formatted text to the output writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Header prints a section heading, styled in text mode and as a
// markdown heading otherwise.
func (r *Renderer) Header(level int, text string) {
	if r.effective == ModeText {
		style := r.styles.Header1
		if level > 1 {
			style = r.styles.Header2
		}
		r.Println(style.Render(text))
		return
	}
	r.Println(FormatHeader(level, text))
}

// Success prints a confirmation line.
func (r *Renderer) Success(msg string) {
	if r.effective == ModeText {
		r.Printf("%s %s\n", r.styles.StatusSuccess.String(), msg)
		return
	}
	r.Println(msg)
}

// Warning prints a warning to the error writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintf(r.errOut, "%s\n", r.styles.Warning.Render("Warning: "+msg))
}

// Error prints an error line to the error writer.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintf(r.errOut, "%s\n", r.styles.Error.Render("Error: "+msg))
}

// JSON pretty-prints v to the output writer.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Render writes a result snapshot in the renderer's mode. A snapshot
// without columns came from a non-query statement and prints the
// affected row count instead.
func (r *Renderer) Render(snap *core.ResultSnapshot) error {
	if snap == nil {
		r.Println("(no results)")
		return nil
	}
	if len(snap.Columns) == 0 {
		r.Printf("OK, %d rows affected\n", snap.RowCount)
		return nil
	}

	rows := grid.AdaptRows(snap)

	switch r.effective {
	case ModeJSON:
		return r.renderJSON(snap.Columns, rows)
	case ModeCSV:
		return r.renderCSV(snap.Columns, rows)
	case ModeMarkdown:
		return r.renderMarkdown(snap.Columns, rows)
	default:
		return r.renderTable(snap.Columns, rows)
	}
}

func (r *Renderer) renderTable(columns []string, rows []grid.Row) error {
	if len(rows) == 0 {
		r.Println("(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	header := table.Row{}
	for _, col := range columns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		cells := table.Row{}
		for _, v := range row.Cells {
			cells = append(cells, formatValue(v))
		}
		t.AppendRow(cells)
	}

	t.Render()
	r.Printf("(%d rows)\n", len(rows))
	return nil
}

func (r *Renderer) renderJSON(columns []string, rows []grid.Row) error {
	doc, err := grid.RenderJSON(columns, rows)
	if err != nil {
		return err
	}
	r.Println(doc)
	return nil
}

func (r *Renderer) renderCSV(columns []string, rows []grid.Row) error {
	r.Println(grid.RenderCSV(columns, rows))
	return nil
}

func (r *Renderer) renderMarkdown(columns []string, rows []grid.Row) error {
	r.Println("| " + strings.Join(columns, " | ") + " |")

	seps := make([]string, len(columns))
	for i := range seps {
		seps[i] = "---"
	}
	r.Println("| " + strings.Join(seps, " | ") + " |")

	for _, row := range rows {
		cells := make([]string, len(row.Cells))
		for i, v := range row.Cells {
			cells[i] = formatValue(v)
		}
		r.Println("| " + strings.Join(cells, " | ") + " |")
	}
	return nil
}

func formatValue(v core.Value) string {
	if v.IsNull() {
		return "NULL"
	}
	return v.Text()
}

// FormatHeader returns a markdown heading.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a markdown definition line.
func FormatKeyValue(key, value string) string {
	return "- **" + key + "**: " + value
}

// FormatCodeBlock returns a fenced markdown code block.
func FormatCodeBlock(lang, code string) string {
	return "```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```"
}
