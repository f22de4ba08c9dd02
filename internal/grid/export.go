package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/querypad/querypad/pkg/core"
)

// Format is an export or copy format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// OutputService delivers rendered data to the outside world: files to
// the user's download location, text to the system clipboard.
// Implementations live in internal/platform; tests substitute a fake.
type OutputService interface {
	Download(data []byte, filename, mimeType string) error
	WriteClipboard(text string) error
}

// Exporter renders the derived view for export and copy. Export
// always carries the full view regardless of selection and column
// visibility; copy carries the selected rows in view order.
type Exporter struct {
	out    OutputService
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter wires an exporter to an output service. A nil logger
// disables logging.
func NewExporter(out OutputService, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{out: out, logger: logger, now: time.Now}
}

// ExportView renders the full derived view and hands it to the
// output service under a date-stamped filename. It returns the
// filename for the confirmation message. Selection and hidden
// columns do not change what is exported.
func (e *Exporter) ExportView(columns []string, view []Row, format Format) (string, error) {
	var (
		data []byte
		mime string
	)
	switch format {
	case FormatCSV:
		data = []byte(RenderCSV(columns, view))
		mime = "text/csv"
	case FormatJSON:
		text, err := RenderJSON(columns, view)
		if err != nil {
			return "", err
		}
		data = []byte(text)
		mime = "application/json"
	case FormatXLSX:
		var err error
		data, err = RenderXLSX(columns, view)
		if err != nil {
			return "", err
		}
		mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "", fmt.Errorf("unsupported export format: %q", format)
	}

	filename := fmt.Sprintf("query_results_%s.%s", e.now().Format("2006-01-02"), format)
	if err := e.out.Download(data, filename, mime); err != nil {
		e.logger.Warn("export failed", "filename", filename, "error", err)
		return "", fmt.Errorf("exporting %s: %w", filename, err)
	}
	e.logger.Debug("exported result set", "filename", filename, "rows", len(view), "format", string(format))
	return filename, nil
}

// CopySelected renders the selected rows of the view, in view order,
// and writes them to the clipboard. It returns the number of rows
// copied. Selected rows hidden by the current filters are not copied.
// A clipboard failure is logged and returned; the caller surfaces it
// as a transient notice and carries on.
func (e *Exporter) CopySelected(columns []string, view []Row, sel *Selection, format Format) (int, error) {
	picked := make([]Row, 0, sel.Count())
	for _, row := range view {
		if sel.IsSelected(row.Identity) {
			picked = append(picked, row)
		}
	}
	if len(picked) == 0 {
		return 0, nil
	}

	var text string
	switch format {
	case FormatCSV:
		text = RenderCSV(columns, picked)
	case FormatJSON:
		rendered, err := RenderJSON(columns, picked)
		if err != nil {
			return 0, err
		}
		text = rendered
	default:
		return 0, fmt.Errorf("unsupported copy format: %q", format)
	}

	if err := e.out.WriteClipboard(text); err != nil {
		e.logger.Warn("clipboard write failed", "rows", len(picked), "error", err)
		return 0, fmt.Errorf("copying selection to clipboard: %w", err)
	}
	e.logger.Debug("copied rows to clipboard", "rows", len(picked), "format", string(format))
	return len(picked), nil
}

// RenderCSV renders rows as CSV. The header line is the column names
// joined by commas, unquoted. A null cell is empty; any other cell is
// its text rendition, quoted with doubled inner quotes only when it
// contains a comma, quote or newline. Lines are joined by newlines
// with no trailing newline, so the same view always renders to the
// same bytes.
func RenderCSV(columns []string, rows []Row) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(columns, ","))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i := range columns {
			if i < len(row.Cells) && !row.Cells[i].IsNull() {
				cells[i] = escapeCSV(row.Cells[i].Text())
			}
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// RenderJSON renders rows as a pretty-printed JSON array of objects,
// one object per row, keys in column order, values raw rather than
// text renditions. The object members are assembled by hand because
// encoding/json sorts map keys.
func RenderJSON(columns []string, rows []Row) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for ri, row := range rows {
		if ri > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for ci, col := range columns {
			if ci > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return "", fmt.Errorf("encoding column name %q: %w", col, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			var val core.Value
			if ci < len(row.Cells) {
				val = row.Cells[ci]
			}
			raw, err := val.MarshalJSON()
			if err != nil {
				return "", fmt.Errorf("encoding column %q: %w", col, err)
			}
			buf.Write(raw)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return "", fmt.Errorf("formatting JSON export: %w", err)
	}
	return out.String(), nil
}

// RenderXLSX renders rows as a single-sheet workbook with the column
// names on the first row. Null cells stay empty; bool, int and float
// cells keep their native type so spreadsheet formulas work on them.
func RenderXLSX(columns []string, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("placing header %q: %w", col, err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, fmt.Errorf("writing header %q: %w", col, err)
		}
	}
	for ri, row := range rows {
		for ci := range columns {
			if ci >= len(row.Cells) || row.Cells[ci].IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return nil, fmt.Errorf("placing cell at row %d: %w", ri+2, err)
			}
			if err := f.SetCellValue(sheet, cell, xlsxValue(row.Cells[ci])); err != nil {
				return nil, fmt.Errorf("writing cell at row %d: %w", ri+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("assembling workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func xlsxValue(v core.Value) any {
	switch v.Kind() {
	case core.KindBool:
		return v.Bool()
	case core.KindInt:
		return v.Int()
	case core.KindFloat:
		return v.Float()
	default:
		return v.Text()
	}
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
