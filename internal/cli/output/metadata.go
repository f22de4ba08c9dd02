package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/querypad/querypad/pkg/core"
)

type columnOutput struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

type tableOutput struct {
	Schema   string         `json:"schema,omitempty"`
	Name     string         `json:"name"`
	Columns  []columnOutput `json:"columns"`
	RowCount int64          `json:"row_count"`
}

// RenderMetadata writes a table description in the renderer's mode.
func (r *Renderer) RenderMetadata(meta *core.TableMetadata) error {
	switch r.effective {
	case ModeJSON:
		out := tableOutput{
			Schema:   meta.Schema,
			Name:     meta.Name,
			Columns:  make([]columnOutput, 0, len(meta.Columns)),
			RowCount: meta.RowCount,
		}
		for _, col := range meta.Columns {
			out.Columns = append(out.Columns, columnOutput{
				Name:       col.Name,
				Type:       col.Type,
				Nullable:   col.Nullable,
				PrimaryKey: col.PrimaryKey,
			})
		}
		return r.JSON(out)
	case ModeMarkdown:
		r.Println(FormatHeader(2, meta.Name))
		for _, col := range meta.Columns {
			detail := col.Type
			if col.PrimaryKey {
				detail += ", primary key"
			}
			if !col.Nullable {
				detail += ", not null"
			}
			r.Println(FormatKeyValue(col.Name, detail))
		}
		r.Println(FormatKeyValue("Rows", fmt.Sprintf("%d", meta.RowCount)))
		return nil
	default:
		return r.renderMetadataTable(meta)
	}
}

func (r *Renderer) renderMetadataTable(meta *core.TableMetadata) error {
	r.Printf("Table: %s\n", meta.Name)
	r.Println(strings.Repeat("-", 60))

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Nullable", "Key"})

	for _, col := range meta.Columns {
		nullable := "NO"
		if col.Nullable {
			nullable = "YES"
		}
		key := ""
		if col.PrimaryKey {
			key = "PK"
		}
		t.AppendRow(table.Row{col.Name, col.Type, nullable, key})
	}

	t.Render()
	r.Printf("(%d rows in table)\n", meta.RowCount)
	return nil
}
