package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibility(t *testing.T) {
	v := NewVisibility()
	columns := []string{"id", "name", "email"}

	assert.Equal(t, columns, v.Visible(columns))
	assert.Equal(t, 0, v.HiddenCount())

	v.Hide("name")
	assert.True(t, v.IsHidden("name"))
	assert.Equal(t, []string{"id", "email"}, v.Visible(columns))

	v.Toggle("email")
	assert.Equal(t, []string{"id"}, v.Visible(columns))
	assert.Equal(t, 2, v.HiddenCount())

	v.Toggle("name")
	assert.Equal(t, []string{"id", "name"}, v.Visible(columns))

	v.Reset()
	assert.Equal(t, columns, v.Visible(columns))
	assert.Equal(t, 0, v.HiddenCount())
}

// Hiding a column is presentational only: the exporter renders every
// column of the view no matter what the visibility state says.
func TestVisibility_DoesNotAffectExport(t *testing.T) {
	v := NewVisibility()
	v.Hide("name")

	columns := []string{"id", "name"}
	rows := makeRows(1)
	rows[0].Cells = append(rows[0].Cells, rows[0].Cells[0])

	csv := RenderCSV(columns, rows)

	assert.Contains(t, csv, "id,name")
}
