package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/querypad/querypad/pkg/core"
)

func TestAdaptRows(t *testing.T) {
	snap := &core.ResultSnapshot{
		Columns: []string{"id", "name"},
		Rows: [][]core.Value{
			{core.NewInt(1), core.NewString("b")},
			{core.NewInt(2), core.NewString("a")},
		},
		RowCount: 2,
	}

	rows := AdaptRows(snap)

	assert.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Identity)
	assert.Equal(t, 1, rows[1].Identity)
	assert.Equal(t, "b", rows[0].Cells[1].Text())
	assert.Equal(t, "a", rows[1].Cells[1].Text())
}

func TestAdaptRows_NilSnapshot(t *testing.T) {
	rows := AdaptRows(nil)

	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestAdaptRows_ZeroRows(t *testing.T) {
	snap := &core.ResultSnapshot{Columns: []string{"id"}, Rows: [][]core.Value{}}

	rows := AdaptRows(snap)

	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
