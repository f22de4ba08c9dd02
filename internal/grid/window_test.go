package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querypad/querypad/pkg/core"
)

func makeRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{Identity: i, Cells: []core.Value{core.NewInt(int64(i))}}
	}
	return rows
}

func TestComputeVisible_WindowedViewport(t *testing.T) {
	view := makeRows(1000)
	const (
		rowHeight = 33
		viewport  = 330
		overscan  = 10
		contentPx = 1000 * rowHeight
	)

	t.Run("at the top", func(t *testing.T) {
		w := ComputeVisible(view, viewport, 0, rowHeight, overscan)

		assert.Equal(t, 0, w.Start)
		assert.Equal(t, 20, len(w.Rows))
		assert.Equal(t, 0, w.LeadingSpacerPx)
		assert.Equal(t, contentPx, w.LeadingSpacerPx+len(w.Rows)*rowHeight+w.TrailingSpacerPx)
	})

	t.Run("mid scroll", func(t *testing.T) {
		w := ComputeVisible(view, viewport, 16500, rowHeight, overscan)

		assert.Equal(t, 490, w.Start)
		assert.Equal(t, 520, w.End)
		assert.Equal(t, 490, w.Rows[0].Identity)
		assert.Equal(t, 490*rowHeight, w.LeadingSpacerPx)
		assert.Equal(t, contentPx, w.LeadingSpacerPx+len(w.Rows)*rowHeight+w.TrailingSpacerPx)
	})

	t.Run("window size stays bounded", func(t *testing.T) {
		for offset := 0; offset <= contentPx; offset += 1234 {
			w := ComputeVisible(view, viewport, offset, rowHeight, overscan)
			n := len(w.Rows)
			assert.GreaterOrEqual(t, n, 10, "offset %d", offset)
			assert.LessOrEqual(t, n, 31, "offset %d", offset)
		}
	})

	t.Run("scrolled past the end clamps to the last page", func(t *testing.T) {
		w := ComputeVisible(view, viewport, contentPx*2, rowHeight, overscan)

		assert.Equal(t, 1000, w.End)
		assert.Equal(t, 0, w.TrailingSpacerPx)
	})

	t.Run("negative offset reads as zero", func(t *testing.T) {
		w := ComputeVisible(view, viewport, -500, rowHeight, overscan)

		assert.Equal(t, 0, w.Start)
		assert.Equal(t, 0, w.LeadingSpacerPx)
	})
}

func TestComputeVisible_SpacerInvariant(t *testing.T) {
	view := makeRows(1000)
	const rowHeight = 33

	// Whatever the offset, the spacers plus the rendered rows must
	// account for the full content height.
	for offset := -100; offset <= 34000; offset += 777 {
		w := ComputeVisible(view, 330, offset, rowHeight, 10)
		total := w.LeadingSpacerPx + len(w.Rows)*rowHeight + w.TrailingSpacerPx
		require.Equal(t, 33000, total, "offset %d", offset)
	}
}

func TestComputeVisible_EmptyView(t *testing.T) {
	w := ComputeVisible([]Row{}, 330, 0, 33, 10)

	assert.NotNil(t, w.Rows)
	assert.Empty(t, w.Rows)
	assert.Equal(t, 0, w.LeadingSpacerPx)
	assert.Equal(t, 0, w.TrailingSpacerPx)

	w = ComputeVisible(nil, 330, 100, 0, 10)
	assert.Empty(t, w.Rows)
}

func TestComputeVisible_FewerRowsThanViewport(t *testing.T) {
	view := makeRows(5)

	w := ComputeVisible(view, 330, 0, 33, 10)

	assert.Equal(t, 5, len(w.Rows))
	assert.Equal(t, 0, w.LeadingSpacerPx)
	assert.Equal(t, 0, w.TrailingSpacerPx)
}

func TestComputeVisible_DegenerateInputs(t *testing.T) {
	view := makeRows(10)

	tests := []struct {
		name      string
		viewport  int
		scroll    int
		rowHeight int
		overscan  int
	}{
		{name: "zero row height", viewport: 100, scroll: 50, rowHeight: 0, overscan: 2},
		{name: "negative row height", viewport: 100, scroll: 50, rowHeight: -5, overscan: 2},
		{name: "zero viewport", viewport: 0, scroll: 0, rowHeight: 33, overscan: 2},
		{name: "negative viewport", viewport: -10, scroll: 0, rowHeight: 33, overscan: 2},
		{name: "negative overscan", viewport: 100, scroll: 0, rowHeight: 33, overscan: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeVisible(view, tt.viewport, tt.scroll, tt.rowHeight, tt.overscan)

			rh := tt.rowHeight
			if rh <= 0 {
				rh = 1
			}
			assert.GreaterOrEqual(t, w.Start, 0)
			assert.LessOrEqual(t, w.End, len(view))
			assert.Equal(t, len(view)*rh, w.LeadingSpacerPx+len(w.Rows)*rh+w.TrailingSpacerPx)
		})
	}
}

func TestComputeVisible_RowsShareViewStorage(t *testing.T) {
	view := makeRows(100)

	w := ComputeVisible(view, 10, 50, 1, 0)

	require.NotEmpty(t, w.Rows)
	assert.True(t, &w.Rows[0] == &view[w.Start], "window must slice the view, not copy it")
}

func TestComputeVisible_TerminalSizedRows(t *testing.T) {
	// A text UI uses one line per row; the contract holds unchanged
	// with rowHeight 1.
	view := makeRows(500)

	w := ComputeVisible(view, 40, 200, 1, 5)

	assert.Equal(t, 195, w.Start)
	assert.Equal(t, 245, w.End)
	assert.Equal(t, 500, w.LeadingSpacerPx+len(w.Rows)+w.TrailingSpacerPx)
}

func ExampleComputeVisible() {
	view := makeRows(1000)

	w := ComputeVisible(view, 330, 16500, 33, 10)

	fmt.Printf("rows %d..%d, spacers %d/%d\n", w.Start, w.End, w.LeadingSpacerPx, w.TrailingSpacerPx)
	// Output: rows 490..520, spacers 16170/15840
}
