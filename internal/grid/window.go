package grid

// Window is the slice of the derived view that should actually be
// rendered, plus the spacer heights that stand in for everything
// above and below it. For any input,
//
//	LeadingSpacerPx + len(Rows)*rowHeight + TrailingSpacerPx
//
// equals the total content height, so the scrollbar geometry never
// jumps as the window moves.
type Window struct {
	// Rows is the renderable slice of the view, overscan included.
	// It shares backing storage with the view and must not be
	// modified.
	Rows []Row

	// Start and End are the window's bounds as view indices,
	// half-open: Rows == view[Start:End].
	Start int
	End   int

	LeadingSpacerPx  int
	TrailingSpacerPx int
}

// ComputeVisible computes the render window for a virtualized
// viewport. Out-of-range inputs are clamped rather than rejected: a
// negative scroll offset reads as 0, a scroll offset past the end
// reads as the last page, and a non-positive row height is treated as
// 1 so the arithmetic stays defined. The work done is proportional to
// the window size, not the view size.
func ComputeVisible(view []Row, viewportPx, scrollPx, rowHeightPx, overscan int) Window {
	total := len(view)
	if total == 0 {
		return Window{Rows: []Row{}}
	}
	if rowHeightPx <= 0 {
		rowHeightPx = 1
	}
	if viewportPx < 0 {
		viewportPx = 0
	}
	if overscan < 0 {
		overscan = 0
	}

	contentPx := total * rowHeightPx
	maxScroll := contentPx - viewportPx
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scrollPx < 0 {
		scrollPx = 0
	}
	if scrollPx > maxScroll {
		scrollPx = maxScroll
	}

	start := scrollPx/rowHeightPx - overscan
	if start < 0 {
		start = 0
	}
	end := ceilDiv(scrollPx+viewportPx, rowHeightPx) + overscan
	if end > total {
		end = total
	}
	if end < start {
		end = start
	}

	return Window{
		Rows:             view[start:end],
		Start:            start,
		End:              end,
		LeadingSpacerPx:  start * rowHeightPx,
		TrailingSpacerPx: contentPx - end*rowHeightPx,
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
