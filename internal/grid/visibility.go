package grid

// Visibility tracks which columns are hidden in the rendered grid.
// It is purely presentational: exports and copies always carry every
// column, hidden or not.
type Visibility struct {
	hidden map[string]struct{}
}

// NewVisibility returns a visibility state with every column shown.
func NewVisibility() *Visibility {
	return &Visibility{hidden: map[string]struct{}{}}
}

// Hide hides a column.
func (v *Visibility) Hide(column string) {
	v.hidden[column] = struct{}{}
}

// Show unhides a column.
func (v *Visibility) Show(column string) {
	delete(v.hidden, column)
}

// Toggle flips a column between hidden and shown.
func (v *Visibility) Toggle(column string) {
	if v.IsHidden(column) {
		v.Show(column)
	} else {
		v.Hide(column)
	}
}

// IsHidden reports whether a column is hidden.
func (v *Visibility) IsHidden(column string) bool {
	_, ok := v.hidden[column]
	return ok
}

// HiddenCount returns the number of hidden columns.
func (v *Visibility) HiddenCount() int {
	return len(v.hidden)
}

// Reset shows every column again.
func (v *Visibility) Reset() {
	v.hidden = map[string]struct{}{}
}

// Visible filters columns down to the shown ones, preserving order.
func (v *Visibility) Visible(columns []string) []string {
	if len(v.hidden) == 0 {
		return columns
	}
	shown := make([]string, 0, len(columns))
	for _, c := range columns {
		if !v.IsHidden(c) {
			shown = append(shown, c)
		}
	}
	return shown
}
