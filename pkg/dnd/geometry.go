package dnd

import "github.com/vanderheijden86/dirtree/pkg/model"

// Layout is the Geometry of a fixed-height row list. Only rows inside the
// rendered window [Start, End) have bounds, matching what a virtualized
// view actually draws.
type Layout struct {
	index     map[string]int
	rowHeight float64
	start     int
	end       int
}

// NewLayout indexes rows for O(1) bounds lookups.
func NewLayout(rows []model.Row, rowHeight float64, start, end int) *Layout {
	idx := make(map[string]int, end-start)
	for i := start; i < end && i < len(rows); i++ {
		idx[rows[i].ID] = i
	}
	return &Layout{index: idx, rowHeight: rowHeight, start: start, end: end}
}

// Bounds implements Geometry.
func (l *Layout) Bounds(id string) (Rect, bool) {
	i, ok := l.index[id]
	if !ok {
		return Rect{}, false
	}
	return Rect{Top: float64(i) * l.rowHeight, Height: l.rowHeight}, true
}

// RowAt returns the id of the rendered row under content y. ok is false
// when y falls outside every rendered row.
func (l *Layout) RowAt(y float64, rows []model.Row) (string, bool) {
	if y < 0 || l.rowHeight <= 0 {
		return "", false
	}
	i := int(y / l.rowHeight)
	if i < l.start || i >= l.end || i >= len(rows) {
		return "", false
	}
	return rows[i].ID, true
}
