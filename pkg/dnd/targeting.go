// Package dnd resolves drag-and-drop gestures over the row list into
// structural moves. It classifies the pointer against a row's bounds
// (before / inside / after), handles the top-level drop zone, decides which
// ids a drag carries, and validates a drop before anything is removed.
package dnd

import (
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/selection"
)

// Edge fractions of a row's height. Pointers above BeforeEdge drop before
// the row, below AfterEdge drop after it, anything between drops inside.
const (
	BeforeEdge = 0.25
	AfterEdge  = 0.75
)

// Point is a pointer position in content coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the vertical extent of a rendered row in content coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Geometry looks up the bounds of the currently rendered visual for a row.
// ok is false when the row is not rendered.
type Geometry interface {
	Bounds(id string) (r Rect, ok bool)
}

// Target is the live drop indicator: which row and where relative to it.
type Target struct {
	ID       string         `json:"id"`
	Position model.Position `json:"position"`
}

// Classify maps a pointer y onto a drop position for r.
func Classify(pointerY float64, r Rect) model.Position {
	rel := pointerY - r.Top
	switch {
	case rel < r.Height*BeforeEdge:
		return model.Before
	case rel > r.Height*AfterEdge:
		return model.After
	}
	return model.Inside
}

// Hover computes the drop indicator for a pointer over the element with id
// over. over is "" when the pointer is over nothing and model.RootID over
// the empty area below the rows. rows is the current visible row list.
//
// Over the root zone the indicator shows "after the last row", or "inside
// the root" when there are no rows. Over a row the position comes from
// Classify; a row with no known geometry yields no indicator.
func Hover(over string, pointer Point, rows []model.Row, geom Geometry) *Target {
	switch over {
	case "":
		return nil
	case model.RootID:
		if len(rows) == 0 {
			return &Target{ID: model.RootID, Position: model.Inside}
		}
		return &Target{ID: rows[len(rows)-1].ID, Position: model.After}
	}
	if geom == nil {
		return nil
	}
	r, ok := geom.Bounds(over)
	if !ok {
		return nil
	}
	return &Target{ID: over, Position: Classify(pointer.Y, r)}
}

// BeginDrag decides which ids a drag that starts on id carries. Dragging a
// selected row carries the whole selection in visible order. Dragging an
// unselected row selects just that row and carries it alone.
func BeginDrag(sel selection.State, id string, visibleOrder []string) (dragged []string, next selection.State) {
	if !sel.IsSelected(id) {
		return []string{id}, selection.Single(id)
	}
	return selection.Ordered(sel, visibleOrder), sel
}
