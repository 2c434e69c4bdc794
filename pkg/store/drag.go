package store

import (
	"slices"

	"github.com/vanderheijden86/dirtree/pkg/dnd"
	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
)

// BeginDrag starts dragging the row id. If id is selected the whole
// selection is carried; otherwise id becomes the sole selection and is
// carried alone.
func (st *Store) BeginDrag(id string) error {
	order := st.VisibleIDs()
	var err error
	st.update(func(s *State) bool {
		if !s.DragEnabled() {
			err = ErrFlatMode
			return false
		}
		dragged, sel := dnd.BeginDrag(s.Selection, id, order)
		s.Dragged = dragged
		s.Selection = sel
		s.DropTarget = nil
		return true
	})
	return err
}

// DragMove updates the drop indicator for a pointer over the element over
// ("" for nothing, model.RootID for the empty area below the rows). geom
// supplies row bounds; pass nil to use the store's own layout.
func (st *Store) DragMove(over string, pointer dnd.Point, geom dnd.Geometry) {
	if geom == nil {
		geom = st.Geometry()
	}
	rows := st.Rows()
	st.update(func(s *State) bool {
		if !s.DragEnabled() || !s.IsDragging() {
			return false
		}
		next := dnd.Hover(over, pointer, rows, geom)
		if sameTarget(next, s.DropTarget) {
			return false
		}
		s.DropTarget = next
		return true
	})
}

func sameTarget(a, b *dnd.Target) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CancelDrag abandons the drag in progress.
func (st *Store) CancelDrag() {
	st.update(func(s *State) bool {
		if !s.IsDragging() && s.DropTarget == nil {
			return false
		}
		s.Dragged = nil
		s.DropTarget = nil
		return true
	})
}

// EndDrag commits the drag in progress as a drop over the element over.
// Drag state is cleared whether or not the drop is accepted, and the
// clearing and the move are published as one snapshot.
//
// Dropping over nothing does nothing. Dropping over model.RootID appends
// the carried nodes to the top level. Dropping over a row moves them
// before, inside, or after it according to the pointer; a row without
// known geometry is treated as inside.
func (st *Store) EndDrag(over string, pointer dnd.Point, geom dnd.Geometry) error {
	defer metrics.Timer(metrics.MoveNodes)()

	var err error
	st.update(func(s *State) bool {
		sources := s.Dragged
		if !s.DragEnabled() {
			err = ErrFlatMode
		} else if len(sources) == 0 {
			err = ErrNotDragging
		}
		if !s.IsDragging() && s.DropTarget == nil {
			return false
		}
		s.Dragged = nil
		s.DropTarget = nil
		if err != nil || over == "" {
			return true
		}
		if slices.Contains(sources, over) {
			err = ErrDropOnSelf
			return true
		}

		pos := model.Inside
		if over != model.RootID {
			if geom == nil {
				geom = st.Geometry()
			}
			if r, ok := geom.Bounds(over); ok {
				pos = dnd.Classify(pointer.Y, r)
			}
		}
		var mv dnd.Move
		if mv, err = dnd.Plan(s.Data, sources, over, pos); err != nil {
			return true
		}
		s.applyMove(mv)
		return true
	})
	return err
}
