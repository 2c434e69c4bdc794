package store

import (
	"strings"
	"sync"

	"github.com/vanderheijden86/dirtree/pkg/dnd"
	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/tree"
	"github.com/vanderheijden86/dirtree/pkg/viewport"
)

type rowKey struct {
	dataRev   uint64
	expandRev uint64
	query     string
	mode      model.ViewMode
}

type rowCache struct {
	mu      sync.Mutex
	valid   bool
	key     rowKey
	rows    []model.Row
	ids     []string
	index   map[string]int
	matcher tree.Matcher
	derived int // number of derivations, for tests
}

// deriveRows computes the visible rows for a snapshot, and the compiled
// query when there is one.
//
// In flat mode every node (or every match, when searching) is listed at
// depth 0. In tree mode with a query the forest is filtered and the
// ancestors of matches are expanded on top of the user's expansion.
func deriveRows(s State) ([]model.Row, tree.Matcher) {
	defer metrics.Timer(metrics.DeriveRows)()

	var m tree.Matcher
	if strings.TrimSpace(s.Query) != "" {
		m = tree.CompilePattern(s.Query)
	}
	if s.Mode == model.ModeFlat {
		return tree.FlatProjection(s.Data, m), m
	}
	if m != nil {
		filtered, kept := tree.Filter(s.Data, m)
		return tree.Flatten(filtered, s.Expanded.Union(kept)), m
	}
	return tree.Flatten(s.Data, s.Expanded), nil
}

func (st *Store) cached() *rowCache {
	s := st.Snapshot()
	key := rowKey{dataRev: s.DataRev, expandRev: s.ExpandRev, query: s.Query, mode: s.Mode}

	c := &st.rows
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.key != key {
		rows, m := deriveRows(s)
		c.rows = rows
		c.matcher = m
		c.ids = model.RowIDs(rows)
		c.index = make(map[string]int, len(rows))
		for i, id := range c.ids {
			c.index[id] = i
		}
		c.key = key
		c.valid = true
		c.derived++
	}
	return c
}

// Rows returns the visible row list for the current snapshot. The result
// is shared; do not modify it.
func (st *Store) Rows() []model.Row {
	return st.cached().rows
}

// VisibleIDs returns the ids of Rows in order.
func (st *Store) VisibleIDs() []string {
	return st.cached().ids
}

// RowIndex returns the position of id in Rows.
func (st *Store) RowIndex(id string) (int, bool) {
	c := st.cached()
	i, ok := c.index[id]
	return i, ok
}

func (st *Store) derivations() int {
	st.rows.mu.Lock()
	defer st.rows.mu.Unlock()
	return st.rows.derived
}

func (st *Store) windowParams(s State, total int) viewport.Params {
	return viewport.Params{
		Total:          total,
		RowHeight:      model.ItemHeight,
		ViewportHeight: s.ViewportHeight,
		ScrollTop:      s.ScrollTop,
		Overscan:       s.Overscan,
	}
}

// Window returns the virtualization window for the current scroll offset.
func (st *Store) Window() viewport.Window {
	return viewport.Compute(st.windowParams(st.Snapshot(), len(st.Rows())))
}

// Geometry returns the bounds of the rows the current window renders.
func (st *Store) Geometry() *dnd.Layout {
	rows := st.Rows()
	w := viewport.Compute(st.windowParams(st.Snapshot(), len(rows)))
	return dnd.NewLayout(rows, model.ItemHeight, w.Start, w.End)
}

// RowView is everything a presentation needs to draw one row.
type RowView struct {
	model.Row
	Index    int             // position in the full row list
	Top      float64         // content y of the row's top edge
	Expanded bool            // children are shown
	Selected bool
	Dragged  bool            // part of the drag in progress
	Drop     *model.Position // drop indicator on this row, if any
	Context  bool            // shown only as an ancestor of a search match
	Flat     bool            // flat mode: no expander, no drag
}

// RowViews returns the rows inside the current window, decorated with
// their selection, drag, and expansion flags.
func (st *Store) RowViews() []RowView {
	s := st.Snapshot()
	c := st.cached()
	w := viewport.Compute(st.windowParams(s, len(c.rows)))

	dragged := model.NewIDSet(s.Dragged...)
	out := make([]RowView, 0, w.Len())
	for i := w.Start; i < w.End; i++ {
		r := c.rows[i]
		v := RowView{
			Row:      r,
			Index:    i,
			Top:      float64(i) * model.ItemHeight,
			Expanded: r.HasChildren && s.Mode == model.ModeTree && (s.Expanded.Has(r.ID) || c.matcher != nil),
			Selected: s.Selection.IsSelected(r.ID),
			Dragged:  dragged.Has(r.ID),
			Flat:     s.Mode == model.ModeFlat,
		}
		if c.matcher != nil && s.Mode == model.ModeTree && !c.matcher.Match(r.Name) {
			v.Context = true
		}
		if s.DropTarget != nil && s.DropTarget.ID == r.ID {
			pos := s.DropTarget.Position
			v.Drop = &pos
		}
		out = append(out, v)
	}
	return out
}

// Summarize builds the inspector view of the current snapshot.
func (st *Store) Summarize() Summary {
	s := st.Snapshot()
	w := st.Window()
	var dragging any = "None"
	if len(s.Dragged) > 0 {
		dragging = s.Dragged
	}
	return Summary{
		Search:      s.Query,
		Mode:        s.Mode,
		Selected:    s.Selection.Selected.Sorted(),
		Anchor:      s.Selection.Anchor,
		Dragging:    dragging,
		DropTarget:  s.DropTarget,
		Expanded:    s.Expanded.Len(),
		TotalNodes:  tree.Count(s.Data),
		VisibleRows: len(st.Rows()),
		Window:      [2]int{w.Start, w.End},
	}
}
