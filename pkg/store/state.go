// Package store owns the authoritative tree state and the actions that
// change it. Every action builds a new immutable State and swaps it in
// atomically, so readers always see a consistent snapshot. Row derivation
// is memoized on the inputs that affect it (data, expansion, query, mode).
package store

import (
	"github.com/vanderheijden86/dirtree/pkg/dnd"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/selection"
)

// State is one immutable snapshot of the store. Data, Expanded, Selection
// and Dragged are shared between snapshots and are only ever replaced,
// never written in place. Never modify a State obtained from Snapshot; use
// the Store's actions.
type State struct {
	Data       []model.Node    `json:"-"`
	Expanded   model.IDSet     `json:"-"`
	Selection  selection.State `json:"selection"`
	Dragged    []string        `json:"dragging,omitempty"`
	DropTarget *dnd.Target     `json:"drop_target,omitempty"`
	Query      string          `json:"search"`
	Mode       model.ViewMode  `json:"mode"`

	ScrollTop      float64 `json:"scroll_top"`
	ViewportHeight float64 `json:"viewport_height"`
	Overscan       int     `json:"overscan"`

	// Revisions bump whenever Data or Expanded is replaced. Row derivation
	// is keyed on them.
	DataRev   uint64 `json:"data_rev"`
	ExpandRev uint64 `json:"expand_rev"`
}

// IsDragging reports whether a drag is in progress.
func (s State) IsDragging() bool {
	return len(s.Dragged) > 0
}

// DragEnabled reports whether drag and drop is available in the current mode.
func (s State) DragEnabled() bool {
	return s.Mode != model.ModeFlat
}

// Summary is the JSON-friendly view of a snapshot shown by the state
// inspector.
type Summary struct {
	Search      string         `json:"search"`
	Mode        model.ViewMode `json:"mode"`
	Selected    []string       `json:"selected"`
	Anchor      string         `json:"anchor,omitempty"`
	Dragging    any            `json:"dragging"`
	DropTarget  *dnd.Target    `json:"drop_target,omitempty"`
	Expanded    int            `json:"expanded"`
	TotalNodes  int            `json:"total_nodes"`
	VisibleRows int            `json:"visible_rows"`
	Window      [2]int         `json:"window"`
}

func (s *State) clone() *State {
	cp := *s
	return &cp
}
