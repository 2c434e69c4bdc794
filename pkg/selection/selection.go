// Package selection implements multi-select over the visible row order:
// plain clicks, toggles, and anchored ranges.
package selection

import "github.com/vanderheijden86/dirtree/pkg/model"

// Click is the kind of selection gesture.
type Click int

const (
	Plain  Click = iota // replace selection with the clicked id
	Toggle              // add or remove the clicked id
	Range               // select the contiguous run from the anchor
)

func (c Click) String() string {
	switch c {
	case Toggle:
		return "toggle"
	case Range:
		return "range"
	}
	return "plain"
}

// State is the selected id set plus the anchor used by range clicks.
// An empty Anchor means there is none.
type State struct {
	Selected model.IDSet `json:"selected"`
	Anchor   string      `json:"anchor,omitempty"`
}

// Single returns a state selecting only id, anchored on it.
func Single(id string) State {
	return State{Selected: model.NewIDSet(id), Anchor: id}
}

// IsSelected reports whether id is selected.
func (s State) IsSelected(id string) bool {
	return s.Selected.Has(id)
}

// Len returns the number of selected ids.
func (s State) Len() int {
	return s.Selected.Len()
}

// Apply returns the state after a click of the given kind on id.
// visibleOrder is the current row order; range clicks resolve against it.
func Apply(s State, id string, kind Click, visibleOrder []string) State {
	switch kind {
	case Toggle:
		return State{Selected: s.Selected.Toggle(id), Anchor: id}
	case Range:
		if r, ok := rangeBetween(s.Anchor, id, visibleOrder); ok {
			return State{Selected: model.NewIDSet(r...), Anchor: s.Anchor}
		}
	}
	return Single(id)
}

func rangeBetween(anchor, id string, order []string) ([]string, bool) {
	if anchor == "" {
		return nil, false
	}
	from, to := -1, -1
	for i, v := range order {
		if v == anchor {
			from = i
		}
		if v == id {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return nil, false
	}
	if from > to {
		from, to = to, from
	}
	return order[from : to+1], true
}

// Prune drops ids for which alive returns false. The anchor is cleared if
// it no longer exists.
func Prune(s State, alive func(id string) bool) State {
	out := State{Selected: make(model.IDSet, s.Selected.Len()), Anchor: s.Anchor}
	for id := range s.Selected {
		if alive(id) {
			out.Selected[id] = struct{}{}
		}
	}
	if out.Anchor != "" && !alive(out.Anchor) {
		out.Anchor = ""
	}
	return out
}

// Ordered returns the selected ids that appear in visibleOrder, in that
// order, followed by any selected ids not currently visible in lexical
// order.
func Ordered(s State, visibleOrder []string) []string {
	out := make([]string, 0, s.Selected.Len())
	seen := make(model.IDSet, s.Selected.Len())
	for _, id := range visibleOrder {
		if s.Selected.Has(id) && !seen.Has(id) {
			out = append(out, id)
			seen[id] = struct{}{}
		}
	}
	for _, id := range s.Selected.Sorted() {
		if !seen.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
