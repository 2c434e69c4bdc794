package tree

import "github.com/vanderheijden86/dirtree/pkg/model"

// FlatProjection lists every node in the forest in pre-order as a depth-0,
// childless, parentless row, regardless of expansion. When m is non-nil
// only nodes whose own name matches are listed.
func FlatProjection(nodes []model.Node, m Matcher) []model.Row {
	rows := make([]model.Row, 0, len(nodes))
	var walk func([]model.Node)
	walk = func(level []model.Node) {
		for _, n := range level {
			if m == nil || m.Match(n.Name) {
				rows = append(rows, model.Row{ID: n.ID, Name: n.Name, Kind: n.Kind})
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return rows
}
