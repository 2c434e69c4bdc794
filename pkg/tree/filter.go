package tree

import (
	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
)

// Filter keeps every node whose name matches, plus all of its ancestors.
// A container with no matching descendants is dropped unless it matches
// itself. Retained nodes always carry a non-nil Children slice holding only
// retained children.
//
// kept holds the ids of retained nodes with at least one retained child,
// which is exactly the set of ancestors of matches. Presentation expands
// those so the matches are visible.
func Filter(nodes []model.Node, m Matcher) (filtered []model.Node, kept model.IDSet) {
	defer metrics.Timer(metrics.Filter)()

	kept = make(model.IDSet)
	var walk func([]model.Node) []model.Node
	walk = func(level []model.Node) []model.Node {
		out := make([]model.Node, 0)
		for _, n := range level {
			children := walk(n.Children)
			if len(children) > 0 {
				kept[n.ID] = struct{}{}
			}
			if m.Match(n.Name) || len(children) > 0 {
				n.Children = children
				out = append(out, n)
			}
		}
		return out
	}
	return walk(nodes), kept
}
