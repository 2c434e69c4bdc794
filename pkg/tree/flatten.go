// Package tree holds the pure transforms over a node forest: expansion-aware
// flattening, search filtering, the flat projection, and the structural
// mutations (remove, insert, rename) used by moves and edits.
//
// Nothing in this package mutates its inputs. Mutations return a new forest
// that shares untouched subtrees with the old one, so callers must treat
// every Node as an immutable value.
package tree

import (
	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
)

// Flatten walks the forest in pre-order and returns one row per node that
// is reachable through expanded ancestors. A node's children are emitted
// only when its id is in expanded. Ids in expanded that are not in the
// forest are ignored.
func Flatten(nodes []model.Node, expanded model.IDSet) []model.Row {
	defer metrics.Timer(metrics.Flatten)()

	rows := make([]model.Row, 0, len(nodes))
	var walk func(level []model.Node, depth int, parentID string)
	walk = func(level []model.Node, depth int, parentID string) {
		for _, n := range level {
			rows = append(rows, model.Row{
				ID:          n.ID,
				Name:        n.Name,
				Kind:        n.Kind,
				Depth:       depth,
				ParentID:    parentID,
				HasChildren: len(n.Children) > 0,
				ChildCount:  len(n.Children),
			})
			if len(n.Children) > 0 && expanded.Has(n.ID) {
				walk(n.Children, depth+1, n.ID)
			}
		}
	}
	walk(nodes, 0, "")
	return rows
}

// Count returns the total number of nodes in the forest.
func Count(nodes []model.Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + Count(n.Children)
	}
	return total
}

// CollectIDs returns every id in the forest in pre-order.
func CollectIDs(nodes []model.Node) []string {
	ids := make([]string, 0, len(nodes))
	var walk func([]model.Node)
	walk = func(level []model.Node) {
		for _, n := range level {
			ids = append(ids, n.ID)
			walk(n.Children)
		}
	}
	walk(nodes)
	return ids
}

// ContainerIDs returns the ids of every node that has children.
func ContainerIDs(nodes []model.Node) model.IDSet {
	out := make(model.IDSet)
	var walk func([]model.Node)
	walk = func(level []model.Node) {
		for _, n := range level {
			if len(n.Children) > 0 {
				out[n.ID] = struct{}{}
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return out
}

// PreOrderIndex maps every id to its position in a pre-order walk of the
// whole forest, ignoring expansion.
func PreOrderIndex(nodes []model.Node) map[string]int {
	idx := make(map[string]int)
	for i, id := range CollectIDs(nodes) {
		if _, seen := idx[id]; !seen {
			idx[id] = i
		}
	}
	return idx
}
