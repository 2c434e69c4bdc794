package tree

import "github.com/vanderheijden86/dirtree/pkg/model"

// FindDeep returns the first node with id in a depth-first search.
func FindDeep(nodes []model.Node, id string) (model.Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
		if found, ok := FindDeep(n.Children, id); ok {
			return found, true
		}
	}
	return model.Node{}, false
}

// Contains reports whether id exists anywhere in the forest.
func Contains(nodes []model.Node, id string) bool {
	_, ok := FindDeep(nodes, id)
	return ok
}

// IsDescendant reports whether id sits strictly below ancestorID.
func IsDescendant(nodes []model.Node, ancestorID, id string) bool {
	anc, ok := FindDeep(nodes, ancestorID)
	if !ok {
		return false
	}
	return Contains(anc.Children, id)
}

// AncestorsOf returns the ids on the path from the top level down to id's
// parent, outermost first. ok is false when id is not in the forest.
func AncestorsOf(nodes []model.Node, id string) (path []string, ok bool) {
	for _, n := range nodes {
		if n.ID == id {
			return nil, true
		}
		if sub, found := AncestorsOf(n.Children, id); found {
			return append([]string{n.ID}, sub...), true
		}
	}
	return nil, false
}

// RemoveByIDs excises every node whose id is in ids, at any depth, along
// with its subtree. Sibling order is preserved.
func RemoveByIDs(nodes []model.Node, ids model.IDSet) []model.Node {
	if nodes == nil {
		return nil
	}
	out := make([]model.Node, 0, len(nodes))
	for _, n := range nodes {
		if ids.Has(n.ID) {
			continue
		}
		if n.Children != nil {
			n.Children = RemoveByIDs(n.Children, ids)
		}
		out = append(out, n)
	}
	return out
}

// InsertAt splices insert relative to the node with targetID. Before and
// After place the nodes as siblings of the target; Inside appends them to
// the target's children. The RootID target appends to the top level. A
// target that is not found leaves the forest unchanged.
func InsertAt(nodes []model.Node, targetID string, insert []model.Node, pos model.Position) []model.Node {
	if targetID == model.RootID {
		out := make([]model.Node, 0, len(nodes)+len(insert))
		out = append(out, nodes...)
		return append(out, insert...)
	}
	out, _ := insertAt(nodes, targetID, insert, pos)
	return out
}

func insertAt(nodes []model.Node, targetID string, insert []model.Node, pos model.Position) ([]model.Node, bool) {
	for i, n := range nodes {
		if n.ID != targetID {
			continue
		}
		out := make([]model.Node, 0, len(nodes)+len(insert))
		switch pos {
		case model.Before:
			out = append(out, nodes[:i]...)
			out = append(out, insert...)
			out = append(out, nodes[i:]...)
		case model.After:
			out = append(out, nodes[:i+1]...)
			out = append(out, insert...)
			out = append(out, nodes[i+1:]...)
		default:
			out = append(out, nodes...)
			children := make([]model.Node, 0, len(n.Children)+len(insert))
			children = append(children, n.Children...)
			n.Children = append(children, insert...)
			out[i] = n
		}
		return out, true
	}
	for i, n := range nodes {
		children, done := insertAt(n.Children, targetID, insert, pos)
		if !done {
			continue
		}
		out := make([]model.Node, len(nodes))
		copy(out, nodes)
		n.Children = children
		out[i] = n
		return out, true
	}
	return nodes, false
}

// RenameByID returns a forest where the node with id carries name. Nothing
// else about the node changes. An unknown id leaves the forest unchanged.
func RenameByID(nodes []model.Node, id, name string) []model.Node {
	out, _ := renameByID(nodes, id, name)
	return out
}

func renameByID(nodes []model.Node, id, name string) ([]model.Node, bool) {
	for i, n := range nodes {
		if n.ID == id {
			n.Name = name
		} else {
			children, done := renameByID(n.Children, id, name)
			if !done {
				continue
			}
			n.Children = children
		}
		out := make([]model.Node, len(nodes))
		copy(out, nodes)
		out[i] = n
		return out, true
	}
	return nodes, false
}
