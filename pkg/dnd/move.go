package dnd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/tree"
)

// Drop rejections. A rejected drop leaves the hierarchy untouched.
var (
	ErrNothingToMove      = errors.New("no nodes to move")
	ErrDropOnSelf         = errors.New("cannot drop onto a dragged node")
	ErrTargetNotFound     = errors.New("drop target not found")
	ErrDropIntoDescendant = errors.New("cannot drop a node into its own descendant")
)

// Move is a validated structural move ready to apply.
type Move struct {
	Sources  []string       // ids to detach, top-most only, in hierarchy order
	Target   string         // target id or model.RootID
	Position model.Position // where relative to Target
}

// Plan validates a drop of ids onto target and returns the move to apply.
//
// Unknown source ids are ignored. Sources nested under another source are
// folded into that ancestor, since moving the ancestor carries them along.
// The surviving sources are ordered by their position in the hierarchy so
// the moved block keeps its relative order.
//
// The drop is rejected when target is one of the dragged ids, does not
// exist, or sits inside a dragged subtree. Dropping on model.RootID always
// appends to the top level.
func Plan(nodes []model.Node, ids []string, target string, pos model.Position) (Move, error) {
	requested := model.NewIDSet(ids...)
	if requested.Has(target) {
		return Move{}, fmt.Errorf("%w: %s", ErrDropOnSelf, target)
	}

	order := tree.PreOrderIndex(nodes)
	var sources []string
	for id := range requested {
		if _, ok := order[id]; !ok {
			continue
		}
		if hasRequestedAncestor(nodes, id, requested) {
			continue
		}
		sources = append(sources, id)
	}
	if len(sources) == 0 {
		return Move{}, ErrNothingToMove
	}
	sort.Slice(sources, func(i, j int) bool { return order[sources[i]] < order[sources[j]] })

	if target == model.RootID {
		return Move{Sources: sources, Target: model.RootID, Position: model.Inside}, nil
	}
	if _, ok := order[target]; !ok {
		return Move{}, fmt.Errorf("%w: %s", ErrTargetNotFound, target)
	}
	for _, src := range sources {
		if tree.IsDescendant(nodes, src, target) {
			return Move{}, fmt.Errorf("%w: %s is inside %s", ErrDropIntoDescendant, target, src)
		}
	}
	return Move{Sources: sources, Target: target, Position: pos}, nil
}

func hasRequestedAncestor(nodes []model.Node, id string, requested model.IDSet) bool {
	path, _ := tree.AncestorsOf(nodes, id)
	for _, anc := range path {
		if requested.Has(anc) {
			return true
		}
	}
	return false
}

// Apply detaches the sources and re-inserts them at the target.
func (m Move) Apply(nodes []model.Node) []model.Node {
	moving := make([]model.Node, 0, len(m.Sources))
	for _, id := range m.Sources {
		if n, ok := tree.FindDeep(nodes, id); ok {
			moving = append(moving, n)
		}
	}
	cleaned := tree.RemoveByIDs(nodes, model.NewIDSet(m.Sources...))
	return tree.InsertAt(cleaned, m.Target, moving, m.Position)
}

// ExpandsTarget reports whether committing the move should expand the
// target so the moved nodes are visible.
func (m Move) ExpandsTarget() bool {
	return m.Position == model.Inside && m.Target != model.RootID
}
