package loader

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

// Record is a node stored flat, linked to its parent by id. Flat records
// are how JSONL files and SQLite tables hold a hierarchy.
type Record struct {
	ID       string     `json:"id"`
	ParentID string     `json:"parent_id,omitempty"`
	Name     string     `json:"name"`
	Kind     model.Kind `json:"type,omitempty"`
	Position int        `json:"position,omitempty"`
}

// Errors from BuildForest.
var (
	ErrCycle         = errors.New("parent links form a cycle")
	ErrMissingParent = errors.New("record references unknown parent")
)

// BuildForest assembles flat records into a forest. Siblings are ordered
// by Position, then by record order. Records are rejected if ids repeat,
// a parent id is unknown, or the parent links form a cycle.
func BuildForest(records []Record) ([]model.Node, error) {
	index := make(map[string]int, len(records))
	for i, rec := range records {
		if _, dup := index[rec.ID]; dup {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateID, rec.ID)
		}
		index[rec.ID] = i
	}

	// Node ids in the graph are record indexes; edges run parent -> child.
	g := simple.NewDirectedGraph()
	for i := range records {
		g.AddNode(simple.Node(int64(i)))
	}
	children := make(map[string][]int)
	var roots []int
	for i, rec := range records {
		if rec.ParentID == "" {
			roots = append(roots, i)
			continue
		}
		p, ok := index[rec.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrMissingParent, rec.ID, rec.ParentID)
		}
		if p == i {
			return nil, fmt.Errorf("%w: %s is its own parent", ErrCycle, rec.ID)
		}
		g.SetEdge(g.NewEdge(simple.Node(int64(p)), simple.Node(int64(i))))
		children[rec.ParentID] = append(children[rec.ParentID], i)
	}
	if _, err := topo.Sort(g); err != nil {
		var cyclic topo.Unorderable
		if errors.As(err, &cyclic) && len(cyclic) > 0 && len(cyclic[0]) > 0 {
			return nil, fmt.Errorf("%w (involving %s)", ErrCycle, records[cyclic[0][0].ID()].ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}

	byPosition := func(ids []int) {
		sort.SliceStable(ids, func(a, b int) bool {
			return records[ids[a]].Position < records[ids[b]].Position
		})
	}
	var build func(i int) model.Node
	build = func(i int) model.Node {
		rec := records[i]
		kind := rec.Kind
		if kind == "" {
			kind = model.KindFolder
		}
		n := model.Node{ID: rec.ID, Name: rec.Name, Kind: kind, Children: []model.Node{}}
		kids := children[rec.ID]
		byPosition(kids)
		for _, k := range kids {
			n.Children = append(n.Children, build(k))
		}
		return n
	}

	byPosition(roots)
	forest := make([]model.Node, 0, len(roots))
	for _, i := range roots {
		forest = append(forest, build(i))
	}
	return forest, nil
}

// Records flattens a forest into records with sibling positions, parents
// before children.
func Records(nodes []model.Node) []Record {
	var out []Record
	var walk func(level []model.Node, parent string)
	walk = func(level []model.Node, parent string) {
		for i, n := range level {
			out = append(out, Record{ID: n.ID, ParentID: parent, Name: n.Name, Kind: n.Kind, Position: i})
			walk(n.Children, n.ID)
		}
	}
	walk(nodes, "")
	return out
}
