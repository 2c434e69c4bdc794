package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

// ForestDiff describes how a reloaded hierarchy differs from the previous one.
type ForestDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	// Renamed holds ids whose name changed.
	Renamed []string `json:"renamed,omitempty"`
	// Moved holds ids whose parent or sibling position changed.
	Moved  []string `json:"moved,omitempty"`
	CountA int      `json:"count_a"`
	CountB int      `json:"count_b"`
}

// IsEmpty reports whether the two forests are identical.
func (d ForestDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Renamed) == 0 && len(d.Moved) == 0
}

// Summary returns a one-line description for a status bar.
func (d ForestDiff) Summary() string {
	if d.IsEmpty() {
		return fmt.Sprintf("no changes (%d nodes)", d.CountB)
	}
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(len(d.Added), "added")
	add(len(d.Removed), "removed")
	add(len(d.Renamed), "renamed")
	add(len(d.Moved), "moved")
	return strings.Join(parts, ", ")
}

type placement struct {
	name     string
	parent   string
	position int
}

func index(nodes []model.Node) map[string]placement {
	out := make(map[string]placement)
	var walk func(level []model.Node, parent string)
	walk = func(level []model.Node, parent string) {
		for i, n := range level {
			out[n.ID] = placement{name: n.Name, parent: parent, position: i}
			walk(n.Children, n.ID)
		}
	}
	walk(nodes, model.RootID)
	return out
}

// DiffForests compares two hierarchies by id. Result slices are sorted.
func DiffForests(a, b []model.Node) ForestDiff {
	ia, ib := index(a), index(b)
	diff := ForestDiff{CountA: len(ia), CountB: len(ib)}

	for id := range ia {
		if _, ok := ib[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}
	for id, pb := range ib {
		pa, ok := ia[id]
		if !ok {
			diff.Added = append(diff.Added, id)
			continue
		}
		if pa.name != pb.name {
			diff.Renamed = append(diff.Renamed, id)
		}
		if pa.parent != pb.parent || pa.position != pb.position {
			diff.Moved = append(diff.Moved, id)
		}
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Renamed)
	sort.Strings(diff.Moved)
	return diff
}
