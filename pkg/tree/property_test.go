package tree

import (
	"testing"

	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/testutil"
	"pgregory.net/rapid"
)

// reachable counts nodes visible through expanded ancestors.
func reachable(nodes []model.Node, expanded model.IDSet) int {
	total := 0
	for _, n := range nodes {
		total++
		if expanded.Has(n.ID) {
			total += reachable(n.Children, expanded)
		}
	}
	return total
}

func TestProperty_FlattenCountMatchesReachable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodes := testutil.ForestGen(60).Draw(t, "forest")
		expanded := testutil.ExpandedGen(t, CollectIDs(nodes))

		rows := Flatten(nodes, expanded)
		if len(rows) != reachable(nodes, expanded) {
			t.Fatalf("flatten emitted %d rows, reachable %d", len(rows), reachable(nodes, expanded))
		}
	})
}

func TestProperty_CollapseRemovesExactlyVisibleSubtree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodes := testutil.ForestGen(60).Draw(t, "forest")
		ids := CollectIDs(nodes)
		if len(ids) == 0 {
			return
		}
		expanded := testutil.ExpandedGen(t, ids)
		target := rapid.SampledFrom(ids).Draw(t, "target")
		if !expanded.Has(target) {
			return
		}

		before := Flatten(nodes, expanded)
		after := Flatten(nodes, expanded.Without(target))

		n, _ := FindDeep(nodes, target)
		hidden := reachable(n.Children, expanded)
		visible := false
		for _, r := range before {
			if r.ID == target {
				visible = true
			}
		}
		if !visible {
			hidden = 0
		}
		if len(before)-len(after) != hidden {
			t.Fatalf("collapse removed %d rows, expected %d", len(before)-len(after), hidden)
		}
	})
}

func TestProperty_FilterKeptAreAncestorsOfMatches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodes := testutil.ForestGen(60).Draw(t, "forest")
		query := rapid.SampledFrom([]string{"src", "*tils", "DOCS", "a.b", "x*y", "id1", "zzz"}).Draw(t, "query")
		m := CompilePattern(query)

		filtered, kept := Filter(nodes, m)

		// every retained leaf matches
		var check func([]model.Node)
		check = func(level []model.Node) {
			for _, n := range level {
				if n.Children == nil {
					t.Fatalf("retained node %s has nil children", n.ID)
				}
				if len(n.Children) == 0 && !m.Match(n.Name) {
					t.Fatalf("retained leaf %s does not match", n.ID)
				}
				if (len(n.Children) > 0) != kept.Has(n.ID) {
					t.Fatalf("kept membership wrong for %s", n.ID)
				}
				check(n.Children)
			}
		}
		check(filtered)

		// every match in the original is retained
		for _, id := range CollectIDs(nodes) {
			n, _ := FindDeep(nodes, id)
			if m.Match(n.Name) && !Contains(filtered, id) {
				t.Fatalf("match %s dropped", id)
			}
		}
	})
}

func TestProperty_MovePreservesIDs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodes := testutil.ForestGen(40).Draw(t, "forest")
		ids := CollectIDs(nodes)
		if len(ids) < 2 {
			return
		}
		src := rapid.SampledFrom(ids).Draw(t, "src")
		dst := rapid.SampledFrom(ids).Draw(t, "dst")
		if src == dst || IsDescendant(nodes, src, dst) {
			return
		}
		pos := model.Position(rapid.IntRange(0, 2).Draw(t, "pos"))

		n, _ := FindDeep(nodes, src)
		out := InsertAt(RemoveByIDs(nodes, model.NewIDSet(src)), dst, []model.Node{n}, pos)

		if err := model.ValidateForest(out); err != nil {
			t.Fatalf("move produced invalid forest: %v", err)
		}
		if Count(out) != Count(nodes) {
			t.Fatalf("node count changed %d -> %d", Count(nodes), Count(out))
		}
	})
}
