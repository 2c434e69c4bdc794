package testutil

import (
	"fmt"

	"github.com/vanderheijden86/dirtree/pkg/model"
	"pgregory.net/rapid"
)

// ForestGen draws forests with unique ids for property tests. Names are
// drawn from a small alphabet so searches hit often.
func ForestGen(maxNodes int) *rapid.Generator[[]model.Node] {
	return rapid.Custom(func(t *rapid.T) []model.Node {
		budget := rapid.IntRange(0, maxNodes).Draw(t, "size")
		next := 0
		var build func(depth int) []model.Node
		build = func(depth int) []model.Node {
			out := []model.Node{}
			width := rapid.IntRange(0, 4).Draw(t, "width")
			for i := 0; i < width && budget > 0; i++ {
				budget--
				id := fmt.Sprintf("id%d", next)
				next++
				name := rapid.SampledFrom([]string{"src", "lib", "utils", "Docs", "test", "a.b", "x*y"}).Draw(t, "name")
				n := model.Folder(id, name+" "+id)
				if depth < 4 && rapid.Bool().Draw(t, "nest") {
					n.Children = build(depth + 1)
				}
				out = append(out, n)
			}
			return out
		}
		forest := build(0)
		for i := 0; i < 3 && budget > 0; i++ {
			forest = append(forest, build(0)...)
		}
		return forest
	})
}

// ExpandedGen draws a subset of the forest's ids, sometimes with stale ids mixed in.
func ExpandedGen(t *rapid.T, ids []string) model.IDSet {
	out := make(model.IDSet)
	for _, id := range ids {
		if rapid.Bool().Draw(t, "expand-"+id) {
			out[id] = struct{}{}
		}
	}
	if rapid.Bool().Draw(t, "stale") {
		out["stale-id"] = struct{}{}
	}
	return out
}
