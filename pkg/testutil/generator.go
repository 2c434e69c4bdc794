// Package testutil provides forest fixtures and assertions for tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

// GeneratorConfig controls forest generation.
type GeneratorConfig struct {
	Seed        int64  // Random seed for determinism (0 = use current time)
	IDPrefix    string // Prefix for node ids (default: "n")
	MaxDepth    int    // Deepest nesting for Random (default: 4)
	MaxChildren int    // Widest fan-out for Random (default: 5)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		IDPrefix:    "n",
		MaxDepth:    4,
		MaxChildren: 5,
	}
}

// Generator builds forests of folder nodes.
type Generator struct {
	cfg  GeneratorConfig
	rng  *rand.Rand
	next int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "n"
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 4
	}
	if cfg.MaxChildren <= 0 {
		cfg.MaxChildren = 5
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) node(children ...model.Node) model.Node {
	id := fmt.Sprintf("%s%d", g.cfg.IDPrefix, g.next)
	g.next++
	return model.Folder(id, "Folder "+id, children...)
}

// Chain builds a single path of size nested nodes: n0 > n1 > ... > n{size-1}.
func (g *Generator) Chain(size int) []model.Node {
	if size <= 0 {
		return []model.Node{}
	}
	ids := make([]model.Node, size)
	for i := range ids {
		ids[i] = g.node()
	}
	for i := size - 2; i >= 0; i-- {
		ids[i].Children = []model.Node{ids[i+1]}
	}
	return []model.Node{ids[0]}
}

// Wide builds size top-level leaves.
func (g *Generator) Wide(size int) []model.Node {
	out := make([]model.Node, size)
	for i := range out {
		out[i] = g.node()
	}
	return out
}

// Balanced builds a single root with breadth children per node, depth levels
// below it.
func (g *Generator) Balanced(depth, breadth int) []model.Node {
	var build func(level int) model.Node
	build = func(level int) model.Node {
		n := g.node()
		if level < depth {
			n.Children = make([]model.Node, breadth)
			for i := range n.Children {
				n.Children[i] = build(level + 1)
			}
		}
		return n
	}
	return []model.Node{build(0)}
}

// Random builds roughly size nodes with random nesting bounded by the
// config's depth and fan-out limits.
func (g *Generator) Random(size int) []model.Node {
	remaining := size
	var build func(depth int) []model.Node
	build = func(depth int) []model.Node {
		out := []model.Node{}
		width := 1 + g.rng.Intn(g.cfg.MaxChildren)
		for i := 0; i < width && remaining > 0; i++ {
			remaining--
			n := g.node()
			if depth < g.cfg.MaxDepth && g.rng.Intn(2) == 0 {
				n.Children = build(depth + 1)
			}
			out = append(out, n)
		}
		return out
	}
	var forest []model.Node
	for remaining > 0 {
		forest = append(forest, build(0)...)
	}
	if forest == nil {
		forest = []model.Node{}
	}
	return forest
}

// LoadTest builds the single container used for search and windowing
// stress: "Load Test (n items)" with children "Test Folder 1".."Test Folder n".
func LoadTest(n int) model.Node {
	children := make([]model.Node, n)
	for i := range children {
		children[i] = model.Folder(fmt.Sprintf("load-test-%d", i), fmt.Sprintf("Test Folder %d", i+1))
	}
	return model.Folder("load-test", fmt.Sprintf("Load Test (%d items)", n), children...)
}

// QuickRandom builds a random forest of roughly size nodes with the default config.
func QuickRandom(size int) []model.Node {
	return NewDefault().Random(size)
}

// QuickBalanced builds a balanced tree with the default config.
func QuickBalanced(depth, breadth int) []model.Node {
	return NewDefault().Balanced(depth, breadth)
}

// Letters builds top-level leaves whose ids and names are the given strings.
func Letters(ids ...string) []model.Node {
	out := make([]model.Node, len(ids))
	for i, id := range ids {
		out[i] = model.Folder(id, id)
	}
	return out
}
