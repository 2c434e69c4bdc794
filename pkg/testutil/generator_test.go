package testutil

import (
	"reflect"
	"testing"
)

func TestChain(t *testing.T) {
	forest := NewDefault().Chain(4)
	if len(forest) != 1 {
		t.Fatalf("expected single root, got %d", len(forest))
	}
	AssertNodeCount(t, forest, 4)
	AssertValidForest(t, forest)

	depth := 0
	n := forest[0]
	for len(n.Children) > 0 {
		depth++
		n = n.Children[0]
	}
	if depth != 3 {
		t.Errorf("expected depth 3, got %d", depth)
	}
}

func TestBalanced(t *testing.T) {
	forest := QuickBalanced(2, 3)
	// 1 + 3 + 9
	AssertNodeCount(t, forest, 13)
	AssertValidForest(t, forest)
}

func TestRandomSizeAndUniqueness(t *testing.T) {
	forest := QuickRandom(200)
	AssertNodeCount(t, forest, 200)
	AssertValidForest(t, forest)
}

func TestLoadTest(t *testing.T) {
	lt := LoadTest(1000)
	if len(lt.Children) != 1000 {
		t.Fatalf("expected 1000 children, got %d", len(lt.Children))
	}
	if lt.Children[0].Name != "Test Folder 1" || lt.Children[999].Name != "Test Folder 1000" {
		t.Errorf("unexpected names %q / %q", lt.Children[0].Name, lt.Children[999].Name)
	}
	if lt.Name != "Load Test (1000 items)" {
		t.Errorf("unexpected container name %q", lt.Name)
	}
}

func TestDeterminism(t *testing.T) {
	a := New(GeneratorConfig{Seed: 7}).Random(50)
	b := New(GeneratorConfig{Seed: 7}).Random(50)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should produce identical forests")
	}
}

func TestEmptyChain(t *testing.T) {
	if got := NewDefault().Chain(0); len(got) != 0 {
		t.Errorf("expected empty forest, got %d roots", len(got))
	}
}
