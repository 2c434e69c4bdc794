package selection

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

var order = []string{"a", "b", "c", "d", "e"}

func TestPlainClick(t *testing.T) {
	s := Apply(State{Selected: model.NewIDSet("a", "b"), Anchor: "a"}, "c", Plain, order)
	if !s.Selected.Equal(model.NewIDSet("c")) || s.Anchor != "c" {
		t.Errorf("plain click: %+v", s)
	}
}

func TestToggleClick(t *testing.T) {
	s := Single("a")
	s = Apply(s, "c", Toggle, order)
	if !s.Selected.Equal(model.NewIDSet("a", "c")) || s.Anchor != "c" {
		t.Fatalf("toggle add: %+v", s)
	}
	s = Apply(s, "a", Toggle, order)
	if !s.Selected.Equal(model.NewIDSet("c")) {
		t.Fatalf("toggle remove: %+v", s)
	}
	// anchor moves even when the toggle deselects
	if s.Anchor != "a" {
		t.Errorf("anchor = %q, want a", s.Anchor)
	}
}

func TestRangeClick(t *testing.T) {
	s := Single("b")
	s = Apply(s, "d", Range, order)
	if !s.Selected.Equal(model.NewIDSet("b", "c", "d")) {
		t.Fatalf("range b..d = %v", s.Selected.Sorted())
	}
	if s.Anchor != "b" {
		t.Errorf("range should keep anchor, got %q", s.Anchor)
	}

	s = Apply(s, "a", Range, order)
	if !s.Selected.Equal(model.NewIDSet("a", "b")) {
		t.Errorf("range b..a = %v", s.Selected.Sorted())
	}
}

func TestRangeOnAnchorSelectsAnchorOnly(t *testing.T) {
	s := Apply(Single("c"), "c", Range, order)
	if !s.Selected.Equal(model.NewIDSet("c")) {
		t.Errorf("got %v", s.Selected.Sorted())
	}
}

func TestRangeDegeneratesToPlain(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		order  []string
	}{
		{"no anchor", "", order},
		{"anchor hidden", "zz", order},
		{"anchor collapsed away", "b", []string{"a", "c", "d", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Apply(State{Selected: model.NewIDSet("x"), Anchor: tt.anchor}, "d", Range, tt.order)
			if !s.Selected.Equal(model.NewIDSet("d")) || s.Anchor != "d" {
				t.Errorf("expected plain fallback, got %+v", s)
			}
		})
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	s := State{Selected: model.NewIDSet("a"), Anchor: "a"}
	Apply(s, "b", Toggle, order)
	if !s.Selected.Equal(model.NewIDSet("a")) {
		t.Error("Apply mutated the input selection")
	}
}

func TestPrune(t *testing.T) {
	alive := model.NewIDSet("a", "c")
	s := Prune(State{Selected: model.NewIDSet("a", "b", "c"), Anchor: "b"}, alive.Has)
	if !s.Selected.Equal(model.NewIDSet("a", "c")) {
		t.Errorf("pruned = %v", s.Selected.Sorted())
	}
	if s.Anchor != "" {
		t.Errorf("stale anchor should be cleared, got %q", s.Anchor)
	}
}

func TestOrdered(t *testing.T) {
	s := State{Selected: model.NewIDSet("e", "b", "zz", "aa")}
	got := Ordered(s, order)
	want := []string{"b", "e", "aa", "zz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered = %v, want %v", got, want)
	}
}
