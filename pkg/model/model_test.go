package model

import (
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

func TestValidateForest(t *testing.T) {
	good := []Node{
		Folder("a", "A", Folder("b", "B")),
		Folder("c", "C"),
	}
	if err := ValidateForest(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := []Node{Folder("a", "A", Folder("a", "again"))}
	if err := ValidateForest(dup); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}

	blank := []Node{Folder("a", "   ")}
	if err := ValidateForest(blank); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	reserved := []Node{Folder(RootID, "root")}
	if err := ValidateForest(reserved); !errors.Is(err, ErrReservedID) {
		t.Errorf("expected ErrReservedID, got %v", err)
	}

	kind := []Node{{ID: "x", Name: "X", Kind: "file"}}
	if err := ValidateForest(kind); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Folder("a", "A", Folder("b", "B"))
	cp := orig.Clone()
	cp.Children[0].Name = "changed"
	if orig.Children[0].Name != "B" {
		t.Errorf("clone shares children with original")
	}
}

func TestIDSetCopyOnWrite(t *testing.T) {
	s := NewIDSet("a", "b")
	s2 := s.With("c")
	if s.Has("c") {
		t.Error("With mutated the receiver")
	}
	s3 := s2.Toggle("a")
	if !s2.Has("a") || s3.Has("a") {
		t.Error("Toggle should copy")
	}
	if got := s3.Sorted(); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Sorted = %v", got)
	}
	var nilSet IDSet
	if nilSet.Has("a") {
		t.Error("nil set should be empty")
	}
	if !nilSet.With("a").Has("a") {
		t.Error("With on nil set should work")
	}
}

func TestParseViewMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ViewMode
		wantErr bool
	}{
		{"tree", ModeTree, false},
		{"flat", ModeFlat, false},
		{"", ModeTree, false},
		{"board", ModeTree, true},
	}
	for _, tt := range tests {
		got, err := ParseViewMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseViewMode(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseViewMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNodeEncodingKeepsEmptyChildren(t *testing.T) {
	forest := []Node{
		{ID: "a", Name: "A", Kind: KindFolder, Children: []Node{}},
		Folder("b", "B", Folder("c", "C")),
	}

	data, err := json.Marshal(forest)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"id":"a","name":"A","type":"folder","children":[]},` +
		`{"id":"b","name":"B","type":"folder","children":[{"id":"c","name":"C","type":"folder"}]}]`
	if string(data) != want {
		t.Errorf("json =\n%s\nwant\n%s", data, want)
	}

	var back []Node
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[0].Children == nil {
		t.Error("empty children decoded as missing")
	}
	if back[1].Children[0].Children != nil {
		t.Error("missing children decoded as empty")
	}

	out, err := yaml.Marshal(forest)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(string(out), "children: []") {
		t.Errorf("yaml lost the empty children list:\n%s", out)
	}
	if strings.Count(string(out), "children:") != 2 {
		t.Errorf("yaml should only carry the two children fields:\n%s", out)
	}
}
