// Package model defines the hierarchy types shared by every dirtree package:
// the canonical Node forest, the Row projection derived from it for display,
// and the small enums and constants the layout and windowing code agree on.
package model

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind tags a node. The set is closed; folder is the only variant.
type Kind string

const (
	KindFolder Kind = "folder"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindFolder:
		return true
	}
	return false
}

// Node is one element of the canonical hierarchy.
//
// Children is ordered and owned by the node. A nil slice means the node has
// no children field at all; an empty non-nil slice is an explicit empty
// container and encodes as "children": []. Both render as childless.
type Node struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"type" yaml:"type"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// nodeWire is the encoded form of Node. The pointer keeps an empty
// children list apart from a missing one.
type nodeWire struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Kind     Kind    `json:"type" yaml:"type"`
	Children *[]Node `json:"children,omitempty" yaml:"children,omitempty"`
}

func (n Node) wire() nodeWire {
	w := nodeWire{ID: n.ID, Name: n.Name, Kind: n.Kind}
	if n.Children != nil {
		w.Children = &n.Children
	}
	return w
}

// MarshalJSON encodes the node, keeping an explicit empty children list.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.wire())
}

// MarshalYAML is the YAML counterpart of MarshalJSON.
func (n Node) MarshalYAML() (any, error) {
	return n.wire(), nil
}

// Folder builds a folder node with the given children.
func Folder(id, name string, children ...Node) Node {
	return Node{ID: id, Name: name, Kind: KindFolder, Children: children}
}

// HasChildren reports whether the node has at least one child.
func (n Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	if n.Children != nil {
		out.Children = CloneForest(n.Children)
	}
	return out
}

// CloneForest deep-copies a forest.
func CloneForest(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

var (
	ErrEmptyID     = errors.New("node id is empty")
	ErrEmptyName   = errors.New("node name is empty")
	ErrUnknownKind = errors.New("unknown node kind")
	ErrDuplicateID = errors.New("duplicate node id")
	ErrReservedID  = errors.New("node id is reserved")
)

// Validate checks the node's own fields. It does not descend into children.
func (n Node) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if n.ID == RootID {
		return fmt.Errorf("%w: %q", ErrReservedID, n.ID)
	}
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyName, n.ID)
	}
	if !n.Kind.IsValid() {
		return fmt.Errorf("%w %q on %s", ErrUnknownKind, n.Kind, n.ID)
	}
	return nil
}

// ValidateForest validates every node and checks ids are unique across the
// whole forest.
func ValidateForest(nodes []Node) error {
	seen := make(map[string]struct{})
	var walk func([]Node) error
	walk = func(level []Node) error {
		for _, n := range level {
			if err := n.Validate(); err != nil {
				return err
			}
			if _, dup := seen[n.ID]; dup {
				return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
			}
			seen[n.ID] = struct{}{}
			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(nodes)
}
