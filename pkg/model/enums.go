package model

import "fmt"

// ViewMode selects how the hierarchy is presented.
type ViewMode int

const (
	ModeTree ViewMode = iota // nested, expansion-aware
	ModeFlat                 // every node at depth 0
)

func (m ViewMode) String() string {
	switch m {
	case ModeTree:
		return "tree"
	case ModeFlat:
		return "flat"
	}
	return fmt.Sprintf("ViewMode(%d)", int(m))
}

// ParseViewMode parses "tree" or "flat".
func ParseViewMode(s string) (ViewMode, error) {
	switch s {
	case "tree", "":
		return ModeTree, nil
	case "flat", "list":
		return ModeFlat, nil
	}
	return ModeTree, fmt.Errorf("unknown view mode %q (want tree or flat)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m ViewMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ViewMode) UnmarshalText(b []byte) error {
	v, err := ParseViewMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Position is where a drop lands relative to its target.
type Position int

const (
	Before Position = iota
	After
	Inside
)

func (p Position) String() string {
	switch p {
	case Before:
		return "before"
	case After:
		return "after"
	case Inside:
		return "inside"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(b []byte) error {
	switch string(b) {
	case "before":
		*p = Before
	case "after":
		*p = After
	case "inside":
		*p = Inside
	default:
		return fmt.Errorf("unknown position %q", string(b))
	}
	return nil
}

// Layout constants. Row layout and the virtualization window must use the
// same values or rows drift against their drop targets.
const (
	ItemHeight      = 32  // fixed row height
	ContainerHeight = 500 // scroll container height
	ScrollBuffer    = 40  // extra scrollable space below the last row
	DefaultOverscan = 10  // rows rendered beyond each edge of the viewport
)

// RootID is the sentinel drop target meaning "the top-level sequence".
const RootID = "ROOT"
