package model

// Row is the display projection of a node at a particular depth. Rows are
// derived from the forest and never written back into it; Row deliberately
// has no Children field.
type Row struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        Kind   `json:"type"`
	Depth       int    `json:"depth"`
	ParentID    string `json:"parent_id,omitempty"` // "" at top level
	HasChildren bool   `json:"has_children"`
	ChildCount  int    `json:"child_count"`
}

// IsTopLevel reports whether the row has no parent.
func (r Row) IsTopLevel() bool {
	return r.ParentID == ""
}

// RowIDs returns the ids of rows in order.
func RowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}
