package testutil

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

// AssertNodeCount verifies the total number of nodes in a forest.
func AssertNodeCount(t *testing.T, nodes []model.Node, expected int) {
	t.Helper()
	if got := len(allIDs(nodes)); got != expected {
		t.Errorf("expected %d nodes, got %d", expected, got)
	}
}

// AssertValidForest verifies ids are unique and every node validates.
func AssertValidForest(t *testing.T, nodes []model.Node) {
	t.Helper()
	if err := model.ValidateForest(nodes); err != nil {
		t.Errorf("invalid forest: %v", err)
	}
}

// AssertRowIDs verifies rows appear in exactly the given order.
func AssertRowIDs(t *testing.T, rows []model.Row, expected ...string) {
	t.Helper()
	got := model.RowIDs(rows)
	if len(got) == 0 && len(expected) == 0 {
		return
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("row order mismatch:\nexpected: %v\nactual:   %v", expected, got)
	}
}

// AssertSameIDs verifies two forests hold the same id multiset, ignoring
// structure and order.
func AssertSameIDs(t *testing.T, before, after []model.Node) {
	t.Helper()
	a, b := allIDs(before), allIDs(after)
	sort.Strings(a)
	sort.Strings(b)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("id multiset changed:\nbefore: %v\nafter:  %v", a, b)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// WriteForestFile writes nodes as a JSON array into dir/name and returns the path.
func WriteForestFile(t *testing.T, dir, name string, nodes []model.Node) string {
	t.Helper()
	data, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal forest: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write forest: %v", err)
	}
	return path
}

// IDs returns every id in the forest in pre-order.
func IDs(nodes []model.Node) []string {
	return allIDs(nodes)
}

func allIDs(nodes []model.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.ID)
		out = append(out, allIDs(n.Children)...)
	}
	return out
}
