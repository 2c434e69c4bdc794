package datasource

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/dirtree/pkg/loader"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/testutil"
)

func createSQLite(t *testing.T, path string, records []loader.Record) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE nodes (
		id TEXT PRIMARY KEY,
		parent_id TEXT,
		name TEXT NOT NULL,
		kind TEXT,
		position INTEGER
	)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, r := range records {
		var parent any
		if r.ParentID != "" {
			parent = r.ParentID
		}
		if _, err := db.Exec(`INSERT INTO nodes (id, parent_id, name, kind, position) VALUES (?, ?, ?, ?, ?)`,
			r.ID, parent, r.Name, string(r.Kind), r.Position); err != nil {
			t.Fatalf("insert %s: %v", r.ID, err)
		}
	}
}

func TestTypeForPath(t *testing.T) {
	tests := map[string]SourceType{
		"a.db":      SourceTypeSQLite,
		"a.sqlite3": SourceTypeSQLite,
		"a.json":    SourceTypeJSON,
		"a.jsonl":   SourceTypeJSONL,
		"a.yml":     SourceTypeYAML,
	}
	for path, want := range tests {
		got, err := TypeForPath(path)
		if err != nil || got != want {
			t.Errorf("TypeForPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := TypeForPath("a.csv"); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("expected ErrUnsupportedSource, got %v", err)
	}
}

func TestSQLiteReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.db")
	createSQLite(t, path, []loader.Record{
		{ID: "src", Name: "src", Kind: model.KindFolder},
		{ID: "lib", ParentID: "src", Name: "lib", Position: 1},
		{ID: "app", ParentID: "src", Name: "app", Position: 0},
		{ID: "docs", Name: "Docs", Position: 1},
	})

	src, err := Detect(path)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	reader, err := NewSQLiteReader(src)
	if err != nil {
		t.Fatalf("NewSQLiteReader: %v", err)
	}
	defer reader.Close()

	count, err := reader.CountNodes()
	if err != nil || count != 4 {
		t.Errorf("CountNodes = %d, %v", count, err)
	}
	nodes, err := reader.LoadNodes()
	if err != nil {
		t.Fatalf("LoadNodes: %v", err)
	}
	if got := strings.Join(testutil.IDs(nodes), ","); got != "src,app,lib,docs" {
		t.Errorf("ids = %s", got)
	}
}

func TestSQLiteReaderRejectsCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.db")
	createSQLite(t, path, []loader.Record{
		{ID: "a", ParentID: "b", Name: "A"},
		{ID: "b", ParentID: "a", Name: "B"},
	})
	src, err := Detect(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromSource(src); !errors.Is(err, loader.ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestNewSQLiteReaderWrongType(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeJSON}); err == nil {
		t.Error("expected error for non-sqlite source")
	}
}

func TestValidateSource(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteForestFile(t, dir, "good.json", testutil.Letters("a", "b"))
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"id":"a"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Detect(good)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateSource(&src); err != nil {
		t.Fatalf("ValidateSource: %v", err)
	}
	if !src.Valid || src.NodeCount != 2 {
		t.Errorf("source = %+v", src)
	}

	src, err = Detect(bad)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateSource(&src); err == nil {
		t.Error("expected validation error")
	}
	if src.Valid || src.ValidationError == "" {
		t.Errorf("source = %+v", src)
	}
	if !strings.Contains(src.String(), "invalid") {
		t.Errorf("String() = %q", src.String())
	}
}

func TestDiscoverSources(t *testing.T) {
	dir := t.TempDir()
	older := testutil.WriteForestFile(t, dir, "older.json", testutil.Letters("a"))
	testutil.WriteForestFile(t, dir, "newer.json", testutil.Letters("b"))
	testutil.WriteForestFile(t, dir, "skip.json.backup", testutil.Letters("c"))
	testutil.WriteForestFile(t, dir, "notes.txt", testutil.Letters("d"))
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	sources, err := DiscoverSources(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", sources)
	}
	if filepath.Base(sources[0].Path) != "newer.json" {
		t.Errorf("newest first expected, got %s", sources[0].Path)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	older := testutil.WriteForestFile(t, dir, "older.json", testutil.Letters("a"))
	newer := testutil.WriteForestFile(t, dir, "newer.yaml", testutil.Letters("b"))
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}
	single := filepath.Join(t.TempDir(), "single.json")

	got, err := ExpandPaths([]string{single, dir})
	if err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	want := []string{single, newer, older}
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if filepath.Base(got[i]) != filepath.Base(want[i]) {
			t.Errorf("paths[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if _, err := ExpandPaths([]string{t.TempDir()}); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("empty directory: expected ErrUnsupportedSource, got %v", err)
	}
}

func TestLoadAllMergesInOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c", "d"} {
		paths = append(paths, testutil.WriteForestFile(t, dir, name+".json", testutil.Letters(name+"1", name+"2")))
	}
	nodes, sources, err := LoadAll(context.Background(), paths, LoadOptions{Concurrency: 2})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got := strings.Join(testutil.IDs(nodes), ","); got != "a1,a2,b1,b2,c1,c2,d1,d2" {
		t.Errorf("ids = %s", got)
	}
	if len(sources) != 4 || sources[2].NodeCount != 2 {
		t.Errorf("sources = %+v", sources)
	}
}

func TestLoadAllDuplicateAcrossSources(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteForestFile(t, dir, "a.json", testutil.Letters("x"))
	b := testutil.WriteForestFile(t, dir, "b.json", testutil.Letters("x"))
	_, _, err := LoadAll(context.Background(), []string{a, b}, LoadOptions{})
	if !errors.Is(err, model.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	_, _, err := LoadAll(context.Background(), []string{filepath.Join(t.TempDir(), "none.json")}, LoadOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist, got %v", err)
	}
}

func TestLoadAllEmpty(t *testing.T) {
	nodes, sources, err := LoadAll(context.Background(), nil, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if nodes == nil || len(nodes) != 0 || len(sources) != 0 {
		t.Errorf("nodes=%v sources=%v", nodes, sources)
	}
}

func TestDiffForests(t *testing.T) {
	before := []model.Node{
		model.Folder("a", "A", model.Folder("a1", "A1"), model.Folder("a2", "A2")),
		model.Folder("b", "B"),
	}
	after := []model.Node{
		model.Folder("a", "A", model.Folder("a2", "A2 renamed")),
		model.Folder("b", "B", model.Folder("a1", "A1")),
		model.Folder("c", "C"),
	}
	d := DiffForests(before, after)
	if strings.Join(d.Added, ",") != "c" {
		t.Errorf("added = %v", d.Added)
	}
	if len(d.Removed) != 0 {
		t.Errorf("removed = %v", d.Removed)
	}
	if strings.Join(d.Renamed, ",") != "a2" {
		t.Errorf("renamed = %v", d.Renamed)
	}
	if strings.Join(d.Moved, ",") != "a1,a2" {
		t.Errorf("moved = %v", d.Moved)
	}
	if d.Summary() != "1 added, 1 renamed, 2 moved" {
		t.Errorf("summary = %q", d.Summary())
	}

	same := DiffForests(before, before)
	if !same.IsEmpty() || same.Summary() != "no changes (4 nodes)" {
		t.Errorf("self diff = %+v", same)
	}
}
