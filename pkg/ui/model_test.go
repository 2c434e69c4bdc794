package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/dirtree/pkg/config"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/sample"
	"github.com/vanderheijden86/dirtree/pkg/selection"
	"github.com/vanderheijden86/dirtree/pkg/store"
	"github.com/vanderheijden86/dirtree/pkg/testutil"
	"github.com/vanderheijden86/dirtree/pkg/tree"
)

func newSampleModel(t *testing.T, opts Options) Model {
	t.Helper()
	st := store.New(sample.Data(), store.WithExpanded(sample.DefaultExpanded...))
	m := NewModel(st, opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func press(keys ...string) []tea.Msg {
	out := make([]tea.Msg, len(keys))
	for i, k := range keys {
		switch k {
		case "enter":
			out[i] = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			out[i] = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			out[i] = tea.KeyMsg{Type: tea.KeySpace}
		default:
			out[i] = runes(k)
		}
	}
	return out
}

func topLevelNames(m Model) []string {
	var names []string
	for _, n := range m.store.Snapshot().Data {
		names = append(names, n.ID)
	}
	return names
}

func TestNewModelStartsOnFirstRow(t *testing.T) {
	m := newSampleModel(t, Options{})
	if m.cursorID != "root-src" {
		t.Errorf("cursor = %q, want root-src", m.cursorID)
	}
	if got := m.store.Snapshot().ViewportHeight; got != 20*model.ItemHeight {
		t.Errorf("viewport height = %v, want %v", got, 20*model.ItemHeight)
	}
}

func TestCursorNavigation(t *testing.T) {
	m := newSampleModel(t, Options{})

	m = send(t, m, press("j", "j")...)
	if m.cursorID != "ui-folder" {
		t.Fatalf("after jj cursor = %q, want ui-folder", m.cursorID)
	}
	m = send(t, m, press("k")...)
	if m.cursorID != "components" {
		t.Errorf("after k cursor = %q, want components", m.cursorID)
	}
	m = send(t, m, press("G")...)
	if m.cursorID != "load-test" {
		t.Errorf("after G cursor = %q, want load-test", m.cursorID)
	}
	m = send(t, m, press("g")...)
	if m.cursorID != "root-src" {
		t.Errorf("after g cursor = %q, want root-src", m.cursorID)
	}
	// Moving above the first row stays put.
	m = send(t, m, press("k")...)
	if m.cursorID != "root-src" {
		t.Errorf("cursor left the list: %q", m.cursorID)
	}
}

func TestToggleExpandWithEnter(t *testing.T) {
	m := newSampleModel(t, Options{})
	if n := len(m.store.Rows()); n != 13 {
		t.Fatalf("expected 13 rows, got %d", n)
	}

	m = send(t, m, press("enter")...)
	testutil.AssertRowIDs(t, m.store.Rows(), "root-src", "public-folder", "config", "scripts", "docs", "load-test")

	m = send(t, m, press(" ")...)
	if n := len(m.store.Rows()); n != 13 {
		t.Errorf("expected 13 rows after re-expanding, got %d", n)
	}
}

func TestLeftRightKeys(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("j", "j")...) // ui-folder

	m = send(t, m, press("h")...)
	if m.cursorID != "components" {
		t.Fatalf("h on a leaf should move to the parent, got %q", m.cursorID)
	}
	m = send(t, m, press("h")...)
	if m.store.Snapshot().Expanded.Has("components") {
		t.Error("h on an expanded row should collapse it")
	}
	m = send(t, m, press("l")...)
	if !m.store.Snapshot().Expanded.Has("components") {
		t.Error("l on a collapsed row should expand it")
	}
	m = send(t, m, press("l")...)
	if m.cursorID != "ui-folder" {
		t.Errorf("l on an expanded row should move to the first child, got %q", m.cursorID)
	}
}

func TestSelectionKeys(t *testing.T) {
	m := newSampleModel(t, Options{})

	m = send(t, m, press("s")...)
	sel := m.store.Snapshot().Selection
	if !sel.IsSelected("root-src") || sel.Len() != 1 {
		t.Fatalf("s should select only root-src, got %v", sel.Selected.Sorted())
	}

	m = send(t, m, press("j", "j", "S")...)
	got := selection.Ordered(m.store.Snapshot().Selection, m.store.VisibleIDs())
	want := []string{"root-src", "components", "ui-folder"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("range selection = %v, want %v", got, want)
	}

	m = send(t, m, press("x")...)
	if m.store.Snapshot().Selection.IsSelected("ui-folder") {
		t.Error("x should toggle ui-folder off")
	}

	m = send(t, m, press("esc")...)
	if n := m.store.Snapshot().Selection.Len(); n != 0 {
		t.Errorf("esc should clear the selection, %d left", n)
	}
}

func TestSearchInput(t *testing.T) {
	m := newSampleModel(t, Options{})

	m = send(t, m, press("/")...)
	if m.focused != focusSearch {
		t.Fatalf("expected search focus")
	}
	m = send(t, m, press("u", "t", "i", "l")...)
	if q := m.store.Snapshot().Query; q != "util" {
		t.Fatalf("query = %q, want util", q)
	}
	testutil.AssertRowIDs(t, m.store.Rows(), "root-src", "utils")

	// Keys typed into the search box must not reach the tree.
	if m.store.Snapshot().Mode != model.ModeTree {
		t.Error("typing in search changed the view mode")
	}

	m = send(t, m, press("esc")...)
	if m.focused != focusTree || m.store.Snapshot().Query != "" {
		t.Errorf("esc should clear and leave search, focus=%v query=%q", m.focused, m.store.Snapshot().Query)
	}
	if n := len(m.store.Rows()); n != 13 {
		t.Errorf("expected all 13 rows back, got %d", n)
	}
}

func TestLeavingSearchKeepsCursorRowVisible(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("E")...)
	m = send(t, m, press("/", "w", "i", "d", "g", "e", "t", "s", "enter")...)
	testutil.AssertRowIDs(t, m.store.Rows(), "root-src", "components", "widgets")

	m = send(t, m, press("j", "j")...)
	if m.cursorID != "widgets" {
		t.Fatalf("cursor = %q, want widgets", m.cursorID)
	}
	m = send(t, m, press("/", "esc")...)

	if m.cursorID != "widgets" {
		t.Errorf("cursor moved to %q after leaving search", m.cursorID)
	}
	if _, ok := m.store.RowIndex("widgets"); !ok {
		t.Error("the cursor row should stay visible once the filter is gone")
	}
	s := m.store.Snapshot()
	if !s.Expanded.Has("root-src") || !s.Expanded.Has("components") {
		t.Errorf("ancestors of the cursor row not expanded: %v", s.Expanded.Sorted())
	}
}

func TestSearchNothingFound(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("/", "z", "z", "q", "enter")...)
	if m.focused != focusTree {
		t.Fatalf("enter should return focus to the tree")
	}
	if !strings.Contains(m.View(), "Nothing found") {
		t.Error("expected the empty search state")
	}
}

func TestEmptyStoreView(t *testing.T) {
	m := NewModel(store.New(nil), Options{})
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 12})
	if !strings.Contains(m.View(), "No folders") {
		t.Error("expected the empty hierarchy state")
	}
	// Keys on an empty list are harmless.
	m = send(t, m, press("j", "enter", "s", "m", "r", "d")...)
	if m.focused != focusTree {
		t.Errorf("focus = %v, want tree", m.focused)
	}
}

func TestViewModeToggle(t *testing.T) {
	m := newSampleModel(t, Options{})

	m = send(t, m, press("v")...)
	if m.store.Snapshot().Mode != model.ModeFlat {
		t.Fatal("v should switch to flat mode")
	}
	if !strings.Contains(m.View(), "Drag and drop is disabled in flat mode") {
		t.Error("flat mode footer missing")
	}

	m = send(t, m, press("m")...)
	if m.kbDrag || !m.statusIsError {
		t.Error("drag should be refused in flat mode")
	}

	m = send(t, m, press("v")...)
	if m.store.Snapshot().Mode != model.ModeTree {
		t.Error("v should switch back to tree mode")
	}
	if !strings.Contains(m.View(), "Virtualization Active (13 items)") {
		t.Error("tree mode footer missing")
	}
}

func TestKeyboardDragInside(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("G", "k")...) // docs
	if m.cursorID != "docs" {
		t.Fatalf("cursor = %q, want docs", m.cursorID)
	}

	m = send(t, m, press("m")...)
	if !m.kbDrag {
		t.Fatal("m should start a keyboard drag")
	}
	if got := m.store.Snapshot().Dragged; len(got) != 1 || got[0] != "docs" {
		t.Fatalf("dragged = %v, want [docs]", got)
	}

	m = send(t, m, press("K")...) // one row up: inside scripts
	target := m.store.Snapshot().DropTarget
	if target == nil || target.ID != "scripts" || target.Position != model.Inside {
		t.Fatalf("drop target = %+v, want inside scripts", target)
	}

	m = send(t, m, press("enter")...)
	if m.kbDrag || m.store.Snapshot().IsDragging() {
		t.Error("drop should end the drag")
	}
	scripts, _ := tree.FindDeep(m.store.Snapshot().Data, "scripts")
	if len(scripts.Children) != 1 || scripts.Children[0].ID != "docs" {
		t.Errorf("scripts children = %v, want [docs]", testutil.IDs(scripts.Children))
	}
	if !strings.Contains(m.statusMsg, "Moved 1 folder") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestKeyboardDragBefore(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("G", "k", "m")...) // grab docs

	m = send(t, m, press("K", "k", "k")...)
	target := m.store.Snapshot().DropTarget
	if target == nil || target.ID != "scripts" || target.Position != model.Before {
		t.Fatalf("drop target = %+v, want before scripts", target)
	}
	m = send(t, m, press("enter")...)

	want := []string{"root-src", "public-folder", "config", "docs", "scripts", "load-test"}
	if got := topLevelNames(m); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("top level = %v, want %v", got, want)
	}
}

func TestKeyboardDragAfter(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("G", "k", "k", "k", "m")...) // grab config

	m = send(t, m, press("j", "J")...) // after scripts
	target := m.store.Snapshot().DropTarget
	if target == nil || target.ID != "scripts" || target.Position != model.After {
		t.Fatalf("drop target = %+v, want after scripts", target)
	}
	m = send(t, m, press("enter")...)

	want := []string{"root-src", "public-folder", "scripts", "config", "docs", "load-test"}
	if got := topLevelNames(m); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("top level = %v, want %v", got, want)
	}
}

func TestKeyboardDragToTopLevel(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("j", "j", "j", "j", "j")...) // hooks
	if m.cursorID != "hooks" {
		t.Fatalf("cursor = %q, want hooks", m.cursorID)
	}
	m = send(t, m, press("m")...)
	for i := 0; i < 12; i++ {
		m = send(t, m, press("J")...)
	}
	target := m.store.Snapshot().DropTarget
	if target == nil || target.ID != "load-test" || target.Position != model.After {
		t.Fatalf("drop target = %+v, want after load-test", target)
	}
	m = send(t, m, press("enter")...)

	names := topLevelNames(m)
	if names[len(names)-1] != "hooks" {
		t.Errorf("hooks should be the last top-level node, got %v", names)
	}
	if !strings.Contains(m.statusMsg, "to the top level") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestKeyboardDragOntoSelfIsRejected(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("G", "k", "m", "enter")...)
	if !m.statusIsError || !strings.Contains(m.statusMsg, "onto itself") {
		t.Errorf("status = %q (error=%v)", m.statusMsg, m.statusIsError)
	}
	if m.store.Snapshot().IsDragging() {
		t.Error("a rejected drop should still clear the drag")
	}
}

func TestKeyboardDragCancel(t *testing.T) {
	m := newSampleModel(t, Options{})
	before := topLevelNames(m)
	m = send(t, m, press("G", "k", "m", "K", "esc")...)
	if m.kbDrag || m.store.Snapshot().IsDragging() || m.store.Snapshot().DropTarget != nil {
		t.Error("esc should cancel the drag")
	}
	if got := topLevelNames(m); strings.Join(got, ",") != strings.Join(before, ",") {
		t.Errorf("cancel changed the hierarchy: %v", got)
	}
}

func TestRename(t *testing.T) {
	m := newSampleModel(t, Options{})

	m = send(t, m, press("r")...)
	if m.focused != focusRename || m.renameID != "root-src" {
		t.Fatalf("r should start renaming root-src")
	}
	if m.rename.Value() != "src" {
		t.Errorf("rename editor = %q, want src", m.rename.Value())
	}
	m.rename.SetValue("  source  ")
	m = send(t, m, press("enter")...)
	n, _ := tree.FindDeep(m.store.Snapshot().Data, "root-src")
	if n.Name != "source" {
		t.Errorf("name = %q, want source", n.Name)
	}

	m = send(t, m, press("r")...)
	m.rename.SetValue("   ")
	m = send(t, m, press("enter")...)
	n, _ = tree.FindDeep(m.store.Snapshot().Data, "root-src")
	if n.Name != "source" {
		t.Errorf("empty rename should revert, got %q", n.Name)
	}
	if !m.statusIsError {
		t.Error("empty rename should report an error")
	}

	m = send(t, m, press("r")...)
	m.rename.SetValue("other")
	m = send(t, m, press("esc")...)
	n, _ = tree.FindDeep(m.store.Snapshot().Data, "root-src")
	if n.Name != "source" || m.focused != focusTree {
		t.Errorf("esc should abandon the rename, name=%q", n.Name)
	}
}

func TestNewFolder(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("G", "k")...) // docs, collapsed leaf

	m = send(t, m, press("n")...)
	if m.focused != focusRename || m.renameID != "folder-1" {
		t.Fatalf("n should create folder-1 and rename it, focus=%v id=%q", m.focused, m.renameID)
	}
	docs, _ := tree.FindDeep(m.store.Snapshot().Data, "docs")
	if len(docs.Children) != 1 || docs.Children[0].Name != newFolderName {
		t.Fatalf("docs children = %+v", docs.Children)
	}
	if !m.store.Snapshot().Expanded.Has("docs") {
		t.Error("the parent of a new folder should be expanded")
	}

	m.rename.SetValue("guides")
	m = send(t, m, press("enter")...)
	n, _ := tree.FindDeep(m.store.Snapshot().Data, "folder-1")
	if n.Name != "guides" {
		t.Errorf("new folder name = %q, want guides", n.Name)
	}
	if m.cursorID != "folder-1" {
		t.Errorf("cursor = %q, want folder-1", m.cursorID)
	}
}

func TestDeleteWithConfirmation(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("G", "k", "d")...)
	if m.focused != focusConfirmDelete {
		t.Fatal("d should ask for confirmation")
	}
	m = send(t, m, press("n")...)
	if !tree.Contains(m.store.Snapshot().Data, "docs") {
		t.Fatal("declining should keep docs")
	}

	m = send(t, m, press("d", "y")...)
	if tree.Contains(m.store.Snapshot().Data, "docs") {
		t.Fatal("docs should be deleted")
	}
	if m.cursorID == "docs" || m.cursorID == "" {
		t.Errorf("cursor should move to a remaining row, got %q", m.cursorID)
	}
}

func TestDeleteSelection(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("G", "s", "k", "x", "d", "y")...) // load-test and docs
	data := m.store.Snapshot().Data
	if tree.Contains(data, "docs") || tree.Contains(data, "load-test") {
		t.Errorf("selection should be deleted, left %v", topLevelNames(m))
	}
	if !strings.Contains(m.statusMsg, "Deleted 1002 nodes") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestExpandCollapseAll(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("E")...)
	if n := len(m.store.Rows()); n != 6 {
		t.Errorf("collapse all: %d rows, want 6", n)
	}
	m = send(t, m, press("e")...)
	if n := len(m.store.Rows()); n != tree.Count(sample.Data()) {
		t.Errorf("expand all: %d rows, want %d", n, tree.Count(sample.Data()))
	}
}

func TestInspectorPanel(t *testing.T) {
	m := newSampleModel(t, Options{})
	if strings.Contains(m.View(), "total_nodes") {
		t.Fatal("inspector should start hidden")
	}
	m = send(t, m, press("i")...)
	view := m.View()
	if !strings.Contains(view, `"total_nodes": 1015`) {
		t.Errorf("inspector missing node count:\n%s", view)
	}
	if !strings.Contains(view, `"dragging": "None"`) {
		t.Errorf("inspector missing drag state:\n%s", view)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("?")...)
	if m.focused != focusHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "Navigation") {
		t.Error("help should show the key reference")
	}
	m = send(t, m, press("esc")...)
	if m.focused != focusTree {
		t.Error("esc should close help")
	}
}

func TestThemeToggle(t *testing.T) {
	m := newSampleModel(t, Options{Theme: config.ThemeDark})
	if m.theme.Mode != config.ThemeDark {
		t.Fatalf("theme mode = %q", m.theme.Mode)
	}
	m = send(t, m, press("T")...)
	if m.theme.Mode != config.ThemeLight {
		t.Errorf("T from dark should give light, got %q", m.theme.Mode)
	}
	m = send(t, m, press("T")...)
	if m.theme.Mode != config.ThemeDark {
		t.Errorf("T from light should give dark, got %q", m.theme.Mode)
	}
}

func TestReloadAppliesNewData(t *testing.T) {
	m := newSampleModel(t, Options{})
	next := append(sample.Data(), model.Folder("extra", "extra"))

	updated, cmd := m.Update(ReloadedMsg{Path: "/tmp/tree.json", Nodes: next})
	m = updated.(Model)
	if cmd != nil {
		t.Error("without a watcher no follow-up command is expected")
	}
	if !tree.Contains(m.store.Snapshot().Data, "extra") {
		t.Fatal("reload should replace the data")
	}
	if m.statusIsError || !strings.Contains(m.statusMsg, "Reloaded tree.json: 1 added") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestReloadErrorKeepsData(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, ReloadedMsg{Path: "tree.json", Err: errors.New("boom")})
	if !m.statusIsError || !strings.Contains(m.statusMsg, "keeping previous data") {
		t.Errorf("status = %q", m.statusMsg)
	}
	if n := tree.Count(m.store.Snapshot().Data); n != 1015 {
		t.Errorf("data changed on failed reload: %d nodes", n)
	}

	dup := []model.Node{model.Folder("a", "A"), model.Folder("a", "again")}
	m = send(t, m, ReloadedMsg{Path: "tree.json", Nodes: dup})
	if !m.statusIsError || !strings.Contains(m.statusMsg, "rejected") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestReloadCmdReadsDatasets(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteForestFile(t, dir, "tree.json", []model.Node{model.Folder("a", "A")})

	msg := ReloadCmd([]string{path}, path)()
	reloaded, ok := msg.(ReloadedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if reloaded.Err != nil {
		t.Fatalf("reload error: %v", reloaded.Err)
	}
	if reloaded.Path != path || len(reloaded.Nodes) != 1 || reloaded.Nodes[0].ID != "a" {
		t.Errorf("reloaded = %+v", reloaded)
	}

	msg = ReloadCmd([]string{filepath.Join(dir, "missing.json")}, "missing.json")()
	if reloaded := msg.(ReloadedMsg); reloaded.Err == nil {
		t.Error("expected an error for a missing dataset")
	}
}

func TestWatchFileCmdNil(t *testing.T) {
	if WatchFileCmd(nil) != nil {
		t.Error("no watcher means no command")
	}
}

func TestQuitSavesViewState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view-state.json")
	m := newSampleModel(t, Options{ViewState: &config.ViewState{}, ViewStatePath: path})
	m = send(t, m, press("v")...)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	ds, ok := config.LoadViewState(path).Get(config.DatasetKey(nil))
	if !ok {
		t.Fatal("view state not saved")
	}
	if strings.Join(ds.Expanded, ",") != "components,root-src" {
		t.Errorf("expanded = %v", ds.Expanded)
	}
	if ds.Mode != "flat" {
		t.Errorf("mode = %q, want flat", ds.Mode)
	}
}

func TestViewRendersRows(t *testing.T) {
	m := newSampleModel(t, Options{})
	m = send(t, m, press("s")...)
	view := m.View()
	for _, want := range []string{"dt · tree · 13 rows", "1 selected", "src (4)", "components (3)", "Load Test (1000 items) (1000)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines != 24 {
		t.Errorf("view has %d lines, want 24", lines)
	}
}

func TestDropError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{store.ErrFlatMode, "disabled in flat mode"},
		{store.ErrDropOnSelf, "onto itself"},
		{store.ErrDropIntoDescendant, "own subfolder"},
		{store.ErrTargetNotFound, "no longer exists"},
		{errors.New("other"), "Move failed: other"},
	}
	for _, tt := range tests {
		if got := dropError(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("dropError(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}
