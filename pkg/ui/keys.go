package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/dirtree/pkg/dnd"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/selection"
	"github.com/vanderheijden86/dirtree/pkg/store"
	"github.com/vanderheijden86/dirtree/pkg/tree"
)

// newFolderName is the label given to folders created with "n".
const newFolderName = "New Folder"

func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup", "ctrl+b":
		m.moveCursor(-m.listHeight())
	case "pgdown", "ctrl+f":
		m.moveCursor(m.listHeight())
	case "home", "g":
		m.setCursorIndex(0)
	case "end", "G":
		m.setCursorIndex(len(m.store.Rows()) - 1)
	case "enter", " ":
		m.toggleCursor()
	case "left", "h":
		m.collapseOrParent()
	case "right", "l":
		m.expandOrChild()
	case "e":
		m.store.ExpandAll()
		m.followCursor()
	case "E":
		m.store.CollapseAll()
		m.followCursor()

	case "s":
		m.clickCursor(selection.Plain)
	case "x":
		m.clickCursor(selection.Toggle)
	case "S":
		m.clickCursor(selection.Range)
	case "esc":
		m.store.ClearSelection()
		m.statusMsg = ""

	case "/":
		m.focused = focusSearch
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "v":
		m.toggleViewMode()
	case "r", "f2":
		return m.beginRename()
	case "m":
		m.beginKeyboardDrag()
	case "y":
		m.copySelection()
	case "n":
		return m.newFolder()
	case "d", "delete":
		m.confirmDelete()
	case "i":
		m.showInspector = !m.showInspector
	case "T":
		m.theme = m.theme.Toggle()
		m.resizeHelp()
		m.setStatus("Theme: " + m.themeName())
	case "?":
		m.focused = focusHelp
		m.resizeHelp()
		m.help.GotoTop()
	}
	return m, nil
}

func (m Model) themeName() string {
	if m.theme.Renderer != nil && m.theme.Renderer.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func (m *Model) toggleCursor() {
	row, ok := m.cursorRow()
	if !ok || !row.HasChildren || m.store.Snapshot().Mode == model.ModeFlat {
		return
	}
	m.store.ToggleExpand(row.ID)
	m.followCursor()
}

func (m *Model) collapseOrParent() {
	row, ok := m.cursorRow()
	if !ok {
		return
	}
	s := m.store.Snapshot()
	if s.Mode == model.ModeTree && row.HasChildren && s.Expanded.Has(row.ID) {
		m.store.SetExpanded(row.ID, false)
		m.followCursor()
		return
	}
	if !row.IsTopLevel() {
		m.setCursorID(row.ParentID)
	}
}

func (m *Model) expandOrChild() {
	row, ok := m.cursorRow()
	if !ok || !row.HasChildren {
		return
	}
	s := m.store.Snapshot()
	if s.Mode == model.ModeTree && !s.Expanded.Has(row.ID) {
		m.store.SetExpanded(row.ID, true)
		return
	}
	m.moveCursor(1)
}

func (m *Model) clickCursor(kind selection.Click) {
	row, ok := m.cursorRow()
	if !ok {
		return
	}
	m.store.Click(row.ID, kind)
}

func (m *Model) toggleViewMode() {
	next := model.ModeFlat
	if m.store.Snapshot().Mode == model.ModeFlat {
		next = model.ModeTree
	}
	m.kbDrag = false
	m.press = pressState{}
	m.store.SetViewMode(next)
	m.followCursor()
	m.setStatus("View: " + next.String())
}

func (m *Model) copySelection() {
	s := m.store.Snapshot()
	ids := selection.Ordered(s.Selection, m.store.VisibleIDs())
	if len(ids) == 0 {
		if row, ok := m.cursorRow(); ok {
			ids = []string{row.ID}
		}
	}
	if len(ids) == 0 {
		return
	}
	if err := clipboard.WriteAll(strings.Join(ids, "\n")); err != nil {
		m.setError(fmt.Sprintf("Clipboard error: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s to clipboard", plural(len(ids), "id")))
}

// Search

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.focused = focusTree
		m.store.SetSearchQuery("")
		if m.store.Snapshot().Mode == model.ModeTree {
			m.store.Reveal(m.cursorID)
		}
		m.followCursor()
		return m, nil
	case "enter", "down", "tab":
		m.search.Blur()
		m.focused = focusTree
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.store.Snapshot().Query {
		m.store.SetSearchQuery(q)
		m.followCursor()
	}
	return m, cmd
}

// Rename

func (m Model) beginRename() (tea.Model, tea.Cmd) {
	row, ok := m.cursorRow()
	if !ok {
		return m, nil
	}
	m.renameID = row.ID
	m.rename.SetValue(row.Name)
	m.rename.CursorEnd()
	m.focused = focusRename
	return m, m.rename.Focus()
}

func (m Model) handleRenameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		id, name := m.renameID, m.rename.Value()
		m.endRename()
		if m.store.RenameNode(id, name) {
			m.setStatus(fmt.Sprintf("Renamed to %q", strings.TrimSpace(name)))
		} else if strings.TrimSpace(name) == "" {
			m.setError("Name cannot be empty; rename reverted")
		}
		m.setCursorID(id)
		return m, nil
	case "esc":
		m.endRename()
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m *Model) endRename() {
	m.rename.Blur()
	m.rename.SetValue("")
	m.renameID = ""
	m.focused = focusTree
}

// New folder and delete

func (m Model) newFolder() (tea.Model, tea.Cmd) {
	data := m.store.Snapshot().Data
	var id string
	for {
		m.newFolderSeq++
		id = fmt.Sprintf("folder-%d", m.newFolderSeq)
		if !tree.Contains(data, id) {
			break
		}
	}

	target, pos := model.RootID, model.Inside
	if row, ok := m.cursorRow(); ok {
		target = row.ID
	}
	node := model.Folder(id, newFolderName)
	node.Children = []model.Node{}
	if err := m.store.InsertNodes(target, []model.Node{node}, pos); err != nil {
		m.setError(fmt.Sprintf("Cannot create folder: %v", err))
		return m, nil
	}
	if m.store.Snapshot().Query != "" {
		m.search.SetValue("")
		m.store.SetSearchQuery("")
	}
	m.setCursorID(id)
	return m.beginRename()
}

func (m *Model) deletionTargets() []string {
	s := m.store.Snapshot()
	row, ok := m.cursorRow()
	if s.Selection.Len() > 0 && (!ok || s.Selection.IsSelected(row.ID)) {
		return selection.Ordered(s.Selection, m.store.VisibleIDs())
	}
	if ok {
		return []string{row.ID}
	}
	return nil
}

func (m *Model) confirmDelete() {
	ids := m.deletionTargets()
	if len(ids) == 0 {
		return
	}
	m.pendingDelete = ids
	m.focused = focusConfirmDelete
	m.setError(fmt.Sprintf("Delete %s and everything inside? (y/n)", plural(len(ids), "folder")))
}

func (m Model) handleDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ids := m.pendingDelete
	m.pendingDelete = nil
	m.focused = focusTree
	switch msg.String() {
	case "y", "Y":
		n := m.store.RemoveNodes(ids)
		m.followCursor()
		m.setStatus(fmt.Sprintf("Deleted %s", plural(n, "node")))
	default:
		m.setStatus("Delete cancelled")
	}
	return m, nil
}

// Keyboard drag

func (m *Model) beginKeyboardDrag() {
	i := m.cursorIndex()
	if i < 0 {
		return
	}
	if err := m.store.BeginDrag(m.cursorID); err != nil {
		m.setError(dropError(err))
		return
	}
	m.kbDrag = true
	// Quarter-row steps from 5/8 of a row visit every drop band.
	m.pointerY = float64(i)*model.ItemHeight + model.ItemHeight*5/8
	m.updateKeyboardDrop()
	m.setStatus(fmt.Sprintf("Dragging %s", plural(len(m.store.Snapshot().Dragged), "folder")))
}

func (m Model) handleDragKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const step = model.ItemHeight / 4
	switch msg.String() {
	case "up", "k":
		m.pointerY -= step
	case "down", "j":
		m.pointerY += step
	case "K", "pgup":
		m.pointerY -= model.ItemHeight
	case "J", "pgdown":
		m.pointerY += model.ItemHeight
	case "enter", " ", "m":
		m.dropKeyboardDrag()
		return m, nil
	case "esc", "q":
		m.kbDrag = false
		m.store.CancelDrag()
		m.setStatus("Drag cancelled")
		return m, nil
	default:
		return m, nil
	}
	m.updateKeyboardDrop()
	return m, nil
}

// pointerOver maps a content y onto the element under it: a row id, or
// model.RootID for the empty area below the last row.
func (m *Model) pointerOver(y float64) string {
	rows := m.store.Rows()
	i := int(y / model.ItemHeight)
	if y < 0 || i >= len(rows) {
		return model.RootID
	}
	return rows[i].ID
}

func (m *Model) updateKeyboardDrop() {
	rows := m.store.Rows()
	if len(rows) == 0 {
		return
	}
	// One step past the last row reaches the top-level drop zone.
	limit := float64(len(rows))*model.ItemHeight + model.ItemHeight/4
	m.pointerY = min(max(m.pointerY, 0), limit)
	m.store.ScrollToRow(min(int(m.pointerY/model.ItemHeight), len(rows)-1))
	m.store.DragMove(m.pointerOver(m.pointerY), dnd.Point{Y: m.pointerY}, nil)
}

func (m *Model) dropKeyboardDrag() {
	m.kbDrag = false
	m.commitDrop(m.pointerOver(m.pointerY), dnd.Point{Y: m.pointerY})
}

// commitDrop ends the drag over over and reports the outcome.
func (m *Model) commitDrop(over string, p dnd.Point) {
	s := m.store.Snapshot()
	dragged := append([]string(nil), s.Dragged...)
	var target *dnd.Target
	if s.DropTarget != nil {
		t := *s.DropTarget
		target = &t
	}
	if err := m.store.EndDrag(over, p, nil); err != nil {
		m.setError(dropError(err))
		return
	}
	if over == "" || len(dragged) == 0 {
		return
	}
	where := "to the top level"
	if target != nil && target.ID != model.RootID && over != model.RootID {
		if n, ok := tree.FindDeep(m.store.Snapshot().Data, target.ID); ok {
			where = fmt.Sprintf("%s %q", target.Position, n.Name)
		}
	}
	m.setStatus(fmt.Sprintf("Moved %s %s", plural(len(dragged), "folder"), where))
	m.setCursorID(dragged[0])
}

func dropError(err error) string {
	switch {
	case errors.Is(err, store.ErrFlatMode):
		return "Drag and drop is disabled in flat mode"
	case errors.Is(err, store.ErrDropOnSelf):
		return "Cannot drop a folder onto itself"
	case errors.Is(err, store.ErrDropIntoDescendant):
		return "Cannot move a folder into its own subfolder"
	case errors.Is(err, store.ErrTargetNotFound):
		return "Drop target no longer exists"
	}
	return fmt.Sprintf("Move failed: %v", err)
}
