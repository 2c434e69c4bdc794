package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/dirtree/pkg/dnd"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/selection"
)

// wheelRows is how far one wheel notch scrolls.
const wheelRows = 3

// hit is what lies under a mouse position.
type hit struct {
	over     string  // row id, model.RootID below the rows, "" outside the list
	y        float64 // content y at the middle of the line
	line     int
	expander bool // on the row's expand glyph
}

// hitTest maps a screen cell onto the list. A terminal line has no
// sub-row resolution, so the pointer sits in the middle of the row; see
// dropPoint for how a drag reaches before and after.
func (m Model) hitTest(x, y int) hit {
	line := y - headerLines
	if line < 0 || line >= m.listHeight() || x >= m.listWidth() {
		return hit{}
	}
	idx := m.firstLine() + line
	h := hit{
		line: line,
		y:    float64(idx)*model.ItemHeight + model.ItemHeight/2,
	}
	rows := m.store.Rows()
	if idx >= len(rows) {
		h.over = model.RootID
		return h
	}
	id, ok := m.store.Geometry().RowAt(h.y, rows)
	if !ok {
		return hit{}
	}
	row := rows[idx]
	h.over = id
	col := rowPrefixWidth + 2*row.Depth
	h.expander = row.HasChildren && (x == col || x == col+1)
	return h
}

// dropPoint is the pointer a drag reports for msg. Alt holds it in the
// top band of the row, so the drop lands before it; Ctrl holds it in the
// bottom band, after it. Otherwise it drops inside.
func dropPoint(msg tea.MouseMsg, h hit) dnd.Point {
	p := dnd.Point{X: float64(msg.X), Y: h.y}
	switch {
	case msg.Alt:
		p.Y = h.y - model.ItemHeight*3/8
	case msg.Ctrl:
		p.Y = h.y + model.ItemHeight*3/8
	}
	return p
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.focused != focusTree || m.kbDrag {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.store.ScrollBy(-wheelRows * model.ItemHeight)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.store.ScrollBy(wheelRows * model.ItemHeight)
		return m, nil
	}

	h := m.hitTest(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.mousePress(msg, h)
	case tea.MouseActionMotion:
		m.mouseMotion(msg, h)
	case tea.MouseActionRelease:
		m.mouseRelease(msg, h)
	}
	return m, nil
}

func (m *Model) mousePress(msg tea.MouseMsg, h hit) {
	m.press = pressState{}
	switch h.over {
	case "":
		return
	case model.RootID:
		m.store.ClearSelection()
		return
	}
	m.setCursorID(h.over)
	if h.expander && m.store.Snapshot().Mode == model.ModeTree {
		m.store.ToggleExpand(h.over)
		return
	}

	kind := selection.Plain
	switch {
	case msg.Shift:
		kind = selection.Range
	case msg.Ctrl || msg.Alt:
		kind = selection.Toggle
	}
	selected := m.store.Snapshot().Selection.IsSelected(h.over)
	deferred := kind == selection.Plain && selected
	if !deferred {
		m.store.Click(h.over, kind)
	}
	m.press = pressState{active: true, id: h.over, line: msg.Y, deferred: deferred}
}

func (m *Model) mouseMotion(msg tea.MouseMsg, h hit) {
	if !m.press.active {
		return
	}
	if !m.press.dragging {
		if msg.Y == m.press.line {
			return
		}
		if err := m.store.BeginDrag(m.press.id); err != nil {
			m.setError(dropError(err))
			m.press = pressState{}
			return
		}
		m.press.dragging = true
		m.press.deferred = false
	}

	// Dragging against the list edges scrolls.
	switch {
	case h.over != "" && h.line == 0:
		m.store.ScrollBy(-model.ItemHeight)
	case h.over != "" && h.line == m.listHeight()-1:
		m.store.ScrollBy(model.ItemHeight)
	}
	m.store.DragMove(h.over, dropPoint(msg, h), nil)
}

func (m *Model) mouseRelease(msg tea.MouseMsg, h hit) {
	p := m.press
	m.press = pressState{}
	if !p.active {
		return
	}
	if p.dragging {
		m.commitDrop(h.over, dropPoint(msg, h))
		return
	}
	if p.deferred {
		m.store.Click(p.id, selection.Plain)
	}
}
