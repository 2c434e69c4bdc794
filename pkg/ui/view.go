package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/dirtree/pkg/export"
	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/store"
)

// rowPrefixWidth is the cursor, a space and the drop marker, drawn before
// the indentation of every row.
const rowPrefixWidth = 3

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	if !m.ready {
		return "Loading..."
	}
	if m.focused == focusHelp {
		return m.renderHelp()
	}

	body := m.renderList()
	if m.showInspector && m.width-inspectorWidth >= minListWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderInspector())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderSearchLine(),
		body,
		m.renderStatus(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	s := m.store.Snapshot()
	title := fmt.Sprintf("dt · %s · %d rows", s.Mode, len(m.store.Rows()))
	if n := s.Selection.Len(); n > 0 {
		title += fmt.Sprintf(" · %d selected", n)
	}
	return m.theme.Header.Width(max(1, m.width)).Render(truncateRunesHelper(title, max(1, m.width-2), "…"))
}

func (m Model) renderSearchLine() string {
	if m.focused == focusSearch {
		return m.search.View()
	}
	if q := m.store.Snapshot().Query; q != "" {
		return m.theme.Base.Render(truncateRunesHelper("/ "+q, m.width, "…")) +
			m.theme.MutedText.Render("  (esc in search clears)")
	}
	return m.theme.MutedText.Render("/ to search · ? for help")
}

func (m Model) renderList() string {
	width := m.listWidth()
	height := m.listHeight()
	lines := make([]string, height)

	rows := m.store.Rows()
	if len(rows) == 0 {
		msg := "No folders"
		if strings.TrimSpace(m.store.Snapshot().Query) != "" {
			msg = "Nothing found"
		}
		lines[0] = m.theme.MutedText.Render(padRight("   "+msg, width))
	}

	first := m.firstLine()
	for _, v := range m.store.RowViews() {
		line := v.Index - first
		if line < 0 || line >= height {
			continue
		}
		lines[line] = m.renderRow(v, width)
	}
	for i, l := range lines {
		if l == "" {
			lines[i] = strings.Repeat(" ", width)
		}
	}
	return strings.Join(lines, "\n")
}

// renderRow draws one row: cursor, drop marker, indentation, expander,
// folder glyph, name and child count.
func (m Model) renderRow(v store.RowView, width int) string {
	t := m.theme

	cursor := " "
	if v.ID == m.cursorID {
		cursor = t.Cursor.Render(glyphCursor)
	}
	marker := " "
	if v.Drop != nil {
		switch *v.Drop {
		case model.Before:
			marker = glyphDropBefore
		case model.After:
			marker = glyphDropAfter
		case model.Inside:
			marker = glyphDropInside
		}
		marker = t.DropMarker.Render(marker)
	}

	expander := glyphLeaf
	if !v.Flat && v.HasChildren {
		expander = glyphCollapsed
		if v.Expanded {
			expander = glyphExpanded
		}
	}
	indent := strings.Repeat("  ", v.Depth)
	lead := indent + expander + " " + glyphFolder + " "

	badge := ""
	if v.HasChildren {
		badge = fmt.Sprintf(" (%d)", v.ChildCount)
	}

	used := rowPrefixWidth + runewidth.StringWidth(lead)
	if m.focused == focusRename && v.ID == m.renameID {
		m.rename.Width = max(1, width-used-1)
		return cursor + " " + marker + t.Expander.Render(lead) + m.rename.View()
	}

	avail := width - used - runewidth.StringWidth(badge)
	name := truncateRunesHelper(v.Name, max(1, avail), "…")
	fill := strings.Repeat(" ", max(0, avail-runewidth.StringWidth(name)))

	style := t.Base
	switch {
	case v.Dragged:
		style = t.DraggedText
	case v.Selected:
		style = t.Selected
	case v.Drop != nil && *v.Drop == model.Inside:
		style = t.DropRow
	case v.Context:
		style = t.MutedText
	}
	return cursor + " " + marker + t.Expander.Render(lead) + style.Render(name) + t.Badge.Render(badge) + fill
}

func (m Model) renderInspector() string {
	data, err := json.MarshalIndent(m.store.Summarize(), "", "  ")
	content := string(data)
	if err != nil {
		content = err.Error()
	}
	if timings := metrics.Summary(); timings != "" {
		content += "\n\n" + timings
	}
	inner := inspectorWidth - 4 // border and padding
	lines := strings.Split(content, "\n")
	maxLines := max(1, m.listHeight()-3)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, l := range lines {
		lines[i] = truncateRunesHelper(l, inner, "…")
	}
	title := m.theme.Cursor.Render("State")
	return m.theme.Panel.
		Width(inspectorWidth - 2).
		Height(m.listHeight() - 2).
		Render(title + "\n" + strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	if m.statusMsg != "" {
		style := m.theme.StatusOK
		if m.statusIsError {
			style = m.theme.StatusErr
		}
		return style.Render(truncateRunesHelper(m.statusMsg, m.width, "…"))
	}
	s := m.store.Snapshot()
	w := m.store.Window()
	stats := fmt.Sprintf("rows %d · rendered [%d, %d) · scroll %.0f/%.0f",
		len(m.store.Rows()), w.Start, w.End, s.ScrollTop, w.TotalHeight)
	return m.theme.MutedText.Render(truncateRunesHelper(stats, m.width, "…"))
}

func (m Model) renderFooter() string {
	s := m.store.Snapshot()
	var text string
	switch {
	case m.kbDrag:
		text = "j/k move pointer · J/K jump a row · enter drop · esc cancel"
	case m.focused == focusRename:
		text = "enter save · esc cancel"
	case m.focused == focusConfirmDelete:
		text = "y delete · any other key cancels"
	default:
		text = export.FooterText(s.Mode, len(m.store.Rows()))
	}
	return m.theme.FooterText.Render(truncateRunesHelper(text, m.width, "…"))
}
