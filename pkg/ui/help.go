package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/dirtree/pkg/config"
)

const helpMarkdown = `# dt

## Navigation

| Key | Action |
|-----|--------|
| j / k, arrows | Move the cursor |
| h / l | Collapse or go to parent, expand or go to child |
| enter, space | Expand or collapse |
| e / E | Expand all, collapse all |
| pgup / pgdown, g / G | Page, jump to first or last row |

## Selection

| Key | Action |
|-----|--------|
| s | Select only this row |
| x | Toggle this row |
| S | Select the range from the anchor |
| esc | Clear the selection |
| y | Copy selected ids |

## Editing

| Key | Action |
|-----|--------|
| m | Grab the selection; j/k moves the pointer a quarter row, enter drops |
| r | Rename inline |
| n | New folder inside the cursor row |
| d | Delete with confirmation |

Mouse: click selects, ctrl or alt click toggles, shift click selects a
range, drag moves into a row or below the last row. Hold alt while
dragging to drop before the row, ctrl to drop after it. Drag and drop is
disabled in flat mode.

## View

| Key | Action |
|-----|--------|
| / | Search, ` + "`*`" + ` matches anything |
| v | Switch between tree and flat |
| i | State inspector |
| T | Dark or light theme |
| q | Quit |
`

func (m *Model) resizeHelp() {
	w := max(20, min(m.width-4, 100))
	h := max(3, m.height-2)
	m.help.Width = w
	m.help.Height = h
	m.help.SetContent(renderHelpMarkdown(w, m.theme.Mode))
}

// renderHelpMarkdown renders the key reference with glamour, falling back
// to the raw markdown when no renderer can be built.
func renderHelpMarkdown(width int, mode string) string {
	style := glamour.WithAutoStyle()
	switch mode {
	case config.ThemeDark:
		style = glamour.WithStandardStyle("dark")
	case config.ThemeLight:
		style = glamour.WithStandardStyle("light")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n ")
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.focused = focusTree
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

func (m Model) renderHelp() string {
	footer := m.theme.FooterText.Render("j/k scroll · esc close")
	return m.help.View() + "\n" + footer
}
