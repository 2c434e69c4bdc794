package export

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

// GenerateOutline renders rows as a nested Markdown bullet list. Rows come
// from the store, so the outline reflects the current expansion, search
// and view mode.
func GenerateOutline(rows []model.Row, title string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("# " + title + "\n\n")
	}
	if len(rows) == 0 {
		sb.WriteString("_No folders_\n")
		return sb.String()
	}
	for _, r := range rows {
		sb.WriteString(strings.Repeat("  ", r.Depth))
		sb.WriteString("- ")
		sb.WriteString(escapeMarkdown(r.Name))
		if r.HasChildren {
			fmt.Fprintf(&sb, " _(%d)_", r.ChildCount)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// GenerateMermaid renders the whole forest as a Mermaid flowchart.
func GenerateMermaid(nodes []model.Node) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	used := make(map[string]string)
	idFor := func(id string) string {
		if m, ok := used[id]; ok {
			return m
		}
		base := sanitizeMermaidID(id)
		m := base
		for n := 2; ; n++ {
			taken := false
			for _, v := range used {
				if v == m {
					taken = true
					break
				}
			}
			if !taken {
				break
			}
			m = fmt.Sprintf("%s_%d", base, n)
		}
		used[id] = m
		return m
	}
	var walk func(level []model.Node, parent string)
	walk = func(level []model.Node, parent string) {
		for _, n := range level {
			id := idFor(n.ID)
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, sanitizeMermaidText(n.Name))
			if parent != "" {
				fmt.Fprintf(&sb, "    %s --> %s\n", parent, id)
			}
			walk(n.Children, id)
		}
	}
	walk(nodes, "")
	return sb.String()
}

// SaveOutline writes the outline, followed by a Mermaid diagram of nodes
// when nodes is non-empty, to filename.
func SaveOutline(filename, title string, rows []model.Row, nodes []model.Node) error {
	content := GenerateOutline(rows, title)
	if len(nodes) > 0 {
		content += "\n```mermaid\n" + GenerateMermaid(nodes) + "```\n"
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing outline: %w", err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// sanitizeMermaidID ensures an ID is valid for Mermaid diagrams.
// Mermaid node IDs must be alphanumeric with hyphens/underscores.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "node"
	}
	return sb.String()
}

// sanitizeMermaidText prepares text for use in Mermaid node labels.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, replacer.Replace(text))
}
