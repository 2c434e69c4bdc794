package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/dirtree/pkg/config"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer
	// Mode is config.ThemeAuto, ThemeDark or ThemeLight.
	Mode string

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Drop      lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Header   lipgloss.Style
	Panel    lipgloss.Style

	// Row decorations, created once instead of per frame
	MutedText   lipgloss.Style // context rows, counts
	DraggedText lipgloss.Style // rows carried by the drag
	DropMarker  lipgloss.Style // before/after/inside glyph
	DropRow     lipgloss.Style // row under an inside drop
	Expander    lipgloss.Style
	Badge       lipgloss.Style
	StatusOK    lipgloss.Style
	StatusErr   lipgloss.Style
	FooterText  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,
		Mode:     config.ThemeAuto,

		// Dracula / Light Mode equivalent
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Drop:      lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Foreground(ColorText).
		Bold(true)

	t.Cursor = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.DraggedText = r.NewStyle().Foreground(t.Muted).Faint(true).Italic(true)
	t.DropMarker = r.NewStyle().Foreground(t.Drop).Bold(true)
	t.DropRow = r.NewStyle().Foreground(t.Drop).Underline(true)
	t.Expander = r.NewStyle().Foreground(t.Secondary)
	t.Badge = r.NewStyle().Foreground(t.Subtext)
	t.StatusOK = r.NewStyle().Foreground(ColorSuccess)
	t.StatusErr = r.NewStyle().Foreground(t.Danger).Bold(true)
	t.FooterText = r.NewStyle().Foreground(t.Subtext).Italic(true)

	return t
}

// ThemeFor builds the theme for a config theme mode. dark and light pin the
// renderer's background; auto keeps whatever the terminal reports.
func ThemeFor(mode string) Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	switch mode {
	case config.ThemeDark:
		r.SetHasDarkBackground(true)
	case config.ThemeLight:
		r.SetHasDarkBackground(false)
	default:
		mode = config.ThemeAuto
	}
	t := DefaultTheme(r)
	t.Mode = mode
	return t
}

// Toggle flips between dark and light. From auto it picks the opposite of
// what the terminal currently reports.
func (t Theme) Toggle() Theme {
	if t.Renderer != nil && t.Renderer.HasDarkBackground() {
		return ThemeFor(config.ThemeLight)
	}
	return ThemeFor(config.ThemeDark)
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
