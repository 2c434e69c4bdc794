package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/dirtree/pkg/config"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	if isColorEmpty(theme.Primary) {
		t.Error("DefaultTheme Primary color is empty")
	}
	if isColorEmpty(theme.Drop) {
		t.Error("DefaultTheme Drop color is empty")
	}
	if theme.Mode != config.ThemeAuto {
		t.Errorf("Mode = %q, want auto", theme.Mode)
	}
}

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

func TestThemeFor(t *testing.T) {
	tests := []struct {
		mode     string
		wantMode string
		wantDark bool
	}{
		{config.ThemeDark, config.ThemeDark, true},
		{config.ThemeLight, config.ThemeLight, false},
	}
	for _, tt := range tests {
		theme := ThemeFor(tt.mode)
		if theme.Mode != tt.wantMode {
			t.Errorf("ThemeFor(%q).Mode = %q", tt.mode, theme.Mode)
		}
		if got := theme.Renderer.HasDarkBackground(); got != tt.wantDark {
			t.Errorf("ThemeFor(%q) dark background = %v, want %v", tt.mode, got, tt.wantDark)
		}
	}

	if got := ThemeFor("bogus").Mode; got != config.ThemeAuto {
		t.Errorf("unknown mode should fall back to auto, got %q", got)
	}
}

func TestThemeBgFg(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.TrueColor
	if _, ok := ThemeBg("#282A36").(lipgloss.Color); !ok {
		t.Error("TrueColor should keep the background color")
	}
	TermProfile = colorprofile.ANSI256
	if _, ok := ThemeBg("#282A36").(lipgloss.NoColor); !ok {
		t.Error("ANSI256 should drop the background color")
	}
	if _, ok := ThemeFg("#F8F8F2").(lipgloss.Color); !ok {
		t.Error("ANSI256 should keep the foreground color")
	}
	TermProfile = colorprofile.ANSI
	if c, ok := ThemeFg("#F8F8F2").(lipgloss.ANSIColor); !ok || c != 7 {
		t.Errorf("ANSI should fall back to color 7, got %v", ThemeFg("#F8F8F2"))
	}
}
