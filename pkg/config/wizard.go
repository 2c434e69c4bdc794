package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/dirtree/internal/datasource"
	"github.com/vanderheijden86/dirtree/pkg/model"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// wizardAnswers holds form values as the widgets edit them.
type wizardAnswers struct {
	data          string
	view          string
	theme         string
	overscan      string
	showInspector bool
	watch         bool
	forcePoll     bool
}

func answersFrom(cfg Config) wizardAnswers {
	return wizardAnswers{
		data:          strings.Join(cfg.Data, ", "),
		view:          cfg.ViewMode().String(),
		theme:         orDefault(cfg.UI.Theme, ThemeAuto),
		overscan:      strconv.Itoa(cfg.UI.Overscan),
		showInspector: cfg.UI.ShowInspector,
		watch:         cfg.WatchEnabled(),
		forcePoll:     cfg.Watch.ForcePoll,
	}
}

// apply copies the answers onto cfg and validates the result.
func (a wizardAnswers) apply(cfg Config) (Config, error) {
	cfg.Data = nil
	for _, p := range strings.Split(a.data, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Data = append(cfg.Data, expandHome(p))
		}
	}
	cfg.UI.DefaultView = a.view
	cfg.UI.Theme = a.theme
	n, err := strconv.Atoi(strings.TrimSpace(a.overscan))
	if err != nil {
		return cfg, fmt.Errorf("%w: overscan %q is not a number", ErrInvalidConfig, a.overscan)
	}
	cfg.UI.Overscan = n
	cfg.UI.ShowInspector = a.showInspector
	watch := a.watch
	cfg.Watch.Enabled = &watch
	cfg.Watch.ForcePoll = a.forcePoll
	return cfg, cfg.Validate()
}

func validateOverscan(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number >= 0")
	}
	return nil
}

func validateDataPaths(s string) error {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			found, err := datasource.DiscoverSources(p)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				return fmt.Errorf("%s: no dataset files in directory", p)
			}
			continue
		}
		if _, err := datasource.TypeForPath(p); err != nil {
			return fmt.Errorf("%s: unsupported dataset type", p)
		}
	}
	return nil
}

// RunWizard walks the user through the settings, starting from current, and
// returns the edited config. It does not save.
func RunWizard(out io.Writer, current Config) (Config, error) {
	a := answersFrom(current)

	fmt.Fprintln(out, "dt configuration")
	fmt.Fprintln(out, "────────────────")

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dataset files").
				Description("Comma separated .json, .jsonl, .yaml or .db files, or directories of them. Empty uses the built-in sample.").
				Value(&a.data).
				Validate(validateDataPaths),
			huh.NewSelect[string]().
				Title("Initial view").
				Options(
					huh.NewOption("Tree (nested, expandable)", model.ModeTree.String()),
					huh.NewOption("Flat (every folder, no nesting)", model.ModeFlat.String()),
				).
				Value(&a.view),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Follow terminal background", ThemeAuto),
					huh.NewOption("Dark", ThemeDark),
					huh.NewOption("Light", ThemeLight),
				).
				Value(&a.theme),
			huh.NewInput().
				Title("Overscan rows").
				Description("Rows rendered above and below the visible window").
				Value(&a.overscan).
				Validate(validateOverscan),
			huh.NewConfirm().
				Title("Show the state inspector panel?").
				Value(&a.showInspector),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reload when dataset files change?").
				Value(&a.watch),
			huh.NewConfirm().
				Title("Force polling instead of filesystem events?").
				Description("Useful on network mounts").
				Value(&a.forcePoll),
		),
	)

	if err := form.Run(); err != nil {
		return current, err
	}
	return a.apply(current)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
