// Package config handles loading and saving dt configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/dt/config.yaml
//   - State:  ~/.local/state/dt/ (per-dataset view state)
//
// Precedence is command-line flags, then DT_* environment variables, then
// the config file, then DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

const appName = "dt"

// Themes accepted by ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultView   string   `yaml:"default_view,omitempty"` // tree, flat
	Overscan      int      `yaml:"overscan,omitempty"`
	Theme         string   `yaml:"theme,omitempty"` // auto, dark, light
	ShowInspector bool     `yaml:"show_inspector,omitempty"`
	Expanded      []string `yaml:"expanded,omitempty"` // initially expanded ids
}

// WatchConfig controls live reload of dataset files.
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled,omitempty"`
	DebounceMs int   `yaml:"debounce_ms,omitempty"`
	ForcePoll  bool  `yaml:"force_poll,omitempty"`
}

// Config is the top-level configuration for dt.
type Config struct {
	Data  []string    `yaml:"data,omitempty"`
	UI    UIConfig    `yaml:"ui,omitempty"`
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultView: model.ModeTree.String(),
			Overscan:    model.DefaultOverscan,
			Theme:       ThemeAuto,
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
	}
}

// ConfigDir returns the XDG config directory for dt.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for dt.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml. DT_CONFIG overrides it.
func ConfigPath() string {
	if p := os.Getenv("DT_CONFIG"); p != "" {
		return expandHome(p)
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	for i := range cfg.Data {
		cfg.Data[i] = expandHome(cfg.Data[i])
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overlays DT_* environment variables:
//
//	DT_DATA       dataset paths, separated by the OS path list separator
//	DT_VIEW       tree | flat
//	DT_OVERSCAN   rows rendered beyond the viewport
//	DT_THEME      auto | dark | light
//	DT_WATCH      enable or disable live reload
//	DT_FORCE_POLL poll instead of using fsnotify
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DT_DATA"); v != "" {
		c.Data = nil
		for _, p := range filepath.SplitList(v) {
			if p = strings.TrimSpace(p); p != "" {
				c.Data = append(c.Data, expandHome(p))
			}
		}
	}
	if v := os.Getenv("DT_VIEW"); v != "" {
		c.UI.DefaultView = v
	}
	if v := os.Getenv("DT_OVERSCAN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DT_OVERSCAN=%q", ErrInvalidConfig, v)
		}
		c.UI.Overscan = n
	}
	if v := os.Getenv("DT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("DT_WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: DT_WATCH=%q", ErrInvalidConfig, v)
		}
		c.Watch.Enabled = &b
	}
	if v := os.Getenv("DT_FORCE_POLL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Watch.ForcePoll = b
		}
	}
	return c.Validate()
}

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	if _, err := model.ParseViewMode(c.UI.DefaultView); err != nil {
		return fmt.Errorf("%w: ui.default_view: %v", ErrInvalidConfig, err)
	}
	if c.UI.Overscan < 0 {
		return fmt.Errorf("%w: ui.overscan must be >= 0, got %d", ErrInvalidConfig, c.UI.Overscan)
	}
	switch c.UI.Theme {
	case "", ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("%w: ui.theme %q (want auto, dark or light)", ErrInvalidConfig, c.UI.Theme)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("%w: watch.debounce_ms must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// ViewMode returns the configured initial view mode.
func (c Config) ViewMode() model.ViewMode {
	m, err := model.ParseViewMode(c.UI.DefaultView)
	if err != nil {
		return model.ModeTree
	}
	return m
}

// WatchEnabled reports whether live reload is on. It defaults to true.
func (c Config) WatchEnabled() bool {
	return c.Watch.Enabled == nil || *c.Watch.Enabled
}

// Debounce returns the watcher debounce window.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
