package main

import (
	"fmt"

	"github.com/vanderheijden86/dirtree/pkg/config"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/sample"
	"github.com/vanderheijden86/dirtree/pkg/store"
)

// options holds the root command's flags.
type options struct {
	data      []string
	sample    bool
	mode      string
	query     string
	theme     string
	overscan  int
	expandAll bool
	inspector bool
	noWatch   bool

	dumpRows bool
	snapshot string
	outline  string

	stats      bool
	statsJSON  bool
	cpuProfile string
}

// headless reports whether dt should write its outputs and exit instead of
// starting the TUI.
func (o options) headless() bool {
	return o.dumpRows || o.snapshot != "" || o.outline != ""
}

// apply overlays the flags the user set on cfg. changed reports whether a
// flag was given on the command line, so defaults never mask the config
// file or the environment.
func (o options) apply(cfg *config.Config, changed func(string) bool) error {
	if changed("data") {
		cfg.Data = append([]string(nil), o.data...)
	}
	if changed("mode") {
		cfg.UI.DefaultView = o.mode
	}
	if changed("theme") {
		cfg.UI.Theme = o.theme
	}
	if changed("overscan") {
		cfg.UI.Overscan = o.overscan
	}
	if changed("inspector") {
		cfg.UI.ShowInspector = o.inspector
	}
	if o.noWatch {
		off := false
		cfg.Watch.Enabled = &off
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}

// storeOptions builds the initial store state. The saved view state of the
// same datasets wins over the config file, and an explicit --mode wins
// over both.
func storeOptions(cfg config.Config, o options, paths []string, saved config.DatasetState, changed func(string) bool) []store.Option {
	expanded := cfg.UI.Expanded
	if len(expanded) == 0 && len(paths) == 0 {
		expanded = sample.DefaultExpanded
	}
	mode := cfg.ViewMode()

	if saved.Expanded != nil {
		expanded = saved.Expanded
	}
	if m, err := model.ParseViewMode(saved.Mode); err == nil && saved.Mode != "" && !changed("mode") {
		mode = m
	}

	return []store.Option{
		store.WithExpanded(expanded...),
		store.WithMode(mode),
		store.WithQuery(o.query),
		store.WithOverscan(cfg.UI.Overscan),
	}
}
