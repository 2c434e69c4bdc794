// Command dt is a terminal browser for folder hierarchies: expand and
// collapse, search, multi-select and drag folders to rearrange them.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/dirtree/internal/datasource"
	"github.com/vanderheijden86/dirtree/pkg/config"
	"github.com/vanderheijden86/dirtree/pkg/debug"
	"github.com/vanderheijden86/dirtree/pkg/export"
	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/sample"
	"github.com/vanderheijden86/dirtree/pkg/store"
	"github.com/vanderheijden86/dirtree/pkg/ui"
	"github.com/vanderheijden86/dirtree/pkg/version"
	"github.com/vanderheijden86/dirtree/pkg/watcher"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "dt [flags]",
		Short: "Browse and rearrange a folder hierarchy in the terminal",
		Long: `dt shows a folder hierarchy as a virtualized, searchable tree.

Without --data it opens a built-in sample of about a thousand folders.
Dataset files may be JSON, JSONL, YAML or SQLite; several files are
merged in argument order and reloaded when they change on disk. A
directory stands for the dataset files inside it, newest first.

Examples:
  dt                              # browse the sample
  dt --data tree.json             # browse a dataset
  dt --data a.yaml --data b.db    # merge two datasets
  dt --query 'comp*' --dump-rows  # print the matching rows as JSON
  dt --snapshot rows.svg          # render the row window without the TUI`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}
	cmd.SetVersionTemplate("dt {{.Version}}\n")

	f := cmd.Flags()
	f.StringArrayVarP(&o.data, "data", "d", nil, "Dataset file to load (repeatable)")
	f.BoolVar(&o.sample, "sample", false, "Use the built-in sample even when datasets are configured")
	f.StringVarP(&o.mode, "mode", "m", "", "Initial view: tree or flat")
	f.StringVarP(&o.query, "query", "q", "", "Initial search query (* matches any run of characters)")
	f.StringVar(&o.theme, "theme", "", "Color theme: auto, dark or light")
	f.IntVar(&o.overscan, "overscan", model.DefaultOverscan, "Rows rendered beyond the visible window")
	f.BoolVar(&o.expandAll, "expand-all", false, "Start with every folder expanded")
	f.BoolVar(&o.inspector, "inspector", false, "Show the state inspector panel")
	f.BoolVar(&o.noWatch, "no-watch", false, "Do not reload datasets when they change")
	f.BoolVar(&o.dumpRows, "dump-rows", false, "Print the visible rows as JSON and exit")
	f.StringVar(&o.snapshot, "snapshot", "", "Render the row window to an .svg or .png file and exit")
	f.StringVar(&o.outline, "outline", "", "Write a Markdown outline of the visible rows and exit")
	f.BoolVar(&o.stats, "stats", false, "Record timings and print them on exit")
	f.BoolVar(&o.statsJSON, "stats-json", false, "Like --stats, printed as JSON")
	f.StringVar(&o.cpuProfile, "cpu-profile", "", "Write CPU profile to file")

	cmd.AddCommand(newVersionCmd(), newInitCmd(), newSourcesCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dt version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dt %s\n", version.Version)
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or edit the config file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; starting from defaults\n", err)
				cfg = config.DefaultConfig()
			}
			edited, err := config.RunWizard(cmd.OutOrStdout(), cfg)
			if err != nil {
				return err
			}
			if err := config.Save(edited); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", config.ConfigPath())
			return nil
		},
	}
}

func run(cmd *cobra.Command, o options) error {
	start := time.Now()
	stderr := cmd.ErrOrStderr()

	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			return fmt.Errorf("creating CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if o.stats || o.statsJSON {
		metrics.SetEnabled(true)
	}

	// Config load is non-fatal; a broken file falls back to defaults.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := o.apply(&cfg, cmd.Flags().Changed); err != nil {
		return err
	}
	debug.Dump("config", cfg)

	nodes, paths, err := loadData(cmd.Context(), cfg, o, stderr)
	if err != nil {
		return err
	}

	views := config.LoadViewState(config.ViewStatePath())
	saved, _ := views.Get(config.DatasetKey(paths))
	st := store.New(nodes, storeOptions(cfg, o, paths, saved, cmd.Flags().Changed)...)
	if o.expandAll {
		st.ExpandAll()
	}
	debug.AssertNoError(model.ValidateForest(st.Snapshot().Data), "initial hierarchy")
	debug.LogTiming("startup", time.Since(start))

	if o.headless() {
		if err := runHeadless(cmd.OutOrStdout(), st, o); err != nil {
			return err
		}
		return writeStats(cmd.OutOrStdout(), o)
	}

	if debug.Enabled() {
		unsubscribe := st.Subscribe(func(s store.State) {
			debug.LogIf(s.IsDragging(), "dragging %v over %+v", s.Dragged, s.DropTarget)
		})
		defer unsubscribe()
	}

	var group *watcher.Group
	if len(paths) > 0 && cfg.WatchEnabled() {
		group, err = watcher.NewGroup(paths,
			watcher.WithDebounceDuration(cfg.Debounce()),
			watcher.WithForcePoll(cfg.Watch.ForcePoll),
		)
		if err == nil {
			err = group.Start()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Warning: live reload disabled: %v\n", err)
			group = nil
		} else {
			defer group.Stop()
		}
	}

	closeLog, err := redirectLogs()
	if err != nil {
		return err
	}
	defer closeLog()

	m := ui.NewModel(st, ui.Options{
		DataPaths:     paths,
		Watcher:       group,
		Theme:         cfg.UI.Theme,
		ShowInspector: cfg.UI.ShowInspector,
		ViewState:     views,
		ViewStatePath: config.ViewStatePath(),
	})
	if err := runTUIProgram(m); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return writeStats(cmd.OutOrStdout(), o)
}

// loadData returns the forest to browse and the dataset files it came
// from, with directories expanded. The sample has no paths.
func loadData(ctx context.Context, cfg config.Config, o options, warnings io.Writer) ([]model.Node, []string, error) {
	if o.sample || len(cfg.Data) == 0 {
		return sample.Data(), nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := datasource.ExpandPaths(cfg.Data)
	if err != nil {
		return nil, nil, err
	}
	nodes, _, err := datasource.LoadAll(ctx, paths, datasource.LoadOptions{
		Warnings: func(w string) { fmt.Fprintf(warnings, "Warning: %s\n", w) },
	})
	if err != nil {
		return nil, nil, err
	}
	return nodes, paths, nil
}

func runHeadless(w io.Writer, st *store.Store, o options) error {
	if o.dumpRows {
		data, err := json.MarshalIndent(st.Rows(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding rows: %w", err)
		}
		fmt.Fprintf(w, "%s\n", data)
	}
	if o.snapshot != "" {
		if err := export.SaveSnapshot(export.FromStore(st, o.snapshot, "dt")); err != nil {
			return err
		}
		fmt.Fprintf(w, "Snapshot written to %s\n", o.snapshot)
	}
	if o.outline != "" {
		s := st.Snapshot()
		if err := export.SaveOutline(o.outline, "Folders", st.Rows(), s.Data); err != nil {
			return err
		}
		fmt.Fprintf(w, "Outline written to %s\n", o.outline)
	}
	return nil
}

func writeStats(w io.Writer, o options) error {
	switch {
	case o.statsJSON:
		return metrics.WriteJSON(w)
	case o.stats:
		return metrics.WriteTable(w)
	}
	return nil
}

// redirectLogs keeps log output off the alt screen. DT_LOG_FILE names a
// file to append to. Without it, debug output goes to dt-debug.log in the
// temp dir and plain log output is discarded while the TUI runs.
func redirectLogs() (func(), error) {
	path := os.Getenv("DT_LOG_FILE")
	if path == "" && debug.Enabled() {
		path = filepath.Join(os.TempDir(), "dt-debug.log")
	}
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	f, err := tea.LogToFile(path, "dt")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	debug.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		debug.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
