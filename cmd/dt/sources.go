package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/dirtree/internal/datasource"
	"github.com/vanderheijden86/dirtree/pkg/config"
)

var errInvalidSources = errors.New("some dataset files failed validation")

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources [path...]",
		Short: "Check dataset files without opening the browser",
		Long: `sources loads each dataset once and reports its type, size and node
count, or why it cannot be read. Directories are expanded to the dataset
files inside them. Without arguments the configured datasets are checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := cfg.ApplyEnv(); err != nil {
					return err
				}
				paths = cfg.Data
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No datasets configured; dt shows the built-in sample.")
				return nil
			}
			return checkSources(cmd, paths)
		},
	}
}

func checkSources(cmd *cobra.Command, paths []string) error {
	expanded, err := datasource.ExpandPaths(paths)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	failed := false
	for _, p := range expanded {
		src, err := datasource.Detect(p)
		if err != nil {
			fmt.Fprintf(out, "%s (invalid: %v)\n", p, err)
			failed = true
			continue
		}
		if datasource.ValidateSource(&src) != nil {
			failed = true
		}
		fmt.Fprintln(out, src.String())
	}
	if failed {
		return errInvalidSources
	}
	return nil
}
