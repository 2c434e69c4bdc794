package datasource

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/dirtree/pkg/debug"
	"github.com/vanderheijden86/dirtree/pkg/loader"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/tree"
)

// LoadOptions configures LoadAll.
type LoadOptions struct {
	// Concurrency bounds the number of sources read at once. 0 means
	// GOMAXPROCS.
	Concurrency int
	// Warnings receives non-fatal parse warnings. Nil discards them.
	Warnings func(string)
}

// LoadFromSource loads a forest from a specific DataSource, dispatching to
// the appropriate reader based on source type.
func LoadFromSource(source DataSource) ([]model.Node, error) {
	return loadFromSource(source, loader.ParseOptions{WarningHandler: func(string) {}})
}

func loadFromSource(source DataSource, opts loader.ParseOptions) ([]model.Node, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		nodes, err := reader.LoadNodes()
		if err != nil {
			return nil, err
		}
		if err := model.ValidateForest(nodes); err != nil {
			return nil, fmt.Errorf("%s: %w", source.Path, err)
		}
		return nodes, nil

	case SourceTypeJSON, SourceTypeJSONL, SourceTypeYAML:
		return loader.LoadFileWithOptions(source.Path, opts)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source.Type)
	}
}

// LoadAll reads every path concurrently and concatenates the forests in
// argument order. Ids must be unique across all sources.
func LoadAll(ctx context.Context, paths []string, opts LoadOptions) ([]model.Node, []DataSource, error) {
	defer debug.LogEnterExit("datasource.LoadAll")()

	sources := make([]DataSource, len(paths))
	forests := make([][]model.Node, len(paths))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	warn := opts.Warnings
	if warn == nil {
		warn = func(string) {}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := Detect(path)
			if err != nil {
				return err
			}
			nodes, err := loadFromSource(src, loader.ParseOptions{
				WarningHandler: func(msg string) { warn(path + ": " + msg) },
			})
			if err != nil {
				return err
			}
			src.Valid = true
			src.NodeCount = tree.Count(nodes)
			sources[i] = src
			forests[i] = nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var merged []model.Node
	for i, f := range forests {
		debug.Log("loaded %d nodes from %s", sources[i].NodeCount, sources[i].Path)
		merged = append(merged, f...)
	}
	if merged == nil {
		merged = []model.Node{}
	}
	if err := model.ValidateForest(merged); err != nil {
		return nil, nil, fmt.Errorf("merging %s: %w", strings.Join(paths, ", "), err)
	}
	return merged, sources, nil
}

