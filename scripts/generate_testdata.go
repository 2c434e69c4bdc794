//go:build ignore

// generate_testdata.go creates folder hierarchies for benchmarking dt.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.json     (~100 nodes, random nesting)
//	testdata/benchmark/medium.json    (~1000 nodes, random nesting)
//	testdata/benchmark/large.jsonl    (~10000 nodes as parent-linked records)
//	testdata/benchmark/deep.json      (a single 500-level chain)
//	testdata/benchmark/wide.json      (5000 top-level folders)
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/dirtree/pkg/loader"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/testutil"
)

type datasetSpec struct {
	name  string
	build func(g *testutil.Generator) []model.Node
}

var datasets = []datasetSpec{
	{"small.json", func(g *testutil.Generator) []model.Node { return g.Random(100) }},
	{"medium.json", func(g *testutil.Generator) []model.Node { return g.Random(1000) }},
	{"large.jsonl", func(g *testutil.Generator) []model.Node { return g.Random(10000) }},
	{"deep.json", func(g *testutil.Generator) []model.Node { return g.Chain(500) }},
	{"wide.json", func(g *testutil.Generator) []model.Node { return g.Wide(5000) }},
}

func main() {
	outputDir := filepath.Join("testdata", "benchmark")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for i, ds := range datasets {
		cfg := testutil.DefaultConfig()
		cfg.Seed = int64(i + 1) // reproducible per dataset
		cfg.IDPrefix = fmt.Sprintf("bench%d-", i)
		cfg.MaxDepth = 6
		nodes := ds.build(testutil.New(cfg))

		data, err := encode(ds.name, nodes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.name, err)
			os.Exit(1)
		}
		outputPath := filepath.Join(outputDir, ds.name)
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes, %d nodes)\n", outputPath, len(data), len(loader.Records(nodes)))
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}

// encode writes nested JSON, or one record per line for .jsonl.
func encode(name string, nodes []model.Node) ([]byte, error) {
	if filepath.Ext(name) != ".jsonl" {
		return json.MarshalIndent(nodes, "", "  ")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range loader.Records(nodes) {
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
