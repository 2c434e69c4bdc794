// Package loader decodes hierarchy datasets into a node forest.
//
// Three encodings are supported:
//
//   - JSON: an array of nested nodes ({"id","name","type","children"}), or an
//     object with a "nodes" array.
//   - YAML: the same nested shape.
//   - JSONL: one flat record per line ({"id","parent_id","name","type",
//     "position"}), assembled into a forest by BuildForest.
package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned for files whose encoding cannot be inferred.
var ErrUnknownFormat = errors.New("unknown dataset format")

// DetectFormat infers the encoding from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// DefaultMaxBufferSize is the default maximum JSONL line size (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// ParseOptions configures parsing.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., malformed JSONL
	// lines). If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// BufferSize sets the maximum JSONL line size in bytes. Longer lines
	// are skipped with a warning. If 0, uses DefaultMaxBufferSize.
	BufferSize int
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// LoadFile reads and validates a dataset, inferring the format from the
// file extension.
func LoadFile(path string) ([]model.Node, error) {
	return LoadFileWithOptions(path, ParseOptions{})
}

// LoadFileWithOptions is LoadFile with custom parse options.
func LoadFileWithOptions(path string, opts ParseOptions) ([]model.Node, error) {
	defer metrics.Timer(metrics.DatasetLoad)()

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	nodes, err := Parse(f, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}

// Parse decodes a dataset in the given format and validates the result.
func Parse(r io.Reader, format Format, opts ParseOptions) ([]model.Node, error) {
	var (
		nodes []model.Node
		err   error
	)
	switch format {
	case FormatJSON:
		nodes, err = parseJSON(r)
	case FormatYAML:
		nodes, err = parseYAML(r)
	case FormatJSONL:
		var records []Record
		records, err = ParseRecords(r, opts)
		if err == nil {
			nodes, err = BuildForest(records)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	normalize(nodes)
	if err := model.ValidateForest(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

type envelope struct {
	Nodes []model.Node `json:"nodes" yaml:"nodes"`
}

func parseJSON(r io.Reader) ([]model.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	data = bytes.TrimSpace(stripBOM(data))
	if len(data) == 0 {
		return []model.Node{}, nil
	}
	if data[0] == '{' {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return env.Nodes, nil
	}
	var nodes []model.Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return nodes, nil
}

func parseYAML(r io.Reader) ([]model.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading YAML: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Node{}, nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind == yaml.MappingNode {
		var env envelope
		if err := doc.Decode(&env); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		return env.Nodes, nil
	}
	var nodes []model.Node
	if err := doc.Decode(&nodes); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return nodes, nil
}

// normalize fills defaults: a missing kind means folder, names are trimmed.
func normalize(nodes []model.Node) {
	for i := range nodes {
		if nodes[i].Kind == "" {
			nodes[i].Kind = model.KindFolder
		}
		nodes[i].Kind = model.Kind(strings.ToLower(strings.TrimSpace(string(nodes[i].Kind))))
		nodes[i].Name = strings.TrimSpace(nodes[i].Name)
		normalize(nodes[i].Children)
	}
}

// ParseRecords reads JSONL records. Blank lines are skipped; malformed and
// over-long lines are skipped with a warning.
func ParseRecords(r io.Reader, opts ParseOptions) ([]Record, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)
	warn := opts.warn()

	var records []Record
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading records at line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		if rec.ID == "" {
			warn(fmt.Sprintf("skipping record without id on line %d", lineNum))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
