// Package datasource detects dataset files, reads them through the matching
// decoder, and merges several sources into one hierarchy.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/dirtree/pkg/loader"
	"github.com/vanderheijden86/dirtree/pkg/tree"
)

// SourceType identifies the type of data source
type SourceType string

const (
	SourceTypeSQLite SourceType = "sqlite"
	SourceTypeJSON   SourceType = "json"
	SourceTypeJSONL  SourceType = "jsonl"
	SourceTypeYAML   SourceType = "yaml"
)

// ErrUnsupportedSource is returned for paths no reader handles.
var ErrUnsupportedSource = errors.New("unsupported data source")

// DataSource describes one dataset file.
type DataSource struct {
	Type    SourceType `json:"type"`
	Path    string     `json:"path"`
	ModTime time.Time  `json:"mod_time"`
	Size    int64      `json:"size"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// NodeCount is the number of nodes in the source (set during validation)
	NodeCount int `json:"node_count"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = "unvalidated"
		if s.ValidationError != "" {
			status = fmt.Sprintf("invalid: %s", s.ValidationError)
		}
	}
	return fmt.Sprintf("%s (%s, mod=%s, nodes=%d, %s)",
		s.Path, s.Type, s.ModTime.Format(time.RFC3339), s.NodeCount, status)
}

// TypeForPath infers the source type from the file extension.
func TypeForPath(path string) (SourceType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, nil
	}
	format, err := loader.DetectFormat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSource, path)
	}
	switch format {
	case loader.FormatJSON:
		return SourceTypeJSON, nil
	case loader.FormatJSONL:
		return SourceTypeJSONL, nil
	default:
		return SourceTypeYAML, nil
	}
}

// Detect stats path and returns an unvalidated source for it.
func Detect(path string) (DataSource, error) {
	typ, err := TypeForPath(path)
	if err != nil {
		return DataSource{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DataSource{}, fmt.Errorf("data source %s: %w", path, err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%w: %s is a directory", ErrUnsupportedSource, path)
	}
	return DataSource{
		Type:    typ,
		Path:    abs,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}

// DiscoverSources lists the dataset files directly inside dir, newest first.
// Backup and editor artifacts are skipped.
func DiscoverSources(dir string) ([]DataSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var sources []DataSource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") ||
			strings.Contains(name, ".backup") ||
			strings.Contains(name, ".orig") ||
			strings.HasSuffix(name, "~") {
			continue
		}
		if _, err := TypeForPath(name); err != nil {
			continue
		}
		src, err := Detect(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		sources = append(sources, src)
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Path < sources[j].Path
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
	return sources, nil
}

// ExpandPaths replaces every directory in paths with the dataset files
// DiscoverSources finds in it. Files are kept as given. A directory with
// no datasets is an error.
func ExpandPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		found, err := DiscoverSources(p)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%w: no dataset files in %s", ErrUnsupportedSource, p)
		}
		for _, src := range found {
			out = append(out, src.Path)
		}
	}
	return out, nil
}

// ValidateSource loads the source once and records the outcome on it.
func ValidateSource(s *DataSource) error {
	nodes, err := LoadFromSource(*s)
	if err != nil {
		s.Valid = false
		s.ValidationError = err.Error()
		s.NodeCount = 0
		return err
	}
	s.Valid = true
	s.ValidationError = ""
	s.NodeCount = tree.Count(nodes)
	return nil
}
