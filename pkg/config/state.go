package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// ViewState is the per-dataset UI state remembered between sessions.
//
// File format (JSON), at StateDir()/view-state.json:
//
//	{
//	  "version": 1,
//	  "datasets": {
//	    "<key>": {"expanded": ["src", "components"], "mode": "tree"}
//	  }
//	}
//
// A missing or corrupted file means defaults. Stale ids are kept; the store
// tolerates them.
type ViewState struct {
	Version  int                     `json:"version"`
	Datasets map[string]DatasetState `json:"datasets"`
}

// DatasetState is the remembered state for one set of dataset paths.
type DatasetState struct {
	Expanded []string `json:"expanded"`
	Mode     string   `json:"mode,omitempty"`
}

// ViewStateVersion is the current schema version.
const ViewStateVersion = 1

const viewStateFileName = "view-state.json"

// ViewStatePath returns the path of the view state file, or "" when no
// state directory can be determined.
func ViewStatePath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, viewStateFileName)
}

// DatasetKey identifies a set of dataset paths independent of order.
// The built-in sample uses the key "sample".
func DatasetKey(paths []string) string {
	if len(paths) == 0 {
		return "sample"
	}
	abs := make([]string, len(paths))
	for i, p := range paths {
		if a, err := filepath.Abs(p); err == nil {
			p = a
		}
		abs[i] = p
	}
	sort.Strings(abs)
	sum := sha256.Sum256([]byte(strings.Join(abs, "\x00")))
	return hex.EncodeToString(sum[:8])
}

// LoadViewState reads path. Missing or unreadable files yield an empty state.
func LoadViewState(path string) *ViewState {
	state := &ViewState{Version: ViewStateVersion, Datasets: make(map[string]DatasetState)}
	if path == "" {
		return state
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return state
	}
	var loaded ViewState
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("warning: invalid view state file, using defaults: %v", err)
		return state
	}
	if loaded.Version != ViewStateVersion {
		return state
	}
	if loaded.Datasets != nil {
		state.Datasets = loaded.Datasets
	}
	return state
}

// Save writes the state to path.
func (s *ViewState) Save(path string) error {
	if path == "" {
		return fmt.Errorf("cannot determine state directory")
	}
	s.Version = ViewStateVersion
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling view state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing view state: %w", err)
	}
	return nil
}

// Get returns the remembered state for key.
func (s *ViewState) Get(key string) (DatasetState, bool) {
	ds, ok := s.Datasets[key]
	return ds, ok
}

// Put records the state for key. Expanded ids are stored sorted.
func (s *ViewState) Put(key string, ds DatasetState) {
	if s.Datasets == nil {
		s.Datasets = make(map[string]DatasetState)
	}
	ids := append([]string(nil), ds.Expanded...)
	sort.Strings(ids)
	ds.Expanded = ids
	s.Datasets[key] = ds
}
