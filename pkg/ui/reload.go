package ui

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/dirtree/internal/datasource"
	"github.com/vanderheijden86/dirtree/pkg/config"
	"github.com/vanderheijden86/dirtree/pkg/debug"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/tree"
	"github.com/vanderheijden86/dirtree/pkg/watcher"
)

// FileChangedMsg is sent when a watched dataset file changes.
type FileChangedMsg struct {
	Path string
}

// ReloadedMsg carries the result of re-reading the datasets after Path
// changed. On error the model keeps its current hierarchy.
type ReloadedMsg struct {
	Path  string
	Nodes []model.Node
	Err   error
}

// WatchFileCmd waits for the next change reported by g.
func WatchFileCmd(g *watcher.Group) tea.Cmd {
	if g == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-g.Changed()
		if !ok {
			return nil
		}
		return FileChangedMsg{Path: path}
	}
}

// ReloadCmd re-reads every dataset. All paths are loaded again so ids
// stay unique across sources.
func ReloadCmd(paths []string, changed string) tea.Cmd {
	return func() tea.Msg {
		nodes, _, err := datasource.LoadAll(context.Background(), paths, datasource.LoadOptions{
			Warnings: func(w string) { debug.Log("reload warning: %s", w) },
		})
		return ReloadedMsg{Path: changed, Nodes: nodes, Err: err}
	}
}

func (m *Model) applyReload(msg ReloadedMsg) {
	name := filepath.Base(msg.Path)
	if msg.Err != nil {
		m.setError(fmt.Sprintf("Reload of %s failed, keeping previous data: %v", name, msg.Err))
		return
	}

	diff := datasource.DiffForests(m.store.Snapshot().Data, msg.Nodes)
	if err := m.store.SetData(msg.Nodes); err != nil {
		m.setError(fmt.Sprintf("Reload of %s rejected: %v", name, err))
		return
	}
	debug.Log("reloaded %s: %s", msg.Path, diff.Summary())

	// SetData drops any drag in progress.
	m.kbDrag = false
	m.press = pressState{}
	if m.focused == focusRename && !tree.Contains(msg.Nodes, m.renameID) {
		m.endRename()
	}
	m.followCursor()
	m.setStatus(fmt.Sprintf("Reloaded %s: %s", name, diff.Summary()))
}

// saveViewState records the expansion and view mode for the current
// datasets.
func (m Model) saveViewState() {
	if m.viewState == nil || m.viewStatePath == "" {
		return
	}
	s := m.store.Snapshot()
	m.viewState.Put(m.datasetKey, config.DatasetState{
		Expanded: s.Expanded.Sorted(),
		Mode:     s.Mode.String(),
	})
	if err := m.viewState.Save(m.viewStatePath); err != nil {
		log.Printf("warning: %v", err)
	}
}
