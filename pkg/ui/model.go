// Package ui is the terminal front end of dt: a bubbletea program that
// draws the store's virtualized row window, maps keys and mouse gestures
// onto store actions, and reloads the hierarchy when a dataset changes on
// disk.
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/dirtree/pkg/config"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/store"
	"github.com/vanderheijden86/dirtree/pkg/watcher"
)

type focus int

const (
	focusTree focus = iota
	focusSearch
	focusRename
	focusHelp
	focusConfirmDelete
)

// Options configures NewModel.
type Options struct {
	// DataPaths are reloaded when Watcher reports a change. Empty for the
	// built-in sample.
	DataPaths []string
	Watcher   *watcher.Group

	Theme         string // config.ThemeAuto, ThemeDark or ThemeLight
	ShowInspector bool

	// ViewState is updated and written to ViewStatePath on quit. Either
	// may be empty to skip persistence.
	ViewState     *config.ViewState
	ViewStatePath string
}

// pressState tracks a left button held over a row.
type pressState struct {
	active   bool
	id       string
	line     int
	dragging bool
	// deferred is set when a plain press lands on an already-selected row:
	// the selection is kept so a drag carries all of it, and collapses to
	// the row only on a release without movement.
	deferred bool
}

// Model is the main Bubble Tea model for the tree browser.
type Model struct {
	store *store.Store
	theme Theme

	width  int
	height int
	ready  bool

	focused   focus
	cursorID  string
	cursorIdx int // last resolved index, used when cursorID vanishes

	search   textinput.Model
	rename   textinput.Model
	renameID string

	help viewport.Model

	showInspector bool

	statusMsg     string
	statusIsError bool

	// Keyboard drag: a pointer in content coordinates moved a quarter
	// row at a time.
	kbDrag   bool
	pointerY float64

	press pressState

	pendingDelete []string
	newFolderSeq  int

	dataPaths     []string
	watcher       *watcher.Group
	viewState     *config.ViewState
	viewStatePath string
	datasetKey    string
}

// NewModel creates a model over st.
func NewModel(st *store.Store, opts Options) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search folders (* matches anything)"
	search.CharLimit = 256
	search.SetValue(st.Snapshot().Query)

	rename := textinput.New()
	rename.Prompt = ""
	rename.CharLimit = 256

	m := Model{
		store:         st,
		theme:         ThemeFor(opts.Theme),
		search:        search,
		rename:        rename,
		help:          viewport.New(60, 20),
		showInspector: opts.ShowInspector,
		dataPaths:     append([]string(nil), opts.DataPaths...),
		watcher:       opts.Watcher,
		viewState:     opts.ViewState,
		viewStatePath: opts.ViewStatePath,
		datasetKey:    config.DatasetKey(opts.DataPaths),
	}
	if rows := st.Rows(); len(rows) > 0 {
		m.cursorID = rows[0].ID
	}
	return m
}

// Store returns the store the model drives.
func (m Model) Store() *store.Store {
	return m.store
}

func (m Model) Init() tea.Cmd {
	return WatchFileCmd(m.watcher)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.store.SetViewportHeight(float64(m.listHeight()) * model.ItemHeight)
		m.search.Width = max(10, m.width-4)
		m.resizeHelp()
		m.followCursor()
		return m, nil

	case FileChangedMsg:
		return m, ReloadCmd(m.dataPaths, msg.Path)

	case ReloadedMsg:
		m.applyReload(msg)
		return m, WatchFileCmd(m.watcher)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.focused {
		case focusSearch:
			return m.handleSearchKeys(msg)
		case focusRename:
			return m.handleRenameKeys(msg)
		case focusHelp:
			return m.handleHelpKeys(msg)
		case focusConfirmDelete:
			return m.handleDeleteKeys(msg)
		}
		if m.kbDrag {
			return m.handleDragKeys(msg)
		}
		return m.handleTreeKeys(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.saveViewState()
	return m, tea.Quit
}

// listHeight is the number of terminal lines given to rows. One line
// stands for one model.ItemHeight of content.
func (m Model) listHeight() int {
	return max(1, m.height-headerLines-footerLines)
}

func (m Model) listWidth() int {
	w := m.width
	if m.showInspector && w-inspectorWidth >= minListWidth {
		w -= inspectorWidth
	}
	return max(1, w)
}

// firstLine is the index of the row drawn on the first list line.
func (m Model) firstLine() int {
	return int(m.store.Snapshot().ScrollTop / model.ItemHeight)
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusIsError = false
}

func (m *Model) setError(msg string) {
	m.statusMsg = msg
	m.statusIsError = true
}

// cursorIndex resolves the cursor to a row index, falling back to the
// nearest row when the cursor's row disappeared. -1 means no rows.
func (m *Model) cursorIndex() int {
	rows := m.store.Rows()
	if len(rows) == 0 {
		return -1
	}
	if i, ok := m.store.RowIndex(m.cursorID); ok {
		m.cursorIdx = i
		return i
	}
	i := min(max(m.cursorIdx, 0), len(rows)-1)
	m.cursorID = rows[i].ID
	m.cursorIdx = i
	return i
}

func (m *Model) setCursorIndex(i int) {
	rows := m.store.Rows()
	if len(rows) == 0 {
		m.cursorID = ""
		m.cursorIdx = 0
		return
	}
	i = min(max(i, 0), len(rows)-1)
	m.cursorID = rows[i].ID
	m.cursorIdx = i
	m.store.ScrollToRow(i)
}

func (m *Model) setCursorID(id string) {
	if i, ok := m.store.RowIndex(id); ok {
		m.setCursorIndex(i)
	}
}

func (m *Model) moveCursor(delta int) {
	m.setCursorIndex(m.cursorIndex() + delta)
}

func (m *Model) followCursor() {
	if i := m.cursorIndex(); i >= 0 {
		m.store.ScrollToRow(i)
	}
}

func (m *Model) cursorRow() (model.Row, bool) {
	i := m.cursorIndex()
	if i < 0 {
		return model.Row{}, false
	}
	return m.store.Rows()[i], true
}
