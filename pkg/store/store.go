package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vanderheijden86/dirtree/pkg/debug"
	"github.com/vanderheijden86/dirtree/pkg/dnd"
	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/selection"
	"github.com/vanderheijden86/dirtree/pkg/tree"
	"github.com/vanderheijden86/dirtree/pkg/viewport"
)

// Errors returned by store actions. A rejected action leaves the state
// unchanged. Drop rejections come from package dnd and are re-exported
// here for callers that only import store.
var (
	ErrFlatMode      = errors.New("drag and drop is disabled in flat mode")
	ErrNotDragging   = errors.New("no drag in progress")
	ErrInvalidData   = errors.New("invalid hierarchy")
	ErrUnknownNode   = errors.New("unknown node")
	ErrDuplicateNode = errors.New("node id already exists")

	ErrNothingToMove      = dnd.ErrNothingToMove
	ErrDropOnSelf         = dnd.ErrDropOnSelf
	ErrTargetNotFound     = dnd.ErrTargetNotFound
	ErrDropIntoDescendant = dnd.ErrDropIntoDescendant
)

// Option configures a Store.
type Option func(*State)

// WithExpanded sets the initially expanded ids.
func WithExpanded(ids ...string) Option {
	return func(s *State) {
		s.Expanded = model.NewIDSet(ids...)
	}
}

// WithMode sets the initial view mode.
func WithMode(m model.ViewMode) Option {
	return func(s *State) {
		s.Mode = m
	}
}

// WithQuery sets the initial search query.
func WithQuery(q string) Option {
	return func(s *State) {
		s.Query = q
	}
}

// WithViewportHeight sets the scroll container height in pixels.
func WithViewportHeight(h float64) Option {
	return func(s *State) {
		s.ViewportHeight = h
	}
}

// WithOverscan sets how many rows are rendered beyond each viewport edge.
func WithOverscan(n int) Option {
	return func(s *State) {
		if n >= 0 {
			s.Overscan = n
		}
	}
}

// Store holds the current State and serializes actions.
type Store struct {
	mu    sync.Mutex // serializes writers
	state atomic.Pointer[State]

	rows rowCache

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// New creates a store over data. data is not copied; callers must not
// modify it afterwards.
func New(data []model.Node, opts ...Option) *Store {
	s := &State{
		Data:           data,
		Expanded:       model.NewIDSet(),
		Selection:      selection.State{Selected: model.NewIDSet()},
		Mode:           model.ModeTree,
		ViewportHeight: model.ContainerHeight,
		Overscan:       model.DefaultOverscan,
		DataRev:        1,
		ExpandRev:      1,
	}
	if s.Data == nil {
		s.Data = []model.Node{}
	}
	for _, opt := range opts {
		opt(s)
	}
	st := &Store{subs: make(map[int]func(State))}
	st.state.Store(s)
	return st
}

// Snapshot returns the current state. Its maps and slices are shared with
// the store and with later snapshots. Actions replace them rather than
// writing into them, so a held snapshot never changes underneath the
// caller; callers must not write into them either.
func (st *Store) Snapshot() State {
	return *st.state.Load()
}

// Subscribe registers fn to be called with every new snapshot. The
// returned function unregisters it.
func (st *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	st.subMu.Lock()
	defer st.subMu.Unlock()
	id := st.nextSub
	st.nextSub++
	st.subs[id] = fn
	return func() {
		st.subMu.Lock()
		delete(st.subs, id)
		st.subMu.Unlock()
	}
}

// update applies fn to a copy of the current state under the writer lock.
// fn returns false to abandon the change. Subscribers are notified after
// the lock is released.
func (st *Store) update(fn func(s *State) bool) bool {
	st.mu.Lock()
	next := st.state.Load().clone()
	if !fn(next) {
		st.mu.Unlock()
		return false
	}
	st.state.Store(next)
	st.mu.Unlock()

	st.subMu.Lock()
	subs := make([]func(State), 0, len(st.subs))
	for _, fn := range st.subs {
		subs = append(subs, fn)
	}
	st.subMu.Unlock()
	for _, fn := range subs {
		fn(*next)
	}
	return true
}

func (s *State) setData(nodes []model.Node) {
	s.Data = nodes
	s.DataRev++
}

func (s *State) setExpanded(ids model.IDSet) {
	s.Expanded = ids
	s.ExpandRev++
}

// ToggleExpand flips the expansion of id. Unknown ids are toggled too;
// stale entries are harmless.
func (st *Store) ToggleExpand(id string) {
	st.update(func(s *State) bool {
		s.setExpanded(s.Expanded.Toggle(id))
		return true
	})
}

// SetExpanded expands or collapses id.
func (st *Store) SetExpanded(id string, expanded bool) {
	st.update(func(s *State) bool {
		if s.Expanded.Has(id) == expanded {
			return false
		}
		if expanded {
			s.setExpanded(s.Expanded.With(id))
		} else {
			s.setExpanded(s.Expanded.Without(id))
		}
		return true
	})
}

// ExpandAll expands every container.
func (st *Store) ExpandAll() {
	st.update(func(s *State) bool {
		s.setExpanded(s.Expanded.Union(tree.ContainerIDs(s.Data)))
		return true
	})
}

// CollapseAll collapses everything.
func (st *Store) CollapseAll() {
	st.update(func(s *State) bool {
		if s.Expanded.Len() == 0 {
			return false
		}
		s.setExpanded(model.NewIDSet())
		return true
	})
}

// Reveal expands every ancestor of id so its row becomes visible in tree mode.
func (st *Store) Reveal(id string) bool {
	return st.update(func(s *State) bool {
		path, ok := tree.AncestorsOf(s.Data, id)
		if !ok || len(path) == 0 {
			return false
		}
		s.setExpanded(s.Expanded.With(path...))
		return true
	})
}

// SelectNode applies a click of kind on id. visibleOrder is the row order
// range clicks resolve against.
func (st *Store) SelectNode(id string, kind selection.Click, visibleOrder []string) {
	st.update(func(s *State) bool {
		s.Selection = selection.Apply(s.Selection, id, kind, visibleOrder)
		return true
	})
}

// Click is SelectNode against the store's own visible order.
func (st *Store) Click(id string, kind selection.Click) {
	st.SelectNode(id, kind, st.VisibleIDs())
}

// ClearSelection deselects everything.
func (st *Store) ClearSelection() {
	st.update(func(s *State) bool {
		if s.Selection.Len() == 0 && s.Selection.Anchor == "" {
			return false
		}
		s.Selection = selection.State{Selected: model.NewIDSet()}
		return true
	})
}

// MoveNodes detaches ids and re-inserts them relative to target. Moving
// inside a target expands it. The move is validated first; on error the
// hierarchy is unchanged.
func (st *Store) MoveNodes(ids []string, target string, pos model.Position) error {
	defer metrics.Timer(metrics.MoveNodes)()

	var err error
	st.update(func(s *State) bool {
		var mv dnd.Move
		mv, err = dnd.Plan(s.Data, ids, target, pos)
		if err != nil {
			return false
		}
		s.applyMove(mv)
		return true
	})
	return err
}

// applyMove writes a validated move into s, expanding the target of an
// inside drop.
func (s *State) applyMove(mv dnd.Move) {
	s.setData(mv.Apply(s.Data))
	if mv.ExpandsTarget() && !s.Expanded.Has(mv.Target) {
		s.setExpanded(s.Expanded.With(mv.Target))
	}
	debug.Log("moved %v %s %s", mv.Sources, mv.Position, mv.Target)
}

// RenameNode sets the name of id to the trimmed name. Empty names, unknown
// ids, and unchanged names are rejected and report false.
func (st *Store) RenameNode(id, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return st.update(func(s *State) bool {
		n, ok := tree.FindDeep(s.Data, id)
		if !ok || n.Name == name {
			return false
		}
		s.setData(tree.RenameByID(s.Data, id, name))
		return true
	})
}

// SetSearchQuery replaces the search query.
func (st *Store) SetSearchQuery(q string) {
	st.update(func(s *State) bool {
		if s.Query == q {
			return false
		}
		s.Query = q
		s.ScrollTop = 0
		return true
	})
}

// SetViewMode switches between tree and flat presentation. Entering flat
// mode abandons any drag in progress.
func (st *Store) SetViewMode(m model.ViewMode) {
	st.update(func(s *State) bool {
		if s.Mode == m {
			return false
		}
		s.Mode = m
		s.ScrollTop = 0
		if m == model.ModeFlat {
			s.Dragged = nil
			s.DropTarget = nil
		}
		return true
	})
}

// SetDraggedIDs records the ids carried by the current drag.
func (st *Store) SetDraggedIDs(ids []string) {
	st.update(func(s *State) bool {
		s.Dragged = append([]string(nil), ids...)
		if len(ids) == 0 {
			s.DropTarget = nil
		}
		return true
	})
}

// SetData replaces the hierarchy, for example after the dataset file
// changes on disk. Selection and drag state referring to ids that no
// longer exist are pruned; stale expansion entries are kept.
func (st *Store) SetData(nodes []model.Node) error {
	if nodes == nil {
		nodes = []model.Node{}
	}
	if err := model.ValidateForest(nodes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	st.update(func(s *State) bool {
		s.setData(nodes)
		alive := model.NewIDSet(tree.CollectIDs(nodes)...)
		s.Selection = selection.Prune(s.Selection, alive.Has)
		s.Dragged = nil
		s.DropTarget = nil
		return true
	})
	return nil
}

// RemoveNodes deletes ids and their subtrees and prunes the selection.
func (st *Store) RemoveNodes(ids []string) int {
	removed := 0
	st.update(func(s *State) bool {
		set := model.NewIDSet(ids...)
		before := tree.Count(s.Data)
		next := tree.RemoveByIDs(s.Data, set)
		removed = before - tree.Count(next)
		if removed == 0 {
			return false
		}
		s.setData(next)
		alive := model.NewIDSet(tree.CollectIDs(next)...)
		s.Selection = selection.Prune(s.Selection, alive.Has)
		return true
	})
	return removed
}

// InsertNodes adds new nodes relative to target. The new ids must not
// already exist and target must exist, or be model.RootID.
func (st *Store) InsertNodes(target string, nodes []model.Node, pos model.Position) error {
	if err := model.ValidateForest(nodes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	var err error
	st.update(func(s *State) bool {
		if target != model.RootID && !tree.Contains(s.Data, target) {
			err = fmt.Errorf("%w: %s", ErrUnknownNode, target)
			return false
		}
		existing := model.NewIDSet(tree.CollectIDs(s.Data)...)
		for _, id := range tree.CollectIDs(nodes) {
			if existing.Has(id) {
				err = fmt.Errorf("%w: %s", ErrDuplicateNode, id)
				return false
			}
		}
		s.setData(tree.InsertAt(s.Data, target, nodes, pos))
		if pos == model.Inside && target != model.RootID && !s.Expanded.Has(target) {
			s.setExpanded(s.Expanded.With(target))
		}
		return true
	})
	return err
}

// Scroll sets the scroll offset, clamped to the content.
func (st *Store) Scroll(offset float64) {
	st.update(func(s *State) bool {
		return st.scrollTo(s, offset)
	})
}

// scrollTo clamps offset against the rows of s and stores it. It runs
// inside update, where the cached rows match s.
func (st *Store) scrollTo(s *State, offset float64) bool {
	total := viewport.Compute(st.windowParams(*s, len(st.Rows()))).TotalHeight
	next := viewport.ClampScroll(offset, total, s.ViewportHeight)
	if next == s.ScrollTop {
		return false
	}
	s.ScrollTop = next
	return true
}

// ScrollBy adjusts the scroll offset by delta.
func (st *Store) ScrollBy(delta float64) {
	st.update(func(s *State) bool {
		return st.scrollTo(s, s.ScrollTop+delta)
	})
}

// ScrollToRow scrolls the least amount needed to show row index i.
func (st *Store) ScrollToRow(i int) {
	st.update(func(s *State) bool {
		return st.scrollTo(s, viewport.ScrollToReveal(s.ScrollTop, i, model.ItemHeight, s.ViewportHeight))
	})
}

// SetViewportHeight changes the scroll container height.
func (st *Store) SetViewportHeight(h float64) {
	st.update(func(s *State) bool {
		if h < 0 || s.ViewportHeight == h {
			return false
		}
		s.ViewportHeight = h
		return true
	})
}
