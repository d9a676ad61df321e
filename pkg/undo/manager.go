// ABOUTME: Manager owns the undo and redo stacks, the open group chain, and replay
// ABOUTME: Tasks registered while replaying are captured onto the opposite stack

package undo

import (
	"errors"

	"golang.org/x/text/language"

	"github.com/mauromedda/drawkit-undo-go/internal/eventbus"
	"github.com/mauromedda/drawkit-undo-go/internal/log"
)

var logger = log.For("undo")

// State is the manager's replay mode.
type State int

const (
	CollectingTasks State = iota
	IsUndoing
	IsRedoing
)

func (s State) String() string {
	switch s {
	case IsUndoing:
		return "undo"
	case IsRedoing:
		return "redo"
	}
	return "collect"
}

// CoalescingKind selects how far back coalescing looks in the open group.
type CoalescingKind int

const (
	// CoalesceLastTask only compares against the open group's last task.
	CoalesceLastTask CoalescingKind = iota
	// CoalesceAllMatchingInGroup compares against every task in the open group.
	CoalesceAllMatchingInGroup
)

// Manager is a transactional undo/redo stack. It is not safe for concurrent
// use: all calls must come from the goroutine that runs the host event loop.
type Manager struct {
	undo stack
	redo stack

	open       *Group // innermost open group
	level      int
	autoOpened bool   // top-level open group was opened by a registration
	replaying  *Group // capture group while undoing or redoing
	lastClosed *Group
	state      State

	disabled       int
	groupsByEvent  bool
	coalescing     bool
	coalesceKind   CoalescingKind
	retainsTargets bool
	discardEmpty   bool
	changeCount    int

	bus  *eventbus.Bus[Notification]
	lang language.Tag
}

// NewManager returns a manager with defaults overridden by opts.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		groupsByEvent: true,
		coalescing:    true,
		coalesceKind:  CoalesceLastTask,
		discardEmpty:  true,
		bus:           eventbus.New[Notification](),
		lang:          language.English,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterUndo records fn(target, arg) as the inverse of the change the
// caller is about to make.
func RegisterUndo[T, A any](m *Manager, target *T, selector string, fn func(*T, A), arg A) error {
	t, err := NewTask(target, selector, fn, arg)
	if err != nil {
		return err
	}
	return m.Submit(t)
}

// RegisterUndoE is RegisterUndo for operations that can fail.
func RegisterUndoE[T, A any](m *Manager, target *T, selector string, fn func(*T, A) error, arg A) error {
	t, err := NewTaskE(target, selector, fn, arg)
	if err != nil {
		return err
	}
	return m.Submit(t)
}

// Submit appends t to the open group. With no group open it opens an
// implicit top-level group when grouping by event, and fails otherwise.
// Submissions while registration is disabled are dropped.
func (m *Manager) Submit(t *ConcreteTask) error {
	if t == nil {
		return ErrNilTarget
	}
	if m.disabled > 0 {
		return nil
	}
	if m.open == nil {
		if !m.groupsByEvent {
			return ErrNoOpenGroup
		}
		m.beginGroup(true)
	}
	if m.state == CollectingTasks && m.coalesced(t) {
		logger.Debug("coalesced %q into open group", t.selector)
		return nil
	}
	t.applyDefault(m.retainsTargets)
	m.open.AddTask(t)
	m.changeCount++
	return nil
}

// coalesced reports whether the open group already holds the inverse for
// t's target and selector. The earlier task is kept: its argument is the
// state from before the whole interactive sequence.
func (m *Manager) coalesced(t *ConcreteTask) bool {
	if !m.coalescing {
		return false
	}
	if m.coalesceKind == CoalesceAllMatchingInGroup {
		return m.open.findCall(t) != nil
	}
	last, ok := m.open.LastTask().(*ConcreteTask)
	return ok && last.sameCall(t)
}

// BeginUndoGrouping opens a group nested in the current one, or a new
// top-level group.
func (m *Manager) BeginUndoGrouping() {
	m.beginGroup(false)
}

func (m *Manager) beginGroup(auto bool) {
	g := NewGroup()
	g.open = true
	if m.open != nil {
		m.open.AddTask(g)
	} else {
		m.autoOpened = auto
	}
	m.open = g
	m.level++
	logger.Debug("open group level=%d auto=%t", m.level, auto)
	m.post(DidOpenGroup, g)
}

// EndUndoGrouping closes the innermost open group. Closing a top-level group
// pushes it onto the undo stack unless it is empty and empty groups are
// discarded.
func (m *Manager) EndUndoGrouping() error {
	if m.level == 0 {
		return ErrNotGrouping
	}
	if m.replaying != nil && m.open == m.replaying {
		return ErrNotGrouping
	}
	m.closeGroup()
	return nil
}

func (m *Manager) closeGroup() {
	g := m.open
	m.post(WillCloseGroup, g)
	g.open = false
	parent := g.group
	m.open = parent
	m.level--

	if parent != nil {
		if g.IsEmpty() && m.discardEmpty {
			parent.removeTask(g)
			m.post(DidDiscardGroup, g)
			return
		}
		parent.adoptName(g.actionName)
		m.post(DidCloseGroup, g)
		return
	}

	m.autoOpened = false
	m.lastClosed = g
	if g.IsEmpty() && m.discardEmpty {
		logger.Debug("discard empty group %q", g.actionName)
		m.post(DidDiscardGroup, g)
		return
	}
	m.pushUndo(g)
	m.redo.reset()
	m.post(DidCloseGroup, g)
	m.post(Checkpoint, nil)
}

func (m *Manager) pushUndo(g *Group) {
	for _, old := range m.undo.push(g) {
		logger.Debug("evict undo group %q", old.actionName)
	}
}

func (m *Manager) pushRedo(g *Group) {
	for _, old := range m.redo.push(g) {
		logger.Debug("evict redo group %q", old.actionName)
	}
}

// GroupingLevel returns the number of open groups.
func (m *Manager) GroupingLevel() int { return m.level }

// SetActionName names the innermost open group or, with none open, the most
// recently closed top-level group.
func (m *Manager) SetActionName(name string) {
	switch {
	case m.open != nil:
		m.open.SetActionName(name)
	case m.lastClosed != nil:
		m.lastClosed.SetActionName(name)
	}
}

// NotifyEventCycleEnded is called by the host once per event loop
// iteration. It closes a top-level group opened implicitly by registration,
// together with anything still nested in it.
func (m *Manager) NotifyEventCycleEnded() {
	if !m.groupsByEvent || m.state != CollectingTasks || !m.autoOpened {
		return
	}
	for m.level > 0 {
		m.closeGroup()
	}
}

// Undo reverts the top group of the undo stack and captures the inverse onto
// the redo stack. It returns false when there is nothing to undo.
func (m *Manager) Undo() (bool, error) {
	if err := m.readyToReplay(); err != nil {
		return false, err
	}
	g, ok := m.undo.pop()
	if !ok {
		return false, nil
	}
	return true, m.replay(g, IsUndoing)
}

// UndoNestedGroup is Undo: replay always targets a whole top-level group.
func (m *Manager) UndoNestedGroup() (bool, error) {
	return m.Undo()
}

// Redo re-applies the top group of the redo stack and captures the inverse
// onto the undo stack. It returns false when there is nothing to redo.
func (m *Manager) Redo() (bool, error) {
	if err := m.readyToReplay(); err != nil {
		return false, err
	}
	g, ok := m.redo.pop()
	if !ok {
		return false, nil
	}
	return true, m.replay(g, IsRedoing)
}

// readyToReplay rejects nested replay and closes a pending event group.
func (m *Manager) readyToReplay() error {
	if m.state != CollectingTasks {
		return ErrReentrantUndo
	}
	if m.level == 0 {
		return nil
	}
	if !m.autoOpened {
		return ErrGroupOpen
	}
	for m.level > 0 {
		m.closeGroup()
	}
	return nil
}

func (m *Manager) replay(g *Group, dir State) error {
	will, did := WillUndo, DidUndo
	if dir == IsRedoing {
		will, did = WillRedo, DidRedo
	}
	m.post(will, g)

	capture := &Group{actionName: g.actionName, open: true}
	m.state = dir
	m.replaying = capture
	m.open = capture
	m.level = 1
	logger.Debug("%s %q tasks=%d", dir, g.actionName, g.countTasks())

	finished := false
	defer func() {
		// A panicking task still leaves the manager collecting, with the
		// inverse captured so far on the opposite stack.
		if !finished {
			m.finishReplay(capture, dir)
		}
	}()
	err := g.performReverse()
	finished = true
	m.finishReplay(capture, dir)

	if err != nil {
		var pe *PerformError
		if errors.As(err, &pe) {
			pe.Direction = dir
			pe.ActionName = g.actionName
		}
		logger.Warn("%v", err)
		return err
	}
	m.post(did, capture)
	m.post(Checkpoint, nil)
	return nil
}

func (m *Manager) finishReplay(capture *Group, dir State) {
	// Groups a task left open are folded into the capture.
	for g := m.open; g != nil; g = g.group {
		g.open = false
	}
	m.state = CollectingTasks
	m.replaying = nil
	m.open = nil
	m.level = 0
	m.autoOpened = false
	if capture.IsEmpty() && m.discardEmpty {
		m.post(DidDiscardGroup, capture)
		return
	}
	if dir == IsUndoing {
		m.pushRedo(capture)
	} else {
		m.pushUndo(capture)
	}
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool { return m.undo.size() > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool { return m.redo.size() > 0 }

// UndoActionName returns the name of the group Undo would revert.
func (m *Manager) UndoActionName() string {
	if g := m.undo.peek(); g != nil {
		return g.actionName
	}
	return ""
}

// RedoActionName returns the name of the group Redo would re-apply.
func (m *Manager) RedoActionName() string {
	if g := m.redo.peek(); g != nil {
		return g.actionName
	}
	return ""
}

// UndoMenuItemTitle returns the localized Undo menu title.
func (m *Manager) UndoMenuItemTitle() string {
	return UndoMenuTitle(m.lang, m.UndoActionName())
}

// RedoMenuItemTitle returns the localized Redo menu title.
func (m *Manager) RedoMenuItemTitle() string {
	return RedoMenuTitle(m.lang, m.RedoActionName())
}

// PeekUndo returns the top of the undo stack, or nil.
func (m *Manager) PeekUndo() *Group { return m.undo.peek() }

// PeekRedo returns the top of the redo stack, or nil.
func (m *Manager) PeekRedo() *Group { return m.redo.peek() }

// UndoStack returns the undo stack, oldest first.
func (m *Manager) UndoStack() []*Group { return m.undo.snapshot() }

// RedoStack returns the redo stack, oldest first.
func (m *Manager) RedoStack() []*Group { return m.redo.snapshot() }

// State returns the current replay mode.
func (m *Manager) State() State { return m.state }

// IsUndoing reports whether an undo is being replayed.
func (m *Manager) IsUndoing() bool { return m.state == IsUndoing }

// IsRedoing reports whether a redo is being replayed.
func (m *Manager) IsRedoing() bool { return m.state == IsRedoing }

// LevelsOfUndo returns the per-stack group limit; 0 is unlimited.
func (m *Manager) LevelsOfUndo() int { return m.undo.limit }

// SetLevelsOfUndo changes the limit, evicting the oldest groups at once.
func (m *Manager) SetLevelsOfUndo(n int) {
	for _, old := range m.undo.setLimit(n) {
		logger.Debug("evict undo group %q", old.actionName)
	}
	for _, old := range m.redo.setLimit(n) {
		logger.Debug("evict redo group %q", old.actionName)
	}
}

// GroupsByEvent reports whether registrations open implicit groups.
func (m *Manager) GroupsByEvent() bool { return m.groupsByEvent }

// SetGroupsByEvent toggles implicit event groups.
func (m *Manager) SetGroupsByEvent(on bool) { m.groupsByEvent = on }

// CoalescingEnabled reports whether repeated registrations coalesce.
func (m *Manager) CoalescingEnabled() bool { return m.coalescing }

// SetCoalescingEnabled toggles coalescing.
func (m *Manager) SetCoalescingEnabled(on bool) { m.coalescing = on }

// CoalescingKind returns the coalescing policy.
func (m *Manager) CoalescingKind() CoalescingKind { return m.coalesceKind }

// SetCoalescingKind changes the coalescing policy.
func (m *Manager) SetCoalescingKind(k CoalescingKind) { m.coalesceKind = k }

// RetainsTargets reports whether new tasks hold targets strongly.
func (m *Manager) RetainsTargets() bool { return m.retainsTargets }

// SetRetainsTargets changes the default ownership for tasks submitted from
// now on.
func (m *Manager) SetRetainsTargets(on bool) { m.retainsTargets = on }

// DiscardsEmptyGroups reports whether empty groups are dropped on close.
func (m *Manager) DiscardsEmptyGroups() bool { return m.discardEmpty }

// SetDiscardsEmptyGroups toggles empty group discarding.
func (m *Manager) SetDiscardsEmptyGroups(on bool) { m.discardEmpty = on }

// DisableUndoRegistration suspends registration. Calls nest.
func (m *Manager) DisableUndoRegistration() { m.disabled++ }

// EnableUndoRegistration balances one DisableUndoRegistration.
func (m *Manager) EnableUndoRegistration() error {
	if m.disabled == 0 {
		return ErrUnbalancedEnable
	}
	m.disabled--
	return nil
}

// IsUndoRegistrationEnabled reports whether registrations are recorded.
func (m *Manager) IsUndoRegistrationEnabled() bool { return m.disabled == 0 }

// ChangeCount returns the number of tasks recorded since the last reset.
func (m *Manager) ChangeCount() int { return m.changeCount }

// ResetChangeCount zeroes the change counter, typically after a save.
func (m *Manager) ResetChangeCount() { m.changeCount = 0 }

// RemoveAllActions empties both stacks and abandons any open groups. During
// a replay the inverse captured so far is dropped as well.
func (m *Manager) RemoveAllActions() {
	m.undo.reset()
	m.redo.reset()
	for g := m.open; g != nil; g = g.group {
		g.open = false
	}
	m.open = nil
	m.level = 0
	m.autoOpened = false
	m.lastClosed = nil
	if c := m.replaying; c != nil {
		clear(c.tasks)
		c.tasks = c.tasks[:0]
		c.open = true
		m.open = c
		m.level = 1
	}
	logger.Debug("removed all actions")
	m.post(Checkpoint, nil)
}

// RemoveAllActionsWithTarget strips every task acting on target from both
// stacks and the open groups, dropping closed groups left empty. It returns
// the number of tasks removed. Call it before discarding an object that
// pending tasks may still reference.
func (m *Manager) RemoveAllActionsWithTarget(target any) int {
	n := m.undo.removeTarget(target) + m.redo.removeTarget(target)
	if root := m.openRoot(); root != nil {
		n += root.RemoveTasksWithTarget(target)
	}
	if n > 0 {
		logger.Debug("removed %d tasks for target %T", n, target)
	}
	return n
}

func (m *Manager) openRoot() *Group {
	g := m.open
	if g == nil {
		return nil
	}
	for g.group != nil {
		g = g.group
	}
	return g
}
