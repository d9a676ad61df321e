// ABOUTME: Tests for the demo AppModel key handling and undo event cycles
// ABOUTME: Feeds KeyMsgs through Update and inspects document, history and view

package btea

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/drawkit-undo-go/internal/canvas"
	"github.com/mauromedda/drawkit-undo-go/internal/config"
	"github.com/mauromedda/drawkit-undo-go/internal/keybindings"
	"github.com/mauromedda/drawkit-undo-go/pkg/undo"
)

// Compile-time check: AppModel must satisfy tea.Model.
var _ tea.Model = AppModel{}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m AppModel, keys ...string) AppModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(AppModel)
	}
	return m
}

// newTestModel returns a model over a document with one shape, its add
// already closed as the first undo group.
func newTestModel(t *testing.T) (AppModel, *canvas.Shape) {
	t.Helper()
	um := undo.NewManager()
	doc := canvas.New("test", um)
	s, err := doc.AddShape("box", canvas.Point{X: 0, Y: 0}, canvas.Size{W: 4, H: 2}, "white")
	if err != nil {
		t.Fatal(err)
	}
	um.NotifyEventCycleEnded()
	return NewAppModel(AppDeps{Doc: doc}), s
}

func TestAppModel_Init(t *testing.T) {
	m, _ := newTestModel(t)
	if cmd := m.Init(); cmd != nil {
		t.Errorf("Init() returned non-nil cmd")
	}
}

func TestAppModel_EachKeyIsOneUndoStep(t *testing.T) {
	m, s := newTestModel(t)
	m = press(t, m, "right", "right", "down")

	if s.X != 2 || s.Y != 1 {
		t.Fatalf("origin = %v, want (2,1)", s.Origin())
	}
	if got := len(m.um.UndoStack()); got != 4 {
		t.Fatalf("undo stack = %d groups, want 4", got)
	}

	m = press(t, m, "u")
	if s.X != 2 || s.Y != 0 {
		t.Errorf("after one undo origin = %v, want (2,0)", s.Origin())
	}
	if m.sh.notice != "Undid Move" {
		t.Errorf("notice = %q, want %q", m.sh.notice, "Undid Move")
	}
}

func TestAppModel_DragIsOneUndoStep(t *testing.T) {
	m, s := newTestModel(t)
	m = press(t, m, "d", "right", "right", "right", "up")
	if !m.dragging {
		t.Fatal("expected drag in progress")
	}
	if got := m.um.GroupingLevel(); got != 1 {
		t.Errorf("GroupingLevel() during drag = %d, want 1", got)
	}
	m = press(t, m, "d")

	if got := len(m.um.UndoStack()); got != 2 {
		t.Fatalf("undo stack = %d groups, want add + drag", got)
	}
	if got := m.um.PeekUndo().Len(); got != 1 {
		t.Errorf("drag group holds %d tasks, want 1 coalesced move", got)
	}

	m = press(t, m, "ctrl+z")
	if s.Origin() != (canvas.Point{}) {
		t.Errorf("undo of drag left origin at %v", s.Origin())
	}
}

func TestAppModel_UndoDuringDragRefused(t *testing.T) {
	m, s := newTestModel(t)
	m = press(t, m, "d", "right", "u")

	if m.err == nil {
		t.Fatal("expected an error when undoing mid-drag")
	}
	if s.X != 1 {
		t.Errorf("origin X = %g, want 1", s.X)
	}
	if !strings.Contains(m.View(), "finish the drag") {
		t.Error("View() should show the drag error")
	}
}

func TestAppModel_AddDeleteUndo(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "n")
	if m.doc.Len() != 2 || m.selected != 2 {
		t.Fatalf("Len() = %d, selected = %d", m.doc.Len(), m.selected)
	}

	m = press(t, m, "x")
	if m.doc.Len() != 1 || m.selected != 1 {
		t.Fatalf("after delete Len() = %d, selected = %d", m.doc.Len(), m.selected)
	}

	m = press(t, m, "u")
	if m.doc.Len() != 2 {
		t.Errorf("undo delete Len() = %d, want 2", m.doc.Len())
	}
	m = press(t, m, "u")
	if m.doc.Len() != 1 || m.selected != 1 {
		t.Errorf("undo add Len() = %d, selected = %d", m.doc.Len(), m.selected)
	}
}

func TestAppModel_FillAndResize(t *testing.T) {
	m, s := newTestModel(t)
	m = press(t, m, "f", "+")
	if s.Fill != "red" || s.W != 6 || s.H != 3 {
		t.Fatalf("shape = %v", s)
	}
	m = press(t, m, "u", "u")
	if s.Fill != "white" || s.W != 4 {
		t.Errorf("after undo shape = %v", s)
	}
	press(t, m, "r")
	if s.Fill != "red" {
		t.Errorf("after redo fill = %q, want red", s.Fill)
	}
}

func TestAppModel_MenuTitles(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "right", "u")

	view := m.View()
	if !strings.Contains(view, "Undo Add box") {
		t.Errorf("View() missing undo title:\n%s", view)
	}
	if !strings.Contains(view, "Redo Move") {
		t.Errorf("View() missing redo title:\n%s", view)
	}
}

func TestAppModel_HistoryPanelToggle(t *testing.T) {
	m, _ := newTestModel(t)
	if !strings.Contains(m.View(), "History") {
		t.Fatal("history panel should be visible by default")
	}
	m = press(t, m, "h")
	if strings.Contains(m.View(), "History") {
		t.Error("history panel should be hidden after h")
	}
}

func TestAppModel_HelpSwallowsNextKey(t *testing.T) {
	m, s := newTestModel(t)
	m = press(t, m, "?")
	if !m.showHelp {
		t.Fatal("expected help overlay")
	}
	m = press(t, m, "right")
	if m.showHelp || s.X != 0 {
		t.Errorf("showHelp = %t, X = %g; key should only dismiss help", m.showHelp, s.X)
	}
}

func TestAppModel_ConfigReload(t *testing.T) {
	m, _ := newTestModel(t)
	two := 2
	next, _ := m.Update(ConfigReloadMsg{Settings: &config.Settings{
		Undo: config.UndoSettings{LevelsOfUndo: &two, Coalescing: config.CoalesceOff},
	}})
	m = next.(AppModel)

	if m.um.LevelsOfUndo() != 2 || m.um.CoalescingEnabled() {
		t.Errorf("reload not applied: levels=%d coalescing=%t", m.um.LevelsOfUndo(), m.um.CoalescingEnabled())
	}
	if m.status != "Settings reloaded" {
		t.Errorf("status = %q", m.status)
	}

	next, _ = m.Update(ConfigReloadMsg{Err: errors.New("bad yaml")})
	m = next.(AppModel)
	if m.err == nil || !strings.Contains(m.err.Error(), "bad yaml") {
		t.Errorf("err = %v, want reload error", m.err)
	}
}

func TestAppModel_QuitEndsDrag(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "d", "right")

	next, cmd := m.Update(key("q"))
	m = next.(AppModel)
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if m.dragging || m.um.GroupingLevel() != 0 {
		t.Errorf("drag still open: dragging=%t level=%d", m.dragging, m.um.GroupingLevel())
	}
}

func TestAppModel_WindowSize(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(AppModel)
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}
}

func TestAppModel_CustomKeys(t *testing.T) {
	um := undo.NewManager()
	doc := canvas.New("test", um)
	s, _ := doc.AddShape("box", canvas.Point{}, canvas.Size{W: 1, H: 1}, "white")
	um.NotifyEventCycleEnded()

	keys, err := keybindings.New(map[string][]string{"move-right": {"l"}, "undo": {"z"}})
	if err != nil {
		t.Fatal(err)
	}
	m := NewAppModel(AppDeps{Doc: doc, Keys: keys})

	m = press(t, m, "l", "right")
	if s.X != 1 {
		t.Fatalf("X = %g; want 1 (right is no longer bound)", s.X)
	}
	press(t, m, "z")
	if s.X != 0 {
		t.Errorf("X = %g after custom undo key; want 0", s.X)
	}
}

func TestAppModel_ReloadKeys(t *testing.T) {
	m, s := newTestModel(t)
	next, _ := m.Update(ConfigReloadMsg{Settings: &config.Settings{
		Keys: map[string][]string{"move-left": {"a"}},
	}})
	m = next.(AppModel)

	press(t, m, "right", "a")
	if s.X != 0 {
		t.Errorf("X = %g; want 0 after right then reloaded left key", s.X)
	}
}

func TestMarkdownRenderer_Caches(t *testing.T) {
	r := NewMarkdownRenderer()
	first := r.Render("# Title\n\nbody", 40)
	second := r.Render("# Title\n\nbody", 40)
	if first == "" || first != second {
		t.Errorf("Render() not stable: %q vs %q", first, second)
	}
	if len(r.cache) != 1 {
		t.Errorf("cache size = %d; want 1", len(r.cache))
	}
}
