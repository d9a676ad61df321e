// ABOUTME: Tests for the undoable example document
// ABOUTME: Drives documents through event cycles, drags, undo and redo

package canvas

import (
	"errors"
	"testing"

	"github.com/mauromedda/drawkit-undo-go/pkg/undo"
)

// event runs fn as one host event cycle.
func event(t *testing.T, d *Document, fn func() error) {
	t.Helper()
	if err := fn(); err != nil {
		t.Fatalf("event: %v", err)
	}
	d.UndoManager().NotifyEventCycleEnded()
}

func mustUndo(t *testing.T, m *undo.Manager) {
	t.Helper()
	ok, err := m.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo() = %t, %v", ok, err)
	}
}

func mustRedo(t *testing.T, m *undo.Manager) {
	t.Helper()
	ok, err := m.Redo()
	if err != nil || !ok {
		t.Fatalf("Redo() = %t, %v", ok, err)
	}
}

func addBox(t *testing.T, d *Document, name string) *Shape {
	t.Helper()
	var s *Shape
	event(t, d, func() error {
		var err error
		s, err = d.AddShape(name, Point{10, 10}, Size{20, 20}, "red")
		return err
	})
	return s
}

func TestDocument_AddUndoRedo(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)
	s := addBox(t, d, "box")

	if d.Len() != 1 || s.ID != 1 {
		t.Fatalf("Len() = %d, ID = %d", d.Len(), s.ID)
	}
	if got := m.UndoActionName(); got != "Add box" {
		t.Errorf("UndoActionName() = %q, want %q", got, "Add box")
	}

	mustUndo(t, m)
	if d.Len() != 0 {
		t.Fatalf("after undo Len() = %d, want 0", d.Len())
	}
	if got := m.RedoActionName(); got != "Add box" {
		t.Errorf("RedoActionName() = %q, want %q", got, "Add box")
	}

	mustRedo(t, m)
	if got, ok := d.Shape(1); !ok || got != s {
		t.Fatal("redo should restore the same shape")
	}
	if !m.CanUndo() || m.CanRedo() {
		t.Errorf("CanUndo=%t CanRedo=%t, want true/false", m.CanUndo(), m.CanRedo())
	}
}

func TestDocument_DragCoalescesToOneStep(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)
	s := addBox(t, d, "box")

	m.BeginUndoGrouping()
	for range 5 {
		if err := d.MoveBy(s.ID, 3, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.EndUndoGrouping(); err != nil {
		t.Fatal(err)
	}

	if s.X != 25 || s.Y != 15 {
		t.Fatalf("after drag origin = %v", s.Origin())
	}
	top := m.PeekUndo()
	if top.Len() != 1 {
		t.Errorf("drag group Len() = %d, want 1 coalesced task", top.Len())
	}

	mustUndo(t, m)
	if s.Origin() != (Point{10, 10}) {
		t.Errorf("undo should return to drag start, got %v", s.Origin())
	}
	mustRedo(t, m)
	if s.Origin() != (Point{25, 15}) {
		t.Errorf("redo should jump to drag end, got %v", s.Origin())
	}
}

func TestDocument_RemoveRestoresZOrder(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)
	addBox(t, d, "a")
	b := addBox(t, d, "b")
	addBox(t, d, "c")

	event(t, d, func() error { return d.RemoveShape(b.ID) })
	if got := m.UndoActionName(); got != "Delete b" {
		t.Errorf("UndoActionName() = %q", got)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}

	mustUndo(t, m)
	names := ""
	for _, s := range d.Shapes() {
		names += s.Name
	}
	if names != "abc" {
		t.Errorf("z-order after undo = %q, want %q", names, "abc")
	}
}

func TestDocument_PropertyEditsRoundTrip(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)
	s := addBox(t, d, "box")

	event(t, d, func() error { return d.ResizeShape(s.ID, 40, 5) })
	event(t, d, func() error { return d.SetFill(s.ID, "blue") })
	event(t, d, func() error { return d.Rename(s.ID, "panel") })

	want := []string{"Rename", "Change Fill", "Resize"}
	for _, name := range want {
		if got := m.UndoActionName(); got != name {
			t.Errorf("UndoActionName() = %q, want %q", got, name)
		}
		mustUndo(t, m)
	}
	if s.Name != "box" || s.Fill != "red" || s.Extent() != (Size{20, 20}) {
		t.Errorf("after undo shape = %v", s)
	}

	for range want {
		mustRedo(t, m)
	}
	if s.Name != "panel" || s.Fill != "blue" || s.Extent() != (Size{40, 5}) {
		t.Errorf("after redo shape = %v", s)
	}
}

func TestDocument_GroupedEditsUndoTogether(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)
	s := addBox(t, d, "box")

	m.BeginUndoGrouping()
	_ = d.SetFill(s.ID, "green")
	_ = d.ResizeShape(s.ID, 1, 1)
	m.SetActionName("Restyle")
	if err := m.EndUndoGrouping(); err != nil {
		t.Fatal(err)
	}

	if got := m.UndoActionName(); got != "Restyle" {
		t.Errorf("UndoActionName() = %q, want Restyle", got)
	}
	mustUndo(t, m)
	if s.Fill != "red" || s.W != 20 {
		t.Errorf("grouped undo left %v", s)
	}
}

func TestDocument_NoOpEditsRecordNothing(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)
	s := addBox(t, d, "box")
	before := len(m.UndoStack())

	event(t, d, func() error { return d.MoveShape(s.ID, 10, 10) })
	event(t, d, func() error { return d.SetFill(s.ID, "red") })

	if got := len(m.UndoStack()); got != before {
		t.Errorf("undo stack grew from %d to %d on no-op edits", before, got)
	}
	if got := m.UndoActionName(); got != "Add box" {
		t.Errorf("no-op edit renamed the last group to %q", got)
	}
}

func TestDocument_Errors(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)

	if err := d.MoveShape(42, 1, 1); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("MoveShape(unknown) = %v, want ErrUnknownShape", err)
	}
	if _, err := d.AddShape("x", Point{}, Size{-1, 1}, ""); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("AddShape(negative) = %v, want ErrInvalidSize", err)
	}
	if err := d.PurgeShape(7); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("PurgeShape(unknown) = %v, want ErrUnknownShape", err)
	}
}

func TestDocument_NoOpenGroupLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	m := undo.NewManager(undo.WithGroupsByEvent(false))
	d := New("doc", m)

	if _, err := d.AddShape("x", Point{}, Size{1, 1}, ""); !errors.Is(err, undo.ErrNoOpenGroup) {
		t.Fatalf("AddShape() = %v, want ErrNoOpenGroup", err)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after failed registration", d.Len())
	}
}

func TestDocument_PurgeDropsShapeTasks(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)
	s := addBox(t, d, "box")
	event(t, d, func() error { return d.MoveShape(s.ID, 50, 50) })
	event(t, d, func() error { return d.SetFill(s.ID, "black") })

	if err := d.PurgeShape(s.ID); err != nil {
		t.Fatal(err)
	}
	if got := len(m.UndoStack()); got != 1 {
		t.Fatalf("undo stack after purge = %d groups, want only the add", got)
	}

	mustUndo(t, m)
	if d.Len() != 0 {
		t.Errorf("Len() = %d after undoing add of purged shape", d.Len())
	}
	if m.CanRedo() {
		t.Error("undoing an inert add should not leave a redo step")
	}
}

func TestDocument_DisabledRegistration(t *testing.T) {
	t.Parallel()

	m := undo.NewManager()
	d := New("doc", m)
	s := addBox(t, d, "box")

	m.DisableUndoRegistration()
	if err := d.MoveShape(s.ID, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.EnableUndoRegistration(); err != nil {
		t.Fatal(err)
	}
	m.NotifyEventCycleEnded()

	if got := len(m.UndoStack()); got != 1 {
		t.Errorf("undo stack = %d, want 1", got)
	}
	if got := m.UndoActionName(); got != "Add box" {
		t.Errorf("UndoActionName() = %q, want Add box", got)
	}
}
