// ABOUTME: Example drawing document whose every mutation is undoable
// ABOUTME: Registers inverse operations with an undo.Manager before changing state

package canvas

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mauromedda/drawkit-undo-go/internal/log"
	"github.com/mauromedda/drawkit-undo-go/pkg/undo"
)

var logger = log.For("canvas")

// Selectors used when registering inverses. Repeated moves of one shape
// share a selector so the manager can coalesce them.
const (
	SelMove   = "moveShape"
	SelResize = "resizeShape"
	SelFill   = "setFill"
	SelRename = "rename"
	SelInsert = "insertShape"
	SelRemove = "removeShape"
)

var (
	// ErrUnknownShape is returned for an id not present in the document.
	ErrUnknownShape = errors.New("canvas: unknown shape")
	// ErrInvalidSize is returned for a negative width or height.
	ErrInvalidSize = errors.New("canvas: invalid size")
)

// placement records where a removed shape sat in z-order.
type placement struct {
	shape *Shape
	index int
}

// Document is an ordered collection of shapes bound to one undo manager.
// It is not safe for concurrent use; drive it from the manager's goroutine.
type Document struct {
	name   string
	um     *undo.Manager
	shapes []*Shape
	nextID int
	purged map[*Shape]struct{}
}

// New returns an empty document recording its changes on um.
func New(name string, um *undo.Manager) *Document {
	return &Document{
		name:   name,
		um:     um,
		nextID: 1,
		purged: make(map[*Shape]struct{}),
	}
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// UndoManager returns the manager recording this document's changes.
func (d *Document) UndoManager() *undo.Manager { return d.um }

// Len returns the number of shapes.
func (d *Document) Len() int { return len(d.shapes) }

// Shapes returns copies of the shapes in z-order, bottom first.
func (d *Document) Shapes() []Shape {
	out := make([]Shape, len(d.shapes))
	for i, s := range d.shapes {
		out[i] = *s
	}
	return out
}

// Shape returns the live shape with the given id.
func (d *Document) Shape(id int) (*Shape, bool) {
	s, _ := d.find(id)
	return s, s != nil
}

func (d *Document) find(id int) (*Shape, int) {
	for i, s := range d.shapes {
		if s.ID == id {
			return s, i
		}
	}
	return nil, -1
}

func (d *Document) lookup(id int) (*Shape, error) {
	s, _ := d.find(id)
	if s == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, id)
	}
	return s, nil
}

// AddShape creates a shape on top of the document.
func (d *Document) AddShape(name string, at Point, size Size, fill string) (*Shape, error) {
	if size.W < 0 || size.H < 0 {
		return nil, ErrInvalidSize
	}
	s := &Shape{ID: d.nextID, Name: name, X: at.X, Y: at.Y, W: size.W, H: size.H, Fill: fill}
	if err := d.insertAt(placement{shape: s, index: len(d.shapes)}); err != nil {
		return nil, err
	}
	d.nextID++
	d.setActionName("Add " + name)
	return s, nil
}

// RemoveShape takes a shape off the document. Undo puts it back at the same
// z-order position.
func (d *Document) RemoveShape(id int) error {
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	if err := d.detach(s); err != nil {
		return err
	}
	d.setActionName("Delete " + s.Name)
	return nil
}

// PurgeShape deletes a shape permanently: it is removed without an undo
// record and every pending task acting on it is dropped.
func (d *Document) PurgeShape(id int) error {
	s, idx := d.find(id)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrUnknownShape, id)
	}
	d.shapes = slices.Delete(d.shapes, idx, idx+1)
	d.purged[s] = struct{}{}
	n := d.um.RemoveAllActionsWithTarget(s)
	logger.Debug("purged shape %d, dropped %d tasks", id, n)
	return nil
}

// MoveShape sets a shape's origin. Consecutive moves of the same shape in
// one group coalesce into a single undo step.
func (d *Document) MoveShape(id int, x, y float64) error {
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	if s.Origin() == (Point{x, y}) {
		return nil
	}
	if err := d.moveTo(s, Point{x, y}); err != nil {
		return err
	}
	d.setActionName("Move")
	return nil
}

// MoveBy offsets a shape's origin.
func (d *Document) MoveBy(id int, dx, dy float64) error {
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	return d.MoveShape(id, s.X+dx, s.Y+dy)
}

// ResizeShape sets a shape's extent.
func (d *Document) ResizeShape(id int, w, h float64) error {
	if w < 0 || h < 0 {
		return ErrInvalidSize
	}
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	if s.Extent() == (Size{w, h}) {
		return nil
	}
	if err := d.resizeTo(s, Size{w, h}); err != nil {
		return err
	}
	d.setActionName("Resize")
	return nil
}

// SetFill changes a shape's fill colour.
func (d *Document) SetFill(id int, fill string) error {
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	if s.Fill == fill {
		return nil
	}
	if err := d.fillWith(s, fill); err != nil {
		return err
	}
	d.setActionName("Change Fill")
	return nil
}

// Rename changes a shape's name.
func (d *Document) Rename(id int, name string) error {
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	if s.Name == name {
		return nil
	}
	if err := d.renameTo(s, name); err != nil {
		return err
	}
	d.setActionName("Rename")
	return nil
}

// setActionName names the group that just received a task. With nothing
// open the manager would rename an older group instead.
func (d *Document) setActionName(name string) {
	if d.um.GroupingLevel() > 0 && d.um.IsUndoRegistrationEnabled() {
		d.um.SetActionName(name)
	}
}

// The primitives below register their own inverse before mutating, so they
// serve both as forward operations and as replayed undo/redo tasks.

func (d *Document) insertAt(p placement) error {
	if _, gone := d.purged[p.shape]; gone {
		return nil
	}
	if err := undo.RegisterUndoE(d.um, d, SelRemove, (*Document).detach, p.shape); err != nil {
		return err
	}
	idx := min(max(p.index, 0), len(d.shapes))
	d.shapes = slices.Insert(d.shapes, idx, p.shape)
	return nil
}

func (d *Document) detach(s *Shape) error {
	_, idx := d.find(s.ID)
	if idx < 0 || d.shapes[idx] != s {
		return nil
	}
	if err := undo.RegisterUndoE(d.um, d, SelInsert, (*Document).insertAt, placement{shape: s, index: idx}); err != nil {
		return err
	}
	d.shapes = slices.Delete(d.shapes, idx, idx+1)
	return nil
}

func (d *Document) moveTo(s *Shape, p Point) error {
	if s.Origin() == p {
		return nil
	}
	if err := undo.RegisterUndoE(d.um, s, SelMove, d.moveTo, s.Origin()); err != nil {
		return err
	}
	s.X, s.Y = p.X, p.Y
	return nil
}

func (d *Document) resizeTo(s *Shape, sz Size) error {
	if s.Extent() == sz {
		return nil
	}
	if err := undo.RegisterUndoE(d.um, s, SelResize, d.resizeTo, s.Extent()); err != nil {
		return err
	}
	s.W, s.H = sz.W, sz.H
	return nil
}

func (d *Document) fillWith(s *Shape, fill string) error {
	if s.Fill == fill {
		return nil
	}
	if err := undo.RegisterUndoE(d.um, s, SelFill, d.fillWith, s.Fill); err != nil {
		return err
	}
	s.Fill = fill
	return nil
}

func (d *Document) renameTo(s *Shape, name string) error {
	if s.Name == name {
		return nil
	}
	if err := undo.RegisterUndoE(d.um, s, SelRename, d.renameTo, s.Name); err != nil {
		return err
	}
	s.Name = name
	return nil
}
