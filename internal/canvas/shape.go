// ABOUTME: Shape model for the example drawing document
// ABOUTME: Plain geometry and style fields mutated only through Document operations

package canvas

import "fmt"

// Point is a shape origin.
type Point struct {
	X, Y float64
}

// Size is a shape extent.
type Size struct {
	W, H float64
}

// Shape is a rectangle-like item on a Document. Fields are read-only to
// callers; mutate through Document so every change is undoable.
type Shape struct {
	ID   int
	Name string
	X, Y float64
	W, H float64
	Fill string
}

// Origin returns the shape's position.
func (s *Shape) Origin() Point { return Point{s.X, s.Y} }

// Extent returns the shape's size.
func (s *Shape) Extent() Size { return Size{s.W, s.H} }

func (s *Shape) String() string {
	return fmt.Sprintf("#%d %s (%g,%g %gx%g %s)", s.ID, s.Name, s.X, s.Y, s.W, s.H, s.Fill)
}
