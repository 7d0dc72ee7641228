// Package geometry provides the axis-aligned rectangle primitives used to
// reason about page layout: line segments, text runs and table cells are all
// represented as Rects, and cell ownership and column matching are decided by
// the percentage helpers defined here.
package geometry

import "math"

// Rect is an axis-aligned rectangle in page space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// New creates a rectangle from its origin and size.
func New(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the right edge x coordinate.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the far edge y coordinate (Y + Height).
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right() < other.X ||
		r.X > other.Right() ||
		r.Bottom() < other.Y ||
		r.Y > other.Bottom())
}

// Intersect returns the overlapping region of r and other, or a zero Rect
// when they are disjoint on either axis.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}

	x := math.Max(r.X, other.X)
	y := math.Max(r.Y, other.Y)
	right := math.Min(r.Right(), other.Right())
	bottom := math.Min(r.Bottom(), other.Bottom())

	return Rect{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area of the rectangle.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// ContainmentPercent returns how much of r lies inside container, as a
// percentage of r's own area. A rectangle with zero area is never contained.
func (r Rect) ContainmentPercent(container Rect) float64 {
	area := r.Area()
	if area == 0 {
		return 0
	}
	return r.Intersect(container).Area() / area * 100
}

// HorizontalOverlapPercent returns the overlap of the two x extents as a
// percentage of their combined x extent. A rectangle with zero width never
// overlaps anything.
func (r Rect) HorizontalOverlapPercent(other Rect) float64 {
	if r.Width == 0 || other.Width == 0 {
		return 0
	}

	overlap := math.Min(r.Right(), other.Right()) - math.Max(r.X, other.X)
	if overlap <= 0 {
		return 0
	}
	span := math.Max(r.Right(), other.Right()) - math.Min(r.X, other.X)

	return overlap / span * 100
}
