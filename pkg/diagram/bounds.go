package diagram

// Bounds is an axis-aligned rectangle anchored at its top-left corner,
// matching the BPMN DI dc:Bounds convention (y grows downward).
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaxX returns the right edge of the rectangle.
func (b Bounds) MaxX() float64 { return b.X + b.Width }

// MaxY returns the bottom edge of the rectangle.
func (b Bounds) MaxY() float64 { return b.Y + b.Height }

// CenterX returns the horizontal midpoint of the rectangle.
func (b Bounds) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical midpoint of the rectangle.
func (b Bounds) CenterY() float64 { return b.Y + b.Height/2 }

// Translate returns the rectangle shifted by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	b.X += dx
	b.Y += dy
	return b
}

// Expand returns the rectangle grown by pad on all four sides.
func (b Bounds) Expand(pad float64) Bounds {
	return Bounds{
		X:      b.X - pad,
		Y:      b.Y - pad,
		Width:  b.Width + 2*pad,
		Height: b.Height + 2*pad,
	}
}

// Union returns the smallest rectangle containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	minX := min(b.X, other.X)
	minY := min(b.Y, other.Y)
	maxX := max(b.MaxX(), other.MaxX())
	maxY := max(b.MaxY(), other.MaxY())
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains reports whether other lies entirely within b.
func (b Bounds) Contains(other Bounds) bool {
	return other.X >= b.X && other.Y >= b.Y &&
		other.MaxX() <= b.MaxX() && other.MaxY() <= b.MaxY()
}

// BoundsOf computes the tight bounding box of a set of shapes. The
// second return is false when the set is empty, in which case the box
// is undefined and the zero Bounds is returned.
func BoundsOf(shapes []Shape) (Bounds, bool) {
	if len(shapes) == 0 {
		return Bounds{}, false
	}
	box := shapes[0].Bounds
	for _, s := range shapes[1:] {
		box = box.Union(s.Bounds)
	}
	return box, true
}
