package stitch

// Rect is an axis-aligned rectangle with inclusive integer bounds,
// used for frame (tile) geometry. A frame covering coordinates
// 0..5 in both axes is R(0, 0, 5, 5); its border is the set of points
// with at least one coordinate equal to a bound.
type Rect struct {
	Min, Max Point
}

// R constructs a Rect from two corner coordinates, normalizing so that
// Min is the lower bound on both axes.
func R(x0, y0, x1, y1 int32) Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{Min: Point{x0, y0}, Max: Point{x1, y1}}
}

// Dx returns the width of the rectangle.
func (r Rect) Dx() int32 { return r.Max.X - r.Min.X }

// Dy returns the height of the rectangle.
func (r Rect) Dy() int32 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle contains no points.
func (r Rect) Empty() bool {
	return r.Max.X < r.Min.X || r.Max.Y < r.Min.Y
}

// Contains reports whether p lies inside the rectangle, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether the two rectangles share at least one point.
func (r Rect) Intersects(s Rect) bool {
	return r.Min.X <= s.Max.X && s.Min.X <= r.Max.X &&
		r.Min.Y <= s.Max.Y && s.Min.Y <= r.Max.Y
}

// OnBorder reports whether p lies on the rectangle's border, allowing
// each coordinate to be off by at most slack grid units.
func (r Rect) OnBorder(p Point, slack int32) bool {
	if slack < 0 {
		slack = 0
	}
	grown := Rect{
		Min: Point{r.Min.X - slack, r.Min.Y - slack},
		Max: Point{r.Max.X + slack, r.Max.Y + slack},
	}
	if !grown.Contains(p) {
		return false
	}
	return abs32(p.X-r.Min.X) <= slack || abs32(p.X-r.Max.X) <= slack ||
		abs32(p.Y-r.Min.Y) <= slack || abs32(p.Y-r.Max.Y) <= slack
}

// sharesEdge reports whether the two rectangles touch along a border
// segment of positive length. A corner-only touch does not count.
func (r Rect) sharesEdge(s Rect) bool {
	if r.Max.X == s.Min.X || s.Max.X == r.Min.X {
		if min(r.Max.Y, s.Max.Y) > max(r.Min.Y, s.Min.Y) {
			return true
		}
	}
	if r.Max.Y == s.Min.Y || s.Max.Y == r.Min.Y {
		if min(r.Max.X, s.Max.X) > max(r.Min.X, s.Min.X) {
			return true
		}
	}
	return false
}
