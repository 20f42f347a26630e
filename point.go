package stitch

// Point is a 2D integer coordinate in the global (whole-image) space.
// Frame-local coordinates are translated to global space before they
// reach this package.
type Point struct {
	X, Y int32
}

// Pt is a convenience function to create a Point.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Eq reports whether two points have identical coordinates.
func (p Point) Eq(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// DistanceSquared returns the squared Euclidean distance between two
// points. The computation is exact in int64, so comparisons between
// distances are never subject to rounding.
func (p Point) DistanceSquared(q Point) int64 {
	dx := int64(p.X) - int64(q.X)
	dy := int64(p.Y) - int64(q.Y)
	return dx*dx + dy*dy
}

// within reports whether q lies inside the axis-aligned tolerance box
// around p. Tolerances are per axis and inclusive.
func (p Point) within(q Point, tx, ty int32) bool {
	return abs32(p.X-q.X) <= tx && abs32(p.Y-q.Y) <= ty
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
