package stitch

import (
	"fmt"
	"iter"
	"slices"
)

// ContourID identifies a contour within one Store. IDs are assigned
// densely in append order; the finalizer reassigns them contiguously in
// the result store. An ID of -1 in a Defect refers to a contour that was
// excluded from the result.
type ContourID int32

// FrameID identifies the frame (tile) that produced a contour. It is
// carried for diagnostics and tie-breaking only, never for correctness.
type FrameID int32

// Orientation classifies a closed contour after finalization.
type Orientation uint8

// Orientation values.
const (
	// OrientationNone marks open fragments and contours that have not
	// been finalized.
	OrientationNone Orientation = iota
	// OrientationOuter marks an outer region boundary. Its signed area
	// is positive (clockwise traversal in y-down image coordinates).
	OrientationOuter
	// OrientationHole marks a hole boundary. Its signed area is negative.
	OrientationHole
)

// String returns a human-readable name for the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientationNone:
		return "None"
	case OrientationOuter:
		return "Outer"
	case OrientationHole:
		return "Hole"
	default:
		return "Unknown"
	}
}

// span is a view into the point arena. A contour is a chain of spans;
// rev marks spans traversed back to front. Splicing moves whole chains
// between records, so no point is copied until compaction.
type span struct {
	off, n int32
	rev    bool
}

// contour is the per-contour metadata record.
type contour struct {
	spans  []span
	count  int32 // cached total point count across spans
	label  int32
	frame  FrameID
	parent ContourID // enclosing same-label ring after finalize, -1 if none
	closed bool
	dead   bool // tombstoned: absorbed by a splice or excluded
	orient Orientation
}

// Store owns contour point data in a single shared arena. Each contour
// is a chain of (offset, length) views into the arena plus a metadata
// record. Stores are built once with Append, mutated in place by a join,
// and sealed when finalized; a sealed store rejects further appends.
//
// A Store is not safe for concurrent use. Joins of independent stores
// may run concurrently; see JoinGroups.
type Store struct {
	pts    []Point
	meta   []contour
	live   int // contours not tombstoned
	npts   int // points reachable from live contours
	sealed bool
}

// NewStore creates an empty contour store.
func NewStore() *Store {
	return &Store{
		pts:  make([]Point, 0, 64),
		meta: make([]contour, 0, 8),
	}
}

// Append copies points into the arena and adds a contour record,
// returning its id. Open fragments need at least 2 points, closed
// contours at least 3; closed contours must not repeat the first vertex
// at the end (the closing edge is implicit). Violations return an error
// wrapping ErrInputInconsistency. Appending to a sealed store returns
// ErrSealed.
func (s *Store) Append(points []Point, label int32, frame FrameID, closed bool) (ContourID, error) {
	if s.sealed {
		return -1, ErrSealed
	}
	id := ContourID(len(s.meta))
	if closed && len(points) < 3 {
		return -1, fmt.Errorf("%w: closed contour %d has %d points, need at least 3",
			ErrInputInconsistency, id, len(points))
	}
	if !closed && len(points) < 2 {
		return -1, fmt.Errorf("%w: open fragment %d has %d points, need at least 2",
			ErrInputInconsistency, id, len(points))
	}
	off := int32(len(s.pts))
	s.pts = append(s.pts, points...)
	s.meta = append(s.meta, contour{
		spans:  []span{{off: off, n: int32(len(points))}},
		count:  int32(len(points)),
		label:  label,
		frame:  frame,
		parent: -1,
		closed: closed,
	})
	s.live++
	s.npts += len(points)
	return id, nil
}

// Len returns the number of live contours.
func (s *Store) Len() int { return s.live }

// TotalPoints returns the number of points reachable from live contours.
func (s *Store) TotalPoints() int { return s.npts }

// Sealed reports whether the store rejects further mutation.
func (s *Store) Sealed() bool { return s.sealed }

// rec returns the metadata record for id, panicking on absorbed or
// out-of-range ids. Using a stale id is a programmer error, like
// indexing a slice out of range.
func (s *Store) rec(id ContourID) *contour {
	r := &s.meta[id]
	if r.dead {
		panic(fmt.Sprintf("stitch: contour %d was absorbed or excluded", id))
	}
	return r
}

// Label returns the region label of a contour.
func (s *Store) Label(id ContourID) int32 { return s.rec(id).label }

// Frame returns the origin frame of a contour. For merged contours this
// is the frame of the first surviving fragment.
func (s *Store) Frame(id ContourID) FrameID { return s.rec(id).frame }

// Closed reports whether the contour is a closed loop.
func (s *Store) Closed(id ContourID) bool { return s.rec(id).closed }

// Orientation returns the contour's orientation. It is OrientationNone
// until the store has been finalized.
func (s *Store) Orientation(id ContourID) Orientation { return s.rec(id).orient }

// Parent returns the id of the innermost same-label ring enclosing this
// contour, or -1. It is assigned during finalization and is what groups
// holes with their outer rings in MultiPolygon.
func (s *Store) Parent(id ContourID) ContourID { return s.rec(id).parent }

// PointCount returns the number of points in a contour.
func (s *Store) PointCount(id ContourID) int { return int(s.rec(id).count) }

// IDs returns an iterator over live contour ids in ascending order.
// For unsealed stores this is insertion order.
func (s *Store) IDs() iter.Seq[ContourID] {
	return func(yield func(ContourID) bool) {
		for i := range s.meta {
			if s.meta[i].dead {
				continue
			}
			if !yield(ContourID(i)) {
				return
			}
		}
	}
}

// Points returns an iterator over a contour's ordered points. The view
// is lazy: no points are copied. For a closed contour the first vertex
// is not repeated at the end; the closing edge is implicit.
func (s *Store) Points(id ContourID) iter.Seq[Point] {
	r := s.rec(id)
	return func(yield func(Point) bool) {
		for _, sp := range r.spans {
			if sp.rev {
				for i := sp.off + sp.n - 1; i >= sp.off; i-- {
					if !yield(s.pts[i]) {
						return
					}
				}
			} else {
				for i := sp.off; i < sp.off+sp.n; i++ {
					if !yield(s.pts[i]) {
						return
					}
				}
			}
		}
	}
}

// AppendPoints appends a contour's ordered points to dst and returns the
// extended slice.
func (s *Store) AppendPoints(dst []Point, id ContourID) []Point {
	r := s.rec(id)
	dst = slices.Grow(dst, int(r.count))
	for _, sp := range r.spans {
		if sp.rev {
			for i := sp.off + sp.n - 1; i >= sp.off; i-- {
				dst = append(dst, s.pts[i])
			}
		} else {
			dst = append(dst, s.pts[sp.off:sp.off+sp.n]...)
		}
	}
	return dst
}

// head returns the first point of an open fragment's sequence.
func (s *Store) head(id ContourID) Point {
	sp := s.meta[id].spans[0]
	if sp.rev {
		return s.pts[sp.off+sp.n-1]
	}
	return s.pts[sp.off]
}

// tail returns the last point of an open fragment's sequence.
func (s *Store) tail(id ContourID) Point {
	spans := s.meta[id].spans
	sp := spans[len(spans)-1]
	if sp.rev {
		return s.pts[sp.off]
	}
	return s.pts[sp.off+sp.n-1]
}

// endPoint returns the point at the selected extremity.
func (s *Store) endPoint(id ContourID, e EndKind) Point {
	if e == EndHead {
		return s.head(id)
	}
	return s.tail(id)
}

// splice concatenates contour b onto contour a so that the two matched
// ends become adjacent, reversing b's traversal when the end selectors
// require it. Exactly one duplicated junction vertex, always from b's
// matched end, is trimmed. b's record is tombstoned; a survives and is
// returned. Only span bookkeeping moves: no points are copied, so splice
// is O(1) amortized in points, with compaction deferred to finalization.
func (s *Store) splice(a ContourID, endA EndKind, b ContourID, endB EndKind) ContourID {
	ra, rb := &s.meta[a], &s.meta[b]
	chain := rb.spans
	if endA == EndTail {
		// b follows a: b's matched end must come first.
		if endB == EndTail {
			chain = reverseChain(chain)
		}
		chain = trimFirst(chain)
		ra.spans = append(ra.spans, chain...)
	} else {
		// b precedes a: b's matched end must come last.
		if endB == EndHead {
			chain = reverseChain(chain)
		}
		chain = trimLast(chain)
		ra.spans = append(chain, ra.spans...)
	}
	ra.count += rb.count - 1
	rb.spans, rb.count, rb.dead = nil, 0, true
	s.live--
	s.npts--
	return a
}

// closeLoop marks an open fragment closed, trimming the duplicated tail
// junction vertex so the first vertex is not repeated.
func (s *Store) closeLoop(id ContourID) {
	r := &s.meta[id]
	r.spans = trimLast(r.spans)
	r.count--
	r.closed = true
	s.npts--
}

// exclude tombstones a contour without a successor (degenerate geometry
// or discarded defects). Its points become unreachable.
func (s *Store) exclude(id ContourID) {
	r := &s.meta[id]
	s.live--
	s.npts -= int(r.count)
	r.spans, r.count, r.dead = nil, 0, true
}

// compact copies each live contour once, in the given order, into a
// fresh sealed store with contiguous ids. Every surviving point is
// copied exactly once; tombstoned records are dropped.
func (s *Store) compact(order []ContourID) *Store {
	out := &Store{
		pts:    make([]Point, 0, s.npts),
		meta:   make([]contour, 0, len(order)),
		sealed: true,
	}
	for _, id := range order {
		r := s.rec(id)
		off := int32(len(out.pts))
		out.pts = s.AppendPoints(out.pts, id)
		out.meta = append(out.meta, contour{
			spans:  []span{{off: off, n: r.count}},
			count:  r.count,
			label:  r.label,
			frame:  r.frame,
			parent: -1,
			closed: r.closed,
		})
		out.live++
		out.npts += int(r.count)
	}
	return out
}

// ring returns the contiguous point slice of a contour in a compacted
// store. Only valid once every contour is a single forward span.
func (s *Store) ring(id ContourID) []Point {
	sp := s.rec(id).spans[0]
	return s.pts[sp.off : sp.off+sp.n]
}

// reverseRing reverses a compacted contour's points in place. Used by
// orientation normalization.
func (s *Store) reverseRing(id ContourID) {
	slices.Reverse(s.ring(id))
}

// reverseChain reverses a span chain in place: span order flips and each
// span's traversal direction toggles.
func reverseChain(chain []span) []span {
	slices.Reverse(chain)
	for i := range chain {
		chain[i].rev = !chain[i].rev
	}
	return chain
}

// trimFirst drops the chain's first logical point.
func trimFirst(chain []span) []span {
	sp := &chain[0]
	if !sp.rev {
		sp.off++
	}
	sp.n--
	if sp.n == 0 {
		return chain[1:]
	}
	return chain
}

// trimLast drops the chain's last logical point.
func trimLast(chain []span) []span {
	sp := &chain[len(chain)-1]
	if sp.rev {
		sp.off++
	}
	sp.n--
	if sp.n == 0 {
		return chain[:len(chain)-1]
	}
	return chain
}
