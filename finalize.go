package stitch

import "slices"

// finalizeStore runs once merging has reached fixed point: it excludes
// degenerate closed contours, compacts the survivors into a fresh sealed
// store in deterministic order, normalizes winding orientation, and
// assembles the defect list.
func finalizeStore(s *Store, o *joinOptions, completion []int32) (*Store, []Defect) {
	var degenerate []Defect
	var unresolved []Defect

	// Validate closed contours: duplicate consecutive vertices or zero
	// signed area mean the geometry is corrupt. Such contours are
	// excluded and reported, never repaired or silently accepted.
	var buf []Point
	for id := range s.IDs() {
		if !s.Closed(id) {
			continue
		}
		buf = s.AppendPoints(buf[:0], id)
		if !hasDupVertex(buf) && area2(buf) != 0 {
			continue
		}
		Logger().Debug("join: degenerate contour excluded",
			"contour", int32(id),
			"points", len(buf))
		degenerate = append(degenerate, Defect{
			Contour: -1,
			End:     EndNone,
			Point:   buf[0],
			Label:   s.Label(id),
			Frame:   s.Frame(id),
			Reason:  DefectDegenerateGeometry,
		})
		s.exclude(id)
	}

	// Under discard mode unresolved fragments leave the store here;
	// their defect entries survive so nothing disappears silently.
	if o.discard {
		var openIDs []ContourID
		for id := range s.IDs() {
			if !s.Closed(id) {
				openIDs = append(openIDs, id)
			}
		}
		for _, id := range openIDs {
			unresolved = append(unresolved,
				openDefect(s, id, EndHead, -1),
				openDefect(s, id, EndTail, -1))
			s.exclude(id)
		}
	}

	// Deterministic result order: input-closed contours in insertion
	// order, newly-closed contours in completion order, surviving open
	// fragments last.
	var closedInput, closedMerged, open []ContourID
	for id := range s.IDs() {
		switch {
		case s.Closed(id) && completion[id] < 0:
			closedInput = append(closedInput, id)
		case s.Closed(id):
			closedMerged = append(closedMerged, id)
		default:
			open = append(open, id)
		}
	}
	slices.SortFunc(closedMerged, func(a, b ContourID) int {
		return int(completion[a]) - int(completion[b])
	})
	order := make([]ContourID, 0, len(closedInput)+len(closedMerged)+len(open))
	order = append(order, closedInput...)
	order = append(order, closedMerged...)
	order = append(order, open...)

	out := s.compact(order)
	orientRings(out)

	if !o.discard {
		for id := range out.IDs() {
			if out.Closed(id) {
				continue
			}
			unresolved = append(unresolved,
				openDefect(out, id, EndHead, id),
				openDefect(out, id, EndTail, id))
		}
	}

	defects := make([]Defect, 0, len(unresolved)+len(degenerate))
	defects = append(defects, unresolved...)
	defects = append(defects, degenerate...)
	if len(defects) > 0 {
		Logger().Warn("join: unresolved topology",
			"unresolved_endpoints", len(unresolved),
			"degenerate_contours", len(degenerate))
	}
	return out, defects
}

// openDefect builds the UnresolvedEndpoint defect for one extremity.
// reportID is the id the defect carries: the result-store id when the
// fragment stays in the result, -1 when it was discarded.
func openDefect(s *Store, id ContourID, e EndKind, reportID ContourID) Defect {
	return Defect{
		Contour: reportID,
		End:     e,
		Point:   s.endPoint(id, e),
		Label:   s.Label(id),
		Frame:   s.Frame(id),
		Reason:  DefectUnresolvedEndpoint,
	}
}

// orientRings normalizes winding on a compacted store. The ring's
// current direction is read from its signed area; outer versus hole is
// decided by same-label nesting parity, never by frame-of-origin
// metadata. Outer rings end up with positive signed area (clockwise in
// y-down image coordinates), holes negative; rings stored the other way
// around are reversed in place. The innermost enclosing ring is recorded
// as parent. Running this on an already-normalized store changes
// nothing.
func orientRings(s *Store) {
	type ringGeom struct {
		id     ContourID
		label  int32
		area2  int64
		bb     Rect
		parent ContourID
		depth  int
	}
	var rings []ringGeom
	byLabel := make(map[int32][]int)
	for id := range s.IDs() {
		if !s.Closed(id) {
			continue
		}
		pts := s.ring(id)
		rings = append(rings, ringGeom{
			id:     id,
			label:  s.Label(id),
			area2:  area2(pts),
			bb:     bounds(pts),
			parent: -1,
		})
		byLabel[s.Label(id)] = append(byLabel[s.Label(id)], len(rings)-1)
	}

	for i := range rings {
		g := &rings[i]
		pt := s.ring(g.id)[0]
		var innermost int64
		for _, j := range byLabel[g.label] {
			h := &rings[j]
			if h.id == g.id || !h.bb.Contains(pt) {
				continue
			}
			if !pointInRing(pt, s.ring(h.id)) {
				continue
			}
			g.depth++
			if a := abs64(h.area2); g.parent < 0 || a < innermost {
				g.parent = h.id
				innermost = a
			}
		}
	}

	for _, g := range rings {
		r := &s.meta[g.id]
		r.parent = g.parent
		if g.depth%2 == 0 {
			r.orient = OrientationOuter
			if g.area2 < 0 {
				s.reverseRing(g.id)
			}
		} else {
			r.orient = OrientationHole
			if g.area2 > 0 {
				s.reverseRing(g.id)
			}
		}
	}
}

// area2 returns twice the signed area of a ring (closing edge implicit),
// exact in int64. Positive means clockwise traversal in y-down image
// coordinates.
func area2(pts []Point) int64 {
	var sum int64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += int64(p.X)*int64(q.Y) - int64(q.X)*int64(p.Y)
	}
	return sum
}

// hasDupVertex reports whether a ring repeats a vertex on consecutive
// positions, including across the implicit closing edge.
func hasDupVertex(pts []Point) bool {
	for i, p := range pts {
		if p.Eq(pts[(i+1)%len(pts)]) {
			return true
		}
	}
	return false
}

// bounds returns the bounding rectangle of a non-empty point sequence.
func bounds(pts []Point) Rect {
	bb := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		bb.Min.X = min(bb.Min.X, p.X)
		bb.Min.Y = min(bb.Min.Y, p.Y)
		bb.Max.X = max(bb.Max.X, p.X)
		bb.Max.Y = max(bb.Max.Y, p.Y)
	}
	return bb
}

// pointInRing reports whether p lies strictly inside the ring by the
// even-odd crossing rule, computed exactly in integer arithmetic.
// Points on the boundary resolve deterministically (no toggling on
// zero cross products).
func pointInRing(p Point, ring []Point) bool {
	in := false
	j := len(ring) - 1
	for i := range ring {
		a, b := ring[j], ring[i]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			cross := int64(b.X-a.X)*int64(p.Y-a.Y) - int64(p.X-a.X)*int64(b.Y-a.Y)
			if b.Y > a.Y {
				if cross > 0 {
					in = !in
				}
			} else {
				if cross < 0 {
					in = !in
				}
			}
		}
		j = i
	}
	return in
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
