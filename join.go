package stitch

import (
	"fmt"
	"time"

	"github.com/rasterlab/stitch/internal/grid"
)

// Join reconstructs the contour set a whole-image boundary trace would
// have produced from the per-frame contours in src: open fragments are
// matched endpoint-to-endpoint within the configured tolerances, spliced
// into closed loops, orientation-normalized and compacted into a fresh
// result store, together with a defect list for everything that could
// not be resolved (see Defect).
//
// The call consumes src: the engine owns it exclusively for the
// duration, mutates it in place and seals it before returning. The
// result store is sealed and handed to the caller with full ownership;
// no aliasing survives the call.
//
// The merge is greedy, single-threaded and deterministic: identical
// input and options produce byte-identical output ordering and point
// sequences, independent of the tiling that tore the regions apart. Use
// JoinGroups to run independent stores in parallel.
//
// Join returns ErrSealed when src was already consumed, and an error
// wrapping ErrInputInconsistency when src violates the input contract
// (see Append and WithFrames); defects are data, not errors.
func Join(src *Store, opts ...Option) (*Store, []Defect, error) {
	o := newJoinOptions(opts)
	start := time.Now()
	if src == nil {
		return nil, nil, fmt.Errorf("%w: nil store", ErrInputInconsistency)
	}
	if src.sealed {
		return nil, nil, fmt.Errorf("%w: cannot join", ErrSealed)
	}
	if err := validateInput(src, &o); err != nil {
		return nil, nil, err
	}
	contoursIn, pointsIn := src.Len(), src.TotalPoints()

	m := newMerger(src, &o)
	m.run()
	src.sealed = true

	out, defects := finalizeStore(src, &o, m.completion)

	log := Logger()
	log.Info("join: complete",
		"contours_in", contoursIn,
		"points_in", pointsIn,
		"contours_out", out.Len(),
		"splices", m.splices,
		"closures", m.closures,
		"defects", len(defects),
		"elapsed", time.Since(start))
	return out, defects, nil
}

// validateInput enforces the frame-placement part of the input contract:
// with a FrameSet configured, every open fragment must reference a
// registered frame and both its endpoints must lie on that frame's
// border, allowing the matching tolerance as slack. Point-count minimums
// are already enforced by Append.
func validateInput(s *Store, o *joinOptions) error {
	if o.frames == nil {
		return nil
	}
	slack := max(o.tolX, o.tolY)
	for id := range s.IDs() {
		if s.Closed(id) {
			continue
		}
		fid := s.Frame(id)
		f, ok := o.frames.Lookup(fid)
		if !ok {
			return fmt.Errorf("%w: open fragment %d references unregistered frame %d",
				ErrInputInconsistency, id, fid)
		}
		for _, e := range [2]EndKind{EndHead, EndTail} {
			if p := s.endPoint(id, e); !f.Bounds.OnBorder(p, slack) {
				return fmt.Errorf("%w: open fragment %d %s end (%d,%d) is not on the border of frame %d",
					ErrInputInconsistency, id, e, p.X, p.Y, fid)
			}
		}
	}
	return nil
}

// endpointHandle packs (contour id, end selector) into a grid handle.
func endpointHandle(id ContourID, e EndKind) grid.Handle {
	h := grid.Handle(id) << 1
	if e == EndTail {
		h |= 1
	}
	return h
}

func splitHandle(h grid.Handle) (ContourID, EndKind) {
	e := EndHead
	if h&1 != 0 {
		e = EndTail
	}
	return ContourID(h >> 1), e
}

// endInfo is the origin of one current extremity of an open fragment.
// Splices move extremities between contours, so frame and layer are
// tracked per end, not per contour.
type endInfo struct {
	frame FrameID
	layer int32
}

// workItem is one queued endpoint. gen guards against processing
// extremities that a later splice made stale.
type workItem struct {
	id  ContourID
	end EndKind
	gen uint32
}

// candidate is one admissible match for the endpoint being processed,
// with its tie-break key.
type candidate struct {
	id  ContourID
	end EndKind
	d2  int64 // squared Euclidean distance
	adj bool  // candidate's origin frame adjacent to the endpoint's
}

// better reports whether c beats d under the tie-break policy: least
// distance, then adjacent frame, then ascending contour id, then head
// before tail.
func (c candidate) better(d candidate) bool {
	if c.d2 != d.d2 {
		return c.d2 < d.d2
	}
	if c.adj != d.adj {
		return c.adj
	}
	if c.id != d.id {
		return c.id < d.id
	}
	return c.end < d.end
}

// merger is the working state of one join call.
type merger struct {
	s   *Store
	o   *joinOptions
	idx *grid.Index

	ends  [][2]endInfo // per contour: head, tail origin
	gen   []uint32     // per contour: bumped on every splice
	queue []workItem
	qhead int

	// completion[id] is the closure sequence number assigned when the
	// merger closes contour id, or -1. The finalizer orders
	// newly-closed contours by it.
	completion []int32
	closedSeq  int32

	scratch  []grid.Entry
	splices  int
	closures int
}

func newMerger(s *Store, o *joinOptions) *merger {
	n := len(s.meta)
	m := &merger{
		s:          s,
		o:          o,
		idx:        grid.New(o.tolX, o.tolY, o.tolLayer),
		ends:       make([][2]endInfo, n),
		gen:        make([]uint32, n),
		completion: make([]int32, n),
	}
	for i := range m.completion {
		m.completion[i] = -1
	}
	return m
}

// run drives the merge to fixed point.
func (m *merger) run() {
	m.seed()
	for m.qhead < len(m.queue) {
		it := m.queue[m.qhead]
		m.qhead++
		if m.stale(it) {
			continue
		}
		m.step(it)
	}
}

// seed indexes every open fragment's extremities and queues them in
// ascending contour id order, head before tail.
func (m *merger) seed() {
	open := 0
	for id := range m.s.IDs() {
		if m.s.Closed(id) {
			continue
		}
		layer := int32(0)
		fid := m.s.Frame(id)
		if m.o.frames != nil {
			layer = m.o.frames.Layer(fid)
		}
		info := endInfo{frame: fid, layer: layer}
		m.ends[id] = [2]endInfo{info, info}
		h, t := m.s.head(id), m.s.tail(id)
		m.idx.Insert(h.X, h.Y, layer, endpointHandle(id, EndHead))
		m.idx.Insert(t.X, t.Y, layer, endpointHandle(id, EndTail))
		m.queue = append(m.queue,
			workItem{id: id, end: EndHead},
			workItem{id: id, end: EndTail})
		open++
	}
	Logger().Debug("join: endpoint index built",
		"open_fragments", open,
		"endpoints", m.idx.Len())
}

// stale reports whether a queued endpoint no longer exists: its contour
// was absorbed or closed, or a splice changed the contour since the item
// was queued.
func (m *merger) stale(it workItem) bool {
	r := &m.s.meta[it.id]
	return r.dead || r.closed || m.gen[it.id] != it.gen
}

// endInfoOf returns the origin of the selected extremity.
func (m *merger) endInfoOf(id ContourID, e EndKind) endInfo {
	if e == EndHead {
		return m.ends[id][0]
	}
	return m.ends[id][1]
}

// withinTol reports whether two extremity positions (and layers) lie
// within the configured tolerances of each other.
func (m *merger) withinTol(p, q Point, lp, lq int32) bool {
	return p.within(q, m.o.tolX, m.o.tolY) && abs32(lp-lq) <= m.o.tolLayer
}

// step processes one endpoint: find the best admissible candidate,
// splice, and either close the merged fragment or put its surviving
// extremities back to work. With no candidate, the fragment closes on
// itself as a terminal step when its own two ends meet; otherwise the
// endpoint is left unconsumed and surfaces as a defect after fixed
// point.
func (m *merger) step(it workItem) {
	id, e := it.id, it.end
	p := m.s.endPoint(id, e)
	info := m.endInfoOf(id, e)

	best, found := m.bestCandidate(id, e, p, info)
	if !found {
		m.tryCloseSelf(id)
		return
	}

	Logger().Debug("join: splice",
		"contour", int32(id), "end", e.String(),
		"with", int32(best.id), "with_end", best.end.String(),
		"distance2", best.d2)

	// The absorbed side's other extremity becomes one of the survivor's.
	other := EndHead
	if best.end == EndHead {
		other = EndTail
	}
	otherInfo := m.endInfoOf(best.id, other)

	m.s.splice(id, e, best.id, best.end)
	m.splices++
	m.gen[id]++
	if e == EndHead {
		m.ends[id][0] = otherInfo
	} else {
		m.ends[id][1] = otherInfo
	}

	h, t := m.s.head(id), m.s.tail(id)
	if m.withinTol(h, t, m.ends[id][0].layer, m.ends[id][1].layer) {
		m.close(id)
		return
	}

	// Re-index the moved extremity and queue both survivors under the
	// new generation; older queue entries for this contour are stale.
	moved, movedInfo := t, m.ends[id][1]
	if e == EndHead {
		moved, movedInfo = h, m.ends[id][0]
	}
	m.idx.Insert(moved.X, moved.Y, movedInfo.layer, endpointHandle(id, e))
	g := m.gen[id]
	m.queue = append(m.queue,
		workItem{id: id, end: EndHead, gen: g},
		workItem{id: id, end: EndTail, gen: g})
}

// bestCandidate scans the index neighborhood of p and returns the best
// admissible endpoint under the tie-break policy. Admissible: a live,
// open, different contour with the same label, whose indexed position
// still matches its current extremity (entries are never removed from
// the index; superseded ones are recognized here and skipped). A
// geometric neighbor with a different label is a normal non-match, not
// an error.
func (m *merger) bestCandidate(id ContourID, e EndKind, p Point, info endInfo) (candidate, bool) {
	label := m.s.meta[id].label
	m.scratch = m.idx.Neighbors(p.X, p.Y, info.layer, m.scratch[:0])

	var best candidate
	found := false
	for _, en := range m.scratch {
		cid, cend := splitHandle(en.H)
		if cid == id {
			continue
		}
		r := &m.s.meta[cid]
		if r.dead || r.closed || r.label != label {
			continue
		}
		cinfo := m.endInfoOf(cid, cend)
		cp := m.s.endPoint(cid, cend)
		if cp.X != en.X || cp.Y != en.Y || cinfo.layer != en.Z {
			continue // superseded entry
		}
		c := candidate{
			id:  cid,
			end: cend,
			d2:  p.DistanceSquared(cp),
		}
		if m.o.frames != nil {
			c.adj = m.o.frames.Adjacent(info.frame, cinfo.frame)
		}
		if !found || c.better(best) {
			best = c
			found = true
		}
	}
	return best, found
}

// tryCloseSelf closes a fragment whose own two ends meet within
// tolerance. Closing on itself is only ever the terminal step: it runs
// when no other candidate is admissible.
func (m *merger) tryCloseSelf(id ContourID) {
	h, t := m.s.head(id), m.s.tail(id)
	if m.withinTol(h, t, m.ends[id][0].layer, m.ends[id][1].layer) {
		m.close(id)
	}
}

func (m *merger) close(id ContourID) {
	m.s.closeLoop(id)
	m.closures++
	m.completion[id] = m.closedSeq
	m.closedSeq++
	Logger().Debug("join: closed",
		"contour", int32(id),
		"points", m.s.PointCount(id))
}
