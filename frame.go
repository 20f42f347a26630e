package stitch

// Frame describes one tile of the frame decomposition: its bounds in
// global coordinates and the discrete layer it belongs to when frames
// are stacked in more than two dimensions.
type Frame struct {
	Bounds Rect
	Layer  int32
}

// FrameSet maps frame ids to their geometry. It feeds the merger's
// adjacency tie-break and the validation of open-fragment endpoints;
// joining works without one, with adjacency ranking disabled and all
// layers treated as 0.
type FrameSet struct {
	frames map[FrameID]Frame
}

// NewFrameSet creates an empty frame set.
func NewFrameSet() *FrameSet {
	return &FrameSet{frames: make(map[FrameID]Frame)}
}

// Add registers a frame, replacing any previous entry with the same id.
func (fs *FrameSet) Add(id FrameID, bounds Rect, layer int32) {
	fs.frames[id] = Frame{Bounds: bounds, Layer: layer}
}

// Lookup returns the frame registered under id.
func (fs *FrameSet) Lookup(id FrameID) (Frame, bool) {
	f, ok := fs.frames[id]
	return f, ok
}

// Len returns the number of registered frames.
func (fs *FrameSet) Len() int { return len(fs.frames) }

// Layer returns the layer of a frame, or 0 for unknown frames.
func (fs *FrameSet) Layer(id FrameID) int32 {
	return fs.frames[id].Layer
}

// Adjacent reports whether two frames touch: same layer and bounds
// sharing a border segment of positive length, or layers differing by
// exactly one with overlapping bounds. Unknown frames are adjacent to
// nothing.
func (fs *FrameSet) Adjacent(a, b FrameID) bool {
	fa, ok := fs.frames[a]
	if !ok {
		return false
	}
	fb, ok := fs.frames[b]
	if !ok {
		return false
	}
	switch d := fa.Layer - fb.Layer; {
	case d == 0:
		return fa.Bounds.sharesEdge(fb.Bounds)
	case d == 1 || d == -1:
		return fa.Bounds.Intersects(fb.Bounds)
	default:
		return false
	}
}
