package stitch

import "runtime"

// Option configures a join call.
// Use functional options to customize Join and JoinGroups behavior.
//
// Example:
//
//	// Exact-match joining (the default)
//	out, defects, err := stitch.Join(src)
//
//	// Absorb up to 2 grid units of rounding from frame extraction
//	out, defects, err := stitch.Join(src, stitch.WithTolerance(2, 2))
type Option func(*joinOptions)

// joinOptions holds the configuration assembled from Options.
type joinOptions struct {
	tolX, tolY int32
	tolLayer   int32
	frames     *FrameSet
	discard    bool
	workers    int
}

// defaultJoinOptions returns the default join configuration: exact-match
// tolerances, no frame table, defects surfaced, one worker per CPU for
// group joins.
func defaultJoinOptions() joinOptions {
	return joinOptions{
		workers: runtime.GOMAXPROCS(0),
	}
}

func newJoinOptions(opts []Option) joinOptions {
	o := defaultJoinOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTolerance sets the per-axis matching tolerances in grid units.
// Two endpoints match when |dx| <= dx-tolerance and |dy| <= dy-tolerance
// (and the layer tolerance holds). The default is 0: endpoints must
// coincide exactly. Small positive values absorb rounding introduced by
// per-frame boundary extraction. Negative values are treated as 0.
func WithTolerance(dx, dy int32) Option {
	return func(o *joinOptions) {
		o.tolX = max(dx, 0)
		o.tolY = max(dy, 0)
	}
}

// WithLayerTolerance sets the tolerance on the third, discrete axis
// (frame layer) for frame grids organized in more than two dimensions.
// The default 0 restricts matches to the same layer. Layers are taken
// from the FrameSet; without one every contour is on layer 0.
func WithLayerTolerance(dz int32) Option {
	return func(o *joinOptions) {
		o.tolLayer = max(dz, 0)
	}
}

// WithFrames supplies frame geometry. It enables the adjacent-frame
// tie-break between equidistant candidates and turns on input
// validation: every open fragment must come from a registered frame and
// both its endpoints must lie on that frame's border (within the
// configured tolerance), or the join aborts with ErrInputInconsistency.
//
// Example:
//
//	fs := stitch.NewFrameSet()
//	fs.Add(0, stitch.R(0, 0, 512, 512), 0)
//	fs.Add(1, stitch.R(512, 0, 1024, 512), 0)
//	out, defects, err := stitch.Join(src, stitch.WithFrames(fs))
func WithFrames(fs *FrameSet) Option {
	return func(o *joinOptions) {
		o.frames = fs
	}
}

// WithDiscardUnresolved controls what happens to fragments that remain
// open at fixed point. By default they stay in the result store, flagged
// open and reported as defects. With discard enabled they are dropped
// from the result store; their defect entries remain (with Contour -1),
// so nothing is silently swallowed.
func WithDiscardUnresolved(discard bool) Option {
	return func(o *joinOptions) {
		o.discard = discard
	}
}

// WithWorkers bounds the number of goroutines JoinGroups uses. Values
// below 1 are treated as 1. Join ignores it: a single join is
// single-threaded by design so merge order stays reproducible.
func WithWorkers(n int) Option {
	return func(o *joinOptions) {
		o.workers = max(n, 1)
	}
}
