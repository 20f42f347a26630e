package stitch

import (
	"slices"

	"github.com/rasterlab/stitch/internal/fanout"
)

// Group pairs one store with the frame table describing its tiling.
// Groups must be independent: distinct images, or connected-component
// groups known a priori to never share a border. Frames may be nil to
// join without frame geometry, or to fall back on a FrameSet passed via
// WithFrames.
type Group struct {
	Store  *Store
	Frames *FrameSet
}

// GroupResult is the outcome of joining one group.
type GroupResult struct {
	Store   *Store
	Defects []Defect
	Err     error
}

// JoinGroups joins independent groups concurrently, bounded by
// WithWorkers, and returns results in input order. Each group is joined
// on its own store with no shared mutable state, so every individual
// result is as deterministic as a direct Join call.
//
// A single store must never appear in more than one group: Join consumes
// its input.
func JoinGroups(groups []Group, opts ...Option) []GroupResult {
	o := newJoinOptions(opts)
	results := make([]GroupResult, len(groups))
	fanout.Run(o.workers, len(groups), func(i int) {
		gopts := opts
		if groups[i].Frames != nil {
			// Clip forces the append below to reallocate, keeping the
			// shared opts slice untouched across goroutines.
			gopts = append(slices.Clip(opts), WithFrames(groups[i].Frames))
		}
		out, defects, err := Join(groups[i].Store, gopts...)
		results[i] = GroupResult{Store: out, Defects: defects, Err: err}
	})
	return results
}
