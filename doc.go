// Package stitch joins per-frame boundary contours of tiled raster
// label maps back into whole-image contours.
//
// # Overview
//
// Large label maps (segmented image pyramids) are processed one
// rectangular frame at a time. Boundary tracing inside a single frame
// produces closed contours for regions that fit in the frame and open
// polyline fragments, with endpoints on the frame border, for regions
// torn apart by the tiling. stitch reconstructs the contour set a
// whole-image trace would have produced: it matches fragment endpoints
// within configurable tolerances, splices fragments into closed loops,
// normalizes winding orientation (outer boundary vs. hole) and reports
// everything it could not resolve as structured defects.
//
// # Quick Start
//
//	import "github.com/rasterlab/stitch"
//
//	src := stitch.NewStore()
//	// Append per-frame contours in global coordinates.
//	src.Append(pts, label, frame, false) // open fragment
//	src.Append(ring, label, frame, true) // closed contour
//
//	out, defects, err := stitch.Join(src, stitch.WithTolerance(1, 1))
//	if err != nil {
//	    // caller contract violation (stitch.ErrInputInconsistency)
//	}
//	for id := range out.IDs() {
//	    _ = out.Ring(id) // orb geometry for export
//	}
//	_ = defects // unresolved or degenerate topology, if any
//
// # Architecture
//
// The engine is four components, run in order by Join:
//   - Store: packed contour arena; contours are span views, splicing
//     moves views instead of points
//   - internal/grid: endpoint index bucketed on the tolerance grid
//   - merger: greedy deterministic endpoint matching to fixed point
//   - finalizer: validation, compaction, orientation normalization
//
// # Coordinate System
//
// Points are integer coordinates in the global (whole-image) space:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Closed contours with positive signed area are outer boundaries,
//     negative are holes
//
// # Determinism
//
// A join is single-threaded and reproducible: identical input and
// options yield byte-identical output ordering and point sequences,
// whatever tiling tore the input apart. Coarser-grained parallelism is
// available through JoinGroups, which joins independent stores
// concurrently without touching shared state.
package stitch
