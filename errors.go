package stitch

import "errors"

// Sentinel errors returned by store construction and the join call.
// Detailed failures wrap these with fmt.Errorf("%w: ...") so callers can
// classify with errors.Is while still seeing the offending contour.
var (
	// ErrInputInconsistency indicates a caller contract violation: an
	// open fragment with fewer than 2 points, a closed contour with
	// fewer than 3, an unknown origin frame, or an open fragment whose
	// endpoint does not lie on its frame's border. The whole join call
	// is aborted; this is never a data condition the engine repairs.
	ErrInputInconsistency = errors.New("stitch: input inconsistency")

	// ErrSealed indicates an attempt to mutate a sealed store. Stores
	// are sealed once a join consumes them and when the finalizer emits
	// a result.
	ErrSealed = errors.New("stitch: store is sealed")
)
