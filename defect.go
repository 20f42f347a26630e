package stitch

// EndKind selects one extremity of an open fragment.
type EndKind uint8

// EndKind values.
const (
	// EndNone is used by defects that concern a whole contour rather
	// than one extremity.
	EndNone EndKind = iota
	// EndHead selects the first point of the fragment's sequence.
	EndHead
	// EndTail selects the last point of the fragment's sequence.
	EndTail
)

// String returns a human-readable name for the end selector.
func (e EndKind) String() string {
	switch e {
	case EndNone:
		return "None"
	case EndHead:
		return "Head"
	case EndTail:
		return "Tail"
	default:
		return "Unknown"
	}
}

// DefectReason classifies why a contour or endpoint could not be
// resolved into a valid closed contour.
type DefectReason uint8

// DefectReason values.
const (
	// DefectUnresolvedEndpoint reports an open fragment end that found
	// no match within tolerance once merging reached fixed point. The
	// fragment stays open in the result (or is dropped under
	// WithDiscardUnresolved), never force-closed: forcing closure would
	// corrupt area and shape.
	DefectUnresolvedEndpoint DefectReason = iota
	// DefectDegenerateGeometry reports a closed contour with duplicate
	// consecutive vertices or zero enclosed area. The contour is
	// excluded from the result, never silently repaired.
	DefectDegenerateGeometry
)

// String returns a human-readable name for the defect reason.
func (r DefectReason) String() string {
	switch r {
	case DefectUnresolvedEndpoint:
		return "UnresolvedEndpoint"
	case DefectDegenerateGeometry:
		return "DegenerateGeometry"
	default:
		return "Unknown"
	}
}

// Defect describes one unresolved endpoint or one excluded contour.
// Defects are data, not errors: the join call still succeeds and the
// caller decides how to react.
type Defect struct {
	// Contour is the id in the result store, or -1 if the contour was
	// excluded from the result (degenerate geometry, or an unresolved
	// fragment under WithDiscardUnresolved).
	Contour ContourID
	// End selects the affected extremity for unresolved endpoints and
	// is EndNone for whole-contour defects.
	End EndKind
	// Point is the unresolved end point, or the contour's first vertex
	// for whole-contour defects.
	Point Point
	// Label and Frame identify the region and origin frame, so defects
	// stay diagnosable even for excluded contours.
	Label int32
	Frame FrameID
	// Reason classifies the defect.
	Reason DefectReason
}
