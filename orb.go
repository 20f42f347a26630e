package stitch

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Conversions to github.com/paulmach/orb geometry for downstream export
// and geometric analysis. Coordinates pass through unchanged (image
// space, y down); no vertex is moved, simplified or smoothed. Export
// reads sealed stores only: while a working store is still unsealed its
// geometry and nesting are in flux, so every exporter returns nil for
// it.

// LineString returns the contour's raw point sequence as an
// orb.LineString. It works for open fragments and closed contours
// alike; closed contours do not repeat the first vertex. On an
// unsealed store it returns nil.
func (s *Store) LineString(id ContourID) orb.LineString {
	if !s.sealed {
		return nil
	}
	ls := make(orb.LineString, 0, s.PointCount(id))
	for p := range s.Points(id) {
		ls = append(ls, orb.Point{float64(p.X), float64(p.Y)})
	}
	return ls
}

// Ring returns a closed contour as an orb.Ring with the first vertex
// repeated at the end, the GeoJSON ring convention. It returns nil for
// open fragments and on an unsealed store.
func (s *Store) Ring(id ContourID) orb.Ring {
	if !s.sealed || !s.Closed(id) {
		return nil
	}
	r := make(orb.Ring, 0, s.PointCount(id)+1)
	for p := range s.Points(id) {
		r = append(r, orb.Point{float64(p.X), float64(p.Y)})
	}
	return append(r, r[0])
}

// MultiPolygon assembles every outer ring of the given label with its
// holes (rings whose Parent is that outer) into an orb.MultiPolygon, in
// ascending contour id order. Orientation and nesting exist only on a
// sealed store; on an unsealed one it returns nil.
func (s *Store) MultiPolygon(label int32) orb.MultiPolygon {
	if !s.sealed {
		return nil
	}
	var mp orb.MultiPolygon
	for id := range s.IDs() {
		if s.Label(id) != label || s.Orientation(id) != OrientationOuter {
			continue
		}
		poly := orb.Polygon{s.Ring(id)}
		for hole := range s.IDs() {
			if s.Label(hole) == label && s.Orientation(hole) == OrientationHole && s.Parent(hole) == id {
				poly = append(poly, s.Ring(hole))
			}
		}
		mp = append(mp, poly)
	}
	return mp
}

// FeatureCollection exports a finalized store as GeoJSON features: one
// MultiPolygon feature per label (first-seen order, "label" property)
// plus one Point feature per defect with "reason", "label", "contour"
// and "frame" properties. Labels whose contours are all unresolved
// contribute only defect features. On an unsealed store it returns nil.
func (s *Store) FeatureCollection(defects []Defect) *geojson.FeatureCollection {
	if !s.sealed {
		return nil
	}
	fc := geojson.NewFeatureCollection()
	seen := make(map[int32]bool)
	for id := range s.IDs() {
		if s.Orientation(id) != OrientationOuter || seen[s.Label(id)] {
			continue
		}
		seen[s.Label(id)] = true
		f := geojson.NewFeature(s.MultiPolygon(s.Label(id)))
		f.Properties["label"] = int(s.Label(id))
		fc.Append(f)
	}
	for _, d := range defects {
		f := geojson.NewFeature(orb.Point{float64(d.Point.X), float64(d.Point.Y)})
		f.Properties["reason"] = d.Reason.String()
		f.Properties["label"] = int(d.Label)
		f.Properties["contour"] = int(d.Contour)
		f.Properties["frame"] = int(d.Frame)
		fc.Append(f)
	}
	return fc
}
