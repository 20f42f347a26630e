// Package grid provides a spatial hash over integer 3D coordinates,
// quantized to a per-axis tolerance, for amortized O(1) neighbor lookup.
//
// The index is append-only and stores opaque handles; filtering stale or
// consumed handles is the caller's concern. With cell edges of
// tolerance+1 per axis, every tolerance box spans at most two cells per
// axis, so a lookup scans at most eight cells.
package grid

// Handle identifies one indexed item. The index never interprets it.
type Handle int32

// Entry pairs a handle with the coordinate it was inserted at.
type Entry struct {
	X, Y, Z int32
	H       Handle
}

type cellKey struct {
	cx, cy, cz int32
}

// Index buckets entries by coordinates quantized to the tolerance grid.
// Lookups are deterministic: cells are scanned in ascending key order and
// entries within a cell in insertion order.
type Index struct {
	tx, ty, tz int32 // inclusive per-axis tolerances
	sx, sy, sz int32 // cell edge lengths (tolerance+1)
	cells      map[cellKey][]Entry
	n          int
}

// New creates an empty index with the given per-axis tolerances.
// Negative tolerances are treated as zero.
func New(tx, ty, tz int32) *Index {
	tx, ty, tz = max(tx, 0), max(ty, 0), max(tz, 0)
	return &Index{
		tx: tx, ty: ty, tz: tz,
		sx: tx + 1, sy: ty + 1, sz: tz + 1,
		cells: make(map[cellKey][]Entry),
	}
}

// Insert adds an entry at (x, y, z). Entries are never removed.
func (ix *Index) Insert(x, y, z int32, h Handle) {
	k := cellKey{floorDiv(x, ix.sx), floorDiv(y, ix.sy), floorDiv(z, ix.sz)}
	ix.cells[k] = append(ix.cells[k], Entry{X: x, Y: y, Z: z, H: h})
	ix.n++
}

// Len returns the number of entries inserted.
func (ix *Index) Len() int { return ix.n }

// Neighbors appends to dst every entry whose coordinate lies within the
// per-axis tolerances of (x, y, z), in deterministic order, and returns
// the extended slice.
func (ix *Index) Neighbors(x, y, z int32, dst []Entry) []Entry {
	x0, x1 := floorDiv(x-ix.tx, ix.sx), floorDiv(x+ix.tx, ix.sx)
	y0, y1 := floorDiv(y-ix.ty, ix.sy), floorDiv(y+ix.ty, ix.sy)
	z0, z1 := floorDiv(z-ix.tz, ix.sz), floorDiv(z+ix.tz, ix.sz)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for cz := z0; cz <= z1; cz++ {
				for _, e := range ix.cells[cellKey{cx, cy, cz}] {
					if abs(e.X-x) <= ix.tx && abs(e.Y-y) <= ix.ty && abs(e.Z-z) <= ix.tz {
						dst = append(dst, e)
					}
				}
			}
		}
	}
	return dst
}

// floorDiv divides rounding toward negative infinity. b is positive.
func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
