package stitch

import (
	"fmt"
	"testing"
)

// buildTornRing tears one rectangle outline into n top-edge pieces plus
// one arc covering the remaining three sides, the shape of input a
// column of adjacent frames produces. With jitter, odd pieces are
// shifted down so every junction needs a 1-unit tolerance to resolve.
func buildTornRing(n int, jitter int32) *Store {
	s := NewStore()
	for i := range n {
		y := int32(0)
		if i%2 == 1 {
			y = jitter
		}
		x := int32(4 * i)
		s.Append([]Point{{x, y}, {x + 4, y}}, 1, FrameID(i), false)
	}
	w := int32(4 * n)
	s.Append([]Point{{w, 0}, {w, 400}, {0, 400}, {0, 0}}, 1, FrameID(n), false)
	return s
}

// BenchmarkJoin benchmarks merging a fully-torn outline at various
// fragment counts. Store construction is included; the merge dominates.
func BenchmarkJoin(b *testing.B) {
	sizes := []struct {
		name string
		n    int
	}{
		{"16-fragments", 16},
		{"256-fragments", 256},
		{"2048-fragments", 2048},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				out, _, err := Join(buildTornRing(size.n, 0))
				if err != nil {
					b.Fatal(err)
				}
				if out.Len() != 1 {
					b.Fatalf("Len() = %d, want 1", out.Len())
				}
			}
		})
	}
}

// BenchmarkJoin_Tolerance benchmarks the same merge when every junction
// is off by one grid unit and must be resolved through the tolerance
// box scan.
func BenchmarkJoin_Tolerance(b *testing.B) {
	sizes := []struct {
		name string
		n    int
	}{
		{"256-fragments", 256},
		{"2048-fragments", 2048},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				out, _, err := Join(buildTornRing(size.n, 1), WithTolerance(1, 1))
				if err != nil {
					b.Fatal(err)
				}
				if out.Len() != 1 {
					b.Fatalf("Len() = %d, want 1", out.Len())
				}
			}
		})
	}
}

// BenchmarkJoinGroups benchmarks joining independent groups with
// different worker counts.
func BenchmarkJoinGroups(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers-%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				groups := make([]Group, 8)
				for g := range groups {
					groups[g] = Group{Store: buildTornRing(64, 0)}
				}
				for _, r := range JoinGroups(groups, WithWorkers(workers)) {
					if r.Err != nil {
						b.Fatal(r.Err)
					}
				}
			}
		})
	}
}
