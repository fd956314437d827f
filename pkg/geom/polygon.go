package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// SignedArea returns the signed area of a closed polygon ring by the
// shoelace formula: positive for counterclockwise winding.
func SignedArea(ring []v2.Vec) float64 {
	sum := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		sum += Cross2D(a, b)
	}
	return sum / 2
}

// PointInRing reports whether p lies strictly inside the closed ring,
// by ray parity along +X. Points on the boundary are not inside.
func PointInRing(ring []v2.Vec, p v2.Vec) bool {
	inside := false
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if x > p.X {
				inside = !inside
			}
		}
	}
	return inside
}

// RingCentroid returns the area centroid of a closed ring.
func RingCentroid(ring []v2.Vec) v2.Vec {
	var cx, cy, area float64
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		w := Cross2D(a, b)
		cx += (a.X + b.X) * w
		cy += (a.Y + b.Y) * w
		area += w
	}
	if area == 0 {
		// Degenerate ring: fall back to the vertex mean.
		var m v2.Vec
		for _, q := range ring {
			m = m.Add(q)
		}
		return m.DivScalar(float64(len(ring)))
	}
	return v2.Vec{X: cx / (3 * area), Y: cy / (3 * area)}
}

// InteriorPoint finds a point strictly inside the region bounded by the
// outer ring minus the holes. The centroid is tried first; failing that,
// midpoints of segments from boundary vertices toward the centroid are
// probed.
func InteriorPoint(outer []v2.Vec, holes [][]v2.Vec) (v2.Vec, bool) {
	contains := func(p v2.Vec) bool {
		if !PointInRing(outer, p) {
			return false
		}
		for _, h := range holes {
			if PointInRing(h, p) {
				return false
			}
		}
		return true
	}

	c := RingCentroid(outer)
	if contains(c) {
		return c, true
	}
	n := len(outer)
	for i := 0; i < n; i++ {
		// Inward probe: midpoint between an edge midpoint and the
		// centroid, at shrinking depths.
		a := outer[i]
		b := outer[(i+1)%n]
		mid := a.Add(b).DivScalar(2)
		for _, f := range []float64{0.5, 0.25, 0.1, 0.02} {
			p := mid.Add(c.Sub(mid).MulScalar(f))
			if contains(p) {
				return p, true
			}
		}
	}
	return v2.Vec{}, false
}
