package intersect

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// planeCrossings returns the points where the triangle's edges (or
// vertices) meet the plane n.x + d = 0, given precomputed signed vertex
// distances. At most two distinct points are returned.
func planeCrossings(tri sdf.Triangle3, dist [3]float64) []v3.Vec {
	var pts []v3.Vec
	push := func(p v3.Vec) {
		for _, q := range pts {
			if q.Sub(p).Length2() == 0 {
				return
			}
		}
		pts = append(pts, p)
	}
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		di, dj := dist[i], dist[j]
		if di == 0 {
			push(tri[i])
			continue
		}
		if (di > 0 && dj < 0) || (di < 0 && dj > 0) {
			r := di / (di - dj)
			push(tri[i].Add(tri[j].Sub(tri[i]).MulScalar(r)))
		}
	}
	if len(pts) > 2 {
		pts = pts[:2]
	}
	return pts
}

// signedDistances computes each vertex's signed distance to the plane,
// clamping values below eps to exactly zero.
func signedDistances(tri sdf.Triangle3, n v3.Vec, d, eps float64) ([3]float64, bool, bool) {
	var dist [3]float64
	pos, neg := false, false
	for i := 0; i < 3; i++ {
		v := n.Dot(tri[i]) + d
		if math.Abs(v) < eps {
			v = 0
		}
		dist[i] = v
		if v > 0 {
			pos = true
		}
		if v < 0 {
			neg = true
		}
	}
	return dist, pos, neg
}

// triTriSegment computes the intersection segment of two triangles.
// Coplanar and point-contact configurations yield no segment; they are
// tangential cases the tracer deliberately skips.
func triTriSegment(t1, t2 sdf.Triangle3, eps float64) (a, b v3.Vec, ok bool) {
	n1 := t1[1].Sub(t1[0]).Cross(t1[2].Sub(t1[0]))
	n2 := t2[1].Sub(t2[0]).Cross(t2[2].Sub(t2[0]))
	if n1.Length2() == 0 || n2.Length2() == 0 {
		return a, b, false
	}
	d1 := -n1.Dot(t1[0])
	d2 := -n2.Dot(t2[0])

	eps1 := eps * n1.Length()
	eps2 := eps * n2.Length()

	dist1, pos1, neg1 := signedDistances(t1, n2, d2, eps2)
	if !(pos1 && neg1) {
		// All on one side, or touching the plane without crossing.
		if !crossesThroughZeros(dist1) {
			return a, b, false
		}
	}
	dist2, pos2, neg2 := signedDistances(t2, n1, d1, eps1)
	if !(pos2 && neg2) {
		if !crossesThroughZeros(dist2) {
			return a, b, false
		}
	}

	line := n1.Cross(n2)
	if line.Length2() == 0 {
		return a, b, false // coplanar or parallel
	}
	dir := line.Normalize()

	p1 := planeCrossings(t1, dist1)
	p2 := planeCrossings(t2, dist2)
	if len(p1) < 2 || len(p2) < 2 {
		return a, b, false
	}

	ref := p1[0]
	type linePoint struct {
		s float64
		p v3.Vec
	}
	span := func(pts []v3.Vec) (linePoint, linePoint) {
		lo := linePoint{s: pts[0].Sub(ref).Dot(dir), p: pts[0]}
		hi := linePoint{s: pts[1].Sub(ref).Dot(dir), p: pts[1]}
		if lo.s > hi.s {
			lo, hi = hi, lo
		}
		return lo, hi
	}
	lo1, hi1 := span(p1)
	lo2, hi2 := span(p2)

	lo := lo1
	if lo2.s > lo.s {
		lo = lo2
	}
	hi := hi1
	if hi2.s < hi.s {
		hi = hi2
	}
	if hi.s-lo.s <= eps {
		return a, b, false
	}
	return lo.p, hi.p, true
}

// crossesThroughZeros reports whether the zero-clamped distances still
// describe an edge lying in the plane (two zeros), which contributes a
// usable segment even without a sign change.
func crossesThroughZeros(dist [3]float64) bool {
	zeros := 0
	for _, d := range dist {
		if d == 0 {
			zeros++
		}
	}
	return zeros == 2
}
