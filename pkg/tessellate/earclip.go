package tessellate

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/geom"
)

func triangle3(a, b, c v3.Vec) sdf.Triangle3 {
	return sdf.Triangle3{a, b, c}
}

// mergeHoles splices every hole ring into the outer ring through bridge
// edges, producing one simple (up to bridge doublings) polygon that ear
// clipping can consume. The outer ring must wind counterclockwise;
// holes are normalized to clockwise.
func mergeHoles(outer []boundaryPoint, holes [][]boundaryPoint) ([]boundaryPoint, error) {
	merged := outer
	for hi, hole := range holes {
		if geom.SignedArea(ringUVs(hole)) > 0 {
			hole = reverseRing(hole)
		}
		var err error
		merged, err = spliceHole(merged, hole)
		if err != nil {
			return nil, fmt.Errorf("hole %d: %w", hi, err)
		}
	}
	return merged, nil
}

// spliceHole connects one hole into the polygon via a bridge between
// mutually visible vertices, walking the hole in place.
func spliceHole(poly, hole []boundaryPoint) ([]boundaryPoint, error) {
	// Rightmost hole vertex is the conventional bridge start.
	hIdx := 0
	for i, bp := range hole {
		if bp.UV.X > hole[hIdx].UV.X {
			hIdx = i
		}
	}
	hv := hole[hIdx].UV

	// Nearest polygon vertex with an unobstructed bridge.
	type cand struct {
		idx  int
		dist float64
	}
	var cands []cand
	for i, bp := range poly {
		d := bp.UV.Sub(hv).Length2()
		cands = append(cands, cand{idx: i, dist: d})
	}
	// Selection sort over a small list keeps this dependency-free of
	// ordering helpers; polygons here are boundary samplings, not huge.
	for i := 0; i < len(cands); i++ {
		min := i
		for j := i + 1; j < len(cands); j++ {
			if cands[j].dist < cands[min].dist {
				min = j
			}
		}
		cands[i], cands[min] = cands[min], cands[i]
	}

	for _, c := range cands {
		if bridgeClear(poly, hole, c.idx, hIdx) {
			out := make([]boundaryPoint, 0, len(poly)+len(hole)+2)
			out = append(out, poly[:c.idx+1]...)
			out = append(out, hole[hIdx:]...)
			out = append(out, hole[:hIdx+1]...)
			out = append(out, poly[c.idx:]...)
			return out, nil
		}
	}
	return nil, fmt.Errorf("no visible bridge vertex for hole")
}

// bridgeClear reports whether the segment poly[pi]..hole[hi] crosses no
// edge of either ring.
func bridgeClear(poly, hole []boundaryPoint, pi, hi int) bool {
	a := poly[pi].UV
	b := hole[hi].UV
	blocked := func(ring []boundaryPoint, skipA, skipB int) bool {
		n := len(ring)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if i == skipA || j == skipA || i == skipB || j == skipB {
				continue
			}
			if segmentsCross(a, b, ring[i].UV, ring[j].UV) {
				return true
			}
		}
		return false
	}
	if blocked(poly, pi, -1) {
		return false
	}
	return !blocked(hole, hi, -1)
}

// segmentsCross reports proper intersection of open segments ab and cd.
func segmentsCross(a, b, c, d v2.Vec) bool {
	d1 := geom.Cross2D(b.Sub(a), c.Sub(a))
	d2 := geom.Cross2D(b.Sub(a), d.Sub(a))
	d3 := geom.Cross2D(d.Sub(c), a.Sub(c))
	d4 := geom.Cross2D(d.Sub(c), b.Sub(c))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// earClip triangulates a counterclockwise polygon (bridge doublings
// allowed) by iterative ear removal. Degenerate (zero-area) corners are
// dropped without emitting a triangle, which is how bridge edges vanish.
func earClip(poly []boundaryPoint) ([][3]boundaryPoint, error) {
	idx := make([]int, len(poly))
	for i := range idx {
		idx[i] = i
	}
	eps := polygonEps(poly)

	var tris [][3]boundaryPoint
	for len(idx) > 3 {
		clipped := false
		for k := 0; k < len(idx); k++ {
			ip := idx[(k+len(idx)-1)%len(idx)]
			ic := idx[k]
			in := idx[(k+1)%len(idx)]
			a, b, c := poly[ip].UV, poly[ic].UV, poly[in].UV

			area2 := geom.Cross2D(b.Sub(a), c.Sub(a))
			if math.Abs(area2) <= eps {
				// Collinear or bridge corner: drop the vertex.
				idx = append(idx[:k], idx[k+1:]...)
				clipped = true
				break
			}
			if area2 < 0 {
				continue // reflex corner
			}
			if earContainsVertex(poly, idx, ip, ic, in, eps) {
				continue
			}
			tris = append(tris, [3]boundaryPoint{poly[ip], poly[ic], poly[in]})
			idx = append(idx[:k], idx[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, fmt.Errorf("ear clipping stalled with %d vertices", len(idx))
		}
	}
	if len(idx) == 3 {
		a, b, c := poly[idx[0]].UV, poly[idx[1]].UV, poly[idx[2]].UV
		if math.Abs(geom.Cross2D(b.Sub(a), c.Sub(a))) > eps {
			tris = append(tris, [3]boundaryPoint{poly[idx[0]], poly[idx[1]], poly[idx[2]]})
		}
	}
	return tris, nil
}

// earContainsVertex reports whether any remaining vertex lies inside
// the candidate ear triangle.
func earContainsVertex(poly []boundaryPoint, idx []int, ip, ic, in int, eps float64) bool {
	a, b, c := poly[ip].UV, poly[ic].UV, poly[in].UV
	for _, i := range idx {
		if i == ip || i == ic || i == in {
			continue
		}
		p := poly[i].UV
		// Bridge duplicates coincide with a corner; not containment.
		if p.Sub(a).Length2() <= eps || p.Sub(b).Length2() <= eps || p.Sub(c).Length2() <= eps {
			continue
		}
		if geom.Cross2D(b.Sub(a), p.Sub(a)) >= 0 &&
			geom.Cross2D(c.Sub(b), p.Sub(b)) >= 0 &&
			geom.Cross2D(a.Sub(c), p.Sub(c)) >= 0 {
			return true
		}
	}
	return false
}

// polygonEps scales degeneracy thresholds to the polygon's extent.
func polygonEps(poly []boundaryPoint) float64 {
	lo := poly[0].UV
	hi := poly[0].UV
	for _, bp := range poly {
		if bp.UV.X < lo.X {
			lo.X = bp.UV.X
		}
		if bp.UV.Y < lo.Y {
			lo.Y = bp.UV.Y
		}
		if bp.UV.X > hi.X {
			hi.X = bp.UV.X
		}
		if bp.UV.Y > hi.Y {
			hi.Y = bp.UV.Y
		}
	}
	diag := hi.Sub(lo).Length2()
	if diag == 0 {
		return 1e-18
	}
	return diag * 1e-14
}

const maxRefineDepth = 7

type refineItem struct {
	tri   [3]boundaryPoint
	depth int
}

// refineTriangles subdivides triangles 1-to-4 until each tracks the
// surface within tol. New midpoints are evaluated through the surface,
// so a flat ear-clipped disk over a curved patch bulges out to the real
// geometry.
func refineTriangles(s geom.Surface, tris [][3]boundaryPoint, tol float64) [][3]boundaryPoint {
	queue := make([]refineItem, 0, len(tris))
	for _, t := range tris {
		queue = append(queue, refineItem{tri: t})
	}
	var out [][3]boundaryPoint
	for len(queue) > 0 {
		it := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if it.depth >= maxRefineDepth || triDeviation(s, it.tri) <= tol {
			out = append(out, it.tri)
			continue
		}
		ab := surfaceMidpoint(s, it.tri[0], it.tri[1])
		bc := surfaceMidpoint(s, it.tri[1], it.tri[2])
		ca := surfaceMidpoint(s, it.tri[2], it.tri[0])
		d := it.depth + 1
		queue = append(queue,
			refineItem{tri: [3]boundaryPoint{it.tri[0], ab, ca}, depth: d},
			refineItem{tri: [3]boundaryPoint{ab, it.tri[1], bc}, depth: d},
			refineItem{tri: [3]boundaryPoint{ca, bc, it.tri[2]}, depth: d},
			refineItem{tri: [3]boundaryPoint{ab, bc, ca}, depth: d},
		)
	}
	return out
}

// triDeviation measures how far the linear triangle strays from the
// surface at its edge midpoints and centroid.
func triDeviation(s geom.Surface, tri [3]boundaryPoint) float64 {
	max := 0.0
	probe := func(uv v2.Vec, lin v3.Vec) {
		d := s.Position(uv.X, uv.Y).Sub(lin).Length()
		if d > max {
			max = d
		}
	}
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		uv := tri[i].UV.Add(tri[j].UV).DivScalar(2)
		lin := tri[i].P.Add(tri[j].P).MulScalar(0.5)
		probe(uv, lin)
	}
	cuv := tri[0].UV.Add(tri[1].UV).Add(tri[2].UV).DivScalar(3)
	clin := tri[0].P.Add(tri[1].P).Add(tri[2].P).MulScalar(1.0 / 3)
	probe(cuv, clin)
	return max
}

// surfaceMidpoint interpolates two boundary points in parameter space
// and snaps the position back onto the surface.
func surfaceMidpoint(s geom.Surface, a, b boundaryPoint) boundaryPoint {
	uv := a.UV.Add(b.UV).DivScalar(2)
	return boundaryPoint{UV: uv, P: s.Position(uv.X, uv.Y)}
}
