package intersect

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/geom"
)

// doubleProjectTrials bounds one breakpoint's alternating projection
// loop. The inner Gauss-Newton searches carry their own budgets.
const doubleProjectTrials = 32

// DoubleProject moves p onto the intersection of two surfaces by
// alternately projecting onto each one until the two foot points agree
// within tol. It reports the settled point, its parameters
// on both surfaces, and whether the iteration converged.
func DoubleProject(sa, sb geom.Surface, p v3.Vec, hintA, hintB v2.Vec, tol float64) (v3.Vec, v2.Vec, v2.Vec, bool) {
	cur := p
	ua, ub := hintA, hintB
	for i := 0; i < doubleProjectTrials; i++ {
		var fa, fb v3.Vec
		var ok bool
		ua, fa, ok = geom.Project(sa, cur, ua, geom.DefaultSearchTrials)
		if !ok {
			return cur, ua, ub, false
		}
		ub, fb, ok = geom.Project(sb, fa, ub, geom.DefaultSearchTrials)
		if !ok {
			return cur, ua, ub, false
		}
		cur = fb
		if fb.Sub(fa).Length() < tol {
			// One last foot on A keeps the reported parameters honest.
			ua, fa, ok = geom.Project(sa, cur, ua, geom.DefaultSearchTrials)
			if !ok {
				return cur, ua, ub, false
			}
			mid := fa.Add(cur).MulScalar(0.5)
			return mid, ua, ub, true
		}
	}
	return cur, ua, ub, false
}

// refinePolyline snaps every breakpoint of a chained candidate curve
// onto the exact surface intersection. Breakpoints that fail to
// converge are dropped; the count of drops is reported for diagnostics.
// A polyline reduced below two distinct points yields nil.
func refinePolyline(sa, sb geom.Surface, pl polyline, tol float64) (*Curve3, int) {
	pts := pl.points
	if pl.closed && len(pts) > 1 {
		pts = pts[:len(pts)-1] // refined first point is re-appended by NewCurve3
	}
	if len(pts) < 2 {
		return nil, 0
	}

	var (
		points  []v3.Vec
		uva     []v2.Vec
		uvb     []v2.Vec
		hintA   v2.Vec
		hintB   v2.Vec
		seeded  bool
		dropped int
	)
	refineTol := tol * 1e-3
	for _, p := range pts {
		if !seeded {
			hintA = geom.GridHint(sa, p)
			hintB = geom.GridHint(sb, p)
		}
		q, ua, ub, ok := DoubleProject(sa, sb, p, hintA, hintB, refineTol)
		if !ok {
			dropped++
			continue
		}
		hintA, hintB = ua, ub
		seeded = true
		if n := len(points); n > 0 && q.Sub(points[n-1]).Length() <= refineTol {
			continue // refinement collapsed two breakpoints together
		}
		points = append(points, q)
		uva = append(uva, ua)
		uvb = append(uvb, ub)
	}
	closed := pl.closed && dropped == 0 && len(points) >= 3
	if !closed && len(points) >= 2 {
		// An open chain can still close up once refinement pulls its
		// free ends onto the same exact point.
		if points[0].Sub(points[len(points)-1]).Length() <= tol {
			points = points[:len(points)-1]
			uva = uva[:len(uva)-1]
			uvb = uvb[:len(uvb)-1]
			closed = len(points) >= 3
		}
	}
	if len(points) < 2 {
		return nil, dropped
	}
	return NewCurve3(points, uva, uvb, closed), dropped
}
