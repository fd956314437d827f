package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultSearchTrials is the fixed iteration budget for Newton parameter
// searches. Non-convergence within the budget degrades to "not found",
// never blocks.
const DefaultSearchTrials = 100

// Project finds the parameter of the point on s nearest to p by
// Gauss-Newton iteration seeded at hint. It returns the parameter, the
// foot point, and whether the iteration converged (step stagnation or
// vanishing tangential residual). trials <= 0 uses DefaultSearchTrials.
func Project(s Surface, p v3.Vec, hint v2.Vec, trials int) (v2.Vec, v3.Vec, bool) {
	if trials <= 0 {
		trials = DefaultSearchTrials
	}
	uv := hint
	for i := 0; i < trials; i++ {
		pos := s.Position(uv.X, uv.Y)
		f := pos.Sub(p)
		du := s.UDeriv(uv.X, uv.Y)
		dv := s.VDeriv(uv.X, uv.Y)

		// Normal equations of the 3x2 least-squares step.
		a := du.Dot(du)
		b := du.Dot(dv)
		c := dv.Dot(dv)
		g1 := du.Dot(f)
		g2 := dv.Dot(f)

		det := a*c - b*b
		if math.Abs(det) < 1e-16 {
			return uv, pos, false
		}
		step := v2.Vec{
			X: (c*g1 - b*g2) / det,
			Y: (a*g2 - b*g1) / det,
		}
		uv = uv.Sub(step)

		if step.Length() < 1e-13 {
			return uv, s.Position(uv.X, uv.Y), true
		}
	}
	// Budget exhausted; accept only if the tangential gradient has
	// effectively vanished (slow but genuine convergence).
	pos := s.Position(uv.X, uv.Y)
	f := pos.Sub(p)
	du := s.UDeriv(uv.X, uv.Y)
	dv := s.VDeriv(uv.X, uv.Y)
	scale := du.Length() + dv.Length()
	if scale == 0 {
		return uv, pos, false
	}
	ok := math.Abs(du.Dot(f))+math.Abs(dv.Dot(f)) < 1e-9*scale
	return uv, pos, ok
}

// GridHint scans a coarse parameter grid and returns the cell nearest
// to p, a serviceable Newton seed when no coherence hint exists.
func GridHint(s Surface, p v3.Vec) v2.Vec {
	const n = 16
	ur, vr := s.ParamRange()
	best := v2.Vec{X: ur.Mid(), Y: vr.Mid()}
	bestDist := s.Position(best.X, best.Y).Sub(p).Length2()
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			u := ur.T0 + ur.Span()*float64(i)/n
			v := vr.T0 + vr.Span()*float64(j)/n
			d := s.Position(u, v).Sub(p).Length2()
			if d < bestDist {
				best, bestDist = v2.Vec{X: u, Y: v}, d
			}
		}
	}
	return best
}

// SearchParameter inverts the surface evaluation: it finds (u, v) with
// Position(u, v) == p within tol, seeded at hint. It reports failure when
// the nearest surface point is farther than tol from p, so it only
// succeeds for points genuinely on the surface.
func SearchParameter(s Surface, p v3.Vec, hint v2.Vec, tol float64, trials int) (v2.Vec, bool) {
	uv, foot, ok := Project(s, p, hint, trials)
	if !ok {
		return v2.Vec{}, false
	}
	if foot.Sub(p).Length() > tol {
		return v2.Vec{}, false
	}
	return uv, true
}
