package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Curve is a parametric space curve. The boolean engine requires cutting
// a curve at a parameter; both halves keep the parent's parameterization,
// so a parameter valid for the parent stays valid for the half containing
// it.
type Curve interface {
	// Position evaluates the curve at t.
	Position(t float64) v3.Vec
	// Deriv is the first derivative at t.
	Deriv(t float64) v3.Vec
	// ParamRange returns the valid parameter interval.
	ParamRange() Interval
	// Cut splits the curve at t into (front, back) where front covers
	// [T0, t] and back covers [t, T1].
	Cut(t float64) (Curve, Curve)
}

// Reversed is a Curve evaluated back to front over the same body.
// No geometry is duplicated; t maps to T0+T1-t on the inner curve.
type Reversed struct {
	Inner Curve
}

// Reverse returns the opposite orientation of c. Reversing a reversal
// unwraps to the original body.
func Reverse(c Curve) Curve {
	if r, ok := c.(Reversed); ok {
		return r.Inner
	}
	return Reversed{Inner: c}
}

func (r Reversed) mirror(t float64) float64 {
	rng := r.Inner.ParamRange()
	return rng.T0 + rng.T1 - t
}

func (r Reversed) Position(t float64) v3.Vec {
	return r.Inner.Position(r.mirror(t))
}

func (r Reversed) Deriv(t float64) v3.Vec {
	return r.Inner.Deriv(r.mirror(t)).Neg()
}

func (r Reversed) ParamRange() Interval {
	return r.Inner.ParamRange()
}

func (r Reversed) Cut(t float64) (Curve, Curve) {
	innerFront, innerBack := r.Inner.Cut(r.mirror(t))
	return Reversed{Inner: innerBack}, Reversed{Inner: innerFront}
}

// NearestParameter finds the parameter of the point on c closest to p.
// The curve is sampled at the given density and the best chord is then
// polished by ternary subdivision. Good enough for snapping intersection
// endpoints onto boundary edges; not a general projection.
func NearestParameter(c Curve, p v3.Vec, samples int) float64 {
	if samples < 2 {
		samples = 2
	}
	rng := c.ParamRange()
	step := rng.Span() / float64(samples)

	best := rng.T0
	bestDist := c.Position(rng.T0).Sub(p).Length2()
	for i := 1; i <= samples; i++ {
		t := rng.T0 + float64(i)*step
		d := c.Position(t).Sub(p).Length2()
		if d < bestDist {
			best, bestDist = t, d
		}
	}

	lo := rng.Clamp(best - step)
	hi := rng.Clamp(best + step)
	for iter := 0; iter < 40; iter++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if c.Position(m1).Sub(p).Length2() < c.Position(m2).Sub(p).Length2() {
			hi = m2
		} else {
			lo = m1
		}
	}
	return (lo + hi) / 2
}
