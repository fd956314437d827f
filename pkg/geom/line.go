package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Line is a straight segment from A to B, parameterized over a
// sub-interval of [0, 1]. A full segment uses rng = {0, 1}; cutting
// restricts the interval without re-parameterizing.
type Line struct {
	A, B v3.Vec
	rng  Interval
}

// NewLine returns the segment from a to b over [0, 1].
func NewLine(a, b v3.Vec) Line {
	return Line{A: a, B: b, rng: Interval{0, 1}}
}

func (l Line) Position(t float64) v3.Vec {
	return l.A.Add(l.B.Sub(l.A).MulScalar(t))
}

func (l Line) Deriv(t float64) v3.Vec {
	return l.B.Sub(l.A)
}

func (l Line) ParamRange() Interval {
	return l.rng
}

func (l Line) Cut(t float64) (Curve, Curve) {
	front := l
	back := l
	front.rng = Interval{l.rng.T0, t}
	back.rng = Interval{t, l.rng.T1}
	return front, back
}

// Arc is a circular arc: center, radius and an orthonormal frame
// (E1, E2). Position(t) = Center + r*(cos t * E1 + sin t * E2),
// t in radians over rng.
type Arc struct {
	Center v3.Vec
	Radius float64
	E1, E2 v3.Vec
	rng    Interval
}

// NewArc builds an arc over [t0, t1] in the plane spanned by e1 and e2.
// e1 and e2 must be orthonormal.
func NewArc(center v3.Vec, radius float64, e1, e2 v3.Vec, t0, t1 float64) Arc {
	return Arc{Center: center, Radius: radius, E1: e1, E2: e2, rng: Interval{t0, t1}}
}

func (a Arc) Position(t float64) v3.Vec {
	return a.Center.
		Add(a.E1.MulScalar(a.Radius * math.Cos(t))).
		Add(a.E2.MulScalar(a.Radius * math.Sin(t)))
}

func (a Arc) Deriv(t float64) v3.Vec {
	return a.E1.MulScalar(-a.Radius * math.Sin(t)).
		Add(a.E2.MulScalar(a.Radius * math.Cos(t)))
}

func (a Arc) ParamRange() Interval {
	return a.rng
}

func (a Arc) Cut(t float64) (Curve, Curve) {
	front := a
	back := a
	front.rng = Interval{a.rng.T0, t}
	back.rng = Interval{t, a.rng.T1}
	return front, back
}
