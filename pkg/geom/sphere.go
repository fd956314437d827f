package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Hemisphere is one half of a sphere under an inverse stereographic
// parameterization. With rho2 = u*u + v*v and s = 1 + rho2:
//
//	P(u, v) = Center + R*(2u*E1 + 2v*E2 + (1-rho2)*Axis)/s
//
// The patch covers the half-sphere on the Axis side; the equator is the
// circle rho2 = 1. Unlike a latitude/longitude chart the Jacobian is
// non-degenerate everywhere including the equator, so Newton parameter
// searches stay well conditioned at boundary cuts.
type Hemisphere struct {
	Center v3.Vec
	Radius float64
	Axis   v3.Vec // unit pole direction
	E1, E2 v3.Vec // unit equator frame, E1 x E2 = Axis
}

// NewHemisphere builds the half-sphere of the given center and radius on
// the axis side. axis must be unit length; the equator frame is chosen
// deterministically from it.
func NewHemisphere(center v3.Vec, radius float64, axis v3.Vec) *Hemisphere {
	e1 := perpendicular(axis)
	e2 := axis.Cross(e1)
	return &Hemisphere{Center: center, Radius: radius, Axis: axis, E1: e1, E2: e2}
}

// perpendicular returns a unit vector orthogonal to the unit vector a.
func perpendicular(a v3.Vec) v3.Vec {
	ref := v3.Vec{X: 1}
	if math.Abs(a.X) > 0.9 {
		ref = v3.Vec{Y: 1}
	}
	return a.Cross(ref).Normalize()
}

// frame maps frame-local coordinates (x along E1, y along E2, z along
// Axis) into model space.
func (h *Hemisphere) frame(x, y, z float64) v3.Vec {
	return h.E1.MulScalar(x).Add(h.E2.MulScalar(y)).Add(h.Axis.MulScalar(z))
}

func (h *Hemisphere) Position(u, v float64) v3.Vec {
	s := 1 + u*u + v*v
	return h.Center.Add(h.frame(2*u/s, 2*v/s, (2-s)/s).MulScalar(h.Radius))
}

func (h *Hemisphere) UDeriv(u, v float64) v3.Vec {
	s := 1 + u*u + v*v
	s2 := s * s
	return h.frame(2*(s-2*u*u)/s2, -4*u*v/s2, -4*u/s2).MulScalar(h.Radius)
}

func (h *Hemisphere) VDeriv(u, v float64) v3.Vec {
	s := 1 + u*u + v*v
	s2 := s * s
	return h.frame(-4*u*v/s2, 2*(s-2*v*v)/s2, -4*v/s2).MulScalar(h.Radius)
}

// Normal is the outward radial direction. The parameterization is
// orientation-preserving: UDeriv x VDeriv points outward.
func (h *Hemisphere) Normal(u, v float64) v3.Vec {
	return h.Position(u, v).Sub(h.Center).Normalize()
}

// ParamRange is the bounding square of the unit-disk domain.
func (h *Hemisphere) ParamRange() (Interval, Interval) {
	return Interval{-1, 1}, Interval{-1, 1}
}

// Equator returns the boundary circle of the patch split into two arcs
// between antipodal seam points, each usable as an edge curve. The full
// circle runs counterclockwise as seen from the pole.
func (h *Hemisphere) Equator() (Arc, Arc) {
	first := NewArc(h.Center, h.Radius, h.E1, h.E2, 0, math.Pi)
	second := NewArc(h.Center, h.Radius, h.E1, h.E2, math.Pi, 2*math.Pi)
	return first, second
}
