package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Interval is a closed parameter range [T0, T1].
type Interval struct {
	T0, T1 float64
}

// Span returns the length of the interval.
func (i Interval) Span() float64 {
	return i.T1 - i.T0
}

// Contains reports whether t lies in the interval, widened by tol.
func (i Interval) Contains(t, tol float64) bool {
	return t >= i.T0-tol && t <= i.T1+tol
}

// Clamp limits t to the interval.
func (i Interval) Clamp(t float64) float64 {
	if t < i.T0 {
		return i.T0
	}
	if t > i.T1 {
		return i.T1
	}
	return t
}

// Mid returns the interval midpoint.
func (i Interval) Mid() float64 {
	return (i.T0 + i.T1) / 2
}

// Surface is a parametric surface. Implementations must be safe for
// concurrent read access; the boolean engine evaluates surfaces from
// multiple workers over read-only inputs.
type Surface interface {
	// Position evaluates the surface at (u, v).
	Position(u, v float64) v3.Vec
	// UDeriv is the first partial derivative with respect to u.
	UDeriv(u, v float64) v3.Vec
	// VDeriv is the first partial derivative with respect to v.
	VDeriv(u, v float64) v3.Vec
	// Normal is the unit surface normal at (u, v), oriented by the
	// surface's own parameterization (UDeriv x VDeriv direction).
	Normal(u, v float64) v3.Vec
	// ParamRange returns the u and v parameter intervals.
	ParamRange() (Interval, Interval)
}

// NormalFromDerivs computes a unit normal as the normalized cross product
// of the two partials. Implementations with no cheaper formula use this.
func NormalFromDerivs(s Surface, u, v float64) v3.Vec {
	return s.UDeriv(u, v).Cross(s.VDeriv(u, v)).Normalize()
}

// Cross2D is the scalar (z) cross product of two parameter-space vectors.
func Cross2D(a, b v2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}
