package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane is an affine plane patch: Origin + u*UAxis + v*VAxis over
// rectangular parameter ranges. The axes need not be unit length, which
// lets a face of an axis-aligned box use parameters in [0, 1].
type Plane struct {
	Origin       v3.Vec
	UAxis, VAxis v3.Vec
	URange       Interval
	VRange       Interval
}

// NewPlane returns the patch Origin + u*uAxis + v*vAxis, (u, v) in
// [0, 1] x [0, 1].
func NewPlane(origin, uAxis, vAxis v3.Vec) *Plane {
	return &Plane{
		Origin: origin,
		UAxis:  uAxis,
		VAxis:  vAxis,
		URange: Interval{0, 1},
		VRange: Interval{0, 1},
	}
}

func (p *Plane) Position(u, v float64) v3.Vec {
	return p.Origin.Add(p.UAxis.MulScalar(u)).Add(p.VAxis.MulScalar(v))
}

func (p *Plane) UDeriv(u, v float64) v3.Vec {
	return p.UAxis
}

func (p *Plane) VDeriv(u, v float64) v3.Vec {
	return p.VAxis
}

func (p *Plane) Normal(u, v float64) v3.Vec {
	return p.UAxis.Cross(p.VAxis).Normalize()
}

func (p *Plane) ParamRange() (Interval, Interval) {
	return p.URange, p.VRange
}
