package intersect

import (
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/geom"
)

// Curve3 is a refined intersection curve: a 3-space polyline whose
// breakpoints also carry their parameters on both intersected surfaces,
// so the same curve is usable as a parameter-space trajectory on either
// side. It satisfies geom.Curve with a piecewise-linear evaluation over
// knot parameters, and cutting preserves the knot values so parameters
// stay comparable across cuts.
type Curve3 struct {
	Points []v3.Vec
	UVA    []v2.Vec
	UVB    []v2.Vec
	Knots  []float64
	Closed bool
}

// NewCurve3 builds a curve over the given breakpoints with unit-spaced
// knots. A closed curve gets its first breakpoint repeated at the end
// so the wrap segment evaluates like any other.
func NewCurve3(points []v3.Vec, uva, uvb []v2.Vec, closed bool) *Curve3 {
	if closed && len(points) > 0 {
		points = append(append([]v3.Vec{}, points...), points[0])
		uva = append(append([]v2.Vec{}, uva...), uva[0])
		uvb = append(append([]v2.Vec{}, uvb...), uvb[0])
	}
	knots := make([]float64, len(points))
	for i := range knots {
		knots[i] = float64(i)
	}
	return &Curve3{Points: points, UVA: uva, UVB: uvb, Knots: knots, Closed: closed}
}

// Len returns the breakpoint count.
func (c *Curve3) Len() int { return len(c.Points) }

// segmentAt locates the segment containing t and its local ratio.
func (c *Curve3) segmentAt(t float64) (int, float64) {
	n := len(c.Knots)
	if t <= c.Knots[0] {
		return 0, 0
	}
	if t >= c.Knots[n-1] {
		return n - 2, 1
	}
	i := sort.SearchFloat64s(c.Knots, t)
	if i > 0 && c.Knots[i] > t {
		i--
	}
	if i >= n-1 {
		i = n - 2
	}
	span := c.Knots[i+1] - c.Knots[i]
	if span == 0 {
		return i, 0
	}
	return i, (t - c.Knots[i]) / span
}

func (c *Curve3) Position(t float64) v3.Vec {
	i, r := c.segmentAt(t)
	return c.Points[i].Add(c.Points[i+1].Sub(c.Points[i]).MulScalar(r))
}

func (c *Curve3) Deriv(t float64) v3.Vec {
	i, _ := c.segmentAt(t)
	span := c.Knots[i+1] - c.Knots[i]
	if span == 0 {
		span = 1
	}
	return c.Points[i+1].Sub(c.Points[i]).MulScalar(1 / span)
}

func (c *Curve3) ParamRange() geom.Interval {
	return geom.Interval{T0: c.Knots[0], T1: c.Knots[len(c.Knots)-1]}
}

// UVAAt interpolates the surface-A parameter trajectory at t.
func (c *Curve3) UVAAt(t float64) v2.Vec {
	i, r := c.segmentAt(t)
	return c.UVA[i].Add(c.UVA[i+1].Sub(c.UVA[i]).MulScalar(r))
}

// UVBAt interpolates the surface-B parameter trajectory at t.
func (c *Curve3) UVBAt(t float64) v2.Vec {
	i, r := c.segmentAt(t)
	return c.UVB[i].Add(c.UVB[i+1].Sub(c.UVB[i]).MulScalar(r))
}

// Cut splits the curve at t. A cut at an existing knot shares the
// breakpoint; a mid-segment cut inserts an interpolated breakpoint in
// both halves. Knot values carry over unchanged.
func (c *Curve3) Cut(t float64) (geom.Curve, geom.Curve) {
	i, r := c.segmentAt(t)
	cutIdx := i
	insert := r > 1e-9 && r < 1-1e-9
	if !insert && r >= 1-1e-9 {
		cutIdx = i + 1
	}

	front := &Curve3{}
	back := &Curve3{}
	if insert {
		p := c.Position(t)
		ua := c.UVAAt(t)
		ub := c.UVBAt(t)
		front.Points = append(append([]v3.Vec{}, c.Points[:i+1]...), p)
		front.UVA = append(append([]v2.Vec{}, c.UVA[:i+1]...), ua)
		front.UVB = append(append([]v2.Vec{}, c.UVB[:i+1]...), ub)
		front.Knots = append(append([]float64{}, c.Knots[:i+1]...), t)
		back.Points = append([]v3.Vec{p}, c.Points[i+1:]...)
		back.UVA = append([]v2.Vec{ua}, c.UVA[i+1:]...)
		back.UVB = append([]v2.Vec{ub}, c.UVB[i+1:]...)
		back.Knots = append([]float64{t}, c.Knots[i+1:]...)
	} else {
		front.Points = append([]v3.Vec{}, c.Points[:cutIdx+1]...)
		front.UVA = append([]v2.Vec{}, c.UVA[:cutIdx+1]...)
		front.UVB = append([]v2.Vec{}, c.UVB[:cutIdx+1]...)
		front.Knots = append([]float64{}, c.Knots[:cutIdx+1]...)
		back.Points = append([]v3.Vec{}, c.Points[cutIdx:]...)
		back.UVA = append([]v2.Vec{}, c.UVA[cutIdx:]...)
		back.UVB = append([]v2.Vec{}, c.UVB[cutIdx:]...)
		back.Knots = append([]float64{}, c.Knots[cutIdx:]...)
	}
	return front, back
}

// NearestParameter returns the curve parameter closest to p.
func (c *Curve3) NearestParameter(p v3.Vec) float64 {
	best := c.Knots[0]
	bestDist := c.Points[0].Sub(p).Length2()
	for i := 0; i+1 < len(c.Points); i++ {
		a := c.Points[i]
		d := c.Points[i+1].Sub(a)
		len2 := d.Length2()
		r := 0.0
		if len2 > 0 {
			r = p.Sub(a).Dot(d) / len2
			if r < 0 {
				r = 0
			}
			if r > 1 {
				r = 1
			}
		}
		q := a.Add(d.MulScalar(r))
		dist := q.Sub(p).Length2()
		if dist < bestDist {
			bestDist = dist
			best = c.Knots[i] + (c.Knots[i+1]-c.Knots[i])*r
		}
	}
	return best
}
