package intersect

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/tessellate"
	"github.com/chazu/xylem/pkg/topo"
)

func TestTriTriSegment(t *testing.T) {
	flat := sdf.Triangle3{{}, {X: 2}, {Y: 2}}
	crossing := sdf.Triangle3{
		{X: 0.2, Y: 0.5, Z: -1},
		{X: 1.2, Y: 0.5, Z: -1},
		{X: 0.7, Y: 0.5, Z: 1},
	}

	a, b, ok := triTriSegment(flat, crossing, 1e-9)
	if !ok {
		t.Fatal("crossing triangles should intersect")
	}
	if a.X > b.X {
		a, b = b, a
	}
	if a.Sub(v3.Vec{X: 0.45, Y: 0.5}).Length() > 1e-9 {
		t.Errorf("segment start = %v, want (0.45, 0.5, 0)", a)
	}
	if b.Sub(v3.Vec{X: 0.95, Y: 0.5}).Length() > 1e-9 {
		t.Errorf("segment end = %v, want (0.95, 0.5, 0)", b)
	}

	lifted := crossing
	for i := range lifted {
		lifted[i].Z += 3
	}
	if _, _, ok := triTriSegment(flat, lifted, 1e-9); ok {
		t.Error("separated triangles should not intersect")
	}

	coplanar := sdf.Triangle3{{X: 0.1, Y: 0.1}, {X: 0.5, Y: 0.1}, {X: 0.1, Y: 0.5}}
	if _, _, ok := triTriSegment(flat, coplanar, 1e-9); ok {
		t.Error("coplanar triangles yield no segment")
	}
}

func diagonalCurve() *Curve3 {
	pts := []v3.Vec{{}, {X: 1}, {X: 1, Y: 1}}
	uva := []v2.Vec{{}, {X: 1}, {X: 1, Y: 1}}
	uvb := []v2.Vec{{Y: 1}, {X: 1, Y: 1}, {X: 1}}
	return NewCurve3(pts, uva, uvb, false)
}

func TestCurve3Evaluation(t *testing.T) {
	c := diagonalCurve()
	if rng := c.ParamRange(); rng.T0 != 0 || rng.T1 != 2 {
		t.Fatalf("param range = %v, want [0, 2]", rng)
	}
	if got := c.Position(0.5); got.Sub(v3.Vec{X: 0.5}).Length() > 1e-12 {
		t.Errorf("Position(0.5) = %v, want (0.5, 0, 0)", got)
	}
	if got := c.Position(1.5); got.Sub(v3.Vec{X: 1, Y: 0.5}).Length() > 1e-12 {
		t.Errorf("Position(1.5) = %v, want (1, 0.5, 0)", got)
	}
	if got := c.UVAAt(0.5); math.Abs(got.X-0.5)+math.Abs(got.Y) > 1e-12 {
		t.Errorf("UVAAt(0.5) = %v, want (0.5, 0)", got)
	}
	if got := c.Deriv(0.25); got.Sub(v3.Vec{X: 1}).Length() > 1e-12 {
		t.Errorf("Deriv(0.25) = %v, want (1, 0, 0)", got)
	}
}

func TestCurve3ClosedRepeatsFirstBreakpoint(t *testing.T) {
	pts := []v3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	uv := []v2.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	c := NewCurve3(pts, uv, uv, true)
	if c.Len() != 5 {
		t.Fatalf("breakpoints = %d, want 5", c.Len())
	}
	rng := c.ParamRange()
	if got := c.Position(rng.T1); got.Sub(pts[0]).Length() > 1e-12 {
		t.Errorf("end point = %v, want the start %v", got, pts[0])
	}
	// The wrap segment interpolates like any other.
	if got := c.Position(3.5); got.Sub(v3.Vec{Y: 0.5}).Length() > 1e-12 {
		t.Errorf("Position(3.5) = %v, want (0, 0.5, 0)", got)
	}
}

func TestCurve3CutPreservesKnots(t *testing.T) {
	c := diagonalCurve()

	f, b := c.Cut(0.5)
	front := f.(*Curve3)
	back := b.(*Curve3)
	if got := front.ParamRange(); got.T0 != 0 || got.T1 != 0.5 {
		t.Errorf("front range = %v, want [0, 0.5]", got)
	}
	if got := back.ParamRange(); got.T0 != 0.5 || got.T1 != 2 {
		t.Errorf("back range = %v, want [0.5, 2]", got)
	}
	// A parent parameter evaluates identically on the containing half.
	if got := back.Position(1.5); got.Sub(c.Position(1.5)).Length() > 1e-12 {
		t.Errorf("back Position(1.5) = %v, want %v", got, c.Position(1.5))
	}
	if got := back.UVBAt(1.5); got.Sub(c.UVBAt(1.5)).Length() > 1e-12 {
		t.Errorf("back UVBAt(1.5) = %v, want %v", got, c.UVBAt(1.5))
	}

	// Cutting at an existing knot inserts nothing.
	f, b = c.Cut(1)
	front = f.(*Curve3)
	back = b.(*Curve3)
	if front.Len() != 2 || back.Len() != 2 {
		t.Errorf("knot cut sizes = %d, %d, want 2, 2", front.Len(), back.Len())
	}
	if back.Knots[0] != 1 {
		t.Errorf("back first knot = %g, want 1", back.Knots[0])
	}
}

func TestCurve3NearestParameter(t *testing.T) {
	c := diagonalCurve()
	cases := []struct {
		p    v3.Vec
		want float64
	}{
		{v3.Vec{X: 0.25, Y: -1}, 0.25},
		{v3.Vec{X: 2, Y: 0.75}, 1.75},
		{v3.Vec{X: -1, Y: -1}, 0},
	}
	for _, tc := range cases {
		if got := c.NearestParameter(tc.p); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("NearestParameter(%v) = %g, want %g", tc.p, got, tc.want)
		}
	}
}

// squareFace builds a single square face over the plane's unit parameter
// box, tessellated into a FaceMesh.
func squareFace(t *testing.T, plane *geom.Plane, tol float64) *tessellate.FaceMesh {
	t.Helper()
	corners := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	vs := make([]*topo.Vertex, 4)
	for i, c := range corners {
		vs[i] = topo.NewVertex(plane.Position(c[0], c[1]))
	}
	w := &topo.Wire{}
	for i := range vs {
		e, err := topo.NewEdge(vs[i], vs[(i+1)%4], geom.NewLine(vs[i].Point(), vs[(i+1)%4].Point()))
		if err != nil {
			t.Fatalf("edge: %v", err)
		}
		w.Edges = append(w.Edges, e.Forward())
	}
	f, err := topo.NewFace(plane, w)
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	sh, err := topo.NewShell(f)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	mesh, err := tessellate.Tessellate(sh, tol)
	if err != nil {
		t.Fatalf("tessellate: %v", err)
	}
	return mesh.Faces[0]
}

func TestTraceCrossingPlanes(t *testing.T) {
	tol := 1e-3
	flat := squareFace(t, geom.NewPlane(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1}), tol)
	// Generic offsets keep the intersection line off both meshes'
	// triangle edges.
	upright := squareFace(t, geom.NewPlane(
		v3.Vec{Y: 0.53, Z: -0.47}, v3.Vec{X: 1}, v3.Vec{Z: 1}), tol)

	curves := Trace(flat, upright, tol, zap.NewNop())
	if len(curves) != 1 {
		t.Fatalf("curves = %d, want 1", len(curves))
	}
	c := curves[0]
	if c.Closed {
		t.Error("two bounded planes meet in an open curve")
	}

	// The curve is the line y = 0.53, z = 0 spanning x in [0, 1].
	rng := c.ParamRange()
	lo := c.Position(rng.T0)
	hi := c.Position(rng.T1)
	if lo.X > hi.X {
		lo, hi = hi, lo
	}
	if math.Abs(lo.X) > 10*tol || math.Abs(hi.X-1) > 10*tol {
		t.Errorf("curve spans x in [%g, %g], want [0, 1]", lo.X, hi.X)
	}
	for _, p := range c.Points {
		if math.Abs(p.Y-0.53) > tol || math.Abs(p.Z) > tol {
			t.Errorf("point %v off the intersection line", p)
		}
	}
	// Parameter trajectories track both surfaces.
	mid := rng.Mid()
	p := c.Position(mid)
	uva := c.UVAAt(mid)
	if math.Abs(uva.X-p.X) > 10*tol || math.Abs(uva.Y-0.53) > 10*tol {
		t.Errorf("UVA at mid = %v, want (%g, 0.53)", uva, p.X)
	}
}

func TestTraceDisjointFaces(t *testing.T) {
	tol := 1e-3
	flat := squareFace(t, geom.NewPlane(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1}), tol)
	high := squareFace(t, geom.NewPlane(v3.Vec{Z: 2}, v3.Vec{X: 1}, v3.Vec{Y: 1}), tol)
	if got := Trace(flat, high, tol, zap.NewNop()); len(got) != 0 {
		t.Errorf("curves = %d, want 0", len(got))
	}
}

func TestDoubleProjectOnPlanes(t *testing.T) {
	sa := geom.NewPlane(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1})
	sb := geom.NewPlane(v3.Vec{Y: 0.5, Z: -0.5}, v3.Vec{X: 1}, v3.Vec{Z: 1})

	p, uva, uvb, ok := DoubleProject(sa, sb, v3.Vec{X: 0.3, Y: 0.52, Z: 0.01},
		v2.Vec{X: 0.3, Y: 0.5}, v2.Vec{X: 0.3, Y: 0.5}, 1e-3)
	if !ok {
		t.Fatal("projection onto crossing planes should converge")
	}
	if p.Sub(v3.Vec{X: 0.3, Y: 0.5}).Length() > 1e-6 {
		t.Errorf("refined point = %v, want (0.3, 0.5, 0)", p)
	}
	if uva.Sub(v2.Vec{X: 0.3, Y: 0.5}).Length() > 1e-6 {
		t.Errorf("uva = %v, want (0.3, 0.5)", uva)
	}
	if uvb.Sub(v2.Vec{X: 0.3, Y: 0.5}).Length() > 1e-6 {
		t.Errorf("uvb = %v, want (0.3, 0.5)", uvb)
	}
}
