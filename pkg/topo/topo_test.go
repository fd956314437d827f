package topo

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/geom"
)

// edgeBetween builds a straight edge between two vertices.
func edgeBetween(t *testing.T, a, b *Vertex) *Edge {
	t.Helper()
	e, err := NewEdge(a, b, geom.NewLine(a.Point(), b.Point()))
	if err != nil {
		t.Fatalf("edge %v -> %v: %v", a.Point(), b.Point(), err)
	}
	return e
}

// triangleWire builds a closed three-edge wire over fresh vertices.
func triangleWire(t *testing.T, pts ...v3.Vec) (*Wire, []*Vertex) {
	t.Helper()
	vs := make([]*Vertex, len(pts))
	for i, p := range pts {
		vs[i] = NewVertex(p)
	}
	w := &Wire{}
	for i := range vs {
		e := edgeBetween(t, vs[i], vs[(i+1)%len(vs)])
		w.Edges = append(w.Edges, e.Forward())
	}
	return w, vs
}

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	var te *TopologyError
	if !errors.As(err, &te) {
		t.Fatalf("error %v is not a TopologyError", err)
	}
	return te.Kind
}

func TestNewEdgeRejectsLoop(t *testing.T) {
	v := NewVertex(v3.Vec{})
	_, err := NewEdge(v, v, geom.NewLine(v3.Vec{}, v3.Vec{X: 1}))
	if err == nil {
		t.Fatal("edge with identical ends should fail")
	}
	if got := kindOf(t, err); got != SameVertex {
		t.Errorf("kind = %v, want SameVertex", got)
	}
}

func TestOrientedEdgeViews(t *testing.T) {
	a := NewVertex(v3.Vec{})
	b := NewVertex(v3.Vec{X: 1})
	e := edgeBetween(t, a, b)

	f := e.Forward()
	if f.Front() != a || f.Back() != b {
		t.Error("forward view should run front to back")
	}
	r := f.Reverse()
	if r.Front() != b || r.Back() != a {
		t.Error("reversed view should swap the ends")
	}
	// The reversed view's curve evaluates backwards.
	rc := r.Curve()
	if got := rc.Position(rc.ParamRange().T0); got.Sub(b.Point()).Length() > 1e-12 {
		t.Errorf("reversed curve starts at %v, want %v", got, b.Point())
	}
}

func TestWirePredicates(t *testing.T) {
	w, _ := triangleWire(t, v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1})
	if !w.IsClosed() {
		t.Error("triangle wire should close")
	}
	if !w.IsSimple() {
		t.Error("triangle wire should be simple")
	}
	if got := w.Reverse(); !got.IsClosed() {
		t.Error("reversed wire should still close")
	}

	open := &Wire{Edges: w.Edges[:2]}
	if open.IsClosed() {
		t.Error("two edges of a triangle should not close")
	}
}

func TestNewFaceValidation(t *testing.T) {
	plane := geom.NewPlane(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1})

	if _, err := NewFace(plane); kindOf(t, err) != EmptyWire {
		t.Error("face without boundary should report EmptyWire")
	}

	w, vs := triangleWire(t, v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1})
	open := &Wire{Edges: w.Edges[:2]}
	if _, err := NewFace(plane, open); kindOf(t, err) != NotClosedWire {
		t.Error("open boundary should report NotClosedWire")
	}

	// A figure-eight revisits its pinch vertex.
	shared := vs[0]
	u1 := NewVertex(v3.Vec{X: -1})
	u2 := NewVertex(v3.Vec{X: -1, Y: 1})
	eight := &Wire{}
	for _, e := range w.Edges {
		eight.Edges = append(eight.Edges, e)
	}
	eight.Edges = append(eight.Edges,
		edgeBetween(t, shared, u1).Forward(),
		edgeBetween(t, u1, u2).Forward(),
		edgeBetween(t, u2, shared).Forward())
	if _, err := NewFace(plane, eight); kindOf(t, err) != NotSimpleWire {
		t.Error("figure-eight boundary should report NotSimpleWire")
	}

	// Boundaries sharing a vertex are not disjoint.
	w2 := &Wire{}
	x1 := NewVertex(v3.Vec{Y: -1})
	w2.Edges = append(w2.Edges,
		edgeBetween(t, vs[0], x1).Forward(),
		edgeBetween(t, x1, vs[1]).Forward(),
		w.Edges[0].Reverse())
	if _, err := NewFace(plane, w, w2); kindOf(t, err) != NotDisjointWires {
		t.Error("touching boundaries should report NotDisjointWires")
	}

	f, err := NewFace(plane, w)
	if err != nil {
		t.Fatalf("valid face rejected: %v", err)
	}
	if !f.SameSense() {
		t.Error("new faces agree with their surface by construction")
	}
}

func TestSplitEdgeSharesCutVertex(t *testing.T) {
	a := NewVertex(v3.Vec{})
	b := NewVertex(v3.Vec{X: 4})
	e := edgeBetween(t, a, b)

	v, front, back, err := SplitEdge(e, 0.25)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if front.Back() != v || back.Front() != v {
		t.Error("halves should share the cut vertex")
	}
	if got := v.Point(); got.Sub(v3.Vec{X: 1}).Length() > 1e-12 {
		t.Errorf("cut vertex at %v, want (1,0,0)", got)
	}
	// Original parameters remain valid on the back half.
	if got := back.Curve().Position(0.5); got.Sub(v3.Vec{X: 2}).Length() > 1e-12 {
		t.Errorf("back half Position(0.5) = %v, want (2,0,0)", got)
	}
	// Splitting the back half again at an original parameter works.
	if _, _, _, err := SplitEdge(back, 0.5); err != nil {
		t.Errorf("second split: %v", err)
	}

	if _, _, _, err := SplitEdge(e, 0); err == nil {
		t.Error("split at the range end should fail")
	}
}

func TestSplitEdgeWithSuppliedVertex(t *testing.T) {
	a := NewVertex(v3.Vec{})
	b := NewVertex(v3.Vec{X: 2})
	e := edgeBetween(t, a, b)
	shared := NewVertex(v3.Vec{X: 1})

	front, back, err := SplitEdgeWith(e, 0.5, shared)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if front.Back() != shared || back.Front() != shared {
		t.Error("halves should reference the supplied vertex")
	}
}

func TestWeldRedirectsEdges(t *testing.T) {
	a := NewVertex(v3.Vec{})
	b := NewVertex(v3.Vec{X: 1})
	bDup := NewVertex(v3.Vec{X: 1 + 1e-9})
	c := NewVertex(v3.Vec{X: 2})
	e1 := edgeBetween(t, a, b)
	e2 := edgeBetween(t, bDup, c)

	if err := Weld(b, bDup, e1, e2); err != nil {
		t.Fatalf("weld: %v", err)
	}
	if e2.Front() != b {
		t.Error("weld should re-point the duplicate's edges")
	}

	// Welding the two ends of one edge would collapse it to a loop.
	if err := Weld(a, b, e1); err == nil {
		t.Error("collapsing an edge to a loop should fail")
	}
}

// tetra builds a closed tetrahedral shell over four points.
func tetra(t *testing.T) *Shell {
	t.Helper()
	p := []v3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	vs := make([]*Vertex, 4)
	for i := range vs {
		vs[i] = NewVertex(p[i])
	}
	edges := make(map[[2]int]*Edge)
	side := func(i, j int) OrientedEdge {
		lo, hi, fwd := i, j, true
		if lo > hi {
			lo, hi, fwd = j, i, false
		}
		e, ok := edges[[2]int{lo, hi}]
		if !ok {
			e = edgeBetween(t, vs[lo], vs[hi])
			edges[[2]int{lo, hi}] = e
		}
		if fwd {
			return e.Forward()
		}
		return e.Backward()
	}
	// Outward-facing corner orders.
	tris := [4][3]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}
	faces := make([]*Face, 0, 4)
	for _, tri := range tris {
		o := vs[tri[0]].Point()
		plane := geom.NewPlane(o,
			vs[tri[1]].Point().Sub(o),
			vs[tri[2]].Point().Sub(o))
		w := &Wire{Edges: []OrientedEdge{
			side(tri[0], tri[1]),
			side(tri[1], tri[2]),
			side(tri[2], tri[0]),
		}}
		f, err := NewFace(plane, w)
		if err != nil {
			t.Fatalf("tetra face: %v", err)
		}
		faces = append(faces, f)
	}
	sh, err := NewShell(faces...)
	if err != nil {
		t.Fatalf("tetra shell: %v", err)
	}
	return sh
}

func TestShellCondition(t *testing.T) {
	sh := tetra(t)
	if got := sh.Condition(); got != Closed {
		t.Errorf("tetrahedron condition = %v, want Closed", got)
	}
	if !sh.IsConnected() {
		t.Error("tetrahedron should be connected")
	}

	// Dropping a face leaves an oriented but open shell.
	open, err := NewShell(sh.Faces()[:3]...)
	if err != nil {
		t.Fatalf("open shell: %v", err)
	}
	if got := open.Condition(); got != Oriented {
		t.Errorf("open shell condition = %v, want Oriented", got)
	}

	// Using a face twice makes an edge pair irregular.
	over, err := NewShell(append(append([]*Face{}, sh.Faces()...), sh.Faces()[0])...)
	if err != nil {
		t.Fatalf("overused shell: %v", err)
	}
	if got := over.Condition(); got != Irregular {
		t.Errorf("overused shell condition = %v, want Irregular", got)
	}
}

func TestShellConditionParallelEdges(t *testing.T) {
	// Two arc edges join the same two vertices, as on a sphere whose
	// hemispheres meet along a split equator. Each body is used once
	// per face, so the shell is closed even though both edges span the
	// same vertex pair.
	north := geom.NewHemisphere(v3.Vec{}, 1, v3.Vec{Z: 1})
	south := geom.NewHemisphere(v3.Vec{}, 1, v3.Vec{Z: -1})
	a1, a2 := north.Equator()

	va := NewVertex(a1.Position(0))
	vb := NewVertex(a1.Position(math.Pi))
	e1, err := NewEdge(va, vb, a1)
	if err != nil {
		t.Fatalf("first equator edge: %v", err)
	}
	e2, err := NewEdge(vb, va, a2)
	if err != nil {
		t.Fatalf("second equator edge: %v", err)
	}

	fn, err := NewFace(north, NewWire(e1.Forward(), e2.Forward()))
	if err != nil {
		t.Fatalf("north face: %v", err)
	}
	fs, err := NewFace(south, NewWire(e2.Backward(), e1.Backward()))
	if err != nil {
		t.Fatalf("south face: %v", err)
	}

	sh := MustShell(fn, fs)
	if got := sh.Condition(); got != Closed {
		t.Errorf("bigon shell condition = %v, want Closed", got)
	}
	if !sh.IsConnected() {
		t.Error("bigon shell should be connected")
	}
}

func TestNewSolid(t *testing.T) {
	sh := tetra(t)
	s, err := NewSolid(sh)
	if err != nil {
		t.Fatalf("solid: %v", err)
	}
	if s.FaceCount() != 4 {
		t.Errorf("face count = %d, want 4", s.FaceCount())
	}

	open, _ := NewShell(sh.Faces()[:3]...)
	if _, err := NewSolid(open); err == nil {
		t.Error("open shell should not form a solid")
	} else if kindOf(t, err) != NotClosedShell {
		t.Errorf("kind = %v, want NotClosedShell", kindOf(t, err))
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusUnknown:  "unknown",
		StatusBoundary: "boundary",
		StatusAnd:      "and",
		StatusOr:       "or",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestVertexSetPoint(t *testing.T) {
	v := NewVertex(v3.Vec{X: 1})
	v.SetPoint(v3.Vec{X: 2})
	if math.Abs(v.Point().X-2) > 1e-15 {
		t.Errorf("point = %v, want x=2", v.Point())
	}
}
