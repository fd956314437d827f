package shape

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/tessellate"
	"github.com/chazu/xylem/pkg/topo"
)

func TestCuboidTopology(t *testing.T) {
	box, err := Cuboid(v3.Vec{}, v3.Vec{X: 1, Y: 2, Z: 3})
	if err != nil {
		t.Fatalf("cuboid: %v", err)
	}
	if len(box.Shells()) != 1 {
		t.Fatalf("shells = %d, want 1", len(box.Shells()))
	}
	sh := box.Shells()[0]
	if len(sh.Faces()) != 6 {
		t.Errorf("faces = %d, want 6", len(sh.Faces()))
	}

	edges := make(map[*topo.Edge]int)
	verts := make(map[*topo.Vertex]bool)
	for _, f := range sh.Faces() {
		f.Edges(func(e topo.OrientedEdge) {
			edges[e.Edge]++
			verts[e.Front()] = true
		})
	}
	if len(edges) != 12 {
		t.Errorf("edge bodies = %d, want 12", len(edges))
	}
	for e, n := range edges {
		if n != 2 {
			t.Errorf("edge %v-%v used %d times, want 2", e.Front().Point(), e.Back().Point(), n)
		}
	}
	if len(verts) != 8 {
		t.Errorf("vertices = %d, want 8", len(verts))
	}
	if got := sh.Condition(); got != topo.Closed {
		t.Errorf("condition = %v, want Closed", got)
	}
}

func TestCuboidOutwardNormals(t *testing.T) {
	box, err := Cuboid(v3.Vec{X: -1, Y: -1, Z: -1}, v3.Vec{X: 1, Y: 1, Z: 1})
	if err != nil {
		t.Fatalf("cuboid: %v", err)
	}
	for i, f := range box.Shells()[0].Faces() {
		n := f.OutwardNormal(0.5, 0.5)
		center := f.Surface().Position(0.5, 0.5)
		// On a box around the origin the outward normal points away
		// from the center.
		if n.Dot(center) <= 0 {
			t.Errorf("face %d normal %v points inward at %v", i, n, center)
		}
	}
}

func TestCuboidRejectsFlatSpan(t *testing.T) {
	if _, err := Cuboid(v3.Vec{}, v3.Vec{X: 1, Y: 1}); err == nil {
		t.Error("zero z-span should fail")
	}
	if _, err := Cuboid(v3.Vec{X: 2}, v3.Vec{X: 1, Y: 1, Z: 1}); err == nil {
		t.Error("inverted x-span should fail")
	}
}

func TestSphereTopology(t *testing.T) {
	ball, err := Sphere(v3.Vec{X: 1, Y: 2, Z: 3}, 2)
	if err != nil {
		t.Fatalf("sphere: %v", err)
	}
	sh := ball.Shells()[0]
	if len(sh.Faces()) != 2 {
		t.Fatalf("faces = %d, want 2", len(sh.Faces()))
	}
	if got := sh.Condition(); got != topo.Closed {
		t.Errorf("condition = %v, want Closed", got)
	}

	// The two hemispheres share the seam's two edges and two vertices.
	edges := make(map[*topo.Edge]int)
	for _, f := range sh.Faces() {
		f.Edges(func(e topo.OrientedEdge) { edges[e.Edge]++ })
	}
	if len(edges) != 2 {
		t.Errorf("edge bodies = %d, want 2", len(edges))
	}
	for _, n := range edges {
		if n != 2 {
			t.Errorf("seam edge used %d times, want 2", n)
		}
	}

	mesh, err := tessellate.TessellateSolid(ball, 0.05)
	if err != nil {
		t.Fatalf("tessellate: %v", err)
	}
	want := 4 * math.Pi / 3 * 8
	if got := mesh.Volume(); math.Abs(got-want)/want > 0.05 {
		t.Errorf("volume = %g, want about %g", got, want)
	}
}

func TestSphereRejectsBadRadius(t *testing.T) {
	if _, err := Sphere(v3.Vec{}, 0); err == nil {
		t.Error("zero radius should fail")
	}
	if _, err := Sphere(v3.Vec{}, -1); err == nil {
		t.Error("negative radius should fail")
	}
}
