package tessellate

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/topo"
)

// FaceMesh is the triangulated approximation of one face. Triangle
// corners carry the surface parameters they were sampled at, so a mesh
// point can be pushed back onto the exact surface cheaply.
type FaceMesh struct {
	Face      *topo.Face
	Triangles []sdf.Triangle3
	UV        [][3]v2.Vec
}

// Mesh approximates a shell (or a whole solid boundary) as triangles
// grouped per owning face.
type Mesh struct {
	Faces []*FaceMesh
}

// TriangleCount returns the total triangle count.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, fm := range m.Faces {
		n += len(fm.Triangles)
	}
	return n
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// Volume returns the signed enclosed volume by the divergence theorem.
// Only meaningful for closed, outward-oriented meshes.
func (m *Mesh) Volume() float64 {
	sum := 0.0
	for _, fm := range m.Faces {
		for _, tri := range fm.Triangles {
			sum += tri[0].Dot(tri[1].Cross(tri[2]))
		}
	}
	return sum / 6
}

// rayEps scales the degeneracy thresholds of RayCrossings.
const rayEps = 1e-9

// RayCrossings casts a ray and returns the net signed crossing count:
// +1 for each back-facing triangle crossed (leaving the enclosed
// volume), -1 for each front-facing one. A point inside a closed
// outward-oriented mesh nets +1, outside nets 0.
//
// degenerate reports a hit too close to a triangle edge or vertex, a
// near-tangential triangle, or a hit at the ray origin; callers should
// resample a fresh random direction rather than trust the count.
func (m *Mesh) RayCrossings(origin, dir v3.Vec) (net int, degenerate bool) {
	for _, fm := range m.Faces {
		for _, tri := range fm.Triangles {
			hit, sign, bad := rayTriangle(origin, dir, tri)
			if bad {
				return 0, true
			}
			if hit {
				net += sign
			}
		}
	}
	return net, false
}

// rayTriangle is the Moller-Trumbore intersection test with degeneracy
// reporting. sign is +1 when the ray exits through the triangle (same
// direction as its normal), -1 when it enters.
func rayTriangle(origin, dir v3.Vec, tri sdf.Triangle3) (hit bool, sign int, degenerate bool) {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])
	p := dir.Cross(e2)
	det := e1.Dot(p)

	scale := e1.Length() * e2.Length() * dir.Length()
	if scale == 0 {
		return false, 0, false
	}
	if math.Abs(det) < rayEps*scale {
		// Ray nearly parallel to the triangle plane. Only degenerate
		// if the plane is actually near the ray.
		toPlane := tri[0].Sub(origin).Dot(tri.Normal())
		if math.Abs(toPlane) < rayEps*scale {
			return false, 0, true
		}
		return false, 0, false
	}

	inv := 1 / det
	s := origin.Sub(tri[0])
	u := s.Dot(p) * inv
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	t := e2.Dot(q) * inv

	const bary = 1e-7
	if u < -bary || v < -bary || u+v > 1+bary {
		return false, 0, false
	}
	if t < -bary {
		return false, 0, false
	}
	// Inside or on the margin: margin hits are degenerate.
	if u < bary || v < bary || u+v > 1-bary || t < bary {
		return false, 0, true
	}
	// det = e1 . (dir x e2) = -dir . normal: positive det is a
	// front-facing (entering) crossing.
	if det > 0 {
		return true, -1, false
	}
	return true, 1, false
}
