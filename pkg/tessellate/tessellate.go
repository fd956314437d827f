// Package tessellate turns shells into approximating triangle meshes
// for cheap spatial queries: intersection seeding, ray-parity point
// containment and volume estimates. One FaceMesh is produced per face,
// keeping the owning-face back-reference the boolean pipeline needs.
package tessellate

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/topo"
)

// Tessellate approximates every face of the shell. The tolerance bounds
// the chord deviation of boundary sampling and interior refinement; it
// must be positive.
func Tessellate(shell *topo.Shell, tol float64) (*Mesh, error) {
	if tol <= 0 {
		return nil, fmt.Errorf("tessellate: tolerance %g is not positive", tol)
	}
	mesh := &Mesh{}
	for i, f := range shell.Faces() {
		fm, err := tessellateFace(f, tol)
		if err != nil {
			return nil, fmt.Errorf("tessellate: face %d: %w", i, err)
		}
		mesh.Faces = append(mesh.Faces, fm)
	}
	return mesh, nil
}

// TessellateSolid approximates the whole boundary of a solid: the
// face meshes of all its shells in one Mesh.
func TessellateSolid(solid *topo.Solid, tol float64) (*Mesh, error) {
	mesh := &Mesh{}
	for i, sh := range solid.Shells() {
		sub, err := Tessellate(sh, tol)
		if err != nil {
			return nil, fmt.Errorf("tessellate: shell %d: %w", i, err)
		}
		mesh.Faces = append(mesh.Faces, sub.Faces...)
	}
	return mesh, nil
}

// boundaryPoint pairs a polygon vertex's surface parameter with its
// model-space position.
type boundaryPoint struct {
	UV v2.Vec
	P  v3.Vec
}

// tessellateFace samples the face's boundary loops into parameter-space
// rings, bridges holes into the outer ring, ear-clips, and refines the
// triangles until they track the surface within tol.
func tessellateFace(f *topo.Face, tol float64) (*FaceMesh, error) {
	rings, err := faceRings(f, tol)
	if err != nil {
		return nil, err
	}

	outer := rings[0]
	holes := rings[1:]

	// Normalize winding: ear clipping wants a counterclockwise outer
	// ring. A clockwise ring means the face opposes its surface's
	// parameter orientation; remember to flip emitted triangles.
	flipped := geom.SignedArea(ringUVs(outer)) < 0
	if flipped {
		outer = reverseRing(outer)
		for i := range holes {
			holes[i] = reverseRing(holes[i])
		}
	}

	merged, err := mergeHoles(outer, holes)
	if err != nil {
		return nil, err
	}

	tris, err := earClip(merged)
	if err != nil {
		return nil, err
	}
	tris = refineTriangles(f.Surface(), tris, tol)

	fm := &FaceMesh{Face: f}
	for _, tr := range tris {
		a, b, c := tr[0], tr[1], tr[2]
		if flipped {
			b, c = c, b
		}
		fm.Triangles = append(fm.Triangles, triangle3(a.P, b.P, c.P))
		fm.UV = append(fm.UV, [3]v2.Vec{a.UV, b.UV, c.UV})
	}
	return fm, nil
}

// faceRings samples every boundary wire of the face into a closed ring
// of parameter/position pairs, outer ring first.
func faceRings(f *topo.Face, tol float64) ([][]boundaryPoint, error) {
	var rings [][]boundaryPoint
	for wi, w := range f.Boundaries() {
		ring, err := wireRing(f.Surface(), w, tol)
		if err != nil {
			return nil, fmt.Errorf("boundary %d: %w", wi, err)
		}
		if len(ring) < 3 {
			return nil, fmt.Errorf("boundary %d degenerates to %d points", wi, len(ring))
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

// wireRing samples a closed wire into one ring. Each edge contributes
// its samples minus the trailing endpoint, which the next edge re-emits.
// Parameters come from a Newton search seeded by the previous point's
// parameter (coherence hint); the first point falls back to a grid scan.
func wireRing(s geom.Surface, w *topo.Wire, tol float64) ([]boundaryPoint, error) {
	var ring []boundaryPoint
	var hint v2.Vec
	haveHint := false
	for _, oe := range w.Edges {
		c := oe.Curve()
		params := SampleCurve(c, tol)
		for i := 0; i < len(params)-1; i++ {
			p := c.Position(params[i])
			uv, ok := surfaceUV(s, p, hint, haveHint, tol)
			if !ok {
				return nil, fmt.Errorf("no surface parameter for boundary point %v", p)
			}
			ring = append(ring, boundaryPoint{UV: uv, P: p})
			hint, haveHint = uv, true
		}
	}
	return ring, nil
}

// surfaceUV finds the parameter of an on-surface point, seeded by hint
// when available, else by the best cell of a coarse grid scan.
func surfaceUV(s geom.Surface, p v3.Vec, hint v2.Vec, haveHint bool, tol float64) (v2.Vec, bool) {
	searchTol := 10 * tol
	if haveHint {
		if uv, ok := geom.SearchParameter(s, p, hint, searchTol, 0); ok {
			return uv, true
		}
	}
	if uv, ok := geom.SearchParameter(s, p, geom.GridHint(s, p), searchTol, 0); ok {
		return uv, true
	}
	return v2.Vec{}, false
}

// SampleCurve returns curve parameters, endpoints included, spaced so
// every chord stays within tol of the curve. Subdivision is adaptive by
// midpoint deviation with one unconditional split, so a symmetric curve
// cannot fool the deviation test at the top level.
func SampleCurve(c geom.Curve, tol float64) []float64 {
	rng := c.ParamRange()
	var out []float64
	out = append(out, rng.T0)
	mid := rng.Mid()
	sampleSpan(c, rng.T0, mid, tol, 0, &out)
	out = append(out, mid)
	sampleSpan(c, mid, rng.T1, tol, 0, &out)
	out = append(out, rng.T1)
	return out
}

const maxSampleDepth = 12

// sampleSpan appends the interior sample parameters of (t0, t1).
func sampleSpan(c geom.Curve, t0, t1 float64, tol float64, depth int, out *[]float64) {
	if depth >= maxSampleDepth {
		return
	}
	mid := (t0 + t1) / 2
	chord := c.Position(t0).Add(c.Position(t1)).MulScalar(0.5)
	if c.Position(mid).Sub(chord).Length() <= tol && depth > 0 {
		return
	}
	sampleSpan(c, t0, mid, tol, depth+1, out)
	*out = append(*out, mid)
	sampleSpan(c, mid, t1, tol, depth+1, out)
}

func ringUVs(ring []boundaryPoint) []v2.Vec {
	uvs := make([]v2.Vec, len(ring))
	for i, bp := range ring {
		uvs[i] = bp.UV
	}
	return uvs
}

func reverseRing(ring []boundaryPoint) []boundaryPoint {
	out := make([]boundaryPoint, len(ring))
	for i, bp := range ring {
		out[len(ring)-1-i] = bp
	}
	return out
}
