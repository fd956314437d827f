// Package shape builds primitive solids for the boolean pipeline.
// Every builder returns a fully validated solid: shared vertices,
// shared edge bodies between adjacent faces, and boundary wires that
// run counterclockwise in parameter space with the interior on the
// left, so face normals point outward.
package shape

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/topo"
)

// cuboidFaces lists each face as four corner indices, counterclockwise
// seen from outside, with corner bits x=1, y=2, z=4. The plane of each
// face spans corner[0] to corner[1] in u and corner[0] to corner[3] in
// v, so u cross v is the outward normal.
var cuboidFaces = [6][4]int{
	{0, 2, 3, 1}, // z = min
	{4, 5, 7, 6}, // z = max
	{0, 4, 6, 2}, // x = min
	{1, 3, 7, 5}, // x = max
	{0, 1, 5, 4}, // y = min
	{2, 6, 7, 3}, // y = max
}

// Cuboid builds the axis-aligned box spanning min to max.
func Cuboid(min, max v3.Vec) (*topo.Solid, error) {
	if min.X >= max.X || min.Y >= max.Y || min.Z >= max.Z {
		return nil, fmt.Errorf("shape: cuboid corners (%v, %v) do not span a volume", min, max)
	}
	corners := make([]*topo.Vertex, 8)
	for i := range corners {
		p := min
		if i&1 != 0 {
			p.X = max.X
		}
		if i&2 != 0 {
			p.Y = max.Y
		}
		if i&4 != 0 {
			p.Z = max.Z
		}
		corners[i] = topo.NewVertex(p)
	}

	edges := make(map[[2]int]*topo.Edge)
	side := func(i, j int) (topo.OrientedEdge, error) {
		lo, hi, fwd := i, j, true
		if lo > hi {
			lo, hi, fwd = j, i, false
		}
		e, ok := edges[[2]int{lo, hi}]
		if !ok {
			var err error
			e, err = topo.NewEdge(corners[lo], corners[hi],
				geom.NewLine(corners[lo].Point(), corners[hi].Point()))
			if err != nil {
				return topo.OrientedEdge{}, err
			}
			edges[[2]int{lo, hi}] = e
		}
		if fwd {
			return e.Forward(), nil
		}
		return e.Backward(), nil
	}

	faces := make([]*topo.Face, 0, 6)
	for _, q := range cuboidFaces {
		o := corners[q[0]].Point()
		plane := geom.NewPlane(o,
			corners[q[1]].Point().Sub(o),
			corners[q[3]].Point().Sub(o))
		wire := &topo.Wire{}
		for k := 0; k < 4; k++ {
			oe, err := side(q[k], q[(k+1)%4])
			if err != nil {
				return nil, err
			}
			wire.Edges = append(wire.Edges, oe)
		}
		f, err := topo.NewFace(plane, wire)
		if err != nil {
			return nil, err
		}
		faces = append(faces, f)
	}

	shell, err := topo.NewShell(faces...)
	if err != nil {
		return nil, err
	}
	return topo.NewSolid(shell)
}

// Sphere builds a ball as two hemisphere patches sewn along the
// equator. The stereographic parameterization of each patch is
// non-degenerate across the rim, so intersection curves can cross the
// equator without special handling.
func Sphere(center v3.Vec, radius float64) (*topo.Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("shape: sphere radius %g is not positive", radius)
	}
	north := geom.NewHemisphere(center, radius, v3.Vec{Z: 1})
	south := geom.NewHemisphere(center, radius, v3.Vec{Z: -1})

	a1, a2 := north.Equator()
	va := topo.NewVertex(a1.Position(0))
	vb := topo.NewVertex(a1.Position(math.Pi))
	e1, err := topo.NewEdge(va, vb, a1)
	if err != nil {
		return nil, err
	}
	e2, err := topo.NewEdge(vb, va, a2)
	if err != nil {
		return nil, err
	}

	// The northern rim runs with increasing equator angle; the southern
	// patch, whose frame mirrors the second axis, traverses the same
	// edges backwards.
	fn, err := topo.NewFace(north, topo.NewWire(e1.Forward(), e2.Forward()))
	if err != nil {
		return nil, err
	}
	fs, err := topo.NewFace(south, topo.NewWire(e2.Backward(), e1.Backward()))
	if err != nil {
		return nil, err
	}

	shell, err := topo.NewShell(fn, fs)
	if err != nil {
		return nil, err
	}
	return topo.NewSolid(shell)
}
