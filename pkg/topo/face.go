package topo

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/geom"
)

// Face is a region of a parametric surface delimited by one outer
// boundary wire plus optional hole wires. SameSense records whether the
// surface's own normal agrees with the face's stated outward sense.
type Face struct {
	boundaries []*Wire // boundaries[0] is the outer loop
	surface    geom.Surface
	sameSense  bool
	status     Status
}

// NewFace builds a face over surface with the given boundaries (outer
// first). Each boundary must be non-empty, closed and simple, and the
// boundaries pairwise vertex-disjoint.
func NewFace(surface geom.Surface, boundaries ...*Wire) (*Face, error) {
	if len(boundaries) == 0 {
		return nil, topoErr(EmptyWire, "face has no boundary")
	}
	for i, w := range boundaries {
		if w.Len() == 0 {
			return nil, topoErr(EmptyWire, "boundary %d is empty", i)
		}
		if !w.IsClosed() {
			return nil, topoErr(NotClosedWire, "boundary %d does not close", i)
		}
		if !w.IsSimple() {
			return nil, topoErr(NotSimpleWire, "boundary %d revisits a vertex", i)
		}
	}
	for i := 0; i < len(boundaries); i++ {
		for j := i + 1; j < len(boundaries); j++ {
			if boundaries[i].sharesVertex(boundaries[j]) {
				return nil, topoErr(NotDisjointWires, "boundaries %d and %d share a vertex", i, j)
			}
		}
	}
	return &Face{boundaries: boundaries, surface: surface, sameSense: true}, nil
}

// MustFace is NewFace for statically valid input; it panics on error.
func MustFace(surface geom.Surface, boundaries ...*Wire) *Face {
	f, err := NewFace(surface, boundaries...)
	if err != nil {
		panic(err)
	}
	return f
}

// AssembleFace is the pipeline path for faces built from already
// classified loops. The boundaries are taken on trust; use NewFace when
// they have not been through loop assembly.
func AssembleFace(surface geom.Surface, sameSense bool, status Status, boundaries []*Wire) *Face {
	return &Face{
		boundaries: boundaries,
		surface:    surface,
		sameSense:  sameSense,
		status:     status,
	}
}

// Boundaries returns the boundary wires, outer loop first. The slice is
// shared; callers must not mutate it.
func (f *Face) Boundaries() []*Wire { return f.boundaries }

// Outer returns the outer boundary wire.
func (f *Face) Outer() *Wire { return f.boundaries[0] }

// Surface returns the owned surface.
func (f *Face) Surface() geom.Surface { return f.surface }

// SameSense reports whether the surface normal agrees with the face's
// outward sense.
func (f *Face) SameSense() bool { return f.sameSense }

// Status returns the face's classification tag.
func (f *Face) Status() Status { return f.status }

// SetStatus tags the face. Used by the classifier and resolver only.
func (f *Face) SetStatus(s Status) { f.status = s }

// OutwardNormal evaluates the surface normal at (u, v), flipped when the
// face opposes its surface's parameterization.
func (f *Face) OutwardNormal(u, v float64) v3.Vec {
	n := f.surface.Normal(u, v)
	if !f.sameSense {
		return n.Neg()
	}
	return n
}

// Edges calls fn for every oriented edge of every boundary.
func (f *Face) Edges(fn func(OrientedEdge)) {
	for _, w := range f.boundaries {
		for _, e := range w.Edges {
			fn(e)
		}
	}
}

// SharesEdge reports whether the two faces reference a common edge body.
func (f *Face) SharesEdge(other *Face) bool {
	mine := make(map[*Edge]struct{})
	f.Edges(func(e OrientedEdge) {
		mine[e.Edge] = struct{}{}
	})
	shared := false
	other.Edges(func(e OrientedEdge) {
		if _, ok := mine[e.Edge]; ok {
			shared = true
		}
	})
	return shared
}
