package loops

import (
	"fmt"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/intersect"
	"github.com/chazu/xylem/pkg/tessellate"
	"github.com/chazu/xylem/pkg/topo"
)

// Loop is one closed boundary loop of a divided face region. UV is the
// parameter-space ring it traces; Area is its signed area corrected for
// the face's sense, so a positive area always means an outer loop.
type Loop struct {
	Wire   *topo.Wire
	UV     []v2.Vec
	Area   float64
	Status topo.Status
}

// Group is one region of a divided face: an outer loop plus the holes
// it contains, with the merged classification of its member loops.
type Group struct {
	Outer  *Loop
	Holes  []*Loop
	Status topo.Status
}

// Store holds the divided loops of one input face. Touched reports
// whether any intersection curve or boundary cut reached the face; an
// untouched store has a single group restating the original boundaries.
type Store struct {
	Face    *topo.Face
	Touched bool
	Groups  []*Group
}

// Pair is the outcome of intersecting two solids: the loop stores of
// every face on each side, in flattened shell order, matching the face
// order of tessellate.TessellateSolid.
type Pair struct {
	A, B   []*Store
	Curves int
}

// Build intersects every face of solid a against every face of solid b
// and returns the divided, classified loop stores of both sides. The
// meshes must be the tessellations of those same solids; tol is the
// merge tolerance for curve endpoints and boundary cuts. Input faces
// are never mutated; division happens on fresh wires over fresh
// sub-edges.
func Build(a, b *topo.Solid, ma, mb *tessellate.Mesh, tol float64, logger *zap.Logger) (*Pair, error) {
	if tol <= 0 {
		return nil, fmt.Errorf("loops: tolerance %g is not positive", tol)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bld := &builder{
		tol:    tol,
		logger: logger,
		lat:    geom.NewPointLattice(tol),
		verts:  make(map[int]*topo.Vertex),
		nodes:  make(map[*topo.Vertex]bool),
		cuts:   make(map[*topo.Edge][]cut),
		chunks: make(map[*topo.Face][]*chunk),
	}
	facesA := solidFaces(a)
	facesB := solidFaces(b)
	if len(facesA) != len(ma.Faces) || len(facesB) != len(mb.Faces) {
		return nil, fmt.Errorf("loops: meshes do not match the solids (%d/%d and %d/%d faces)",
			len(ma.Faces), len(facesA), len(mb.Faces), len(facesB))
	}
	bld.registerVertices(facesA)
	bld.registerVertices(facesB)

	for i, fa := range facesA {
		for j, fb := range facesB {
			for _, c := range intersect.Trace(ma.Faces[i], mb.Faces[j], tol, logger) {
				bld.curves++
				bld.addCurve(fa, fb, c)
			}
		}
	}
	if err := bld.applyCuts(); err != nil {
		return nil, err
	}

	pair := &Pair{Curves: bld.curves}
	for _, f := range facesA {
		st, err := bld.faceStore(f)
		if err != nil {
			return nil, err
		}
		pair.A = append(pair.A, st)
	}
	for _, f := range facesB {
		st, err := bld.faceStore(f)
		if err != nil {
			return nil, err
		}
		pair.B = append(pair.B, st)
	}
	logger.Debug("loop stores built",
		zap.Int("curves", bld.curves),
		zap.Int("facesA", len(pair.A)),
		zap.Int("facesB", len(pair.B)))
	return pair, nil
}

// cut marks a pending boundary-edge split at body parameter t, welding
// the halves onto an already shared vertex.
type cut struct {
	t float64
	v *topo.Vertex
}

type builder struct {
	tol    float64
	logger *zap.Logger
	lat    *geom.PointLattice
	verts  map[int]*topo.Vertex       // lattice slot -> canonical vertex
	nodes  map[*topo.Vertex]bool      // intersection chunk endpoints
	cuts   map[*topo.Edge][]cut       // pending boundary splits
	pieces map[*topo.Edge][]*topo.Edge // split results, forward order
	chunks map[*topo.Face][]*chunk    // intersection chunks per face
	curves int
}

// solidFaces flattens a solid's faces in shell order.
func solidFaces(s *topo.Solid) []*topo.Face {
	var out []*topo.Face
	for _, sh := range s.Shells() {
		out = append(out, sh.Faces()...)
	}
	return out
}

// registerVertices seeds the lattice with the faces' existing vertices
// so curve endpoints landing on them reuse the same objects.
func (b *builder) registerVertices(faces []*topo.Face) {
	for _, f := range faces {
		f.Edges(func(oe topo.OrientedEdge) {
			for _, v := range []*topo.Vertex{oe.Edge.Front(), oe.Edge.Back()} {
				slot := b.lat.Insert(v.Point())
				if b.verts[slot] == nil {
					b.verts[slot] = v
				}
			}
		})
	}
}

// vertexAt returns the canonical vertex for a point, creating one when
// the location is new.
func (b *builder) vertexAt(p v3.Vec) *topo.Vertex {
	slot := b.lat.Insert(p)
	if v := b.verts[slot]; v != nil {
		return v
	}
	v := topo.NewVertex(p)
	b.verts[slot] = v
	return v
}

// addCurve registers one traced intersection curve between a face of
// each shell: edge bodies shared by both faces, endpoint vertices
// welded through the lattice, and boundary cuts where the curve ends on
// a face boundary.
func (b *builder) addCurve(fa, fb *topo.Face, c *intersect.Curve3) {
	n := c.Len()
	if n < 2 {
		return
	}
	if c.Closed {
		b.addSplitCurve(fa, fb, c)
		return
	}
	v0 := b.vertexAt(c.Points[0])
	v1 := b.vertexAt(c.Points[n-1])
	b.anchor(fa, fb, c.Points[0], v0)
	if v0 == v1 {
		// The lattice closed the chain onto itself.
		if n < 4 {
			b.logger.Debug("dropping degenerate intersection curve", zap.Int("points", n))
			return
		}
		b.addSplitCurve(fa, fb, c)
		return
	}
	b.anchor(fa, fb, c.Points[n-1], v1)
	e, err := topo.NewEdge(v0, v1, c)
	if err != nil {
		b.logger.Debug("dropping intersection curve", zap.Error(err))
		return
	}
	b.nodes[v0] = true
	b.nodes[v1] = true
	b.emit(fa, fb, e, c)
}

// addSplitCurve registers a closed intersection curve as two edges so
// no edge starts and ends on the same vertex.
func (b *builder) addSplitCurve(fa, fb *topo.Face, c *intersect.Curve3) {
	frontC, backC := c.Cut(c.ParamRange().Mid())
	front := frontC.(*intersect.Curve3)
	back := backC.(*intersect.Curve3)
	v0 := b.vertexAt(front.Points[0])
	vm := b.vertexAt(back.Points[0])
	if v0 == vm {
		b.logger.Debug("dropping collapsed closed intersection curve")
		return
	}
	e1, err1 := topo.NewEdge(v0, vm, front)
	e2, err2 := topo.NewEdge(vm, v0, back)
	if err1 != nil || err2 != nil {
		b.logger.Debug("dropping closed intersection curve")
		return
	}
	b.nodes[v0] = true
	b.nodes[vm] = true
	b.emit(fa, fb, e1, front)
	b.emit(fa, fb, e2, back)
}

// emit hands one intersection edge to both faces' chunk lists. The
// shared edge body is what later lets the divided shells sew together.
func (b *builder) emit(fa, fb *topo.Face, e *topo.Edge, piece *intersect.Curve3) {
	b.chunks[fa] = append(b.chunks[fa], &chunk{
		edges:   []topo.OrientedEdge{e.Forward()},
		pts:     piece.Points,
		uv:      piece.UVA,
		uvOther: piece.UVB,
		other:   fb,
		start:   e.Front(),
		end:     e.Back(),
	})
	b.chunks[fb] = append(b.chunks[fb], &chunk{
		edges:   []topo.OrientedEdge{e.Forward()},
		pts:     piece.Points,
		uv:      piece.UVB,
		uvOther: piece.UVA,
		other:   fa,
		start:   e.Front(),
		end:     e.Back(),
	})
}

// anchor ties an open curve endpoint to the boundaries it lies on. An
// endpoint interior to both faces can still be legitimate (a junction
// of several curves), so failure to anchor is only logged.
func (b *builder) anchor(fa, fb *topo.Face, p v3.Vec, v *topo.Vertex) {
	onA := b.anchorFace(fa, p, v)
	onB := b.anchorFace(fb, p, v)
	if !onA && !onB {
		b.logger.Debug("intersection endpoint off both face boundaries",
			zap.Float64("x", p.X), zap.Float64("y", p.Y), zap.Float64("z", p.Z))
	}
}

// anchorFace records a boundary cut for v on f's nearest boundary edge,
// if v lies on f's boundary at all. Traced endpoints sit on the exact
// surfaces but only within tessellation sag of the boundary curves, so
// the acceptance band is wider than the weld tolerance.
func (b *builder) anchorFace(f *topo.Face, p v3.Vec, v *topo.Vertex) bool {
	var (
		already  bool
		bestEdge *topo.Edge
		bestT    float64
	)
	bestDist := 3 * b.tol
	f.Edges(func(oe topo.OrientedEdge) {
		e := oe.Edge
		if e.Front() == v || e.Back() == v {
			already = true
			return
		}
		t := geom.NearestParameter(e.Curve(), p, 64)
		d := e.Curve().Position(t).Sub(p).Length()
		if d < bestDist {
			bestDist, bestEdge, bestT = d, e, t
		}
	})
	if already {
		return true
	}
	if bestEdge == nil {
		return false
	}
	for _, c := range b.cuts[bestEdge] {
		if c.v == v {
			return true
		}
	}
	rng := bestEdge.Curve().ParamRange()
	margin := 1e-9 * rng.Span()
	if bestT <= rng.T0+margin || bestT >= rng.T1-margin {
		// Grazing an existing corner; the lattice already welded it.
		return true
	}
	b.cuts[bestEdge] = append(b.cuts[bestEdge], cut{t: bestT, v: v})
	return true
}

// applyCuts splits every cut boundary edge into its pieces, in
// parameter order. Cut parameters stay valid across successive splits
// because edge curves keep their parent parameterization when cut.
func (b *builder) applyCuts() error {
	b.pieces = make(map[*topo.Edge][]*topo.Edge)
	for e, cs := range b.cuts {
		sort.Slice(cs, func(i, j int) bool { return cs[i].t < cs[j].t })
		var parts []*topo.Edge
		rest := e
		for _, c := range cs {
			if rest.Front() == c.v || rest.Back() == c.v {
				continue
			}
			front, back, err := topo.SplitEdgeWith(rest, c.t, c.v)
			if err != nil {
				b.logger.Debug("skipping boundary cut", zap.Float64("t", c.t), zap.Error(err))
				continue
			}
			parts = append(parts, front)
			rest = back
		}
		parts = append(parts, rest)
		b.pieces[e] = parts
	}
	return nil
}

// rebuildWire replaces every cut edge of a wire with its pieces,
// preserving orientation. It reports whether anything changed.
func (b *builder) rebuildWire(w *topo.Wire) (*topo.Wire, bool) {
	out := &topo.Wire{Status: w.Status}
	changed := false
	for _, oe := range w.Edges {
		parts := b.pieces[oe.Edge]
		if len(parts) <= 1 {
			out.Edges = append(out.Edges, oe)
			continue
		}
		changed = true
		if !oe.Reversed {
			for _, p := range parts {
				out.Edges = append(out.Edges, p.Forward())
			}
		} else {
			for i := len(parts) - 1; i >= 0; i-- {
				out.Edges = append(out.Edges, parts[i].Backward())
			}
		}
	}
	return out, changed
}
