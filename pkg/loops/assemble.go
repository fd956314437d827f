package loops

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/topo"
)

// halfChunk is one traversal direction of a chunk. Boundary chunks get
// a single forward half; intersection chunks get both directions, each
// carrying the classification its traversal implies.
type halfChunk struct {
	src        *chunk
	rev        bool
	status     topo.Status
	start, end *topo.Vertex
	uv         []v2.Vec
	used       bool
}

// dirFloor is the minimum parameter-space displacement accepted as a
// travel direction. Traced curves can open or close on a stubby
// segment where they cross a triangle corner, and such a segment must
// not orient the angular pick at a junction.
const dirFloor = 1e-6

// outDir is the departure direction of a half chunk, skipping leading
// samples closer than the direction floor.
func (h *halfChunk) outDir() v2.Vec {
	p0 := h.uv[0]
	for _, q := range h.uv[1:] {
		if d := q.Sub(p0); d.Length() > dirFloor {
			return d
		}
	}
	return h.uv[len(h.uv)-1].Sub(p0)
}

// inDir is the reversed arrival direction at a half chunk's end,
// skipping trailing samples closer than the direction floor.
func (h *halfChunk) inDir() v2.Vec {
	n := len(h.uv)
	p1 := h.uv[n-1]
	for i := n - 2; i >= 0; i-- {
		if d := h.uv[i].Sub(p1); d.Length() > dirFloor {
			return d
		}
	}
	return h.uv[0].Sub(p1)
}

// faceStore divides one face: boundary runs plus intersection pieces
// are chained into loops and grouped into outer-with-holes regions.
func (b *builder) faceStore(f *topo.Face) (*Store, error) {
	touched := len(b.chunks[f]) > 0
	var halves []*halfChunk
	for _, w := range f.Boundaries() {
		rw, changed := b.rebuildWire(w)
		touched = touched || changed
		bcs, err := b.boundaryChunks(f, rw)
		if err != nil {
			return nil, err
		}
		for _, ch := range bcs {
			halves = append(halves, &halfChunk{
				src:    ch,
				status: topo.StatusBoundary,
				start:  ch.start,
				end:    ch.end,
				uv:     ch.uv,
			})
		}
	}
	for _, ch := range b.chunks[f] {
		fwd, rev := b.chunkStatuses(f, ch)
		halves = append(halves,
			&halfChunk{src: ch, status: fwd, start: ch.start, end: ch.end, uv: ch.uv},
			&halfChunk{src: ch, rev: true, status: rev, start: ch.end, end: ch.start, uv: reverseUV(ch.uv)},
		)
	}
	loops, err := b.assemble(f, halves)
	if err != nil {
		return nil, err
	}
	groups, err := groupLoops(loops)
	if err != nil {
		return nil, err
	}
	return &Store{Face: f, Touched: touched, Groups: groups}, nil
}

// chunkStatuses classifies the two traversal directions of an
// intersection piece on face f. With nf and no the outward normals of f
// and its partner face, the cross product nf x no points along the
// traversal that keeps the partner solid's interior to the left, which
// is the direction bounding the common region.
func (b *builder) chunkStatuses(f *topo.Face, ch *chunk) (fwd, rev topo.Status) {
	m := len(ch.pts) / 2
	if m == 0 {
		return topo.StatusUnknown, topo.StatusUnknown
	}
	d := ch.pts[m].Sub(ch.pts[m-1])
	uvm := ch.uv[m-1].Add(ch.uv[m]).MulScalar(0.5)
	uvo := ch.uvOther[m-1].Add(ch.uvOther[m]).MulScalar(0.5)
	nf := f.OutwardNormal(uvm.X, uvm.Y)
	no := ch.other.OutwardNormal(uvo.X, uvo.Y)
	if d.Dot(nf.Cross(no)) >= 0 {
		return topo.StatusAnd, topo.StatusOr
	}
	return topo.StatusOr, topo.StatusAnd
}

// assemble chains every half chunk into closed loops. At each node the
// walk leaves along the most clockwise available direction relative to
// the reversed arrival direction, which traces every region with its
// interior on the left.
func (b *builder) assemble(f *topo.Face, halves []*halfChunk) ([]*Loop, error) {
	sign := 1.0
	if !f.SameSense() {
		sign = -1
	}
	outgoing := make(map[*topo.Vertex][]*halfChunk)
	var out []*Loop
	for _, h := range halves {
		if h.start == nil {
			h.used = true
			lp, err := finishLoop([]*halfChunk{h}, sign)
			if err != nil {
				return nil, err
			}
			out = append(out, lp)
			continue
		}
		outgoing[h.start] = append(outgoing[h.start], h)
	}
	for _, h := range halves {
		if h.used {
			continue
		}
		cycle := []*halfChunk{h}
		h.used = true
		cur := h
		for {
			next := pickNext(outgoing, cur, h, sign)
			if next == nil {
				return nil, consistencyErr("loop does not close near %v", cur.end.Point())
			}
			if next == h {
				break
			}
			next.used = true
			cycle = append(cycle, next)
			cur = next
		}
		lp, err := finishLoop(cycle, sign)
		if err != nil {
			return nil, err
		}
		out = append(out, lp)
	}
	return out, nil
}

// pickNext selects the half chunk leaving cur's end node with the
// smallest clockwise rotation from the reversed arrival direction.
// Only unclaimed halves and the cycle's own first half are candidates,
// so a walk closing through a multi-way junction cannot take a piece
// that already belongs to another loop. Backtracking onto the same
// piece is the last resort.
func pickNext(outgoing map[*topo.Vertex][]*halfChunk, cur, first *halfChunk, sign float64) *halfChunk {
	base := cur.inDir()
	var best *halfChunk
	bestAngle := math.Inf(1)
	for _, cand := range outgoing[cur.end] {
		if cand.used && cand != first {
			continue
		}
		a := cwAngle(base, cand.outDir(), sign)
		if cand.src == cur.src && cand.rev != cur.rev {
			a += 2 * math.Pi
		}
		if a < bestAngle {
			bestAngle, best = a, cand
		}
	}
	return best
}

// cwAngle measures the clockwise rotation from a to b in [0, 2pi),
// with sign flipping the handedness for faces that oppose their
// surface's parameterization.
func cwAngle(a, b v2.Vec, sign float64) float64 {
	ang := math.Atan2(sign*geom.Cross2D(a, b), a.Dot(b))
	cw := -ang
	if cw < 0 {
		cw += 2 * math.Pi
	}
	return cw
}

// finishLoop concatenates a cycle of half chunks into a wire and its
// parameter ring, merging the member statuses. Boundary pieces carry no
// vote; And and Or in one loop is a geometric contradiction.
func finishLoop(cycle []*halfChunk, sign float64) (*Loop, error) {
	status := topo.StatusUnknown
	var uv []v2.Vec
	wire := &topo.Wire{}
	for _, h := range cycle {
		switch h.status {
		case topo.StatusAnd, topo.StatusOr:
			if status != topo.StatusUnknown && status != h.status {
				return nil, consistencyErr("one loop bounds both the common and the union-only region")
			}
			status = h.status
		}
		uv = append(uv, h.uv[:len(h.uv)-1]...)
		if !h.rev {
			wire.Edges = append(wire.Edges, h.src.edges...)
		} else {
			for i := len(h.src.edges) - 1; i >= 0; i-- {
				wire.Edges = append(wire.Edges, h.src.edges[i].Reverse())
			}
		}
	}
	wire.Status = status
	return &Loop{
		Wire:   wire,
		UV:     uv,
		Area:   sign * geom.SignedArea(uv),
		Status: status,
	}, nil
}

// groupLoops pairs every hole with the smallest outer loop containing
// it and merges statuses per group.
func groupLoops(loops []*Loop) ([]*Group, error) {
	var outers, holes []*Loop
	for _, lp := range loops {
		if lp.Area >= 0 {
			outers = append(outers, lp)
		} else {
			holes = append(holes, lp)
		}
	}
	if len(outers) == 0 {
		return nil, consistencyErr("face divided into holes only")
	}
	groups := make([]*Group, len(outers))
	for i, o := range outers {
		groups[i] = &Group{Outer: o, Status: o.Status}
	}
	for _, h := range holes {
		best := -1
		bestArea := math.Inf(1)
		for i, o := range outers {
			// A hole never nests under an outer claimed by the other
			// operand. The two traversals of a closed intersection
			// curve trace coincident rings with opposite tags, and the
			// point-in-ring test cannot separate them.
			if h.Status != topo.StatusUnknown && o.Status != topo.StatusUnknown && h.Status != o.Status {
				continue
			}
			if o.Area < bestArea && geom.PointInRing(o.UV, h.UV[0]) {
				best, bestArea = i, o.Area
			}
		}
		if best < 0 {
			return nil, consistencyErr("hole loop outside every outer loop")
		}
		groups[best].Holes = append(groups[best].Holes, h)
	}
	for _, g := range groups {
		for _, h := range g.Holes {
			switch h.Status {
			case topo.StatusAnd, topo.StatusOr:
				if g.Status != topo.StatusUnknown && g.Status != h.Status {
					return nil, consistencyErr("face region claimed by both operands")
				}
				g.Status = h.Status
			}
		}
	}
	return groups, nil
}

func reverseUV(uv []v2.Vec) []v2.Vec {
	out := make([]v2.Vec, len(uv))
	for i, q := range uv {
		out[len(uv)-1-i] = q
	}
	return out
}
