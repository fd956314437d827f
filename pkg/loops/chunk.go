package loops

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/tessellate"
	"github.com/chazu/xylem/pkg/topo"
)

// chunk is one maximal run of face boundary between division nodes, or
// one intersection piece as seen from one face. A nil start marks a
// boundary wire untouched by any node: it is already a closed loop.
type chunk struct {
	edges []topo.OrientedEdge // forward traversal
	uv    []v2.Vec            // parameter trajectory on the owning face

	// intersection pieces only
	pts     []v3.Vec    // forward 3-space polyline
	uvOther []v2.Vec    // parameter trajectory on the partner face
	other   *topo.Face

	start, end *topo.Vertex
	boundary   bool
}

// boundaryChunks cuts a rebuilt boundary wire into runs between
// division nodes. A wire carrying no node stays whole.
func (b *builder) boundaryChunks(f *topo.Face, w *topo.Wire) ([]*chunk, error) {
	n := len(w.Edges)
	var nodeIdx []int
	for i, oe := range w.Edges {
		if b.nodes[oe.Front()] {
			nodeIdx = append(nodeIdx, i)
		}
	}
	if len(nodeIdx) == 0 {
		uv, err := b.chunkUV(f, w.Edges)
		if err != nil {
			return nil, err
		}
		return []*chunk{{edges: w.Edges, uv: uv, boundary: true}}, nil
	}
	var out []*chunk
	for k, i := range nodeIdx {
		j := nodeIdx[(k+1)%len(nodeIdx)]
		var run []topo.OrientedEdge
		for m := i; ; m = (m + 1) % n {
			run = append(run, w.Edges[m])
			if (m+1)%n == j {
				break
			}
		}
		uv, err := b.chunkUV(f, run)
		if err != nil {
			return nil, err
		}
		out = append(out, &chunk{
			edges:    run,
			uv:       uv,
			start:    run[0].Front(),
			end:      run[len(run)-1].Back(),
			boundary: true,
		})
	}
	return out, nil
}

// chunkUV samples a run of oriented edges into the face's parameter
// space, propagating the previous foot as the next search hint the way
// boundary tessellation does.
func (b *builder) chunkUV(f *topo.Face, edges []topo.OrientedEdge) ([]v2.Vec, error) {
	s := f.Surface()
	var (
		uv   []v2.Vec
		hint v2.Vec
		have bool
	)
	for ei, oe := range edges {
		c := oe.Curve()
		params := tessellate.SampleCurve(c, b.tol)
		for k, t := range params {
			if ei > 0 && k == 0 {
				continue // same point the previous edge ended on
			}
			p := c.Position(t)
			if !have {
				hint = geom.GridHint(s, p)
			}
			q, ok := geom.SearchParameter(s, p, hint, 10*b.tol, geom.DefaultSearchTrials)
			if !ok {
				return nil, consistencyErr("boundary point %v lost its surface parameter", p)
			}
			hint, have = q, true
			uv = append(uv, q)
		}
	}
	return uv, nil
}
