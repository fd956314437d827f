package topo

import (
	"github.com/chazu/xylem/pkg/geom"
)

// Edge is a shared body: an ordered (front, back) vertex pair and an
// owned curve running from front to back. Wires reference edges through
// OrientedEdge views, so one body can appear forward in one face and
// reversed in the adjacent face without duplicating the curve.
type Edge struct {
	front, back *Vertex
	curve       geom.Curve
}

// NewEdge creates an edge from front to back along curve. The two
// vertices must be distinct.
func NewEdge(front, back *Vertex, curve geom.Curve) (*Edge, error) {
	if front == back {
		return nil, topoErr(SameVertex, "edge endpoints are one vertex")
	}
	return &Edge{front: front, back: back, curve: curve}, nil
}

// MustEdge is NewEdge for statically valid input; it panics on error.
func MustEdge(front, back *Vertex, curve geom.Curve) *Edge {
	e, err := NewEdge(front, back, curve)
	if err != nil {
		panic(err)
	}
	return e
}

// Front returns the edge's front vertex.
func (e *Edge) Front() *Vertex { return e.front }

// Back returns the edge's back vertex.
func (e *Edge) Back() *Vertex { return e.back }

// Curve returns the owned curve, oriented front to back.
func (e *Edge) Curve() geom.Curve { return e.curve }

// Forward returns the forward-orientation view of the edge.
func (e *Edge) Forward() OrientedEdge {
	return OrientedEdge{Edge: e}
}

// Backward returns the reversed-orientation view of the edge.
func (e *Edge) Backward() OrientedEdge {
	return OrientedEdge{Edge: e, Reversed: true}
}

// OrientedEdge is an orientation flag over a shared edge body. It is a
// value type; copying it never copies the body.
type OrientedEdge struct {
	Edge     *Edge
	Reversed bool
}

// Front returns the first vertex in traversal order.
func (o OrientedEdge) Front() *Vertex {
	if o.Reversed {
		return o.Edge.back
	}
	return o.Edge.front
}

// Back returns the last vertex in traversal order.
func (o OrientedEdge) Back() *Vertex {
	if o.Reversed {
		return o.Edge.front
	}
	return o.Edge.back
}

// Curve returns the curve in traversal order. The reversed view wraps
// the shared body in a reversal adapter; nothing is duplicated.
func (o OrientedEdge) Curve() geom.Curve {
	if o.Reversed {
		return geom.Reverse(o.Edge.curve)
	}
	return o.Edge.curve
}

// Reverse flips the traversal orientation.
func (o OrientedEdge) Reverse() OrientedEdge {
	return OrientedEdge{Edge: o.Edge, Reversed: !o.Reversed}
}
