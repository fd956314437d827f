package topo

// SplitEdge inserts a fresh vertex at curve parameter t, replacing e by
// the two sub-edges (front..v) and (v..back). Both halves keep the
// parent curve's parameterization, so parameters computed against the
// parent remain valid on the containing half. The parent body is left
// untouched; callers re-point wires at the returned halves.
func SplitEdge(e *Edge, t float64) (*Vertex, *Edge, *Edge, error) {
	v := NewVertex(e.curve.Position(t))
	front, back, err := splitEdgeWith(e, t, v)
	return v, front, back, err
}

// SplitEdgeWith is SplitEdge with a caller-supplied midpoint vertex,
// used when the cut point must be the identical vertex shared with other
// topology (an intersection curve endpoint landing on this edge).
func SplitEdgeWith(e *Edge, t float64, v *Vertex) (*Edge, *Edge, error) {
	return splitEdgeWith(e, t, v)
}

func splitEdgeWith(e *Edge, t float64, v *Vertex) (*Edge, *Edge, error) {
	rng := e.curve.ParamRange()
	if t <= rng.T0 || t >= rng.T1 {
		return nil, nil, topoErr(SameVertex, "split parameter %g outside (%g, %g)", t, rng.T0, rng.T1)
	}
	frontCurve, backCurve := e.curve.Cut(t)
	front, err := NewEdge(e.front, v, frontCurve)
	if err != nil {
		return nil, nil, err
	}
	back, err := NewEdge(v, e.back, backCurve)
	if err != nil {
		return nil, nil, err
	}
	return front, back, nil
}

// Weld merges two vertices: every listed edge incident to victim is
// re-pointed at keep, concatenating the two incidence sets onto one
// vertex. An edge that would degenerate to a loop rejects the weld.
func Weld(keep, victim *Vertex, edges ...*Edge) error {
	if keep == victim {
		return nil
	}
	for _, e := range edges {
		if (e.front == victim && e.back == keep) || (e.back == victim && e.front == keep) {
			return topoErr(SameVertex, "weld would collapse an edge onto one vertex")
		}
	}
	for _, e := range edges {
		if e.front == victim {
			e.front = keep
		}
		if e.back == victim {
			e.back = keep
		}
	}
	return nil
}
