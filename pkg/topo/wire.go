package topo

// Wire is an ordered sequence of oriented edges. Used as a face boundary
// it must be closed (back of the last edge is the front of the first)
// and simple (no vertex repeats except the closing one).
type Wire struct {
	Edges  []OrientedEdge
	Status Status
}

// NewWire returns a wire over the given oriented edges. No invariants
// are checked here; closure and simplicity are face-construction
// concerns.
func NewWire(edges ...OrientedEdge) *Wire {
	return &Wire{Edges: edges}
}

// Len returns the number of edges.
func (w *Wire) Len() int {
	return len(w.Edges)
}

// IsClosed reports whether consecutive edges chain front-to-back and the
// last edge closes onto the first.
func (w *Wire) IsClosed() bool {
	n := len(w.Edges)
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if w.Edges[i].Back() != w.Edges[(i+1)%n].Front() {
			return false
		}
	}
	return true
}

// IsSimple reports whether no vertex is visited twice. Only meaningful
// for closed wires, where each edge contributes its front vertex once.
func (w *Wire) IsSimple() bool {
	seen := make(map[*Vertex]struct{}, len(w.Edges))
	for _, e := range w.Edges {
		front := e.Front()
		if _, dup := seen[front]; dup {
			return false
		}
		seen[front] = struct{}{}
	}
	return true
}

// Vertices returns the vertices in traversal order, one per edge front.
func (w *Wire) Vertices() []*Vertex {
	vs := make([]*Vertex, 0, len(w.Edges))
	for _, e := range w.Edges {
		vs = append(vs, e.Front())
	}
	return vs
}

// Reverse returns a new wire traversing the same edges backwards.
func (w *Wire) Reverse() *Wire {
	rev := &Wire{
		Edges:  make([]OrientedEdge, 0, len(w.Edges)),
		Status: w.Status,
	}
	for i := len(w.Edges) - 1; i >= 0; i-- {
		rev.Edges = append(rev.Edges, w.Edges[i].Reverse())
	}
	return rev
}

// sharesVertex reports whether the two wires reference a common vertex.
func (w *Wire) sharesVertex(other *Wire) bool {
	mine := make(map[*Vertex]struct{}, len(w.Edges))
	for _, e := range w.Edges {
		mine[e.Front()] = struct{}{}
		mine[e.Back()] = struct{}{}
	}
	for _, e := range other.Edges {
		if _, ok := mine[e.Front()]; ok {
			return true
		}
		if _, ok := mine[e.Back()]; ok {
			return true
		}
	}
	return false
}
