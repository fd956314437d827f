package topo

import (
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex owns a point in model space. A vertex is shared by every edge
// incident to it; identity is the pointer, so coincident-but-distinct
// vertices stay separate until an explicit weld.
type Vertex struct {
	mu    sync.Mutex
	point v3.Vec
}

// NewVertex creates a vertex at p.
func NewVertex(p v3.Vec) *Vertex {
	return &Vertex{point: p}
}

// Point returns the vertex position.
func (v *Vertex) Point() v3.Vec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.point
}

// SetPoint moves the vertex. Every edge sharing the vertex observes the
// move; this is the single mutation path for vertex geometry.
func (v *Vertex) SetPoint(p v3.Vec) {
	v.mu.Lock()
	v.point = p
	v.mu.Unlock()
}
