// Package topo defines the boundary-representation entity graph:
// Vertex, Edge, Wire, Face, Shell and Solid. Entities are heap bodies
// addressed through pointers; equality is identity, never coordinate
// comparison, so two vertices at the same location stay distinct until
// explicitly welded.
//
// Invariants are enforced at construction boundaries only. Checked
// constructors (NewEdge, NewFace, NewShell, NewSolid) reject malformed
// input with a TopologyError; the boolean pipeline uses unexported
// unchecked paths while intermediate structures are transiently invalid.
package topo
