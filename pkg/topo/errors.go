package topo

import "fmt"

// ErrorKind identifies the structural invariant a construction violated.
type ErrorKind int

const (
	// SameVertex: an edge's front and back are the same vertex.
	SameVertex ErrorKind = iota
	// EmptyWire: a face boundary wire has no edges.
	EmptyWire
	// NotClosedWire: a face boundary wire does not close up.
	NotClosedWire
	// NotSimpleWire: a face boundary wire revisits a vertex.
	NotSimpleWire
	// NotDisjointWires: two boundary wires of one face share a vertex.
	NotDisjointWires
	// EmptyShell: a shell has no faces.
	EmptyShell
	// NotConnectedShell: a shell's faces do not form one connected set.
	NotConnectedShell
	// NotClosedShell: a solid's shell is not closed.
	NotClosedShell
	// NotManifoldShell: an edge of a shell is used by more than two faces.
	NotManifoldShell
)

func (k ErrorKind) String() string {
	switch k {
	case SameVertex:
		return "SameVertex"
	case EmptyWire:
		return "EmptyWire"
	case NotClosedWire:
		return "NotClosedWire"
	case NotSimpleWire:
		return "NotSimpleWire"
	case NotDisjointWires:
		return "NotDisjointWires"
	case EmptyShell:
		return "EmptyShell"
	case NotConnectedShell:
		return "NotConnectedShell"
	case NotClosedShell:
		return "NotClosedShell"
	case NotManifoldShell:
		return "NotManifoldShell"
	default:
		return "Unknown"
	}
}

// TopologyError reports a structural invariant violation at an entity
// construction boundary. It is returned synchronously; a malformed model
// is never built silently.
type TopologyError struct {
	Kind    ErrorKind
	Message string
}

func (e *TopologyError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("topo: %s", e.Kind)
	}
	return fmt.Sprintf("topo: %s: %s", e.Kind, e.Message)
}

func topoErr(kind ErrorKind, format string, args ...interface{}) *TopologyError {
	return &TopologyError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
