package topo

// Status tags wires and faces during boolean classification.
//
// Boundary pieces inherited from an input face start as StatusBoundary;
// pieces cut from an intersection curve carry StatusAnd or StatusOr
// depending on which side of the other solid they bound. A face whose
// loops are all inherited stays StatusUnknown until ray-parity
// resolution.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusBoundary
	StatusAnd
	StatusOr
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusBoundary:
		return "boundary"
	case StatusAnd:
		return "and"
	case StatusOr:
		return "or"
	default:
		return "invalid"
	}
}
