package loops

import "fmt"

// ConsistencyError reports an intersection arrangement the classifier
// cannot resolve: a chunk chain that never closes, a hole outside every
// outer loop, or a region claimed by both operands at once. These come
// from tolerance mismatches or invalid input solids, not from bugs in
// the caller's data flow, so they carry enough context to diagnose the
// geometry.
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string {
	return "loops: " + e.Message
}

func consistencyErr(format string, args ...interface{}) *ConsistencyError {
	return &ConsistencyError{Message: fmt.Sprintf(format, args...)}
}
