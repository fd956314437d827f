package boolean

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrEmptyResult reports an operation whose result has no boundary at
// all, such as the intersection of disjoint solids. Callers treat it as
// "no solid", not as a failure of the pipeline.
var ErrEmptyResult = errors.New("boolean: empty result")

// ResolveError reports a face region whose classification could not be
// settled by ray casting, usually because every probe grazed an edge of
// the other operand's mesh.
type ResolveError struct {
	Point   v3.Vec
	Message string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("boolean: resolving region near (%g, %g, %g): %s",
		e.Point.X, e.Point.Y, e.Point.Z, e.Message)
}
