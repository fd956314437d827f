package engine

import (
	"fmt"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation. Boolean
// operations on fine tolerances can be slow, so this is generous.
const EvalTimeout = 30 * time.Second

// evalResult carries one evaluation's output across the worker channel.
type evalResult struct {
	scene  *Scene
	errors []EvalError
	err    error
}

// waitFor blocks until the worker for generation gen reports, or until
// the evaluation deadline passes. A worker that outlives its deadline
// keeps running; when it finally reports, the generation mismatch makes
// the result fall on the floor here rather than overwrite newer state.
func (e *Engine) waitFor(ch <-chan evalResult, gen uint64) (*Scene, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
