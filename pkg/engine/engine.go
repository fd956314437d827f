// Package engine provides the Lisp evaluation engine for Xylem.
// It wraps zygomys in a sandboxed environment and produces a Scene of
// named solids from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/xylem/pkg/topo"
)

// EvalError is a problem in the user's program, a parse failure or a
// runtime error, as opposed to a failure of the engine itself.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Scene is the output of one evaluation: the solids the program named
// with defsolid, in definition order.
type Scene struct {
	order  []string
	solids map[string]*topo.Solid
}

func newScene() *Scene {
	return &Scene{solids: make(map[string]*topo.Solid)}
}

func (s *Scene) add(name string, solid *topo.Solid) {
	if _, exists := s.solids[name]; !exists {
		s.order = append(s.order, name)
	}
	s.solids[name] = solid
}

// Names returns the defined solid names in definition order.
func (s *Scene) Names() []string {
	return append([]string(nil), s.order...)
}

// Solid returns a named solid, or nil when undefined or empty.
func (s *Scene) Solid(name string) *topo.Solid {
	return s.solids[name]
}

// Len returns the number of defined solids.
func (s *Scene) Len() int {
	return len(s.order)
}

// Engine runs user programs. Every evaluation gets its own sandboxed
// interpreter, so evaluations are deterministic and the Engine is safe
// for concurrent use; the generation counter lets a caller abandon an
// evaluation that a newer request has made irrelevant.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs one program and returns its Scene. Problems inside the
// program come back as EvalErrors with a nil Scene; the error return is
// reserved for engine failures such as a timeout, a panic in a builtin,
// or a result made stale by a newer Evaluate call.
func (e *Engine) Evaluate(source string) (*Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	return e.waitFor(ch, gen)
}

func (e *Engine) evaluate(source string) (*Scene, []EvalError, error) {
	// An empty program is fine; it defines nothing.
	if strings.TrimSpace(source) == "" {
		return newScene(), nil, nil
	}

	// The sandbox keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	scene := newScene()
	registerBuiltins(env, scene)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return scene, nil, nil
}

// zygomys reports locations in two shapes, "Error on line N: ..." from
// the parser and a bare "line N: ..." from some runtime paths.
var (
	linePattern      = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)
	linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)
)

// parseZygomysError digs a line number out of a zygomys error message
// where one exists and wraps the rest as the EvalError text.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, pat := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := pat.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
